package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/units"
)

// record is one raw catalog item with normalized keys.
type record map[string]any

// normKey lowercases k and drops separators so size_mm, sizeMM and
// "Size MM" compare equal.
func normKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newRecord(raw map[string]any) record {
	rec := make(record, len(raw))
	for k, v := range raw {
		rec[normKey(k)] = v
	}
	return rec
}

// lookup returns the first present alias.
func (r record) lookup(aliases ...string) (any, bool) {
	for _, a := range aliases {
		if v, ok := r[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(aliases ...string) string {
	v, ok := r.lookup(aliases...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// normalizer converts records and collects recovery warnings.
type normalizer struct {
	kind     string
	warnings []types.Warning
}

func (n *normalizer) warn(id, field, detail string) {
	slog.Warn("catalog: recovered malformed field", "kind", n.kind, "id", id, "field", field, "detail", detail)
	n.warnings = append(n.warnings, types.Warning{
		Key:     "catalog_invalid_field",
		Level:   types.LevelWarning,
		Title:   "Malformed catalog field",
		Detail:  fmt.Sprintf("%s %q field %s: %s", n.kind, id, field, detail),
		Subject: id,
	})
}

// number reads a scalar field. A present but non-numeric value is recorded
// and read as zero.
func (n *normalizer) number(r record, id, field string, aliases ...string) float64 {
	v, ok := r.lookup(aliases...)
	if !ok {
		return 0
	}
	f, ok := units.ToFloat(v)
	if !ok {
		n.warn(id, field, fmt.Sprintf("%v is not a number", v))
		return 0
	}
	return f
}

// rng reads a range field, falling back to separate min and max fields.
func (n *normalizer) rng(r record, id, field string, aliases, minAliases, maxAliases []string) types.Range {
	if v, ok := r.lookup(aliases...); ok {
		if m, isMap := v.(map[string]any); isMap {
			v = []any{m["min"], m["max"]}
		}
		out, err := units.ParseRangeOr(v, types.Range{})
		if err != nil {
			n.warn(id, field, err.Error())
		}
		return out
	}
	lo, okLo := r.lookup(minAliases...)
	hi, okHi := r.lookup(maxAliases...)
	switch {
	case okLo && okHi:
		out, err := units.ParseRangeOr([]any{lo, hi}, types.Range{})
		if err != nil {
			n.warn(id, field, err.Error())
		}
		return out
	case okLo:
		return n.scalarRange(lo, id, field)
	case okHi:
		return n.scalarRange(hi, id, field)
	}
	return types.Range{}
}

func (n *normalizer) scalarRange(v any, id, field string) types.Range {
	out, err := units.ParseRangeOr(v, types.Range{})
	if err != nil {
		n.warn(id, field, err.Error())
	}
	return out
}

// material maps free-form material names onto the known classes.
func (n *normalizer) material(r record, id string) types.Material {
	raw := strings.ToLower(r.str("material", "type", "materialtype"))
	switch {
	case raw == "":
		return ""
	case strings.Contains(raw, "hdpe"):
		return types.MaterialHDPE
	case strings.Contains(raw, "ldpe"):
		return types.MaterialLDPE
	case strings.Contains(raw, "pvc"):
		return types.MaterialPVC
	case raw == "pe" || strings.Contains(raw, "polyethylene") || strings.Contains(raw, "hose"):
		return types.MaterialPE
	default:
		n.warn(id, "material", fmt.Sprintf("unknown material %q", raw))
		return types.Material(raw)
	}
}

func (n *normalizer) pipe(r record) types.Pipe {
	id := r.str("id", "pipeid", "code", "sku")
	return types.Pipe{
		ID:             id,
		Name:           r.str("name", "productname", "title"),
		SizeMM:         n.number(r, id, "size_mm", "sizemm", "size", "diameter", "diametermm"),
		LengthPerUnitM: n.number(r, id, "length_per_unit_m", "lengthperunitm", "lengthperunit", "unitlength", "length", "lengthm"),
		PressureBar:    n.number(r, id, "pressure_bar", "pressurebar", "pressure", "pn"),
		Material:       n.material(r, id),
		Price:          n.number(r, id, "price", "unitprice", "cost"),
	}
}

func (n *normalizer) pump(r record) types.Pump {
	id := r.str("id", "pumpid", "code", "sku")
	return types.Pump{
		ID:   id,
		Name: r.str("name", "productname", "title"),
		FlowLPM: n.rng(r, id, "flow_lpm",
			[]string{"flowlpm", "flow", "flowrate", "flowrange"},
			[]string{"minflow", "flowmin", "minflowlpm"},
			[]string{"maxflow", "flowmax", "maxflowlpm"}),
		HeadM: n.rng(r, id, "head_m",
			[]string{"headm", "head", "headrange"},
			[]string{"minhead", "headmin", "minheadm"},
			[]string{"maxhead", "headmax", "maxheadm"}),
		PowerHP: n.power(r, id),
		Price:   n.number(r, id, "price", "unitprice", "cost"),
	}
}

// power reads pump power in HP, converting a kW-only rating.
func (n *normalizer) power(r record, id string) float64 {
	if _, ok := r.lookup("powerhp", "hp", "power", "horsepower"); ok {
		return n.number(r, id, "power_hp", "powerhp", "hp", "power", "horsepower")
	}
	if kw := n.number(r, id, "power_kw", "powerkw", "kw"); kw > 0 {
		return units.KWToHP(kw)
	}
	return 0
}

func (n *normalizer) sprinkler(r record) types.Sprinkler {
	id := r.str("id", "sprinklerid", "code", "sku")
	return types.Sprinkler{
		ID:   id,
		Name: r.str("name", "productname", "title"),
		FlowLPH: n.rng(r, id, "flow_lph",
			[]string{"flowlph", "flow", "flowrate", "flowrange"},
			[]string{"minflow", "flowmin"},
			[]string{"maxflow", "flowmax"}),
		RadiusM: n.rng(r, id, "radius_m",
			[]string{"radiusm", "radius", "radiusrange"},
			[]string{"minradius", "radiusmin"},
			[]string{"maxradius", "radiusmax"}),
		PressureBar: n.rng(r, id, "pressure_bar",
			[]string{"pressurebar", "pressure", "pressurerange"},
			[]string{"minpressure", "pressuremin"},
			[]string{"maxpressure", "pressuremax"}),
		Price: n.number(r, id, "price", "unitprice", "cost"),
	}
}
