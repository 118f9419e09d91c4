// Package units holds the unit conversions and range parsing used throughout
// the sizing engine. Every function is pure.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Conversion constants.
const (
	MetersPerBar = 10.2   // approximate water column per bar
	KWPerHP      = 0.7457 // mechanical horsepower
	HPPerKW      = 1.341
	MinutesPerH  = 60.0
)

// ErrInvalidRangeFormat is returned when a range field holds no parsable number.
var ErrInvalidRangeFormat = errors.New("invalid range format")

// BarToMeters converts a pressure in bar to meters of water column.
func BarToMeters(bar float64) float64 { return bar * MetersPerBar }

// HPToKW converts horsepower to kilowatts.
func HPToKW(hp float64) float64 { return hp * KWPerHP }

// KWToHP converts kilowatts to horsepower.
func KWToHP(kw float64) float64 { return kw * HPPerKW }

// LPHToLPM converts liters per hour to liters per minute.
func LPHToLPM(lph float64) float64 { return lph / MinutesPerH }

// LPMToLPH converts liters per minute to liters per hour.
func LPMToLPH(lpm float64) float64 { return lpm * MinutesPerH }

// ParseRange normalizes a catalog range field into a Range with Min <= Max.
//
// Accepted shapes: a numeric scalar (min = max = v), a numeric string, a
// "min-max" string, a two-element []float64 / [2]float64 / []any pair, and an
// already normalized types.Range. When only one side of a pair parses, that
// side is used as a scalar. When nothing parses, ErrInvalidRangeFormat is
// returned.
func ParseRange(v any) (types.Range, error) {
	switch val := v.(type) {
	case types.Range:
		return ordered(val.Min, val.Max), nil
	case *types.Range:
		if val == nil {
			return types.Range{}, fmt.Errorf("%w: nil range", ErrInvalidRangeFormat)
		}
		return ordered(val.Min, val.Max), nil
	case [2]float64:
		return pair(val[0], true, val[1], true, v)
	case []float64:
		if len(val) == 1 {
			return scalar(val[0], v)
		}
		if len(val) != 2 {
			return types.Range{}, fmt.Errorf("%w: %v has %d elements", ErrInvalidRangeFormat, v, len(val))
		}
		return pair(val[0], true, val[1], true, v)
	case []any:
		if len(val) == 1 {
			f, ok := ToFloat(val[0])
			if !ok {
				return types.Range{}, fmt.Errorf("%w: %v", ErrInvalidRangeFormat, v)
			}
			return scalar(f, v)
		}
		if len(val) != 2 {
			return types.Range{}, fmt.Errorf("%w: %v has %d elements", ErrInvalidRangeFormat, v, len(val))
		}
		lo, okLo := ToFloat(val[0])
		hi, okHi := ToFloat(val[1])
		return pair(lo, okLo, hi, okHi, v)
	case string:
		return parseRangeString(val)
	default:
		f, ok := ToFloat(v)
		if !ok {
			return types.Range{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidRangeFormat, v)
		}
		return scalar(f, v)
	}
}

// ParseRangeOr is ParseRange with local recovery: on failure it returns
// fallback together with the parse error so the caller can record it.
func ParseRangeOr(v any, fallback types.Range) (types.Range, error) {
	r, err := ParseRange(v)
	if err != nil {
		return fallback, err
	}
	return r, nil
}

func parseRangeString(s string) (types.Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Range{}, fmt.Errorf("%w: empty string", ErrInvalidRangeFormat)
	}
	if f, ok := parseNumber(s); ok {
		return scalar(f, s)
	}
	if idx := rangeSeparator(s); idx > 0 {
		lo, okLo := parseNumber(s[:idx])
		hi, okHi := parseNumber(s[idx+1:])
		return pair(lo, okLo, hi, okHi, s)
	}
	return types.Range{}, fmt.Errorf("%w: %q", ErrInvalidRangeFormat, s)
}

// rangeSeparator returns the index of the first '-' that is neither a
// leading sign nor an exponent sign, or -1.
func rangeSeparator(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] == '-' && s[i-1] != 'e' && s[i-1] != 'E' {
			return i
		}
	}
	return -1
}

func pair(lo float64, okLo bool, hi float64, okHi bool, src any) (types.Range, error) {
	switch {
	case okLo && okHi:
		if !finite(lo) || !finite(hi) {
			return types.Range{}, fmt.Errorf("%w: non-finite bound in %v", ErrInvalidRangeFormat, src)
		}
		return ordered(lo, hi), nil
	case okLo:
		return scalar(lo, src)
	case okHi:
		return scalar(hi, src)
	default:
		return types.Range{}, fmt.Errorf("%w: %v", ErrInvalidRangeFormat, src)
	}
}

func scalar(f float64, src any) (types.Range, error) {
	if !finite(f) {
		return types.Range{}, fmt.Errorf("%w: non-finite value %v", ErrInvalidRangeFormat, src)
	}
	return types.Range{Min: f, Max: f}, nil
}

func ordered(a, b float64) types.Range {
	if a > b {
		a, b = b, a
	}
	return types.Range{Min: a, Max: b}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// ToFloat coerces a loosely typed catalog value (number or numeric string)
// into a finite float64.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		return parseNumber(n)
	default:
		return 0, false
	}
	if !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
