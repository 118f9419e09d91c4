package checks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// condition is a parsed "field operator value" expression.
type condition struct {
	field     string
	op        string
	threshold float64
	text      string // right-hand side of == on string fields
}

// stringFields compare by equality only.
var stringFields = map[string]func(*types.CalculationResult) string{
	"complexity":     func(r *types.CalculationResult) string { return r.Complexity },
	"pump_tier":      func(r *types.CalculationResult) string { return string(r.PumpTier) },
	"sprinkler_tier": func(r *types.CalculationResult) string { return string(r.SprinklerTier) },
	"flow_mode":      func(r *types.CalculationResult) string { return r.Flow.Mode },
}

// numericFields return false when the value does not exist for a result,
// such as the velocity of a tier that is not installed.
var numericFields = map[string]func(*types.CalculationResult) (float64, bool){
	"pump_head":          func(r *types.CalculationResult) (float64, bool) { return r.PumpHeadM, true },
	"raw_pump_head":      func(r *types.CalculationResult) (float64, bool) { return r.RawPumpHeadM, true },
	"safety_factor":      func(r *types.CalculationResult) (float64, bool) { return r.SafetyFactor, true },
	"pump_flow":          func(r *types.CalculationResult) (float64, bool) { return r.PumpFlowLPM, true },
	"total_flow":         func(r *types.CalculationResult) (float64, bool) { return r.Flow.TotalFlowLPM, true },
	"total_head_loss":    func(r *types.CalculationResult) (float64, bool) { return r.TotalHeadLossM, true },
	"required_power_kw":  func(r *types.CalculationResult) (float64, bool) { return r.RequiredPowerKW, true },
	"required_power_hp":  func(r *types.CalculationResult) (float64, bool) { return r.RequiredPowerHP, true },
	"branch_velocity":    velocity(types.RoleBranch),
	"secondary_velocity": velocity(types.RoleSecondary),
	"main_velocity":      velocity(types.RoleMain),
	"pump_score": func(r *types.CalculationResult) (float64, bool) {
		if r.SelectedPump == nil {
			return 0, false
		}
		return r.SelectedPump.Rating.Score, true
	},
	"sprinkler_score": func(r *types.CalculationResult) (float64, bool) {
		if r.SelectedSprinkler == nil {
			return 0, false
		}
		return r.SelectedSprinkler.Rating.Score, true
	},
	"warnings": func(r *types.CalculationResult) (float64, bool) { return float64(len(r.Warnings)), true },
}

func velocity(role types.Role) func(*types.CalculationResult) (float64, bool) {
	return func(r *types.CalculationResult) (float64, bool) {
		s := r.Segment(role)
		if s == nil || s.Degenerate || s.Selected == nil {
			return 0, false
		}
		return s.HeadLoss.Velocity, true
	}
}

// parseCondition parses expressions such as:
//
//	pump_head > 80
//	main_velocity >= 2.5
//	required_power_kw > 7.5
//	complexity == complex
//	pump_tier == fallback
func parseCondition(cond string) (condition, error) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return condition{}, fmt.Errorf("want \"field operator value\", got %q", cond)
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if _, ok := stringFields[field]; ok {
		if op != "==" && op != "!=" {
			return condition{}, fmt.Errorf("field %s supports == and != only", field)
		}
		return condition{field: field, op: op, text: rhs}, nil
	}
	if _, ok := numericFields[field]; !ok {
		return condition{}, fmt.Errorf("unknown field %q", field)
	}
	switch op {
	case ">", ">=", "<", "<=", "==", "!=":
	default:
		return condition{}, fmt.Errorf("unknown operator %q", op)
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return condition{}, fmt.Errorf("threshold %q is not a number", rhs)
	}
	return condition{field: field, op: op, threshold: threshold}, nil
}

// eval reports whether c holds for r, with the value it compared.
func (c condition) eval(r *types.CalculationResult) (bool, string) {
	if get, ok := stringFields[c.field]; ok {
		v := get(r)
		if c.op == "==" {
			return v == c.text, v
		}
		return v != c.text, v
	}
	v, ok := numericFields[c.field](r)
	if !ok {
		return false, ""
	}
	return compareFloat(v, c.op, c.threshold), strconv.FormatFloat(v, 'f', 2, 64)
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
