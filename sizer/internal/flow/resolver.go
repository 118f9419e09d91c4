// Package flow derives the flow requirement of an irrigation layout: the
// per-emitter flow, the farm total, and the flow each pipe tier carries on
// the longest path from pump to emitter.
//
// Two modes exist. Sprinkler mode takes the per-emitter flow from the
// midpoint of a sprinkler's rated flow band. Fallback mode derives it from
// the water need per tree and the irrigation duration. Malformed sprinkler
// data degrades to fallback mode with a warning instead of failing.
package flow

import (
	"fmt"
	"math"

	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/units"
)

// Resolution modes.
const (
	ModeSprinkler = "sprinkler"
	ModeFallback  = "fallback"
)

// KeyFallback is the warning key of a sprinkler whose rated flow is unusable.
const KeyFallback = "flow_fallback"

// Requirement is the resolved flow requirement of one input.
type Requirement struct {
	Mode          string
	PerEmitterLPH float64
	TotalEmitters int
	TotalFlowLPH  float64

	BranchFlowLPM       float64
	SecondaryFlowLPM    float64
	ProportionalFlowLPM float64
	// MainFlowLPM is also the flow the pump must deliver for this input.
	MainFlowLPM float64
}

// PerEmitterLPM returns the per-emitter flow in L/min.
func (r Requirement) PerEmitterLPM() float64 { return units.LPHToLPM(r.PerEmitterLPH) }

// TotalFlowLPM returns the farm total flow in L/min.
func (r Requirement) TotalFlowLPM() float64 { return units.LPHToLPM(r.TotalFlowLPH) }

// SegmentFlowLPM returns the flow carried by the tier with the given role.
func (r Requirement) SegmentFlowLPM(role types.Role) float64 {
	switch role {
	case types.RoleBranch:
		return r.BranchFlowLPM
	case types.RoleSecondary:
		return r.SecondaryFlowLPM
	case types.RoleMain:
		return r.MainFlowLPM
	default:
		return 0
	}
}

// Summary converts r into the result representation.
func (r Requirement) Summary() types.FlowSummary {
	return types.FlowSummary{
		Mode:                r.Mode,
		PerEmitterLPH:       r.PerEmitterLPH,
		PerEmitterLPM:       r.PerEmitterLPM(),
		TotalEmitters:       r.TotalEmitters,
		TotalFlowLPH:        r.TotalFlowLPH,
		TotalFlowLPM:        r.TotalFlowLPM(),
		BranchFlowLPM:       r.BranchFlowLPM,
		SecondaryFlowLPM:    r.SecondaryFlowLPM,
		ProportionalFlowLPM: r.ProportionalFlowLPM,
		MainFlowLPM:         r.MainFlowLPM,
	}
}

// TotalEmitters returns ceil(totalTrees * emittersPerTree). An unset
// EmittersPerTree counts as one emitter per tree.
func TotalEmitters(in types.IrrigationInput) int {
	per := in.EmittersPerTree
	if per <= 0 {
		per = 1
	}
	n := math.Ceil(float64(in.TotalTrees) * per)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// WaterNeedLPH returns the farm total flow implied by the water need per
// tree delivered over the irrigation duration, in L/h.
func WaterNeedLPH(in types.IrrigationInput) float64 {
	if in.IrrigationMinutes <= 0 {
		return 0
	}
	return float64(in.TotalTrees) * in.WaterPerTreeLiters / (in.IrrigationMinutes / units.MinutesPerH)
}

// TargetPerEmitterLPH returns the per-emitter flow implied by the water need
// alone; it is the target used when scoring sprinklers.
func TargetPerEmitterLPH(in types.IrrigationInput) float64 {
	emitters := TotalEmitters(in)
	if emitters == 0 {
		return 0
	}
	return WaterNeedLPH(in) / float64(emitters)
}

// Resolve computes the flow requirement of in. sprinkler may be nil, in
// which case the water-need fallback is used.
func Resolve(in types.IrrigationInput, sprinkler *types.Sprinkler) (Requirement, []types.Warning) {
	var warnings []types.Warning
	req := Requirement{TotalEmitters: TotalEmitters(in)}

	if sprinkler != nil {
		if lph, ok := ratedFlow(sprinkler); ok {
			req.Mode = ModeSprinkler
			req.PerEmitterLPH = lph
			req.TotalFlowLPH = lph * float64(req.TotalEmitters)
		} else {
			warnings = append(warnings, types.Warning{
				Key:   KeyFallback,
				Level: types.LevelWarning,
				Title: "Sprinkler flow data unusable",
				Detail: fmt.Sprintf("Sprinkler %q has no usable rated flow (%.2f-%.2f L/h). "+
					"Flows were derived from the water need per tree and the irrigation duration instead.",
					sprinkler.ID, sprinkler.FlowLPH.Min, sprinkler.FlowLPH.Max),
				Subject: sprinkler.ID,
			})
		}
	}

	if req.Mode == "" {
		req.Mode = ModeFallback
		req.TotalFlowLPH = WaterNeedLPH(in)
		if req.TotalEmitters > 0 {
			req.PerEmitterLPH = req.TotalFlowLPH / float64(req.TotalEmitters)
		}
		if in.IrrigationMinutes <= 0 {
			warnings = append(warnings, types.Warning{
				Key:    "flow_no_duration",
				Level:  types.LevelWarning,
				Title:  "No irrigation duration",
				Detail: "Irrigation duration is zero, so no flow can be derived from the water need. Select a sprinkler or set irrigation_minutes.",
			})
		}
	}

	perEmitterLPM := req.PerEmitterLPM()
	req.BranchFlowLPM = perEmitterLPM * float64(in.EmittersPerBranch)
	if in.Secondary != nil {
		req.SecondaryFlowLPM = req.BranchFlowLPM * float64(in.BranchesPerSecondary)
	}
	if in.NumberOfZones > 0 {
		req.ProportionalFlowLPM = req.TotalFlowLPM() * float64(in.SimultaneousZones) / float64(in.NumberOfZones)
	}
	req.MainFlowLPM = math.Max(req.ProportionalFlowLPM, math.Max(req.SecondaryFlowLPM, req.BranchFlowLPM))

	if w, ok := topologyCheck(in, req.TotalEmitters); ok {
		warnings = append(warnings, w)
	}
	return req, warnings
}

// ratedFlow returns the midpoint of the sprinkler's rated flow band when the
// band is usable.
func ratedFlow(s *types.Sprinkler) (float64, bool) {
	r := s.FlowLPH
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Max, 0) || r.Min < 0 || r.Max <= 0 || r.Min > r.Max {
		return 0, false
	}
	return r.Midpoint(), true
}

// topologyCheck flags a longest-path topology that implies more emitters in
// one zone than the whole farm has.
func topologyCheck(in types.IrrigationInput, totalEmitters int) (types.Warning, bool) {
	if in.EmittersPerBranch <= 0 || totalEmitters == 0 {
		return types.Warning{}, false
	}
	implied := in.EmittersPerBranch
	if in.Secondary != nil && in.BranchesPerSecondary > 0 {
		implied *= in.BranchesPerSecondary
	}
	if in.Main != nil && in.SecondariesPerMain > 0 {
		implied *= in.SecondariesPerMain
	}
	zones := in.NumberOfZones
	if zones < 1 {
		zones = 1
	}
	perZone := int(math.Ceil(float64(totalEmitters) / float64(zones)))
	if implied <= perZone {
		return types.Warning{}, false
	}
	return types.Warning{
		Key:   "topology_exceeds_emitters",
		Level: types.LevelInfo,
		Title: "Topology larger than zone",
		Detail: fmt.Sprintf("The pipe topology implies %d emitters per zone but the farm has about %d per zone. "+
			"Check emitters_per_branch, branches_per_secondary and secondaries_per_main.", implied, perZone),
	}, true
}
