package engine

import (
	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/flow"
	"github.com/pipesizer/pipesizer/sizer/internal/hydraulics"
	"github.com/pipesizer/pipesizer/sizer/internal/scoring"
	"github.com/pipesizer/pipesizer/sizer/internal/selection"
	"github.com/pipesizer/pipesizer/sizer/internal/units"
)

// segments scores and selects a pipe for every installed tier of in.
// Degenerate tiers are reported but not scored.
func (c *calc) segments(in types.IrrigationInput, req flow.Requirement) []types.SegmentResult {
	var out []types.SegmentResult
	for _, role := range types.Roles {
		run := in.Run(role)
		if run == nil {
			continue
		}
		seg := types.SegmentResult{
			Role:    role,
			FlowLPM: req.SegmentFlowLPM(role),
			LengthM: run.LongestM,
			Tier:    types.TierNone,
		}
		if !(seg.FlowLPM > 0) || !(seg.LengthM > 0) {
			seg.Degenerate = true
			out = append(out, seg)
			continue
		}

		scored := scoring.ScorePipes(c.cat.Pipes, scoring.PipeRequirement{
			FlowLPM:          seg.FlowLPM,
			LengthM:          seg.LengthM,
			Role:             role,
			AgeYears:         in.PipeAgeYears,
			AllowedMaterials: c.engine.materials[role],
		})
		seg.Candidates = selection.Rank(scored)

		choice, _ := selection.Select(scored, c.req.CurrentPipeIDs[role])
		seg.Tier = choice.Tier
		seg.Selected = &choice.Item
		seg.HeadLoss = choice.Item.HeadLoss

		if w, ok := hydraulics.ClassifyVelocity(role, seg.HeadLoss.Velocity).Warning(role); ok {
			c.warn(w)
		}
		if w, ok := c.selectionWarning(string(role)+"_pipe", string(role)+" pipe", choice.Item.Pipe.ID, choice.Tier); ok {
			w.Subject = string(role)
			c.warn(w)
		}
		out = append(out, seg)
	}
	return out
}

// selectedPipe returns the pipe chosen for role on the primary input.
func (c *calc) selectedPipe(role types.Role) (types.Pipe, bool) {
	if s := c.out.Segment(role); s != nil && s.Selected != nil {
		return s.Selected.Pipe, true
	}
	return types.Pipe{}, false
}

// operatingPoint builds the pump-outlet head of one zone from its segments.
func (c *calc) operatingPoint(id string, in types.IrrigationInput, flowLPM float64, sprinkler *types.Sprinkler, segs []types.SegmentResult) types.ZoneOperatingPoint {
	zp := types.ZoneOperatingPoint{
		ZoneID:         id,
		FlowLPM:        flowLPM,
		StaticHeadM:    in.StaticHeadM,
		PressureHeadM:  pressureHead(in, sprinkler),
		SegmentLossesM: make(map[types.Role]float64, len(segs)),
	}
	total := zp.StaticHeadM + zp.PressureHeadM
	for _, s := range segs {
		zp.SegmentLossesM[s.Role] = s.HeadLoss.Total
		total += s.HeadLoss.Total
	}
	zp.TotalHeadM = total
	return zp
}

// pressureHead is the operating pressure of the sprinkler in meters, or the
// configured default when the sprinkler has no pressure rating.
func pressureHead(in types.IrrigationInput, s *types.Sprinkler) float64 {
	if s != nil && s.PressureBar.Midpoint() > 0 {
		return units.BarToMeters(s.PressureBar.Midpoint())
	}
	return in.PressureHeadM
}
