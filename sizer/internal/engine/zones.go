package engine

import (
	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/flow"
	"github.com/pipesizer/pipesizer/sizer/internal/hydraulics"
	"github.com/pipesizer/pipesizer/sizer/internal/scoring"
	"github.com/pipesizer/pipesizer/sizer/internal/selection"
)

// zonePoints computes the operating point of every zone in the request.
// Each zone uses its own flows on the pipes selected for the primary input;
// a tier the primary input lacks gets its own selection.
func (c *calc) zonePoints() []types.ZoneOperatingPoint {
	points := make([]types.ZoneOperatingPoint, 0, len(c.req.Zones))
	for _, z := range c.req.Zones {
		zreq, warnings := flow.Resolve(z.Input, z.Sprinkler)
		for i := range warnings {
			if warnings[i].Subject == "" {
				warnings[i].Subject = z.ZoneID
			}
		}
		c.warnFlow(z.ZoneID, warnings)
		segs := c.zoneSegments(z.Input, zreq)
		points = append(points, c.operatingPoint(z.ZoneID, z.Input, zreq.MainFlowLPM, z.Sprinkler, segs))
	}
	return points
}

func (c *calc) zoneSegments(in types.IrrigationInput, req flow.Requirement) []types.SegmentResult {
	var out []types.SegmentResult
	for _, role := range types.Roles {
		run := in.Run(role)
		if run == nil {
			continue
		}
		seg := types.SegmentResult{Role: role, FlowLPM: req.SegmentFlowLPM(role), LengthM: run.LongestM}
		if !(seg.FlowLPM > 0) || !(seg.LengthM > 0) {
			seg.Degenerate = true
			out = append(out, seg)
			continue
		}

		pipe, ok := c.selectedPipe(role)
		if !ok {
			choice, _ := selection.Select(scoring.ScorePipes(c.cat.Pipes, scoring.PipeRequirement{
				FlowLPM:          seg.FlowLPM,
				LengthM:          seg.LengthM,
				Role:             role,
				AgeYears:         in.PipeAgeYears,
				AllowedMaterials: c.engine.materials[role],
			}), "")
			pipe = choice.Item.Pipe
		}
		seg.HeadLoss = hydraulics.HeadLoss(hydraulics.Segment{
			FlowLPM:    seg.FlowLPM,
			DiameterMM: pipe.SizeMM,
			LengthM:    seg.LengthM,
			Material:   pipe.Material,
			Role:       role,
			AgeYears:   in.PipeAgeYears,
		})
		out = append(out, seg)
	}
	return out
}
