package scoring

import (
	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/hydraulics"
)

// Pipe score budget. The four parts sum to 100.
const (
	pipeBudgetVelocity = 40.0
	pipeBudgetSizeFit  = 30.0
	pipeBudgetCost     = 20.0
	pipeBudgetHeadLoss = 10.0
)

// Velocity band used for the diameter target: the diameter range that
// carries the segment flow between these velocities is a perfect fit.
const (
	targetVelocityLow  = 0.8
	targetVelocityHigh = 2.0
	sizeTolerance      = 0.20
)

// velocityBands award the velocity sub-score; narrower bands first.
var velocityBands = []struct {
	low, high, points float64
}{
	{0.8, 2.0, pipeBudgetVelocity},
	{0.5, 2.5, 30},
	{0.3, 3.0, 20},
}

var (
	pipeCostBuckets     = []bucket{{50, pipeBudgetCost}, {30, 15}, {20, 10}}
	pipeHeadLossBuckets = []bucket{{1, pipeBudgetHeadLoss}, {2, 8}, {5, 5}}
)

// PipeRequirement is the operating point a pipe is scored against.
type PipeRequirement struct {
	FlowLPM  float64
	LengthM  float64
	Role     types.Role
	AgeYears float64
	// TargetDiameterMM is the ideal internal diameter band. When zero it is
	// derived from FlowLPM with TargetDiameterBand.
	TargetDiameterMM types.Range
	// AllowedMaterials restricts Recommended to these materials when non-empty.
	AllowedMaterials []types.Material
}

// TargetDiameterBand returns the internal diameter range in mm that carries
// flowLPM at 0.8-2.0 m/s.
func TargetDiameterBand(flowLPM float64) types.Range {
	return types.Range{
		Min: hydraulics.DiameterForVelocity(flowLPM, targetVelocityHigh),
		Max: hydraulics.DiameterForVelocity(flowLPM, targetVelocityLow),
	}
}

// ScorePipe rates p for the segment described by req.
func ScorePipe(p types.Pipe, req PipeRequirement) types.ScoredPipe {
	hl := hydraulics.HeadLoss(hydraulics.Segment{
		FlowLPM:    req.FlowLPM,
		DiameterMM: p.SizeMM,
		LengthM:    req.LengthM,
		Material:   p.Material,
		Role:       req.Role,
		AgeYears:   req.AgeYears,
	})

	band := req.TargetDiameterMM
	if band.IsZero() {
		band = TargetDiameterBand(req.FlowLPM)
	}

	score := pipeVelocityScore(hl.Velocity) +
		pipeSizeScore(p.SizeMM, band) +
		pipeCostScore(p) +
		pipeHeadLossScore(hl.Total)

	velocityOK := hl.Velocity >= hydraulics.VelocityLow && hl.Velocity <= hydraulics.VelocityCritical
	materialOK := materialAllowed(p.Material, req.AllowedMaterials)

	return types.ScoredPipe{
		Pipe:     p,
		HeadLoss: hl,
		Rating: rate(score, constraints{
			usable:      velocityOK,
			goodChoice:  velocityOK,
			recommended: velocityOK && materialOK,
		}),
	}
}

// ScorePipes rates every pipe of the catalog for req.
func ScorePipes(pipes []types.Pipe, req PipeRequirement) []types.ScoredPipe {
	out := make([]types.ScoredPipe, 0, len(pipes))
	for _, p := range pipes {
		out = append(out, ScorePipe(p, req))
	}
	return out
}

func pipeVelocityScore(v float64) float64 {
	for _, b := range velocityBands {
		if v >= b.low && v <= b.high {
			return b.points
		}
	}
	return 0
}

func pipeSizeScore(sizeMM float64, band types.Range) float64 {
	switch {
	case sizeMM <= 0 || band.Max <= 0:
		return 5
	case band.Contains(sizeMM):
		return pipeBudgetSizeFit
	case sizeMM >= band.Min*(1-sizeTolerance) && sizeMM <= band.Max*(1+sizeTolerance):
		return 20
	default:
		return 5
	}
}

// pipeCostScore rewards meters of pipe per unit of money per mm of diameter.
func pipeCostScore(p types.Pipe) float64 {
	if p.Price <= 0 || p.SizeMM <= 0 {
		return 5
	}
	efficiency := p.LengthPerUnitM * 1000 / (p.Price * p.SizeMM)
	return stepAbove(efficiency, pipeCostBuckets, 5)
}

func pipeHeadLossScore(totalM float64) float64 {
	return stepBelow(totalM, pipeHeadLossBuckets, 2)
}

func materialAllowed(m types.Material, allowed []types.Material) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == m {
			return true
		}
	}
	return false
}
