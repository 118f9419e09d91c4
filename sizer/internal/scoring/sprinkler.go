package scoring

import (
	"math"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Sprinkler score budget. The four parts sum to 100.
const (
	sprinklerBudgetFlow     = 50.0
	sprinklerBudgetCost     = 25.0
	sprinklerBudgetRadius   = 15.0
	sprinklerBudgetPressure = 10.0
)

// In-band flow credit; the remainder of the flow budget is a bonus for
// landing near the centre of the rated band.
const sprinklerInBandBase = 40.0

// Deviation tiers for a target outside the rated band. The tiers double as
// the hard limits of Recommended, GoodChoice and Usable.
const (
	deviationRecommended = 0.10
	deviationGoodChoice  = 0.30
	deviationUsable      = 0.50
)

var (
	// price per rated L/h, ascending
	sprinklerCostBuckets = []bucket{{0.1, sprinklerBudgetCost}, {0.3, 18}, {0.6, 12}}
	// average radius in m
	sprinklerRadiusBuckets = []bucket{{8, sprinklerBudgetRadius}, {5, 12}, {3, 8}}
	// pressure band width in bar
	sprinklerPressureBuckets = []bucket{{2, sprinklerBudgetPressure}, {1, 7}, {0.5, 4}}
)

// ScoreSprinkler rates s for a target per-emitter flow in L/h.
func ScoreSprinkler(s types.Sprinkler, targetLPH float64) types.ScoredSprinkler {
	dev := Deviation(s.FlowLPH, targetLPH)

	score := sprinklerFlowScore(s.FlowLPH, targetLPH, dev) +
		sprinklerCostScore(s) +
		sprinklerRadiusScore(s.RadiusM) +
		sprinklerPressureScore(s.PressureBar)

	return types.ScoredSprinkler{
		Sprinkler: s,
		Deviation: dev,
		TargetLPH: targetLPH,
		Rating: rate(score, constraints{
			usable:      dev <= deviationUsable,
			goodChoice:  dev <= deviationGoodChoice,
			recommended: dev <= deviationRecommended,
		}),
	}
}

// ScoreSprinklers rates every sprinkler of the catalog for targetLPH.
func ScoreSprinklers(sprinklers []types.Sprinkler, targetLPH float64) []types.ScoredSprinkler {
	out := make([]types.ScoredSprinkler, 0, len(sprinklers))
	for _, s := range sprinklers {
		out = append(out, ScoreSprinkler(s, targetLPH))
	}
	return out
}

// Deviation is the relative distance of target outside band: zero inside
// the band, (min-target)/min below it, (target-max)/max above it. A band or
// target that cannot be compared yields +Inf.
func Deviation(band types.Range, target float64) float64 {
	if !(target > 0) || !(band.Max > 0) || band.Min < 0 {
		return math.Inf(1)
	}
	switch {
	case band.Contains(target):
		return 0
	case target < band.Min:
		return (band.Min - target) / band.Min
	default:
		return (target - band.Max) / band.Max
	}
}

func sprinklerFlowScore(band types.Range, target, dev float64) float64 {
	switch {
	case dev == 0:
		half := band.Width() / 2
		if half <= 0 {
			return sprinklerBudgetFlow
		}
		closeness := 1 - math.Abs(target-band.Midpoint())/half
		return sprinklerInBandBase + (sprinklerBudgetFlow-sprinklerInBandBase)*closeness
	case dev <= deviationRecommended:
		return 30
	case dev <= deviationGoodChoice:
		return 20
	case dev <= deviationUsable:
		return 10
	default:
		return 0
	}
}

func sprinklerCostScore(s types.Sprinkler) float64 {
	mid := s.FlowLPH.Midpoint()
	if s.Price <= 0 || mid <= 0 {
		return 6
	}
	return stepBelow(s.Price/mid, sprinklerCostBuckets, 6)
}

func sprinklerRadiusScore(r types.Range) float64 {
	avg := r.Midpoint()
	if avg <= 0 {
		return 0
	}
	return stepAtLeast(avg, sprinklerRadiusBuckets, 4)
}

func sprinklerPressureScore(r types.Range) float64 {
	if r.IsZero() {
		return 0
	}
	return stepAtLeast(r.Width(), sprinklerPressureBuckets, 2)
}
