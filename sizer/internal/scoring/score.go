package scoring

import (
	"math"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Score thresholds shared by all equipment classes. Hard operating
// constraints of each class are applied on top of these.
const (
	ThresholdUsable      = 20.0
	ThresholdGoodChoice  = 40.0
	ThresholdRecommended = 60.0
)

// constraints are the hard operating limits a candidate must clear at each
// level, in addition to the score threshold.
type constraints struct {
	usable, goodChoice, recommended bool
}

// rate builds a Rating from a score and the per-level hard constraints. The
// thresholds are nested and each level's constraint implies the one below,
// so Recommended implies GoodChoice implies Usable.
func rate(score float64, c constraints) types.Rating {
	score = clampScore(score)
	usable := score >= ThresholdUsable && c.usable
	good := usable && score >= ThresholdGoodChoice && c.goodChoice
	return types.Rating{
		Score:       score,
		Usable:      usable,
		GoodChoice:  good,
		Recommended: good && score >= ThresholdRecommended && c.recommended,
	}
}

// clampScore restricts a score to [0, 100] and maps NaN to 0.
func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// bucket is one step of a step function.
type bucket struct {
	limit  float64
	points float64
}

// stepAbove returns the points of the first bucket whose limit v exceeds.
// Buckets must be ordered by descending limit.
func stepAbove(v float64, buckets []bucket, otherwise float64) float64 {
	for _, b := range buckets {
		if v > b.limit {
			return b.points
		}
	}
	return otherwise
}

// stepAtLeast is stepAbove with an inclusive lower bound.
func stepAtLeast(v float64, buckets []bucket, otherwise float64) float64 {
	for _, b := range buckets {
		if v >= b.limit {
			return b.points
		}
	}
	return otherwise
}

// stepBelow returns the points of the first bucket whose limit v is under.
// Buckets must be ordered by ascending limit.
func stepBelow(v float64, buckets []bucket, otherwise float64) float64 {
	for _, b := range buckets {
		if v < b.limit {
			return b.points
		}
	}
	return otherwise
}
