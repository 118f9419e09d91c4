package pumphead

import "github.com/pipesizer/pipesizer/pkg/types"

// Complexity is the system complexity class.
type Complexity string

const (
	Simple  Complexity = "simple"
	Medium  Complexity = "medium"
	Complex Complexity = "complex"
)

var safetyFactors = map[Complexity]float64{
	Simple:  1.05,
	Medium:  1.08,
	Complex: 1.12,
}

// SafetyFactor returns the head multiplier for c. Unknown classes get the
// complex factor.
func SafetyFactor(c Complexity) float64 {
	if f, ok := safetyFactors[c]; ok {
		return f
	}
	return safetyFactors[Complex]
}

// Points returns the complexity points of a system with zoneCount zones.
func Points(in types.IrrigationInput, zoneCount int) int {
	points := 0

	switch {
	case zoneCount > 5:
		points += 2
	case zoneCount > 1:
		points++
	}

	if in.Secondary != nil && in.Main != nil {
		points++
	}

	switch {
	case in.FarmSizeHa >= 50 || in.TotalTrees >= 5000:
		points += 2
	case in.FarmSizeHa >= 10 || in.TotalTrees >= 1000:
		points++
	}

	switch length := in.TotalPipeLengthM(); {
	case length > 2000:
		points += 2
	case length > 500:
		points++
	}

	return points
}

// Classify returns the complexity class of in for zoneCount zones.
func Classify(in types.IrrigationInput, zoneCount int) Complexity {
	switch p := Points(in, zoneCount); {
	case p >= 4:
		return Complex
	case p >= 2:
		return Medium
	default:
		return Simple
	}
}
