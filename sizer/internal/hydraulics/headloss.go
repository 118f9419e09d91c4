// Package hydraulics computes Hazen-Williams head loss for a pipe segment and
// classifies flow velocity against recommended bands.
//
// HeadLoss takes flow in L/min, diameter in mm and length in m, and returns
// losses in meters of water column and velocity in m/s. Degenerate segments
// (zero flow, diameter or length) return zero loss and zero velocity, never
// NaN or Inf.
package hydraulics

import (
	"math"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Hazen-Williams constants (SI form).
const (
	hwCoefficient  = 10.67
	hwFlowExponent = 1.852
	hwDiamExponent = 4.87

	// roughnessAgeLoss is the drop in C per year of pipe age.
	roughnessAgeLoss = 2.5
	// roughnessFloor is the lowest C an aged pipe can reach.
	roughnessFloor = 100.0
	// defaultBaseC applies to materials missing from baseRoughness.
	defaultBaseC = 140.0
)

// baseRoughness is the Hazen-Williams C of new pipe per material class.
var baseRoughness = map[types.Material]float64{
	types.MaterialPVC:  150,
	types.MaterialHDPE: 140,
	types.MaterialLDPE: 135,
	types.MaterialPE:   130,
}

// minorLossRatio is the fittings loss as a fraction of the friction loss.
// Branches carry the most fittings, mains the fewest.
var minorLossRatio = map[types.Role]float64{
	types.RoleBranch:    0.20,
	types.RoleSecondary: 0.15,
	types.RoleMain:      0.10,
}

// Segment is the operating point of one pipe run.
type Segment struct {
	FlowLPM    float64
	DiameterMM float64
	LengthM    float64
	Material   types.Material
	Role       types.Role
	AgeYears   float64
}

// Degenerate reports whether the segment carries no computable flow.
func (s Segment) Degenerate() bool {
	return !(s.FlowLPM > 0) || !(s.DiameterMM > 0) || !(s.LengthM > 0)
}

// RoughnessC returns the aged Hazen-Williams coefficient for material.
func RoughnessC(material types.Material, ageYears float64) float64 {
	base, ok := baseRoughness[material]
	if !ok {
		base = defaultBaseC
	}
	if ageYears < 0 {
		ageYears = 0
	}
	return math.Max(base-roughnessAgeLoss*ageYears, roughnessFloor)
}

// MinorLossRatio returns the fittings-loss ratio for role. Unknown roles use
// the branch ratio.
func MinorLossRatio(role types.Role) float64 {
	if r, ok := minorLossRatio[role]; ok {
		return r
	}
	return minorLossRatio[types.RoleBranch]
}

// HeadLoss computes major, minor and total head loss and the mean velocity
// for s.
func HeadLoss(s Segment) types.HeadLoss {
	c := RoughnessC(s.Material, s.AgeYears)
	if s.Degenerate() {
		return types.HeadLoss{C: c}
	}

	q := s.FlowLPM / 60000 // m³/s
	d := s.DiameterMM / 1000

	major := hwCoefficient * s.LengthM * math.Pow(q, hwFlowExponent) /
		(math.Pow(c, hwFlowExponent) * math.Pow(d, hwDiamExponent))
	minor := major * MinorLossRatio(s.Role)

	return types.HeadLoss{
		Major:    major,
		Minor:    minor,
		Total:    major + minor,
		Velocity: Velocity(s.FlowLPM, s.DiameterMM),
		C:        c,
	}
}

// Velocity returns the mean velocity in m/s of flowLPM through a pipe of
// the given internal diameter.
func Velocity(flowLPM, diameterMM float64) float64 {
	if !(flowLPM > 0) || !(diameterMM > 0) {
		return 0
	}
	q := flowLPM / 60000
	r := diameterMM / 2000
	return q / (math.Pi * r * r)
}

// DiameterForVelocity returns the internal diameter in mm that carries
// flowLPM at velocity v.
func DiameterForVelocity(flowLPM, v float64) float64 {
	if !(flowLPM > 0) || !(v > 0) {
		return 0
	}
	q := flowLPM / 60000
	return math.Sqrt(4*q/(math.Pi*v)) * 1000
}
