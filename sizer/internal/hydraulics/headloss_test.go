package hydraulics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipesizer/pipesizer/pkg/types"
)

func pvcSegment(flowLPM, diameterMM float64) Segment {
	return Segment{
		FlowLPM:    flowLPM,
		DiameterMM: diameterMM,
		LengthM:    50,
		Material:   types.MaterialPVC,
		Role:       types.RoleMain,
	}
}

func TestHeadLoss_SingleSegment(t *testing.T) {
	hl := HeadLoss(Segment{
		FlowLPM:    100,
		DiameterMM: 25,
		LengthM:    50,
		Material:   types.MaterialPVC,
		Role:       types.RoleBranch,
	})

	q := 100.0 / 60000
	d := 0.025
	wantVelocity := q / (math.Pi * (d / 2) * (d / 2))
	wantMajor := 10.67 * 50 * math.Pow(q, 1.852) / (math.Pow(150, 1.852) * math.Pow(d, 4.87))

	assert.Equal(t, 150.0, hl.C)
	assert.InDelta(t, wantVelocity, hl.Velocity, 1e-9)
	assert.InDelta(t, wantMajor, hl.Major, 1e-9)
	assert.InDelta(t, wantMajor*0.20, hl.Minor, 1e-9)
	assert.InDelta(t, hl.Major+hl.Minor, hl.Total, 1e-12)
	assert.Greater(t, hl.Velocity, 0.0)
	assert.Greater(t, hl.Major, 0.0)
	assert.False(t, math.IsInf(hl.Major, 0) || math.IsNaN(hl.Major))
	// 100 L/min through 25 mm is about 3.4 m/s.
	assert.InDelta(t, 3.395, hl.Velocity, 0.01)
}

func TestHeadLoss_MinorRatioByRole(t *testing.T) {
	tests := []struct {
		role  types.Role
		ratio float64
	}{
		{types.RoleBranch, 0.20},
		{types.RoleSecondary, 0.15},
		{types.RoleMain, 0.10},
	}
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			seg := pvcSegment(60, 32)
			seg.Role = tc.role
			hl := HeadLoss(seg)
			assert.InDelta(t, hl.Major*tc.ratio, hl.Minor, 1e-12)
		})
	}
}

func TestHeadLoss_MonotoneInFlow(t *testing.T) {
	prev := 0.0
	for flow := 10.0; flow <= 500; flow += 10 {
		hl := HeadLoss(pvcSegment(flow, 40))
		assert.Greater(t, hl.Total, prev, "flow %.0f", flow)
		prev = hl.Total
	}
}

func TestHeadLoss_MonotoneInDiameter(t *testing.T) {
	prev := math.Inf(1)
	for d := 16.0; d <= 160; d += 4 {
		hl := HeadLoss(pvcSegment(120, d))
		assert.Less(t, hl.Total, prev, "diameter %.0f", d)
		prev = hl.Total
	}
}

func TestHeadLoss_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
	}{
		{"zero flow", pvcSegment(0, 32)},
		{"zero diameter", pvcSegment(50, 0)},
		{"zero length", Segment{FlowLPM: 50, DiameterMM: 32, Material: types.MaterialPVC}},
		{"negative flow", pvcSegment(-5, 32)},
		{"NaN flow", pvcSegment(math.NaN(), 32)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hl := HeadLoss(tc.seg)
			assert.Zero(t, hl.Major)
			assert.Zero(t, hl.Minor)
			assert.Zero(t, hl.Total)
			assert.Zero(t, hl.Velocity)
			assert.Equal(t, 150.0, hl.C)
		})
	}
}

func TestRoughnessC(t *testing.T) {
	tests := []struct {
		name     string
		material types.Material
		age      float64
		want     float64
	}{
		{"new pvc", types.MaterialPVC, 0, 150},
		{"aged pvc", types.MaterialPVC, 10, 125},
		{"very old pvc floors at 100", types.MaterialPVC, 40, 100},
		{"new hdpe", types.MaterialHDPE, 0, 140},
		{"new ldpe", types.MaterialLDPE, 0, 135},
		{"flexible pe lowest", types.MaterialPE, 0, 130},
		{"unknown material", types.Material("bamboo"), 0, 140},
		{"negative age ignored", types.MaterialPVC, -3, 150},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RoughnessC(tc.material, tc.age))
		})
	}
}

func TestHeadLoss_OlderPipeLosesMore(t *testing.T) {
	fresh := pvcSegment(120, 40)
	old := fresh
	old.AgeYears = 12
	assert.Greater(t, HeadLoss(old).Total, HeadLoss(fresh).Total)
}

func TestDiameterForVelocity_InvertsVelocity(t *testing.T) {
	d := DiameterForVelocity(200, 1.5)
	assert.InDelta(t, 1.5, Velocity(200, d), 1e-9)
	assert.Zero(t, DiameterForVelocity(0, 1.5))
}
