package pumphead

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipesizer/pipesizer/pkg/types"
)

func zone(id string, head, flow float64) types.ZoneOperatingPoint {
	return types.ZoneOperatingPoint{ZoneID: id, TotalHeadM: head, FlowLPM: flow}
}

func TestResolve_MaxOfRunningSet(t *testing.T) {
	tests := []struct {
		name         string
		zones        []types.ZoneOperatingPoint
		simultaneous int
		wantHead     float64
		wantFlow     float64
		wantRunning  []string
	}{
		{
			name:         "two zones one at a time",
			zones:        []types.ZoneOperatingPoint{zone("A", 40, 100), zone("B", 25, 300)},
			simultaneous: 1,
			wantHead:     40,
			wantFlow:     100,
			wantRunning:  []string{"A"},
		},
		{
			name:         "order of input does not matter",
			zones:        []types.ZoneOperatingPoint{zone("B", 25, 300), zone("A", 40, 100)},
			simultaneous: 1,
			wantHead:     40,
			wantFlow:     100,
			wantRunning:  []string{"A"},
		},
		{
			name:         "two running zones take max head and max flow",
			zones:        []types.ZoneOperatingPoint{zone("A", 40, 100), zone("B", 25, 300), zone("C", 10, 900)},
			simultaneous: 2,
			wantHead:     40,
			wantFlow:     300,
			wantRunning:  []string{"A", "B"},
		},
		{
			name:         "simultaneous clamped to zone count",
			zones:        []types.ZoneOperatingPoint{zone("A", 12, 10), zone("B", 30, 20)},
			simultaneous: 5,
			wantHead:     30,
			wantFlow:     20,
			wantRunning:  []string{"B", "A"},
		},
		{
			name:         "zero simultaneous treated as one",
			zones:        []types.ZoneOperatingPoint{zone("A", 12, 10), zone("B", 30, 20)},
			simultaneous: 0,
			wantHead:     30,
			wantFlow:     20,
			wantRunning:  []string{"B"},
		},
		{
			name:         "equal heads ordered by ID",
			zones:        []types.ZoneOperatingPoint{zone("z2", 20, 1), zone("z1", 20, 2)},
			simultaneous: 1,
			wantHead:     20,
			wantFlow:     2,
			wantRunning:  []string{"z1"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve(tc.zones, tc.simultaneous)
			assert.Equal(t, tc.wantHead, res.HeadM)
			assert.Equal(t, tc.wantFlow, res.FlowLPM)
			assert.Equal(t, tc.wantRunning, res.RunningIDs())
			assert.Equal(t, tc.wantRunning[0], res.CriticalZoneID)
		})
	}
}

func TestResolve_DominantZoneIndependentOfOthers(t *testing.T) {
	for _, other := range []float64{0, 5, 39.99} {
		res := Resolve([]types.ZoneOperatingPoint{zone("B", other, 1), zone("A", 40, 1), zone("C", other/2, 1)}, 1)
		assert.Equal(t, 40.0, res.HeadM)
	}
}

func TestResolve_Empty(t *testing.T) {
	res := Resolve(nil, 3)
	assert.Zero(t, res.HeadM)
	assert.Empty(t, res.RunningIDs())
}

func TestResolve_DoesNotReorderInput(t *testing.T) {
	zones := []types.ZoneOperatingPoint{zone("B", 1, 0), zone("A", 2, 0)}
	Resolve(zones, 1)
	assert.Equal(t, "B", zones[0].ZoneID)
}

func TestClassify(t *testing.T) {
	small := types.IrrigationInput{FarmSizeHa: 2, TotalTrees: 200, Branch: types.PipeRun{TotalM: 300}}

	medium := small
	medium.FarmSizeHa = 12
	medium.Branch.TotalM = 800

	large := types.IrrigationInput{
		FarmSizeHa: 60,
		TotalTrees: 9000,
		Branch:     types.PipeRun{TotalM: 1500},
		Secondary:  &types.PipeRun{TotalM: 500},
		Main:       &types.PipeRun{TotalM: 200},
	}

	tests := []struct {
		name       string
		in         types.IrrigationInput
		zones      int
		wantPoints int
		want       Complexity
	}{
		{"small single zone", small, 1, 0, Simple},
		{"small two zones", small, 2, 1, Simple},
		{"medium farm", medium, 1, 2, Medium},
		{"medium farm many zones", medium, 6, 4, Complex},
		{"large layout", large, 1, 5, Complex},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantPoints, Points(tc.in, tc.zones))
			assert.Equal(t, tc.want, Classify(tc.in, tc.zones))
		})
	}
}

func TestSafetyFactor(t *testing.T) {
	assert.Equal(t, 1.05, SafetyFactor(Simple))
	assert.Equal(t, 1.08, SafetyFactor(Medium))
	assert.Equal(t, 1.12, SafetyFactor(Complex))
	assert.Equal(t, 1.12, SafetyFactor("bogus"))
}
