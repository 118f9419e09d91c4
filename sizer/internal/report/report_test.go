package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipesizer/pipesizer/pkg/types"
)

func sampleResult() *types.CalculationResult {
	pipe := types.ScoredPipe{
		Pipe:     types.Pipe{ID: "pvc-25", SizeMM: 25, Price: 2.5},
		Rating:   types.Rating{Score: 98, Usable: true, GoodChoice: true, Recommended: true},
		HeadLoss: types.HeadLoss{Velocity: 0.85, Total: 1.66},
	}
	pump := types.ScoredPump{
		Pump:   types.Pump{ID: "pump-a", Price: 1250},
		Rating: types.Rating{Score: 96, Usable: true, GoodChoice: true, Recommended: true},
	}
	return &types.CalculationResult{
		Flow: types.FlowSummary{
			Mode: "sprinkler", PerEmitterLPH: 150, PerEmitterLPM: 2.5, TotalEmitters: 1200,
			TotalFlowLPH: 180000, TotalFlowLPM: 3000, BranchFlowLPM: 25, MainFlowLPM: 3000,
		},
		Segments: []types.SegmentResult{
			{Role: types.RoleBranch, FlowLPM: 25, LengthM: 40, Tier: types.TierRecommended, Selected: &pipe, HeadLoss: pipe.HeadLoss, Candidates: []types.ScoredPipe{pipe}},
			{Role: types.RoleSecondary, Degenerate: true, Tier: types.TierNone},
		},
		Zones: []types.ZoneOperatingPoint{
			{ZoneID: "A", TotalHeadM: 40, StaticHeadM: 20, PressureHeadM: 18},
			{ZoneID: "B", TotalHeadM: 25, StaticHeadM: 5, PressureHeadM: 18},
		},
		CriticalZones:   []string{"A"},
		RawPumpHeadM:    40,
		Complexity:      "medium",
		SafetyFactor:    1.08,
		PumpHeadM:       43.2,
		PumpFlowLPM:     3000,
		RequiredPowerHP: 35,
		RequiredPowerKW: 26.1,
		PumpTier:        types.TierRecommended,
		SelectedPump:    &pump,
		PumpCandidates:  []types.ScoredPump{pump},
		SprinklerTier:   types.TierNone,
		Warnings: []types.Warning{
			{Key: "velocity_warning-low", Level: types.LevelWarning, Title: "Velocity low", Detail: "slow"},
			{Key: "topology_exceeds_emitters", Level: types.LevelInfo, Title: "Topology", Detail: "big"},
		},
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleResult(), Options{Title: "north grove", Candidates: 2}))
	out := buf.String()

	for _, want := range []string{
		"north grove\n===========",
		"(sprinkler mode)",
		"180,000 L/h",
		"1,200",
		"pvc-25",
		"not used",
		"zone A",
		"x1.08",
		"43.20 m",
		"1,250",
		"CANDIDATES",
		"[warning]",
	} {
		assert.Contains(t, out, want)
	}
}

func TestText_OmitsEmptySections(t *testing.T) {
	res := sampleResult()
	res.Warnings = nil
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, Options{}))
	assert.NotContains(t, buf.String(), "WARNINGS")
	assert.NotContains(t, buf.String(), "CANDIDATES")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult(), Options{}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 43.2, decoded["pump_head_m"])
	assert.Equal(t, "medium", decoded["complexity"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "pdf", sampleResult(), Options{})
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}

// parseMetrics decodes a text exposition into metric families.
func parseMetrics(t *testing.T, data []byte) map[string]*dto.MetricFamily {
	t.Helper()
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(bytes.NewReader(data))
	require.NoError(t, err)
	return mfs
}

// gaugeValue returns the value of the series in mf whose labels include want.
func gaugeValue(t *testing.T, mf *dto.MetricFamily, want map[string]string) float64 {
	t.Helper()
	require.NotNil(t, mf)
	for _, m := range mf.GetMetric() {
		match := true
		for name, value := range want {
			found := false
			for _, lp := range m.GetLabel() {
				if lp.GetName() == name && lp.GetValue() == value {
					found = true
				}
			}
			match = match && found
		}
		if match {
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("no series %v in %s", want, mf.GetName())
	return 0
}

func TestWriteMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, sampleResult(), map[string]string{"project": "north"}))
	mfs := parseMetrics(t, buf.Bytes())

	project := map[string]string{"project": "north"}
	assert.Equal(t, 43.2, gaugeValue(t, mfs["pipesizer_pump_head_meters"], project))
	assert.Equal(t, 1.08, gaugeValue(t, mfs["pipesizer_safety_factor"], project))
	assert.Equal(t, 0.85, gaugeValue(t, mfs["pipesizer_segment_velocity_ms"], map[string]string{"role": "branch"}))
	assert.Len(t, mfs["pipesizer_segment_velocity_ms"].GetMetric(), 1, "degenerate tier not exported")
	assert.Equal(t, 40.0, gaugeValue(t, mfs["pipesizer_zone_head_meters"], map[string]string{"zone": "A"}))
	assert.Equal(t, 96.0, gaugeValue(t, mfs["pipesizer_selection_score"], map[string]string{"class": "pump", "id": "pump-a"}))
	assert.Equal(t, 1.0, gaugeValue(t, mfs["pipesizer_warnings"], map[string]string{"level": "warning"}))
	assert.Equal(t, 0.0, gaugeValue(t, mfs["pipesizer_warnings"], map[string]string{"level": "critical"}))
	assert.Equal(t, 1.0, gaugeValue(t, mfs["pipesizer_result_info"], map[string]string{"complexity": "medium"}))
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizer.prom")
	require.NoError(t, WriteTextfile(path, sampleResult(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE pipesizer_pump_head_meters gauge")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file cleaned up")
}
