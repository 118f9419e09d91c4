package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipesizer/pipesizer/pkg/types"
)

func TestParseRange_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want types.Range
	}{
		{"dash string", "2.5-4.5", types.Range{Min: 2.5, Max: 4.5}},
		{"dash string with spaces", " 3 - 7 ", types.Range{Min: 3, Max: 7}},
		{"comma decimals", "2,5-4,5", types.Range{Min: 2.5, Max: 4.5}},
		{"reversed string", "7-3", types.Range{Min: 3, Max: 7}},
		{"numeric string", "5", types.Range{Min: 5, Max: 5}},
		{"int scalar", 3, types.Range{Min: 3, Max: 3}},
		{"float scalar", 5.5, types.Range{Min: 5.5, Max: 5.5}},
		{"float slice", []float64{3, 7}, types.Range{Min: 3, Max: 7}},
		{"single element slice", []float64{4}, types.Range{Min: 4, Max: 4}},
		{"array pair", [2]float64{7, 3}, types.Range{Min: 3, Max: 7}},
		{"yaml decoded pair", []any{100, "200"}, types.Range{Min: 100, Max: 200}},
		{"half parsable pair", []any{"n/a", 12}, types.Range{Min: 12, Max: 12}},
		{"half parsable string", "abc-9", types.Range{Min: 9, Max: 9}},
		{"exponent scalar", "1e-3", types.Range{Min: 0.001, Max: 0.001}},
		{"exponent bounds", "1e-3-2E-3", types.Range{Min: 0.001, Max: 0.002}},
		{"negative lower bound", "-5-10", types.Range{Min: -5, Max: 10}},
		{"normalized range", types.Range{Min: 1, Max: 2}, types.Range{Min: 1, Max: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRange(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, got.Min, got.Max)
		})
	}
}

func TestParseRange_Invalid(t *testing.T) {
	inputs := []any{"", "abc", "x-y", []any{"a", "b"}, []float64{1, 2, 3}, nil, true, map[string]any{}}
	for _, in := range inputs {
		_, err := ParseRange(in)
		assert.ErrorIs(t, err, ErrInvalidRangeFormat, "input %v", in)
	}
}

func TestParseRange_Idempotent(t *testing.T) {
	for _, in := range []any{"3-7", []float64{9, 1}, 5, "12.5"} {
		first, err := ParseRange(in)
		require.NoError(t, err)
		second, err := ParseRange(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestParseRangeOr_FallsBack(t *testing.T) {
	fallback := types.Range{Min: 1, Max: 1}
	got, err := ParseRangeOr("garbage", fallback)
	assert.ErrorIs(t, err, ErrInvalidRangeFormat)
	assert.Equal(t, fallback, got)

	got, err = ParseRangeOr("2-4", fallback)
	assert.NoError(t, err)
	assert.Equal(t, types.Range{Min: 2, Max: 4}, got)
}

func TestConversions(t *testing.T) {
	assert.InDelta(t, 20.4, BarToMeters(2), 1e-9)
	assert.InDelta(t, 0.7457, HPToKW(1), 1e-9)
	assert.InDelta(t, 1.341, KWToHP(1), 1e-9)
	assert.InDelta(t, 2.5, LPHToLPM(150), 1e-9)
	assert.InDelta(t, 150, LPMToLPH(2.5), 1e-9)
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = ToFloat("NaN")
	assert.False(t, ok)

	f, ok = ToFloat(int64(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)
}
