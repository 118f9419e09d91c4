package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipesizer/pipesizer/pkg/types"
)

var (
	_ Candidate = types.ScoredPipe{}
	_ Candidate = types.ScoredPump{}
	_ Candidate = types.ScoredSprinkler{}
)

type item struct {
	id    string
	price float64
	dist  float64
	r     types.Rating
}

func (i item) CandidateID() string           { return i.id }
func (i item) CandidatePrice() float64       { return i.price }
func (i item) CandidateRating() types.Rating { return i.r }
func (i item) IdealDistance() float64        { return i.dist }

func rec(score float64) types.Rating {
	return types.Rating{Score: score, Usable: true, GoodChoice: true, Recommended: true}
}

func usable(score float64) types.Rating {
	return types.Rating{Score: score, Usable: true}
}

func TestSelect_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		cands    []item
		current  string
		wantID   string
		wantTier types.SelectionTier
	}{
		{
			name:     "current kept while recommended",
			cands:    []item{{id: "a", r: rec(90)}, {id: "b", r: rec(70)}},
			current:  "b",
			wantID:   "b",
			wantTier: types.TierCurrent,
		},
		{
			name:     "current dropped when no longer recommended",
			cands:    []item{{id: "a", r: rec(90)}, {id: "b", r: usable(70)}},
			current:  "b",
			wantID:   "a",
			wantTier: types.TierRecommended,
		},
		{
			name:     "unknown current ignored",
			cands:    []item{{id: "a", r: rec(65)}},
			current:  "zzz",
			wantID:   "a",
			wantTier: types.TierRecommended,
		},
		{
			name:     "best recommended beats higher usable",
			cands:    []item{{id: "u", r: usable(95)}, {id: "r", r: rec(61)}},
			wantID:   "r",
			wantTier: types.TierRecommended,
		},
		{
			name:     "best usable when none recommended",
			cands:    []item{{id: "x", r: types.Rating{Score: 80}}, {id: "u1", r: usable(30)}, {id: "u2", r: usable(45)}},
			wantID:   "u2",
			wantTier: types.TierUsable,
		},
		{
			name:     "fallback to best overall",
			cands:    []item{{id: "x", r: types.Rating{Score: 10}}, {id: "y", r: types.Rating{Score: 18}}},
			wantID:   "y",
			wantTier: types.TierFallback,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Select(tc.cands, tc.current)
			require.True(t, ok)
			assert.Equal(t, tc.wantID, got.Item.id)
			assert.Equal(t, tc.wantTier, got.Tier)
		})
	}
}

func TestSelect_Empty(t *testing.T) {
	got, ok := Select([]item(nil), "a")
	assert.False(t, ok)
	assert.Equal(t, types.TierNone, got.Tier)
	assert.False(t, got.Ideal())
}

func TestRank_TieBreaks(t *testing.T) {
	cands := []item{
		{id: "d", price: 10, dist: 0.1, r: rec(80)},
		{id: "c", price: 10, dist: 0.1, r: rec(80)},
		{id: "b", price: 10, dist: 0.5, r: rec(80)},
		{id: "a", price: 12, dist: 0.0, r: rec(80)},
		{id: "top", price: 99, dist: 9, r: rec(81)},
	}

	ranked := Rank(cands)

	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.id
	}
	assert.Equal(t, []string{"top", "c", "d", "b", "a"}, ids)
	assert.Equal(t, "d", cands[0].id, "input is not reordered")
}

func TestChoice_Ideal(t *testing.T) {
	assert.True(t, Choice[item]{Tier: types.TierCurrent}.Ideal())
	assert.True(t, Choice[item]{Tier: types.TierRecommended}.Ideal())
	assert.False(t, Choice[item]{Tier: types.TierUsable}.Ideal())
	assert.False(t, Choice[item]{Tier: types.TierFallback}.Ideal())
}

func TestSelect_WithScoredPipes(t *testing.T) {
	cands := []types.ScoredPipe{
		{Pipe: types.Pipe{ID: "p20", Price: 2}, Rating: rec(80), HeadLoss: types.HeadLoss{Velocity: 1.9}},
		{Pipe: types.Pipe{ID: "p25", Price: 2}, Rating: rec(80), HeadLoss: types.HeadLoss{Velocity: 1.3}},
	}
	got, ok := Select(cands, "")
	require.True(t, ok)
	assert.Equal(t, "p25", got.Item.Pipe.ID, "closer to 1.4 m/s wins the tie")
}
