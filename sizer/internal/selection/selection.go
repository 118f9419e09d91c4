// Package selection picks one item per equipment class from a scored
// candidate list.
//
// The policy is tiered: keep the current item while it is still
// Recommended, else take the best Recommended item, else the best Usable
// item, else the best item regardless of usability. A non-empty list always
// yields a choice; callers surface anything below Recommended to the user.
package selection

import (
	"sort"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Candidate is a scored catalog item.
type Candidate interface {
	CandidateID() string
	CandidatePrice() float64
	CandidateRating() types.Rating
	// IdealDistance is the tie-break closeness to the class ideal; lower wins.
	IdealDistance() float64
}

// Choice is the outcome of Select.
type Choice[C Candidate] struct {
	Item C
	Tier types.SelectionTier
}

// Ideal reports whether the choice needs no user attention.
func (c Choice[C]) Ideal() bool {
	return c.Tier == types.TierCurrent || c.Tier == types.TierRecommended
}

// Rank returns a copy of cands ordered best first: score descending, then
// price ascending, then ideal distance ascending, then ID for determinism.
func Rank[C Candidate](cands []C) []C {
	out := make([]C, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less[C Candidate](a, b C) bool {
	sa, sb := a.CandidateRating().Score, b.CandidateRating().Score
	if sa != sb {
		return sa > sb
	}
	pa, pb := a.CandidatePrice(), b.CandidatePrice()
	if pa != pb {
		return pa < pb
	}
	da, db := a.IdealDistance(), b.IdealDistance()
	if da != db {
		return da < db
	}
	return a.CandidateID() < b.CandidateID()
}

// Select applies the tiered policy to cands. currentID may be empty. The
// boolean is false only when cands is empty.
func Select[C Candidate](cands []C, currentID string) (Choice[C], bool) {
	if len(cands) == 0 {
		return Choice[C]{Tier: types.TierNone}, false
	}

	if currentID != "" {
		for _, c := range cands {
			if c.CandidateID() == currentID && c.CandidateRating().Recommended {
				return Choice[C]{Item: c, Tier: types.TierCurrent}, true
			}
		}
	}

	ranked := Rank(cands)
	for _, c := range ranked {
		if c.CandidateRating().Recommended {
			return Choice[C]{Item: c, Tier: types.TierRecommended}, true
		}
	}
	for _, c := range ranked {
		if c.CandidateRating().Usable {
			return Choice[C]{Item: c, Tier: types.TierUsable}, true
		}
	}
	return Choice[C]{Item: ranked[0], Tier: types.TierFallback}, true
}
