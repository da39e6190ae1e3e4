package matching

import (
	"sort"
)

// Scored is one candidate ready for ranking.
type Scored struct {
	ID         string
	MatchScore int
	// Reputation is the reputation sub-score, the first tie-breaker.
	Reputation float64
	// TieKey is experience years for worker candidates and urgency rank for job candidates.
	TieKey float64
	// Index is the candidate's position in the caller's pool.
	Index int
}

// Rank orders candidates best first and keeps the top limit. Ties on score fall back to
// reputation, then the tie key, then ascending id, so the order is total.
func Rank(candidates []Scored, limit int) ([]Scored, error) {
	if limit <= 0 {
		return nil, &ValidationError{Entity: "request", Field: "limit", Message: "must be a positive integer"}
	}

	ranked := make([]Scored, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.Reputation != b.Reputation {
			return a.Reputation > b.Reputation
		}
		if a.TieKey != b.TieKey {
			return a.TieKey > b.TieKey
		}
		return a.ID < b.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
