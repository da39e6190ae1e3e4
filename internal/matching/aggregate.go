package matching

import (
	"math"

	"github.com/jonathan/carematch/internal/types"
)

// criteriaOrder fixes the summation order so floating-point results never depend on
// map iteration.
var criteriaOrder = []types.Criterion{
	types.CriterionSkills,
	types.CriterionLanguages,
	types.CriterionExperience,
	types.CriterionRate,
	types.CriterionAvailability,
	types.CriterionLocation,
	types.CriterionReputation,
}

// Criteria returns the criteria in aggregation order.
func Criteria() []types.Criterion {
	return append([]types.Criterion(nil), criteriaOrder...)
}

// Aggregate combines defined sub-scores into a 0-100 match score, renormalizing the
// weights over the criteria that were defined. A pair with no weighted defined
// criterion scores 0.
func Aggregate(scores map[types.Criterion]SubScore, weights Weights) int {
	var weighted, total float64
	for _, c := range criteriaOrder {
		s, ok := scores[c]
		if !ok || !s.Defined {
			continue
		}
		w := weights.Of(c)
		weighted += w * s.Value
		total += w
	}
	if total <= 0 {
		return 0
	}

	score := int(math.Round(100 * weighted / total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
