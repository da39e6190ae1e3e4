package matching

import (
	"math"

	"github.com/jonathan/carematch/internal/types"
)

// SubScore is one criterion's score for a pair. An undefined sub-score means the
// criterion could not be evaluated and is left out of aggregation.
type SubScore struct {
	Value   float64
	Defined bool
}

// Undefined is the sub-score of a criterion that does not apply to a pair.
var Undefined = SubScore{}

// Defined wraps v as a sub-score, clamped to [0,1] and rounded to 4 decimals.
func Defined(v float64) SubScore {
	return SubScore{Value: round4(clamp01(v)), Defined: true}
}

// pairScore is everything computed for one (worker, job) pair.
type pairScore struct {
	scores     map[types.Criterion]SubScore
	matchScore int
	matched    []string
	missing    []string
}

// scorePair evaluates every criterion for a pair. Both recommendation directions call
// this, so a pair scores the same whichever side is the anchor.
func scorePair(w *worker, j *job, cfg Config) pairScore {
	matched, missing := splitSkills(j.skills, w.skills)

	scores := map[types.Criterion]SubScore{
		types.CriterionSkills:       scoreOverlap(j.skills, w.skills),
		types.CriterionLanguages:    scoreOverlap(j.languages, w.languages),
		types.CriterionExperience:   scoreExperience(w.experience, j.experience),
		types.CriterionRate:         scoreRate(w.rate, j.budget),
		types.CriterionAvailability: scoreAvailability(w.availability, j.schedule),
		types.CriterionLocation:     scoreLocation(w.location, j.location),
		types.CriterionReputation:   scoreReputation(w.rating, w.reviews, cfg.ReviewThreshold),
	}

	return pairScore{
		scores:     scores,
		matchScore: Aggregate(scores, cfg.Weights),
		matched:    matched,
		missing:    missing,
	}
}

// breakdown converts the pair score into its public explained form.
func (p pairScore) breakdown() types.ScoreBreakdown {
	b := types.ScoreBreakdown{
		MatchScore:    p.matchScore,
		Breakdown:     make(types.Breakdown, len(p.scores)),
		MatchedSkills: p.matched,
		MissingSkills: p.missing,
		Notes:         generateNotes(p),
	}
	for _, c := range criteriaOrder {
		s := p.scores[c]
		if !s.Defined {
			b.ExcludedCriteria = append(b.ExcludedCriteria, c)
			continue
		}
		b.Breakdown[c] = s.Value
	}
	return b
}

// scoreOverlap is the fraction of required tokens the candidate covers.
func scoreOverlap(required, have tokenSet) SubScore {
	if len(required) == 0 {
		return Undefined
	}
	hits := 0
	for t := range required {
		if _, ok := have[t]; ok {
			hits++
		}
	}
	return Defined(float64(hits) / float64(len(required)))
}

// splitSkills partitions the required skills into covered and missing, both sorted.
func splitSkills(required, have tokenSet) (matched, missing []string) {
	matched = make([]string, 0, len(required))
	missing = make([]string, 0)
	for _, t := range required.sorted() {
		if _, ok := have[t]; ok {
			matched = append(matched, t)
		} else {
			missing = append(missing, t)
		}
	}
	return matched, missing
}

func scoreExperience(years, required float64) SubScore {
	if required <= 0 {
		return Defined(1)
	}
	return Defined(math.Min(1, years/required))
}

// scoreRate compares the worker's asking range with the job budget. Overlapping ranges
// score 1; otherwise the score decays linearly with the gap measured in budget widths.
func scoreRate(rate, budget priceRange) SubScore {
	if !rate.stated || !budget.stated || rate.currency != budget.currency {
		return Undefined
	}
	if rate.min <= budget.max && budget.min <= rate.max {
		return Defined(1)
	}

	// Asking below the budget decays the same as asking above it.
	gap := rate.min - budget.max
	if budget.min > rate.max {
		gap = budget.min - rate.max
	}

	width := budget.max - budget.min
	if width <= 0 {
		width = math.Abs(budget.max)
	}
	if width == 0 {
		return Defined(0)
	}
	return Defined(math.Max(0, 1-gap/width))
}

// scoreAvailability is the share of the job's weekly minutes the worker can cover.
// Either side leaving availability unstated makes the criterion undefined.
func scoreAvailability(worker, schedule weekWindow) SubScore {
	jobMinutes := schedule.span.length()
	if !worker.declared || !schedule.declared || jobMinutes == 0 {
		return Undefined
	}
	days := (schedule.days & worker.days).count()
	minutes := schedule.span.overlap(worker.span)
	covered := float64(days) * float64(minutes)
	needed := float64(schedule.days.count()) * float64(jobMinutes)
	return Defined(covered / needed)
}

func scoreLocation(worker, job place) SubScore {
	if worker.country == "" || job.country == "" {
		return Undefined
	}
	if worker.country != job.country {
		return Defined(0)
	}
	if worker.city != "" && worker.city == job.city {
		return Defined(1)
	}
	return Defined(0.5)
}

// scoreReputation shrinks the rating toward a neutral 0.5 until the worker has
// threshold reviews.
func scoreReputation(rating float64, reviews, threshold int) SubScore {
	if threshold < 1 {
		threshold = 1
	}
	confidence := math.Min(1, float64(max(reviews, 0))/float64(threshold))
	return Defined(confidence*rating/5 + (1-confidence)*0.5)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
