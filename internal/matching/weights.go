package matching

import (
	"fmt"
	"math"

	"github.com/jonathan/carematch/internal/types"
)

// Weights is the static importance of each criterion. Weights need not sum to 1:
// the aggregator renormalizes over whichever criteria are defined for a pair.
type Weights struct {
	Skills       float64 `json:"skills" mapstructure:"skills"`
	Languages    float64 `json:"languages" mapstructure:"languages"`
	Experience   float64 `json:"experience" mapstructure:"experience"`
	Rate         float64 `json:"rate" mapstructure:"rate"`
	Availability float64 `json:"availability" mapstructure:"availability"`
	Location     float64 `json:"location" mapstructure:"location"`
	Reputation   float64 `json:"reputation" mapstructure:"reputation"`
}

// DefaultWeights returns the built-in weight table.
func DefaultWeights() Weights {
	return Weights{
		Skills:       0.30,
		Languages:    0.05,
		Experience:   0.15,
		Rate:         0.15,
		Availability: 0.15,
		Location:     0.10,
		Reputation:   0.10,
	}
}

// Of returns the weight of criterion c, or 0 for an unknown criterion.
func (w Weights) Of(c types.Criterion) float64 {
	switch c {
	case types.CriterionSkills:
		return w.Skills
	case types.CriterionLanguages:
		return w.Languages
	case types.CriterionExperience:
		return w.Experience
	case types.CriterionRate:
		return w.Rate
	case types.CriterionAvailability:
		return w.Availability
	case types.CriterionLocation:
		return w.Location
	case types.CriterionReputation:
		return w.Reputation
	default:
		return 0
	}
}

// Validate requires every weight to be finite and non-negative, and at least one to be positive.
func (w Weights) Validate() error {
	total := 0.0
	for _, c := range criteriaOrder {
		v := w.Of(c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be finite", c)
		}
		if v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %g", c, v)
		}
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// Config is the engine's read-only configuration, loaded once at startup.
type Config struct {
	Weights Weights `json:"weights" mapstructure:"weights"`
	// ReviewThreshold is the review count at which a rating is fully trusted.
	ReviewThreshold int `json:"reviewThreshold" mapstructure:"review_threshold"`
	// Parallelism bounds the goroutines used to score one request; 1 scores sequentially.
	Parallelism int `json:"parallelism" mapstructure:"parallelism"`
	// ParallelThreshold is the smallest pool that is worth fanning out.
	ParallelThreshold int `json:"parallelThreshold" mapstructure:"parallel_threshold"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		ReviewThreshold:   20,
		Parallelism:       1,
		ParallelThreshold: 256,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.ReviewThreshold < 1 {
		return fmt.Errorf("review threshold must be at least 1, got %d", c.ReviewThreshold)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel threshold must be non-negative, got %d", c.ParallelThreshold)
	}
	return nil
}
