package types

// Criterion names one scoring dimension.
type Criterion string

const (
	CriterionSkills       Criterion = "skills"
	CriterionLanguages    Criterion = "languages"
	CriterionExperience   Criterion = "experience"
	CriterionRate         Criterion = "rate"
	CriterionAvailability Criterion = "availability"
	CriterionLocation     Criterion = "location"
	CriterionReputation   Criterion = "reputation"
)

// Breakdown maps each evaluated criterion to its sub-score in [0,1].
// Criteria that could not be evaluated for a pair are absent.
type Breakdown map[Criterion]float64

// ScoreBreakdown is the explained score of one worker/job pair.
type ScoreBreakdown struct {
	MatchScore       int         `json:"matchScore" yaml:"matchScore"`
	Breakdown        Breakdown   `json:"breakdown" yaml:"breakdown"`
	ExcludedCriteria []Criterion `json:"excludedCriteria,omitempty" yaml:"excludedCriteria,omitempty"`
	MatchedSkills    []string    `json:"matchedSkills" yaml:"matchedSkills"`
	MissingSkills    []string    `json:"missingSkills" yaml:"missingSkills"`
	Notes            string      `json:"notes" yaml:"notes"`
}

// CandidateKind tells callers which summary fields are populated.
type CandidateKind string

const (
	CandidateWorker CandidateKind = "worker"
	CandidateJob    CandidateKind = "job"
)

// CandidateSummary is a denormalized view of the candidate for display.
type CandidateSummary struct {
	Kind    CandidateKind `json:"kind" yaml:"kind"`
	City    string        `json:"city,omitempty" yaml:"city,omitempty"`
	Country string        `json:"country,omitempty" yaml:"country,omitempty"`

	// Worker candidates
	DisplayName     string      `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Rating          *float64    `json:"rating,omitempty" yaml:"rating,omitempty"`
	ReviewCount     *int        `json:"reviewCount,omitempty" yaml:"reviewCount,omitempty"`
	ExperienceYears *float64    `json:"experienceYears,omitempty" yaml:"experienceYears,omitempty"`
	HourlyRate      *MoneyRange `json:"hourlyRate,omitempty" yaml:"hourlyRate,omitempty"`

	// Job candidates
	Title                   string       `json:"title,omitempty" yaml:"title,omitempty"`
	Budget                  *MoneyRange  `json:"budget,omitempty" yaml:"budget,omitempty"`
	UrgencyLevel            UrgencyLevel `json:"urgencyLevel,omitempty" yaml:"urgencyLevel,omitempty"`
	BackgroundCheckRequired *bool        `json:"backgroundCheckRequired,omitempty" yaml:"backgroundCheckRequired,omitempty"`
}

// MatchResult is one ranked recommendation.
type MatchResult struct {
	CandidateID      string      `json:"candidateId" yaml:"candidateId"`
	MatchScore       int         `json:"matchScore" yaml:"matchScore"`
	Breakdown        Breakdown   `json:"breakdown" yaml:"breakdown"`
	ExcludedCriteria []Criterion `json:"excludedCriteria,omitempty" yaml:"excludedCriteria,omitempty"`
	MatchedSkills    []string    `json:"matchedSkills" yaml:"matchedSkills"`
	MissingSkills    []string    `json:"missingSkills" yaml:"missingSkills"`
	Notes            string      `json:"notes" yaml:"notes"`
	CandidateSummary `yaml:",inline"`
}

// RecommendationsResponse is the envelope returned by the API and the CLI.
type RecommendationsResponse struct {
	Recommendations []MatchResult `json:"recommendations" yaml:"recommendations"`
}

// SummarizeWorker builds the display summary of a worker candidate.
func SummarizeWorker(w *WorkerProfile) CandidateSummary {
	rating := w.Rating
	reviews := w.ReviewCount
	experience := w.ExperienceYears
	rate := w.HourlyRate
	return CandidateSummary{
		Kind:            CandidateWorker,
		City:            w.Location.City,
		Country:         w.Location.Country,
		DisplayName:     w.DisplayName,
		Rating:          &rating,
		ReviewCount:     &reviews,
		ExperienceYears: &experience,
		HourlyRate:      &rate,
	}
}

// SummarizeJob builds the display summary of a job candidate.
func SummarizeJob(j *JobPosting) CandidateSummary {
	budget := j.Budget
	check := j.BackgroundCheckRequired
	return CandidateSummary{
		Kind:                    CandidateJob,
		City:                    j.Location.City,
		Country:                 j.Location.Country,
		Title:                   j.Title,
		Budget:                  &budget,
		UrgencyLevel:            j.UrgencyLevel,
		BackgroundCheckRequired: &check,
	}
}
