package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// UrgencyLevel is how soon a household needs the job filled.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// Rank orders urgency levels for tie-breaking; unset sorts below low.
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// JobStatus mirrors the externally owned posting lifecycle.
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
	JobStatusFilled    JobStatus = "filled"
	JobStatusCancelled JobStatus = "cancelled"
)

// Matchable reports whether postings in this status may be offered to workers.
func (s JobStatus) Matchable() bool {
	return s == JobStatusPublished
}

// WorkerProfile is a domestic worker as registered on the platform.
type WorkerProfile struct {
	ID              string       `json:"id" yaml:"id" validate:"required"`
	DisplayName     string       `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Available       bool         `json:"available" yaml:"available"`
	Skills          []string     `json:"skills,omitempty" yaml:"skills,omitempty"`
	Languages       []string     `json:"languages,omitempty" yaml:"languages,omitempty"`
	ExperienceYears float64      `json:"experienceYears" yaml:"experienceYears" validate:"gte=0"`
	HourlyRate      MoneyRange   `json:"hourlyRate" yaml:"hourlyRate"`
	Availability    Availability `json:"availability" yaml:"availability"`
	Rating          float64      `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	ReviewCount     int          `json:"reviewCount" yaml:"reviewCount" validate:"gte=0"`
	Location        Location     `json:"location" yaml:"location"`
}

// Validate checks the structural constraints of the profile.
func (w *WorkerProfile) Validate() error {
	return validate.Struct(w)
}

// JobPosting is a household's request for help.
type JobPosting struct {
	ID                      string       `json:"id" yaml:"id" validate:"required"`
	Title                   string       `json:"title,omitempty" yaml:"title,omitempty"`
	RequiredSkills          []string     `json:"requiredSkills,omitempty" yaml:"requiredSkills,omitempty"`
	RequiredLanguages       []string     `json:"requiredLanguages,omitempty" yaml:"requiredLanguages,omitempty"`
	RequiredExperience      float64      `json:"requiredExperience" yaml:"requiredExperience" validate:"gte=0"`
	Budget                  MoneyRange   `json:"budget" yaml:"budget"`
	Schedule                Schedule     `json:"schedule" yaml:"schedule"`
	UrgencyLevel            UrgencyLevel `json:"urgencyLevel,omitempty" yaml:"urgencyLevel,omitempty" validate:"omitempty,oneof=low medium high"`
	BackgroundCheckRequired bool         `json:"backgroundCheckRequired" yaml:"backgroundCheckRequired"`
	Location                Location     `json:"location" yaml:"location"`
	Status                  JobStatus    `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=draft published closed filled cancelled"`
}

// Validate checks the structural constraints of the posting.
func (j *JobPosting) Validate() error {
	return validate.Struct(j)
}
