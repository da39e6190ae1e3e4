// Package types provides type definitions for the profiles, postings and match results
// exchanged between the matching engine, the HTTP API and the CLI.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DayOfWeek is a day name as supplied by callers ("monday", "Mon", ...).
type DayOfWeek string

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// Weekday resolves the day name, folded the same way as skill and language tokens.
// The second return value is false for unknown names.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	wd, ok := dayNames[cases.Fold().String(norm.NFC.String(strings.TrimSpace(string(d))))]
	return wd, ok
}

// MoneyRange is an hourly rate or budget interval in a single currency.
type MoneyRange struct {
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Currency string  `json:"currency" yaml:"currency"`
}

// TimeWindow is a daily window of "HH:MM" clock values. Empty strings mean unset.
type TimeWindow struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

// IsZero reports whether neither bound is set.
func (w TimeWindow) IsZero() bool {
	return strings.TrimSpace(w.Start) == "" && strings.TrimSpace(w.End) == ""
}

// Location is a city/country pair.
type Location struct {
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
}

// Availability describes when a worker can take shifts.
type Availability struct {
	Days  []DayOfWeek `json:"days,omitempty" yaml:"days,omitempty"`
	Hours TimeWindow  `json:"hours" yaml:"hours"`
}

// Schedule describes when a job needs to be covered.
type Schedule struct {
	StartDate      string      `json:"startDate,omitempty" yaml:"startDate,omitempty"` // YYYY-MM-DD
	Days           []DayOfWeek `json:"days,omitempty" yaml:"days,omitempty"`
	PreferredTimes TimeWindow  `json:"preferredTimes" yaml:"preferredTimes"`
}
