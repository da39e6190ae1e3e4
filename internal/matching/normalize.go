package matching

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/carematch/internal/types"
)

const minutesPerDay = 24 * 60

// tokenSet is a set of canonical skill or language tokens.
type tokenSet map[string]struct{}

// normalizeTokens folds case, trims and collapses whitespace, and deduplicates.
// Synonyms are not resolved: "nanny" and "childcare" stay distinct.
func normalizeTokens(raw []string) tokenSet {
	set := make(tokenSet, len(raw))
	if len(raw) == 0 {
		return set
	}
	// A Caser holds state and must not be shared across goroutines.
	fold := cases.Fold()
	for _, r := range raw {
		token := strings.Join(strings.Fields(fold.String(norm.NFC.String(r))), " ")
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

func foldOne(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(norm.NFC.String(s))), " ")
}

// sorted returns the tokens in ascending order.
func (s tokenSet) sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// priceRange is a validated money interval. A malformed range (min > max) collapses to
// the point at min.
type priceRange struct {
	min, max float64
	currency string
	stated   bool
}

func normalizeRange(entity, id, field string, r types.MoneyRange) (priceRange, error) {
	if !isFinite(r.Min) || !isFinite(r.Max) {
		return priceRange{}, &ValidationError{Entity: entity, ID: id, Field: field, Message: "range bounds must be finite"}
	}
	currency := foldOne(r.Currency)
	pr := priceRange{
		min:      r.Min,
		max:      r.Max,
		currency: currency,
		stated:   !(currency == "" && r.Min == 0 && r.Max == 0),
	}
	if pr.min > pr.max {
		pr.max = pr.min
	}
	return pr, nil
}

// daySet is a 7-bit set of weekdays, bit 0 = Sunday.
type daySet uint8

const allDays daySet = 1<<7 - 1

func (d daySet) count() int { return bits.OnesCount8(uint8(d)) }

func normalizeDays(entity, id, field string, days []types.DayOfWeek) (daySet, error) {
	var set daySet
	for _, d := range days {
		wd, ok := d.Weekday()
		if !ok {
			return 0, &ValidationError{Entity: entity, ID: id, Field: field, Message: fmt.Sprintf("unknown day %q", d)}
		}
		set |= 1 << uint(wd)
	}
	return set, nil
}

// minuteSpan is a half-open minute-of-day interval. Wrapping past midnight is not
// supported; an interval ending at or before its start is empty.
type minuteSpan struct {
	start, end int
}

var wholeDay = minuteSpan{start: 0, end: minutesPerDay}

func (m minuteSpan) length() int {
	if m.end <= m.start {
		return 0
	}
	return m.end - m.start
}

func (m minuteSpan) overlap(o minuteSpan) int {
	return minuteSpan{start: max(m.start, o.start), end: min(m.end, o.end)}.length()
}

// parseClock parses "HH:MM" into minutes after midnight; "24:00" is end of day.
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock value out of range: %q", s)
	}
	return h*60 + m, nil
}

// normalizeWindow converts a clock window; a missing bound extends to that end of the day.
func normalizeWindow(entity, id, field string, w types.TimeWindow) (minuteSpan, error) {
	span := wholeDay
	if strings.TrimSpace(w.Start) != "" {
		v, err := parseClock(w.Start)
		if err != nil {
			return minuteSpan{}, &ValidationError{Entity: entity, ID: id, Field: field + ".start", Message: err.Error()}
		}
		span.start = v
	}
	if strings.TrimSpace(w.End) != "" {
		v, err := parseClock(w.End)
		if err != nil {
			return minuteSpan{}, &ValidationError{Entity: entity, ID: id, Field: field + ".end", Message: err.Error()}
		}
		span.end = v
	}
	return span, nil
}

// weekWindow is the same daily span repeated on a set of days.
type weekWindow struct {
	days     daySet
	span     minuteSpan
	declared bool
}

type place struct {
	city, country string
}

func normalizePlace(l types.Location) place {
	return place{city: foldOne(l.City), country: foldOne(l.Country)}
}

// worker is the canonical form of a WorkerProfile.
type worker struct {
	id           string
	skills       tokenSet
	languages    tokenSet
	experience   float64
	rate         priceRange
	availability weekWindow
	rating       float64
	reviews      int
	location     place
}

// job is the canonical form of a JobPosting.
type job struct {
	id         string
	skills     tokenSet
	languages  tokenSet
	experience float64
	budget     priceRange
	schedule   weekWindow
	urgency    types.UrgencyLevel
	location   place
}

func normalizeWorker(w *types.WorkerProfile) (*worker, error) {
	const entity = "worker"
	if !isFinite(w.ExperienceYears) {
		return nil, &ValidationError{Entity: entity, ID: w.ID, Field: "experienceYears", Message: "must be finite"}
	}
	if !isFinite(w.Rating) {
		return nil, &ValidationError{Entity: entity, ID: w.ID, Field: "rating", Message: "must be finite"}
	}
	if err := w.Validate(); err != nil {
		return nil, fromValidator(entity, w.ID, err)
	}

	rate, err := normalizeRange(entity, w.ID, "hourlyRate", w.HourlyRate)
	if err != nil {
		return nil, err
	}
	days, err := normalizeDays(entity, w.ID, "availability.days", w.Availability.Days)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = allDays
	}
	span, err := normalizeWindow(entity, w.ID, "availability.hours", w.Availability.Hours)
	if err != nil {
		return nil, err
	}
	declared := len(w.Availability.Days) > 0 || !w.Availability.Hours.IsZero()

	return &worker{
		id:           w.ID,
		skills:       normalizeTokens(w.Skills),
		languages:    normalizeTokens(w.Languages),
		experience:   w.ExperienceYears,
		rate:         rate,
		availability: weekWindow{days: days, span: span, declared: declared},
		rating:       w.Rating,
		reviews:      w.ReviewCount,
		location:     normalizePlace(w.Location),
	}, nil
}

func normalizeJob(j *types.JobPosting) (*job, error) {
	const entity = "job"
	if !isFinite(j.RequiredExperience) {
		return nil, &ValidationError{Entity: entity, ID: j.ID, Field: "requiredExperience", Message: "must be finite"}
	}
	if err := j.Validate(); err != nil {
		return nil, fromValidator(entity, j.ID, err)
	}

	budget, err := normalizeRange(entity, j.ID, "budget", j.Budget)
	if err != nil {
		return nil, err
	}
	schedule, err := normalizeSchedule(j)
	if err != nil {
		return nil, err
	}

	return &job{
		id:         j.ID,
		skills:     normalizeTokens(j.RequiredSkills),
		languages:  normalizeTokens(j.RequiredLanguages),
		experience: j.RequiredExperience,
		budget:     budget,
		schedule:   schedule,
		urgency:    j.UrgencyLevel,
		location:   normalizePlace(j.Location),
	}, nil
}

// normalizeSchedule resolves the days a job needs covered: the explicit day list, else the
// weekday of the start date, else every day.
func normalizeSchedule(j *types.JobPosting) (weekWindow, error) {
	const entity = "job"
	s := j.Schedule
	startDate := strings.TrimSpace(s.StartDate)

	days, err := normalizeDays(entity, j.ID, "schedule.days", s.Days)
	if err != nil {
		return weekWindow{}, err
	}
	if days == 0 && startDate != "" {
		start, err := time.Parse(time.DateOnly, startDate)
		if err != nil {
			return weekWindow{}, &ValidationError{Entity: entity, ID: j.ID, Field: "schedule.startDate", Message: "expected YYYY-MM-DD"}
		}
		days = 1 << uint(start.Weekday())
	}
	if days == 0 {
		days = allDays
	}

	span, err := normalizeWindow(entity, j.ID, "schedule.preferredTimes", s.PreferredTimes)
	if err != nil {
		return weekWindow{}, err
	}

	declared := len(s.Days) > 0 || startDate != "" || !s.PreferredTimes.IsZero()
	return weekWindow{days: days, span: span, declared: declared}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
