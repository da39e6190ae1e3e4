package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/carematch/internal/types"
)

func TestNormalizeTokens(t *testing.T) {
	set := normalizeTokens([]string{"  Housekeeping ", "housekeeping", "Child   Care", "", "   ", "STRASSE", "straße"})
	assert.Equal(t, []string{"child care", "housekeeping", "strasse"}, set.sorted())
}

func TestNormalizeTokens_NoSynonyms(t *testing.T) {
	set := normalizeTokens([]string{"nanny", "childcare"})
	assert.Len(t, set, 2)
}

func TestNormalizeTokens_Empty(t *testing.T) {
	assert.Empty(t, normalizeTokens(nil))
}

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name    string
		in      types.MoneyRange
		want    priceRange
		wantErr bool
	}{
		{
			name: "well formed",
			in:   types.MoneyRange{Min: 15, Max: 25, Currency: "usd"},
			want: priceRange{min: 15, max: 25, currency: "usd", stated: true},
		},
		{
			name: "min above max collapses to point",
			in:   types.MoneyRange{Min: 30, Max: 20, Currency: "USD"},
			want: priceRange{min: 30, max: 30, currency: "usd", stated: true},
		},
		{
			name: "unstated",
			in:   types.MoneyRange{},
			want: priceRange{},
		},
		{
			name: "zero amounts with currency are stated",
			in:   types.MoneyRange{Currency: "EUR"},
			want: priceRange{currency: "eur", stated: true},
		},
		{
			name:    "infinite bound",
			in:      types.MoneyRange{Min: 1, Max: math.Inf(1), Currency: "USD"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeRange("worker", "w1", "hourlyRate", tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDays(t *testing.T) {
	set, err := normalizeDays("worker", "w1", "availability.days", []types.DayOfWeek{"Mon", "wednesday", "MON", "sun"})
	require.NoError(t, err)
	assert.Equal(t, 3, set.count())
	assert.Equal(t, daySet(1<<0|1<<1|1<<3), set)

	_, err = normalizeDays("worker", "w1", "availability.days", []types.DayOfWeek{"funday"})
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "availability.days", ve.Field)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"9:30", 570, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"1230", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeWindow(t *testing.T) {
	span, err := normalizeWindow("job", "j1", "schedule.preferredTimes", types.TimeWindow{})
	require.NoError(t, err)
	assert.Equal(t, wholeDay, span)

	span, err = normalizeWindow("job", "j1", "schedule.preferredTimes", types.TimeWindow{Start: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, minuteSpan{start: 1080, end: 1440}, span)

	span, err = normalizeWindow("job", "j1", "schedule.preferredTimes", types.TimeWindow{Start: "22:00", End: "06:00"})
	require.NoError(t, err)
	assert.Equal(t, 0, span.length())

	_, err = normalizeWindow("job", "j1", "schedule.preferredTimes", types.TimeWindow{End: "25:00"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "schedule.preferredTimes.end", ve.Field)
}

func TestNormalizeSchedule(t *testing.T) {
	t.Run("explicit days", func(t *testing.T) {
		ww, err := normalizeSchedule(&types.JobPosting{ID: "j1", Schedule: types.Schedule{Days: []types.DayOfWeek{"tue", "thu"}}})
		require.NoError(t, err)
		assert.True(t, ww.declared)
		assert.Equal(t, 2, ww.days.count())
	})

	t.Run("start date weekday", func(t *testing.T) {
		// 2024-01-01 was a Monday.
		ww, err := normalizeSchedule(&types.JobPosting{ID: "j1", Schedule: types.Schedule{StartDate: "2024-01-01"}})
		require.NoError(t, err)
		assert.True(t, ww.declared)
		assert.Equal(t, daySet(1<<1), ww.days)
	})

	t.Run("times only means every day", func(t *testing.T) {
		ww, err := normalizeSchedule(&types.JobPosting{ID: "j1", Schedule: types.Schedule{PreferredTimes: types.TimeWindow{Start: "09:00", End: "17:00"}}})
		require.NoError(t, err)
		assert.True(t, ww.declared)
		assert.Equal(t, allDays, ww.days)
		assert.Equal(t, 480, ww.span.length())
	})

	t.Run("nothing declared", func(t *testing.T) {
		ww, err := normalizeSchedule(&types.JobPosting{ID: "j1"})
		require.NoError(t, err)
		assert.False(t, ww.declared)
	})

	t.Run("bad start date", func(t *testing.T) {
		_, err := normalizeSchedule(&types.JobPosting{ID: "j1", Schedule: types.Schedule{StartDate: "01/02/2024"}})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "schedule.startDate", ve.Field)
	})
}

func TestNormalizeWorker_Validation(t *testing.T) {
	tests := []struct {
		name  string
		w     types.WorkerProfile
		field string
	}{
		{"negative experience", types.WorkerProfile{ID: "w1", ExperienceYears: -1}, "experienceYears"},
		{"nan experience", types.WorkerProfile{ID: "w1", ExperienceYears: math.NaN()}, "experienceYears"},
		{"rating above five", types.WorkerProfile{ID: "w1", Rating: 6}, "rating"},
		{"negative reviews", types.WorkerProfile{ID: "w1", ReviewCount: -2}, "reviewCount"},
		{"bad hours", types.WorkerProfile{ID: "w1", Availability: types.Availability{Hours: types.TimeWindow{Start: "noon"}}}, "availability.hours.start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeWorker(&tt.w)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "worker", ve.Entity)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNormalizeJob_Validation(t *testing.T) {
	_, err := normalizeJob(&types.JobPosting{ID: "j1", RequiredExperience: math.Inf(1)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "requiredExperience", ve.Field)

	_, err = normalizeJob(&types.JobPosting{ID: "j1", UrgencyLevel: "asap"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "urgencyLevel", ve.Field)
}

func TestNormalizeWorker_Availability(t *testing.T) {
	t.Run("nothing declared", func(t *testing.T) {
		w, err := normalizeWorker(&types.WorkerProfile{ID: "w1"})
		require.NoError(t, err)
		assert.False(t, w.availability.declared)
	})

	t.Run("hours only means every day", func(t *testing.T) {
		w, err := normalizeWorker(&types.WorkerProfile{ID: "w1", Availability: types.Availability{Hours: types.TimeWindow{Start: "08:00", End: "18:00"}}})
		require.NoError(t, err)
		assert.True(t, w.availability.declared)
		assert.Equal(t, allDays, w.availability.days)
		assert.Equal(t, minuteSpan{start: 480, end: 1080}, w.availability.span)
	})

	t.Run("days only means all day", func(t *testing.T) {
		w, err := normalizeWorker(&types.WorkerProfile{ID: "w1", Availability: types.Availability{Days: []types.DayOfWeek{"sat"}}})
		require.NoError(t, err)
		assert.True(t, w.availability.declared)
		assert.Equal(t, daySet(1<<6), w.availability.days)
		assert.Equal(t, wholeDay, w.availability.span)
	})
}

func TestNormalizeWorker_FoldsLocation(t *testing.T) {
	w, err := normalizeWorker(&types.WorkerProfile{ID: "w1", Location: types.Location{City: " São  Paulo", Country: "BR"}})
	require.NoError(t, err)
	assert.Equal(t, place{city: "são paulo", country: "br"}, w.location)
}
