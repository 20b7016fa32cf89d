package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalendarDate(t *testing.T) {
	tests := []struct {
		name      string
		dateStr   string
		expectedY int
		expectedM time.Month
		expectedD int
		expectErr bool
	}{
		{"ISO format", "2024-01-15", 2024, time.January, 15, false},
		{"ISO with surrounding spaces", "  2024-01-15 ", 2024, time.January, 15, false},
		{"ISO with time", "2024-03-31 23:30:00", 2024, time.March, 31, false},
		{"RFC3339 UTC midnight keeps the written day", "2024-01-15T00:00:00Z", 2024, time.January, 15, false},
		{"RFC3339 with offset keeps the written day", "2024-06-01T23:00:00-08:00", 2024, time.June, 1, false},
		{"US format", "01/15/2024", 2024, time.January, 15, false},
		{"European format", "15.01.2024", 2024, time.January, 15, false},
		{"Month name", "15-Jan-2024", 2024, time.January, 15, false},
		{"Long month", "Jan 5, 2024", 2024, time.January, 5, false},
		{"Empty string", "", 0, 0, 0, true},
		{"Invalid", "yesterday", 0, 0, 0, true},
	}

	loc := time.FixedZone("UTC-5", -5*3600)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, err := ParseCalendarDate(tc.dateStr, loc)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
			assert.Equal(t, loc, date.Location())
			assert.Zero(t, date.Hour())
		})
	}
}

func TestParseCalendarDate_NoDayShiftAcrossZones(t *testing.T) {
	for _, offset := range []int{-12, -5, 0, 3, 14} {
		loc := time.FixedZone("zone", offset*3600)
		date, err := ParseCalendarDate("2024-02-29", loc)
		require.NoError(t, err)
		assert.Equal(t, "2024-02-29", ToISODate(date), "offset %d", offset)
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	noon := time.Date(2024, 5, 10, 12, 34, 56, 789, loc)

	start := StartOfDay(noon)
	end := EndOfDay(noon)

	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 5, 10, 23, 59, 59, 999000000, loc), end)
}

func TestMonthsBetween(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 6, MonthsBetween(now, time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, MonthsBetween(now, time.Date(2026, time.October, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -2, MonthsBetween(now, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthKeyAndSameDay(t *testing.T) {
	a := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01", MonthKey(a))
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(b))
}
