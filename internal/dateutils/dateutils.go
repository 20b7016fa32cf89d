// Package dateutils provides the calendar-date rules shared by the pipeline.
//
// A transaction date is a calendar day: midnight in the configured location,
// with no further reinterpretation across time zones once normalized.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted for transaction dates
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutISOTime   = "2006-01-02 15:04:05"
	DateLayoutRFC3339   = time.RFC3339
	DateLayoutISOLocal  = "2006-01-02T15:04:05"
	DateLayoutUS        = "01/02/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutWithMonth = "2-Jan-2006"
	DateLayoutLong      = "Jan 2, 2006"
	MonthKeyLayout      = "2006-01"
)

// CommonFormats lists the layouts tried by ParseCalendarDate, in order.
// Slash dates are read month-first.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutISOTime,
	DateLayoutRFC3339,
	DateLayoutISOLocal,
	DateLayoutUS,
	DateLayoutEuropean,
	DateLayoutWithMonth,
	DateLayoutLong,
	"January 2, 2006",
	"2006/01/02",
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseCalendarDate parses dateStr and returns the calendar day it names at
// midnight in loc. The day written in the text is kept as-is: a date-only
// string or a timestamp carrying its own offset never shifts to a
// neighbouring day because of loc's offset.
func ParseCalendarDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range CommonFormats {
		t, err := time.ParseInLocation(layout, clean, loc)
		if err == nil {
			return CalendarDate(t.Year(), t.Month(), t.Day(), loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CalendarDate returns midnight of the given day in loc.
func CalendarDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// MonthsBetween counts calendar months from from to to, ignoring days:
// (toYear-fromYear)*12 - fromMonth + toMonth. Negative when to is earlier.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 - int(from.Month()) + int(to.Month())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
