package models

import (
	"fmt"
	"time"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/dateutils"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD".
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// IsZero reports whether no bound is set.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() && dr.End.IsZero()
}

// Normalized widens the bounds to 00:00:00.000 of the start day and
// 23:59:59.999 of the end day, whatever time of day they carry.
func (dr DateRange) Normalized() DateRange {
	return DateRange{Start: dateutils.StartOfDay(dr.Start), End: dateutils.EndOfDay(dr.End)}
}

// Validate rejects a range whose end day precedes its start day.
func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return apperror.Invalid("date range", "both start and end dates are required")
	}
	if dateutils.StartOfDay(dr.End).Before(dateutils.StartOfDay(dr.Start)) {
		return apperror.Invalid("date range", "end date %s is before start date %s",
			dateutils.ToISODate(dr.End), dateutils.ToISODate(dr.Start))
	}
	return nil
}

// Contains reports whether t falls inside the normalized range.
func (dr DateRange) Contains(t time.Time) bool {
	n := dr.Normalized()
	return !t.Before(n.Start) && !t.After(n.End)
}

// Merge combines this range with another, returning the overall range.
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// SpanOf returns the range covering every transaction date.
func SpanOf(txs []Transaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		dr = dr.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}
	return dr
}
