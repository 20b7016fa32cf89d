package session

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-dashboard/internal/models"
)

// Event is a user action or pipeline outcome applied by Reduce.
type Event interface {
	isEvent()
}

// Uploaded replaces the transaction set. Results of an upload older than the
// one already shown are ignored.
type Uploaded struct {
	Transactions []models.Transaction
	Source       string
	Seq          uint64
	At           time.Time
}

// UploadFailed reports a rejected upload; the previous data stays.
type UploadFailed struct {
	Err error
	Seq uint64
	At  time.Time
}

// FilterApplied restricts the view to a date range.
type FilterApplied struct {
	Range models.DateRange
	At    time.Time
}

// FilterCleared removes the date range.
type FilterCleared struct{}

// SortClicked selects a column. The active column flips direction; any other
// column starts ascending.
type SortClicked struct {
	Column models.SortColumn
}

// CurrencyChanged selects the display currency.
type CurrencyChanged struct {
	Currency string
}

// RecentToggled switches between the preview and the full table.
type RecentToggled struct{}

// EditGoal opens a goal for editing; an empty ID closes the editor.
type EditGoal struct {
	ID string
}

// Reset returns to the initial state, keeping the display currency.
type Reset struct{}

// ErrorRaised shows an error in the notice slot.
type ErrorRaised struct {
	Err error
	At  time.Time
}

// Info shows a message in the notice slot.
type Info struct {
	Message string
	At      time.Time
}

func (Uploaded) isEvent()        {}
func (UploadFailed) isEvent()    {}
func (FilterApplied) isEvent()   {}
func (FilterCleared) isEvent()   {}
func (SortClicked) isEvent()     {}
func (CurrencyChanged) isEvent() {}
func (RecentToggled) isEvent()   {}
func (EditGoal) isEvent()        {}
func (Reset) isEvent()           {}
func (ErrorRaised) isEvent()     {}
func (Info) isEvent()            {}

// Reduce returns the state after ev. s is not modified.
func Reduce(s State, ev Event) State {
	next := s
	switch e := ev.(type) {
	case Uploaded:
		if e.Seq < s.UploadSeq {
			return s
		}
		next.All = models.CloneTransactions(e.Transactions)
		next.Source = e.Source
		next.UploadSeq = e.Seq
		next.Range = models.DateRange{}
		next.Notice = newNotice(NoticeInfo, fmt.Sprintf("Loaded %d transactions from %s.", len(e.Transactions), e.Source), e.At)

	case UploadFailed:
		if e.Seq < s.UploadSeq {
			return s
		}
		next.Notice = newNotice(NoticeError, errorMessage(e.Err), e.At)

	case FilterApplied:
		if err := e.Range.Validate(); err != nil {
			next.Notice = newNotice(NoticeError, errorMessage(err), e.At)
			return next
		}
		next.Range = e.Range

	case FilterCleared:
		next.Range = models.DateRange{}

	case SortClicked:
		if e.Column == s.Sort.Column {
			next.Sort.Direction = s.Sort.Direction.Toggle()
		} else {
			next.Sort = models.SortState{Column: e.Column, Direction: models.Ascending}
		}

	case CurrencyChanged:
		if e.Currency != "" {
			next.Currency = strings.ToUpper(e.Currency)
		}

	case RecentToggled:
		next.ShowAll = !s.ShowAll

	case EditGoal:
		next.EditingGoalID = e.ID

	case Reset:
		next = Initial(s.Currency)
		next.UploadSeq = s.UploadSeq

	case ErrorRaised:
		next.Notice = newNotice(NoticeError, errorMessage(e.Err), e.At)

	case Info:
		next.Notice = newNotice(NoticeInfo, e.Message, e.At)
	}
	return next
}

func errorMessage(err error) string {
	if err == nil {
		return "Unknown error"
	}
	return err.Error()
}
