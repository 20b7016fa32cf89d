// Package session holds the dashboard state and the reducer that applies user
// events to it. State values are never mutated in place.
package session

import (
	"strings"
	"time"

	"fjacquet/finance-dashboard/internal/currencyutils"
	"fjacquet/finance-dashboard/internal/models"
	"fjacquet/finance-dashboard/internal/tableview"
)

// NoticeDuration is how long a notice stays visible.
const NoticeDuration = 5 * time.Second

// NoticeLevel tells the renderer how to style a notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is the single message slot. A new notice replaces the current one.
type Notice struct {
	Message  string        `json:"message"`
	Level    NoticeLevel   `json:"level"`
	ShownAt  time.Time     `json:"shownAt"`
	Duration time.Duration `json:"-"`
}

// Active reports whether the notice is still visible at now.
func (n Notice) Active(now time.Time) bool {
	if n.Message == "" {
		return false
	}
	return now.Before(n.ShownAt.Add(n.Duration))
}

func newNotice(level NoticeLevel, message string, at time.Time) Notice {
	return Notice{Message: message, Level: level, ShownAt: at, Duration: NoticeDuration}
}

// State is everything the dashboard displays.
type State struct {
	All           []models.Transaction
	Source        string
	UploadSeq     uint64
	Sort          models.SortState
	Currency      string
	Range         models.DateRange
	ShowAll       bool
	EditingGoalID string
	Notice        Notice
}

// Initial returns the state before any upload.
func Initial(currency string) State {
	if currency == "" {
		currency = currencyutils.BaseCurrency
	}
	return State{
		Sort:     models.DefaultSortState(),
		Currency: strings.ToUpper(currency),
	}
}

// Filtered returns the uploaded transactions restricted to the date range,
// in upload order.
func Filtered(s State) ([]models.Transaction, error) {
	if s.Range.IsZero() {
		return models.CloneTransactions(s.All), nil
	}
	return tableview.FilterByDateRange(s.All, s.Range)
}

// Visible returns the table rows: filtered, sorted and, unless ShowAll is
// set, truncated to the preview limit.
func Visible(s State, limit int) ([]models.Transaction, error) {
	filtered, err := Filtered(s)
	if err != nil {
		return nil, err
	}
	return tableview.Preview(tableview.Sort(filtered, s.Sort), s.ShowAll, limit), nil
}
