// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"
	"fjacquet/finance-dashboard/internal/session"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Dispatcher applies session events. *session.Dashboard satisfies it.
type Dispatcher interface {
	State() session.State
	Dispatch(ev session.Event) session.State
}

// Controls are the dashboard controls expressed as command-line flags.
type Controls struct {
	Start   string
	End     string
	Sort    string
	Order   string
	ShowAll bool
}

// BindFilterFlags registers --start and --end.
func (c *Controls) BindFilterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Start, "start", "", "First day to include (YYYY-MM-DD)")
	flags.StringVar(&c.End, "end", "", "Last day to include (YYYY-MM-DD)")
}

// BindTableFlags registers --sort, --order and --all.
func (c *Controls) BindTableFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Sort, "sort", "", "Sort column: date, description, amount or category")
	flags.StringVar(&c.Order, "order", "", "Sort direction: asc or desc")
	flags.BoolVar(&c.ShowAll, "all", false, "Show every transaction instead of the most recent ones")
}

// CheckFormat validates a --format value.
func CheckFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON:
		return nil
	default:
		return &apperror.UserInputError{Field: "format", Message: fmt.Sprintf("unknown format %q (use text or json)", format)}
	}
}

// LoadSession starts a dashboard session and uploads inputFile into it.
// Startup fetch failures are raised as notices after the upload.
func LoadSession(ctx context.Context, c *container.Container, inputFile string) (*session.Dashboard, error) {
	if inputFile == "" {
		return nil, &apperror.UserInputError{Field: "input", Message: "an input CSV file is required (--input)"}
	}

	log := c.GetLogger().WithField(logging.FieldFile, inputFile)

	f, err := os.Open(inputFile) // #nosec G304 -- path chosen by the user
	if err != nil {
		return nil, &apperror.UserInputError{Field: "input", Message: "cannot open input file", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	d := c.NewDashboard(ctx)
	if err := d.Upload(ctx, f, inputFile); err != nil {
		return nil, err
	}

	startup := c.Start(ctx)
	for _, err := range []error{startup.KeywordsErr, startup.RatesErr} {
		if err != nil {
			d.Dispatch(session.ErrorRaised{Err: err, At: time.Now()})
		}
	}
	return d, nil
}

// ApplyControls dispatches the events the flags stand for: a date filter, sort
// header clicks until the requested order is reached, and the recent/all
// toggle. A missing date bound defaults to the edge of the uploaded data.
func ApplyControls(d Dispatcher, ctl Controls, loc *time.Location) (session.State, error) {
	state := d.State()

	if ctl.Start != "" || ctl.End != "" {
		dr, err := parseRange(ctl, state.All, loc)
		if err != nil {
			return state, err
		}
		if err := dr.Validate(); err != nil {
			return state, err
		}
		state = d.Dispatch(session.FilterApplied{Range: dr, At: time.Now()})
	}

	if ctl.Sort != "" || ctl.Order != "" {
		want := state.Sort
		if ctl.Sort != "" {
			col, err := models.ParseSortColumn(strings.ToLower(ctl.Sort))
			if err != nil {
				return state, &apperror.UserInputError{Field: "sort", Message: err.Error()}
			}
			if col != want.Column {
				want = models.SortState{Column: col, Direction: models.Ascending}
			}
		}
		if ctl.Order != "" {
			dir, err := models.ParseSortDirection(strings.ToLower(ctl.Order))
			if err != nil {
				return state, &apperror.UserInputError{Field: "order", Message: err.Error()}
			}
			want.Direction = dir
		}
		// A new column starts ascending and a second click flips it.
		for i := 0; i < 2 && state.Sort != want; i++ {
			state = d.Dispatch(session.SortClicked{Column: want.Column})
		}
	}

	if ctl.ShowAll && !state.ShowAll {
		state = d.Dispatch(session.RecentToggled{})
	}
	return state, nil
}

func parseRange(ctl Controls, txs []models.Transaction, loc *time.Location) (models.DateRange, error) {
	span := models.SpanOf(txs)
	dr := span

	if ctl.Start != "" {
		start, err := dateutils.ParseCalendarDate(ctl.Start, loc)
		if err != nil {
			return dr, &apperror.UserInputError{Field: "start", Message: "invalid start date", Err: err}
		}
		dr.Start = start
	}
	if ctl.End != "" {
		end, err := dateutils.ParseCalendarDate(ctl.End, loc)
		if err != nil {
			return dr, &apperror.UserInputError{Field: "end", Message: "invalid end date", Err: err}
		}
		dr.End = end
	}
	return dr, nil
}
