// Package tableview orders, filters and truncates transactions for the table.
// Every function returns a new slice and leaves its input untouched.
package tableview

import (
	"sort"
	"strings"

	"fjacquet/finance-dashboard/internal/models"
)

// DefaultPreviewLimit is the number of rows shown in recent mode.
const DefaultPreviewLimit = 20

// compare returns -1 when a orders before b on column and 1 otherwise. Equal
// keys are not distinguished, so their relative order is unspecified.
func compare(a, b models.Transaction, column models.SortColumn) int {
	var less bool
	switch column {
	case models.SortByDescription:
		less = strings.ToLower(a.Description) < strings.ToLower(b.Description)
	case models.SortByAmount:
		less = a.Amount.LessThan(b.Amount)
	case models.SortByCategory:
		less = strings.ToLower(a.Category) < strings.ToLower(b.Category)
	default:
		less = a.Date.Before(b.Date)
	}
	if less {
		return -1
	}
	return 1
}

// Sort returns txs ordered by column in direction. The sort is not stable.
func Sort(txs []models.Transaction, state models.SortState) []models.Transaction {
	out := models.CloneTransactions(txs)
	if state.Direction == models.Ascending {
		sort.Slice(out, func(i, j int) bool {
			return compare(out[i], out[j], state.Column) < 0
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			return compare(out[j], out[i], state.Column) < 0
		})
	}
	return out
}

// FilterByDateRange keeps transactions whose date falls within dr, bounds
// widened to whole days. An end day before the start day is a
// *apperror.UserInputError.
func FilterByDateRange(txs []models.Transaction, dr models.DateRange) ([]models.Transaction, error) {
	if err := dr.Validate(); err != nil {
		return nil, err
	}
	bounds := dr.Normalized()
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.Before(bounds.Start) && !tx.Date.After(bounds.End) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Preview returns the first limit rows unless showAll is set. limit <= 0
// uses DefaultPreviewLimit.
func Preview(txs []models.Transaction, showAll bool, limit int) []models.Transaction {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	if showAll || len(txs) <= limit {
		return models.CloneTransactions(txs)
	}
	return models.CloneTransactions(txs[:limit])
}
