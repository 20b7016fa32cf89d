package parser

import (
	"strings"
	"time"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/currencyutils"
	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"
)

// Categorizer maps a description to a category name.
type Categorizer interface {
	Categorize(description string) string
}

// Normalizer converts raw rows into transactions.
type Normalizer struct {
	categorizer Categorizer
	location    *time.Location
	logger      logging.Logger
}

// NewNormalizer creates a Normalizer. Dates are read as calendar days in loc
// (time.Local when nil).
func NewNormalizer(categorizer Categorizer, loc *time.Location, logger logging.Logger) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{categorizer: categorizer, location: loc, logger: logging.OrDefault(logger)}
}

// Normalize parses each row's amount and date and assigns its category.
// The first unreadable value rejects the whole batch with a
// *apperror.ParseError naming the 1-based data row.
func (n *Normalizer) Normalize(rows []models.RawRow, source string) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		amount, err := currencyutils.ParseAmount(row.Amount)
		if err != nil {
			return nil, n.reject(source, i+1, models.ColumnAmount, row.Amount, err)
		}

		date, err := dateutils.ParseCalendarDate(row.Date, n.location)
		if err != nil {
			return nil, n.reject(source, i+1, models.ColumnDate, row.Date, err)
		}

		description := strings.TrimSpace(row.Description)
		txs = append(txs, models.Transaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Category:    n.categorize(description),
		})
	}
	return txs, nil
}

func (n *Normalizer) categorize(description string) string {
	if n.categorizer == nil {
		return models.CategoryOther
	}
	return n.categorizer.Categorize(description)
}

func (n *Normalizer) reject(source string, row int, field, value string, err error) error {
	n.logger.WithError(err).Warn("Rejecting upload",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: logging.FieldRow, Value: row})
	return &apperror.ParseError{Source: source, Row: row, Field: field, Value: value, Err: err}
}
