// Package parser turns an uploaded CSV into categorized transactions.
package parser

import (
	"io"
	"time"

	"fjacquet/finance-dashboard/internal/common"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"
)

// Parser reads an upload and returns typed, categorized transactions.
// Implementations return *apperror.ValidationError for structurally unusable
// input and *apperror.ParseError for unreadable values; in both cases no
// transaction is returned.
type Parser interface {
	Parse(r io.Reader, source string) ([]models.Transaction, error)
}

// CSVParser validates and decodes the CSV with a common.CSVHandler, then
// normalizes the rows.
type CSVParser struct {
	csv        *common.CSVHandler
	normalizer *Normalizer
	logger     logging.Logger
}

// NewCSVParser creates a CSVParser.
func NewCSVParser(csv *common.CSVHandler, normalizer *Normalizer, logger logging.Logger) *CSVParser {
	return &CSVParser{csv: csv, normalizer: normalizer, logger: logging.OrDefault(logger)}
}

// Parse implements Parser.
func (p *CSVParser) Parse(r io.Reader, source string) ([]models.Transaction, error) {
	start := time.Now()

	rows, err := p.csv.ReadRows(r, source)
	if err != nil {
		return nil, err
	}

	txs, err := p.normalizer.Normalize(rows, source)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Parsed upload",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return txs, nil
}

var _ Parser = (*CSVParser)(nil)
