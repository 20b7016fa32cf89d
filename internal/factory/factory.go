// Package factory builds a fresh parser for each keyword table loaded at
// upload time.
package factory

import (
	"time"

	"fjacquet/finance-dashboard/internal/categorizer"
	"fjacquet/finance-dashboard/internal/common"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/parser"
)

// ParserFactory creates CSV parsers sharing delimiter, location and logger.
type ParserFactory struct {
	csv      *common.CSVHandler
	location *time.Location
	logger   logging.Logger
}

// NewParserFactory creates a ParserFactory.
func NewParserFactory(csv *common.CSVHandler, loc *time.Location, logger logging.Logger) *ParserFactory {
	logger = logging.OrDefault(logger)
	if csv == nil {
		csv = common.NewCSVHandler(',', logger)
	}
	return &ParserFactory{csv: csv, location: loc, logger: logger}
}

// NewParser returns a parser categorizing with keywords.
func (f *ParserFactory) NewParser(keywords categorizer.KeywordMap) parser.Parser {
	cat := categorizer.New(keywords, f.logger.WithField(logging.FieldComponent, "categorizer"))
	normalizer := parser.NewNormalizer(cat, f.location, f.logger)
	return parser.NewCSVParser(f.csv, normalizer, f.logger)
}
