// Package common provides the CSV reading and writing shared by the commands.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultExportFile is the file name used when an export has no explicit path.
const DefaultExportFile = "filtered_transactions.csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHandler reads uploads and writes exports with a fixed delimiter.
type CSVHandler struct {
	delimiter rune
	logger    logging.Logger
}

// NewCSVHandler creates a handler. A zero delimiter means a comma.
func NewCSVHandler(delimiter rune, logger logging.Logger) *CSVHandler {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVHandler{delimiter: delimiter, logger: logging.OrDefault(logger)}
}

// ReadRowsFile opens path and reads it with ReadRows.
func (h *CSVHandler) ReadRowsFile(path string) ([]models.RawRow, error) {
	file, err := os.Open(path) // #nosec G304 -- user-selected upload
	if err != nil {
		return nil, &apperror.ValidationError{Source: path, Reason: fmt.Sprintf("cannot open file: %v", err)}
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.WithError(err).Warn("Failed to close file", logging.Field{Key: logging.FieldFile, Value: path})
		}
	}()
	return h.ReadRows(file, path)
}

// ReadRows decodes an upload. The header must carry Date, Description and
// Amount with exact, case-sensitive names; other columns are ignored and blank
// lines skipped. A missing or repeated required column, or an upload without
// data rows, is a *apperror.ValidationError and a tokenizer failure is a
// *apperror.ParseError.
func (h *CSVHandler) ReadRows(r io.Reader, source string) ([]models.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &apperror.ParseError{Source: source, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = h.delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &apperror.ParseError{Source: source, Err: err}
	}
	if len(records) == 0 {
		return nil, &apperror.ValidationError{Source: source, Reason: "file is empty"}
	}

	header := records[0]
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &apperror.ValidationError{Source: source, Reason: "required columns not found", Missing: missing}
	}
	if dup := duplicateColumns(header); len(dup) > 0 {
		return nil, &apperror.ValidationError{Source: source, Reason: fmt.Sprintf("duplicate columns: %s", strings.Join(dup, ", "))}
	}

	kept := [][]string{header}
	for _, record := range records[1:] {
		if !blankRecord(record) {
			kept = append(kept, record)
		}
	}
	if len(kept) == 1 {
		return nil, &apperror.ValidationError{Source: source, Reason: "no data rows"}
	}

	var rows []models.RawRow
	if err := gocsv.UnmarshalCSV(&recordReader{records: kept}, &rows); err != nil {
		return nil, &apperror.ParseError{Source: source, Err: err}
	}

	h.logger.Debug("Read CSV rows",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteTransactions writes txs as Date,Description,Amount,Category with every
// value double-quoted. Dates are YYYY-MM-DD and amounts signed plain decimals.
func (h *CSVHandler) WriteTransactions(w io.Writer, txs []models.Transaction) error {
	rows := make([]models.ExportRow, len(txs))
	for i, tx := range txs {
		rows[i] = models.ExportRow{
			Date:        dateutils.ToISODate(tx.Date),
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Category:    tx.Category,
		}
	}

	if err := gocsv.MarshalCSV(&rows, newQuoteAllWriter(w, h.delimiter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ExportFile writes txs to path, creating parent directories.
func (h *CSVHandler) ExportFile(path string, txs []models.Transaction) error {
	if path == "" {
		path = DefaultExportFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, models.PermissionExport) // #nosec G304 -- user-selected export path
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}

	if err := h.WriteTransactions(file, txs); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing CSV file: %w", err)
	}

	h.logger.Info("Exported transactions",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	var missing []string
	for _, name := range models.RequiredColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

func duplicateColumns(header []string) []string {
	counts := make(map[string]int, len(header))
	for _, name := range header {
		counts[name]++
	}
	var dup []string
	for _, name := range models.RequiredColumns {
		if counts[name] > 1 {
			dup = append(dup, name)
		}
	}
	return dup
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// recordReader replays already tokenized records to gocsv.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	record := r.records[r.pos]
	r.pos++
	return record, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}

// quoteAllWriter satisfies gocsv.CSVWriter. encoding/csv only quotes fields
// that need it, while exports quote every value.
type quoteAllWriter struct {
	w         io.Writer
	delimiter string
	err       error
}

func newQuoteAllWriter(w io.Writer, delimiter rune) *quoteAllWriter {
	return &quoteAllWriter{w: w, delimiter: string(delimiter)}
}

func (q *quoteAllWriter) Write(record []string) error {
	if q.err != nil {
		return q.err
	}
	quoted := make([]string, len(record))
	for i, field := range record {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	_, q.err = io.WriteString(q.w, strings.Join(quoted, q.delimiter)+"\n")
	return q.err
}

func (q *quoteAllWriter) Flush() {}

func (q *quoteAllWriter) Error() error {
	return q.err
}

var _ gocsv.CSVWriter = (*quoteAllWriter)(nil)
