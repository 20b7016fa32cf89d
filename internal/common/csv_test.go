package common

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *CSVHandler {
	return NewCSVHandler(',', logging.NewMockLogger())
}

func TestReadRows(t *testing.T) {
	input := "Date,Description,Amount,Balance\n" +
		"2024-01-05,Amazon,-50,1000\n" +
		"\n" +
		",,,\n" +
		"2024-01-06,\"Salary, January\",3000,4000\n"

	rows, err := newTestHandler().ReadRows(strings.NewReader(input), "upload.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.RawRow{Date: "2024-01-05", Description: "Amazon", Amount: "-50"}, rows[0])
	assert.Equal(t, "Salary, January", rows[1].Description)
}

func TestReadRows_ReorderedColumnsAndBOM(t *testing.T) {
	input := "\xEF\xBB\xBFAmount,Date,Description\n-12.5,2024-02-01,Coffee\n"

	rows, err := newTestHandler().ReadRows(strings.NewReader(input), "upload.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.RawRow{Date: "2024-02-01", Description: "Coffee", Amount: "-12.5"}, rows[0])
}

func TestReadRows_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{"empty file", "", nil},
		{"header only", "Date,Description,Amount\n", nil},
		{"missing amount", "Date,Description\n2024-01-01,x\n", []string{"Amount"}},
		{"case sensitive", "date,description,amount\n2024-01-01,x,1\n", []string{"Date", "Description", "Amount"}},
		{"padded names", "Date ,Description, Amount\n2024-01-01,x,1\n", []string{"Date", "Amount"}},
		{"repeated amount", "Date,Description,Amount,Amount\n2024-01-01,x,1,2\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestHandler().ReadRows(strings.NewReader(tt.input), "upload.csv")
			require.Error(t, err)

			var validationErr *apperror.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.missing, validationErr.Missing)
		})
	}
}

func TestReadRows_RepeatedColumnNamed(t *testing.T) {
	input := "Date,Description,Amount,Amount\n2024-01-01,x,1,2\n"

	_, err := newTestHandler().ReadRows(strings.NewReader(input), "upload.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate columns: Amount")
}

func TestReadRows_TokenizerFailure(t *testing.T) {
	input := "Date,Description,Amount\n2024-01-01,\"unterminated,1\n"

	_, err := newTestHandler().ReadRows(strings.NewReader(input), "upload.csv")
	assert.Equal(t, apperror.KindParse, apperror.KindOf(err))
}

func TestReadRows_Semicolon(t *testing.T) {
	h := NewCSVHandler(';', nil)
	rows, err := h.ReadRows(strings.NewReader("Date;Description;Amount\n2024-01-01;Rent;-900\n"), "upload.csv")
	require.NoError(t, err)
	assert.Equal(t, "-900", rows[0].Amount)
}

func TestWriteTransactions_QuotesEveryValue(t *testing.T) {
	txs := []models.Transaction{
		{
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local),
			Description: `Book "Go" store`,
			Amount:      decimal.RequireFromString("-50.25"),
			Category:    "Shopping",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, newTestHandler().WriteTransactions(&buf, txs))

	expected := "\"Date\",\"Description\",\"Amount\",\"Category\"\n" +
		"\"2024-01-05\",\"Book \"\"Go\"\" store\",\"-50.25\",\"Shopping\"\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestHandler().WriteTransactions(&buf, nil))
	assert.Equal(t, "\"Date\",\"Description\",\"Amount\",\"Category\"\n", buf.String())
}

func TestExportRoundTrip(t *testing.T) {
	h := newTestHandler()
	txs := []models.Transaction{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), Description: "Rent, March", Amount: decimal.NewFromInt(-900), Category: "Rent"},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local), Description: "Salary", Amount: decimal.RequireFromString("3000.10"), Category: "Other"},
	}

	path := filepath.Join(t.TempDir(), "out", DefaultExportFile)
	require.NoError(t, h.ExportFile(path, txs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := h.ReadRows(bytes.NewReader(data), path)
	require.NoError(t, err)
	require.Len(t, rows, len(txs))
	for i, tx := range txs {
		assert.Equal(t, tx.Date.Format("2006-01-02"), rows[i].Date)
		assert.Equal(t, tx.Description, rows[i].Description)
		amount, err := decimal.NewFromString(rows[i].Amount)
		require.NoError(t, err)
		assert.True(t, tx.Amount.Equal(amount))
	}
}
