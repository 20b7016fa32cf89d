// Package models provides the data structures shared by the dashboard pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one uploaded CSV row before normalization. Extra columns are ignored.
type RawRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
}

// Transaction is one categorized financial movement. Date is a calendar day at
// midnight; a positive Amount is income and a negative Amount is an expense.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction removes money.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// ExportRow is the CSV shape written by the export. Every field is text so the
// writer controls formatting.
type ExportRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// CloneTransactions returns a shallow copy of txs safe to reorder.
func CloneTransactions(txs []Transaction) []Transaction {
	if txs == nil {
		return nil
	}
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return out
}
