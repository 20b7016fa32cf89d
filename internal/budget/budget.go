// Package budget splits expenses into the needs, wants and savings buckets of
// the 50/30/20 rule and comments on the result.
package budget

import (
	"fmt"
	"strings"

	"fjacquet/finance-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// Bucket is a 50/30/20 class.
type Bucket string

const (
	Needs   Bucket = "needs"
	Wants   Bucket = "wants"
	Savings Bucket = "savings"
)

// Thresholds, in percent of classified expenses.
const (
	WantsCeiling  = 35
	SavingsFloor  = 20
	targetNeeds   = 50
	targetWants   = 30
	targetSavings = 20
)

// Table maps category names to buckets. Lookup is case-insensitive.
type Table map[string]Bucket

// DefaultTable is used when the configuration provides no buckets.
func DefaultTable() Table {
	return NewTable(
		[]string{"Rent", "Housing", "Utilities", "Groceries", "Transportation", "Insurance", "Healthcare"},
		[]string{"Dining", "Entertainment", "Shopping", "Travel", "Subscriptions"},
		[]string{"Savings", "Investments"},
	)
}

// NewTable builds a Table from category lists.
func NewTable(needs, wants, savings []string) Table {
	t := make(Table, len(needs)+len(wants)+len(savings))
	for _, c := range needs {
		t[strings.ToLower(c)] = Needs
	}
	for _, c := range wants {
		t[strings.ToLower(c)] = Wants
	}
	for _, c := range savings {
		t[strings.ToLower(c)] = Savings
	}
	return t
}

// BucketOf returns the bucket of category, if classified.
func (t Table) BucketOf(category string) (Bucket, bool) {
	b, ok := t[strings.ToLower(category)]
	return b, ok
}

// Split holds absolute expense totals per bucket.
type Split struct {
	NeedsTotal      decimal.Decimal `json:"needsTotal"`
	WantsTotal      decimal.Decimal `json:"wantsTotal"`
	SavingsTotal    decimal.Decimal `json:"savingsTotal"`
	TotalClassified decimal.Decimal `json:"totalClassified"`
}

// Percentages of TotalClassified, one decimal.
type Percentages struct {
	Needs   decimal.Decimal `json:"needs"`
	Wants   decimal.Decimal `json:"wants"`
	Savings decimal.Decimal `json:"savings"`
}

// Analyzer classifies expenses with a Table.
type Analyzer struct {
	table Table
}

// NewAnalyzer creates an Analyzer. A nil or empty table uses DefaultTable.
func NewAnalyzer(table Table) *Analyzer {
	if len(table) == 0 {
		table = DefaultTable()
	}
	return &Analyzer{table: table}
}

// Classify sums the absolute value of every expense whose category is in the
// table. Income and unclassified categories are ignored.
func (a *Analyzer) Classify(txs []models.Transaction) Split {
	s := Split{
		NeedsTotal:      decimal.Zero,
		WantsTotal:      decimal.Zero,
		SavingsTotal:    decimal.Zero,
		TotalClassified: decimal.Zero,
	}
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		bucket, ok := a.table.BucketOf(tx.Category)
		if !ok {
			continue
		}
		abs := tx.Amount.Abs()
		switch bucket {
		case Needs:
			s.NeedsTotal = s.NeedsTotal.Add(abs)
		case Wants:
			s.WantsTotal = s.WantsTotal.Add(abs)
		case Savings:
			s.SavingsTotal = s.SavingsTotal.Add(abs)
		}
		s.TotalClassified = s.TotalClassified.Add(abs)
	}
	return s
}

// HasData reports whether any expense was classified.
func (s Split) HasData() bool {
	return s.TotalClassified.IsPositive()
}

// Percentages returns each bucket's share, all zero when nothing is classified.
func (s Split) Percentages() Percentages {
	if !s.HasData() {
		return Percentages{Needs: decimal.Zero, Wants: decimal.Zero, Savings: decimal.Zero}
	}
	pct := func(v decimal.Decimal) decimal.Decimal {
		return v.Mul(decimal.NewFromInt(100)).Div(s.TotalClassified).Round(1)
	}
	return Percentages{Needs: pct(s.NeedsTotal), Wants: pct(s.WantsTotal), Savings: pct(s.SavingsTotal)}
}

// FeedbackKind names the verdict of Feedback.
type FeedbackKind string

const (
	FeedbackNoData       FeedbackKind = "no_data"
	FeedbackOverspending FeedbackKind = "overspending"
	FeedbackUnderSaving  FeedbackKind = "under_saving"
	FeedbackBalanced     FeedbackKind = "balanced"
)

// Feedback is the verdict with a user-facing message.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}

// Feedback checks, in order, wants above WantsCeiling and savings below
// SavingsFloor.
func (s Split) Feedback() Feedback {
	if !s.HasData() {
		return Feedback{
			Kind:    FeedbackNoData,
			Message: "No classified expenses: map your categories to needs, wants or savings to use the 50/30/20 rule.",
		}
	}

	p := s.Percentages()
	switch {
	case p.Wants.GreaterThan(decimal.NewFromInt(WantsCeiling)):
		return Feedback{
			Kind: FeedbackOverspending,
			Message: fmt.Sprintf("Wants take %s%% of your spending, above the %d%% target. Consider cutting discretionary expenses.",
				p.Wants.StringFixed(1), targetWants),
		}
	case p.Savings.LessThan(decimal.NewFromInt(SavingsFloor)):
		return Feedback{
			Kind: FeedbackUnderSaving,
			Message: fmt.Sprintf("Savings are %s%% of your spending, below the %d%% target. Try to set more aside.",
				p.Savings.StringFixed(1), targetSavings),
		}
	default:
		return Feedback{
			Kind: FeedbackBalanced,
			Message: fmt.Sprintf("Your budget is balanced against the %d/%d/%d rule.",
				targetNeeds, targetWants, targetSavings),
		}
	}
}
