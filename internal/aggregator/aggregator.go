// Package aggregator computes the dashboard totals: income and expense sums,
// per-category and per-month expense totals, the monthly trend and the
// spending insight.
package aggregator

import (
	"fmt"
	"sort"

	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// Defaults for NewAggregator.
const (
	DefaultTrendWindow = 12
	DefaultTolerance   = 5 // percent
)

// Summary holds the totals of one transaction set. TotalExpense is negative
// or zero; CategoryTotals and MonthlyExpenseTotals hold absolute values.
type Summary struct {
	Count                int
	TotalIncome          decimal.Decimal
	TotalExpense         decimal.Decimal
	NetBalance           decimal.Decimal
	CategoryTotals       map[string]decimal.Decimal
	MonthlyExpenseTotals map[string]decimal.Decimal
	MonthlyIncomeTotals  map[string]decimal.Decimal
}

// Summarize totals txs. Zero amounts count toward neither side.
func Summarize(txs []models.Transaction) Summary {
	s := Summary{
		Count:                len(txs),
		TotalIncome:          decimal.Zero,
		TotalExpense:         decimal.Zero,
		CategoryTotals:       make(map[string]decimal.Decimal),
		MonthlyExpenseTotals: make(map[string]decimal.Decimal),
		MonthlyIncomeTotals:  make(map[string]decimal.Decimal),
	}

	for _, tx := range txs {
		month := dateutils.MonthKey(tx.Date)
		switch {
		case tx.IsIncome():
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			s.MonthlyIncomeTotals[month] = s.MonthlyIncomeTotals[month].Add(tx.Amount)
		case tx.IsExpense():
			abs := tx.Amount.Abs()
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
			s.CategoryTotals[tx.Category] = s.CategoryTotals[tx.Category].Add(abs)
			s.MonthlyExpenseTotals[month] = s.MonthlyExpenseTotals[month].Add(abs)
		}
	}

	s.NetBalance = s.TotalIncome.Add(s.TotalExpense)
	return s
}

// ExpenseMonths returns the months with expenses in ascending order.
func (s Summary) ExpenseMonths() []string {
	months := make([]string, 0, len(s.MonthlyExpenseTotals))
	for month := range s.MonthlyExpenseTotals {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// TrendPoint is one charted month.
type TrendPoint struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Trend is the monthly expense chart. Points holds at most the trailing window
// of months while AverageMonthlyExpense is taken over every expense month.
type Trend struct {
	Points                []TrendPoint    `json:"points"`
	AverageMonthlyExpense decimal.Decimal `json:"averageMonthlyExpense"`
	MonthsAveraged        int             `json:"monthsAveraged"`
}

// Latest returns the most recent charted month.
func (t Trend) Latest() (TrendPoint, bool) {
	if len(t.Points) == 0 {
		return TrendPoint{}, false
	}
	return t.Points[len(t.Points)-1], true
}

// InsightKind classifies the latest month against the average.
type InsightKind string

const (
	InsightNone    InsightKind = "none"
	InsightAbove   InsightKind = "above"
	InsightBelow   InsightKind = "below"
	InsightOnTrack InsightKind = "on_track"
)

// Insight compares the latest charted month to the average.
type Insight struct {
	Kind    InsightKind     `json:"kind"`
	Month   string          `json:"month,omitempty"`
	Latest  decimal.Decimal `json:"latest"`
	Average decimal.Decimal `json:"average"`
	Message string          `json:"message"`
}

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

// Aggregator derives the trend and insight with a configured window and
// tolerance band.
type Aggregator struct {
	window    int
	tolerance decimal.Decimal
	logger    logging.Logger
}

// NewAggregator creates an Aggregator. window <= 0 uses DefaultTrendWindow and
// a negative tolerance uses DefaultTolerance.
func NewAggregator(window int, tolerancePercent float64, logger logging.Logger) *Aggregator {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	if tolerancePercent < 0 {
		tolerancePercent = DefaultTolerance
	}
	return &Aggregator{
		window:    window,
		tolerance: decimal.NewFromFloat(tolerancePercent),
		logger:    logging.OrDefault(logger),
	}
}

// Summarize is the package Summarize with a debug log.
func (a *Aggregator) Summarize(txs []models.Transaction) Summary {
	s := Summarize(txs)
	a.logger.Debug("Summarized transactions",
		logging.Field{Key: logging.FieldCount, Value: s.Count},
		logging.Field{Key: "months", Value: len(s.MonthlyExpenseTotals)})
	return s
}

// Trend keeps the trailing window of expense months.
func (a *Aggregator) Trend(s Summary) Trend {
	months := s.ExpenseMonths()
	t := Trend{AverageMonthlyExpense: decimal.Zero, MonthsAveraged: len(months)}
	if len(months) == 0 {
		return t
	}

	sum := decimal.Zero
	for _, month := range months {
		sum = sum.Add(s.MonthlyExpenseTotals[month])
	}
	t.AverageMonthlyExpense = sum.Div(decimal.NewFromInt(int64(len(months))))

	charted := months
	if len(charted) > a.window {
		charted = charted[len(charted)-a.window:]
	}
	t.Points = make([]TrendPoint, len(charted))
	for i, month := range charted {
		t.Points[i] = TrendPoint{Month: month, Total: s.MonthlyExpenseTotals[month]}
	}
	return t
}

// Insight reports whether the latest charted month is above, below or within
// the tolerance band around the average.
func (a *Aggregator) Insight(t Trend) Insight {
	latest, ok := t.Latest()
	if !ok {
		return Insight{Kind: InsightNone, Message: "Not enough data to compare monthly spending."}
	}

	in := Insight{Month: latest.Month, Latest: latest.Total, Average: t.AverageMonthlyExpense}
	band := t.AverageMonthlyExpense.Mul(a.tolerance).Div(decimal.NewFromInt(100))
	diff := latest.Total.Sub(t.AverageMonthlyExpense)

	switch {
	case diff.GreaterThan(band):
		in.Kind = InsightAbove
		in.Message = fmt.Sprintf("Spending in %s is %s above your monthly average.", latest.Month, percentOf(diff, t.AverageMonthlyExpense))
	case diff.Neg().GreaterThan(band):
		in.Kind = InsightBelow
		in.Message = fmt.Sprintf("Spending in %s is %s below your monthly average.", latest.Month, percentOf(diff.Neg(), t.AverageMonthlyExpense))
	default:
		in.Kind = InsightOnTrack
		in.Message = fmt.Sprintf("Spending in %s is on track with your monthly average.", latest.Month)
	}
	return in
}

// CategoryShares returns the expense breakdown sorted by amount descending,
// ties broken by category name.
func CategoryShares(s Summary) []CategoryShare {
	total := s.TotalExpense.Abs()
	shares := make([]CategoryShare, 0, len(s.CategoryTotals))
	for category, amount := range s.CategoryTotals {
		share := CategoryShare{Category: category, Amount: amount, Percent: decimal.Zero}
		if total.IsPositive() {
			share.Percent = amount.Mul(decimal.NewFromInt(100)).Div(total).Round(1)
		}
		shares = append(shares, share)
	}

	sort.Slice(shares, func(i, j int) bool {
		if !shares[i].Amount.Equal(shares[j].Amount) {
			return shares[i].Amount.GreaterThan(shares[j].Amount)
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

func percentOf(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "n/a"
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(1).String() + "%"
}
