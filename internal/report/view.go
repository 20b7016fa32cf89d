// Package report derives the dashboard view model from the session state and
// renders it for the terminal or as JSON.
package report

import (
	"time"

	"fjacquet/finance-dashboard/internal/aggregator"
	"fjacquet/finance-dashboard/internal/budget"
	"fjacquet/finance-dashboard/internal/currencyutils"
	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/models"
	"fjacquet/finance-dashboard/internal/session"
	"fjacquet/finance-dashboard/internal/tableview"

	"github.com/shopspring/decimal"
)

// Cards are the three summary figures.
type Cards struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
	Negative bool   `json:"netNegative"`
}

// Slice is one category of the expense breakdown.
type Slice struct {
	Category string          `json:"category"`
	Amount   string          `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

// Point is one month of the trend chart.
type Point struct {
	Month  string          `json:"month"`
	Amount string          `json:"amount"`
	Value  decimal.Decimal `json:"value"`
}

// TrendView is the trend chart with its average and insight.
type TrendView struct {
	Points  []Point            `json:"points"`
	Average string             `json:"average"`
	Insight aggregator.Insight `json:"insight"`
}

// Row is one formatted table row. Amount is unsigned; Income tells the sign.
type Row struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Income      bool   `json:"income"`
	Category    string `json:"category"`
}

// BudgetView is the 50/30/20 split.
type BudgetView struct {
	Needs       string             `json:"needs"`
	Wants       string             `json:"wants"`
	Savings     string             `json:"savings"`
	Classified  string             `json:"classified"`
	Percentages budget.Percentages `json:"percentages"`
	Feedback    budget.Feedback    `json:"feedback"`
}

// GoalView is one savings goal.
type GoalView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Saved           string          `json:"saved"`
	Target          string          `json:"target"`
	Progress        decimal.Decimal `json:"progress"`
	Status          string          `json:"status"`
	TargetDate      string          `json:"targetDate,omitempty"`
	MonthlyNeeded   string          `json:"monthlyNeeded,omitempty"`
	MonthsRemaining *int            `json:"monthsRemaining,omitempty"`
	Editing         bool            `json:"editing,omitempty"`
}

// View is everything a renderer needs; all amounts are already converted to
// Currency and formatted.
type View struct {
	Currency    string           `json:"currency"`
	Converted   bool             `json:"converted"`
	Source      string           `json:"source,omitempty"`
	Range       string           `json:"range,omitempty"`
	Sort        models.SortState `json:"sort"`
	Cards       Cards            `json:"cards"`
	Breakdown   []Slice          `json:"breakdown"`
	Trend       TrendView        `json:"trend"`
	Rows        []Row            `json:"rows"`
	TotalRows   int              `json:"totalRows"`
	ShowingAll  bool             `json:"showingAll"`
	Budget      *BudgetView      `json:"budget,omitempty"`
	Goals       []GoalView       `json:"goals,omitempty"`
	Notice      *session.Notice  `json:"notice,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// Deps are the collaborators Build reads from. Budget and Goals are optional.
type Deps struct {
	Converter    *currencyutils.Converter
	Aggregator   *aggregator.Aggregator
	Budget       *budget.Analyzer
	Goals        []models.Goal
	PreviewLimit int
	Now          time.Time
}

// Build derives the view of s. It fails only when the state's date range is
// invalid.
func Build(s session.State, deps Deps) (View, error) {
	if deps.Converter == nil {
		deps.Converter = currencyutils.NewConverter(currencyutils.BaseCurrency, nil, nil)
	}
	if deps.Aggregator == nil {
		deps.Aggregator = aggregator.NewAggregator(0, -1, nil)
	}
	if deps.PreviewLimit <= 0 {
		deps.PreviewLimit = tableview.DefaultPreviewLimit
	}
	if deps.Now.IsZero() {
		deps.Now = time.Now()
	}

	filtered, err := session.Filtered(s)
	if err != nil {
		return View{}, err
	}
	rows := tableview.Preview(tableview.Sort(filtered, s.Sort), s.ShowAll, deps.PreviewLimit)

	money := func(d decimal.Decimal) string {
		return currencyutils.Format(deps.Converter.Convert(d, s.Currency), s.Currency)
	}

	summary := deps.Aggregator.Summarize(filtered)
	trend := deps.Aggregator.Trend(summary)

	v := View{
		Currency:    s.Currency,
		Converted:   deps.Converter.Available(s.Currency),
		Source:      s.Source,
		Sort:        s.Sort,
		TotalRows:   len(filtered),
		ShowingAll:  s.ShowAll || len(filtered) <= deps.PreviewLimit,
		GeneratedAt: deps.Now,
	}
	if !s.Range.IsZero() {
		v.Range = s.Range.String()
	}

	v.Cards = Cards{
		Income:   money(summary.TotalIncome),
		Expenses: money(summary.TotalExpense.Neg()),
		Net:      money(summary.NetBalance),
		Negative: summary.NetBalance.IsNegative(),
	}
	if v.Cards.Negative {
		v.Cards.Net = "-" + v.Cards.Net
	}

	for _, share := range aggregator.CategoryShares(summary) {
		v.Breakdown = append(v.Breakdown, Slice{Category: share.Category, Amount: money(share.Amount), Percent: share.Percent})
	}

	v.Trend = TrendView{Average: money(trend.AverageMonthlyExpense), Insight: deps.Aggregator.Insight(trend)}
	for _, p := range trend.Points {
		v.Trend.Points = append(v.Trend.Points, Point{
			Month:  p.Month,
			Amount: money(p.Total),
			Value:  deps.Converter.Convert(p.Total, s.Currency),
		})
	}

	v.Rows = make([]Row, len(rows))
	for i, tx := range rows {
		v.Rows[i] = Row{
			Date:        dateutils.ToISODate(tx.Date),
			Description: tx.Description,
			Amount:      money(tx.Amount),
			Income:      tx.IsIncome(),
			Category:    tx.Category,
		}
	}

	if deps.Budget != nil {
		split := deps.Budget.Classify(filtered)
		v.Budget = &BudgetView{
			Needs:       money(split.NeedsTotal),
			Wants:       money(split.WantsTotal),
			Savings:     money(split.SavingsTotal),
			Classified:  money(split.TotalClassified),
			Percentages: split.Percentages(),
			Feedback:    split.Feedback(),
		}
	}

	for _, g := range deps.Goals {
		v.Goals = append(v.Goals, goalView(g, s.EditingGoalID, money))
	}

	if s.Notice.Active(deps.Now) {
		notice := s.Notice
		v.Notice = &notice
	}
	return v, nil
}

// GoalViews formats goals outside a dashboard session.
func GoalViews(goals []models.Goal, converter *currencyutils.Converter, currency string) []GoalView {
	if converter == nil {
		converter = currencyutils.NewConverter(currencyutils.BaseCurrency, nil, nil)
	}
	money := func(d decimal.Decimal) string {
		return currencyutils.Format(converter.Convert(d, currency), currency)
	}
	views := make([]GoalView, len(goals))
	for i, g := range goals {
		views[i] = goalView(g, "", money)
	}
	return views
}

func goalView(g models.Goal, editingID string, money func(decimal.Decimal) string) GoalView {
	gv := GoalView{
		ID:              g.ID,
		Name:            g.Name,
		Saved:           money(g.SavedAmount),
		Target:          money(g.TargetAmount),
		Progress:        g.ProgressPercent(),
		Status:          string(g.Status()),
		MonthsRemaining: g.MonthsRemaining,
		Editing:         g.ID == editingID,
	}
	if g.TargetDate != nil {
		gv.TargetDate = dateutils.ToISODate(*g.TargetDate)
	}
	if g.MonthlySavingsNeeded != nil {
		gv.MonthlyNeeded = money(*g.MonthlySavingsNeeded)
	}
	return gv
}
