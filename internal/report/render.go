package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/finance-dashboard/internal/aggregator"
	"fjacquet/finance-dashboard/internal/budget"
	"fjacquet/finance-dashboard/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

// Palette
var (
	colorBorder = lipgloss.Color("#575653")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	incomeStyle = lipgloss.NewStyle().Foreground(colorGreen)
	spendStyle  = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true).Foreground(colorAccent)
)

const barWidth = 30

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return nil
}

// RenderText writes v as a styled terminal dashboard.
func RenderText(w io.Writer, v View) error {
	var b strings.Builder

	title := "Finance Dashboard"
	if v.Source != "" {
		title += " · " + v.Source
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(subtitle(v)))
	b.WriteString("\n")

	if v.Notice != nil {
		b.WriteString(renderNotice(*v.Notice))
		b.WriteString("\n")
	}

	b.WriteString(renderCards(v.Cards))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Spending by category"))
	b.WriteString("\n")
	b.WriteString(renderBreakdown(v.Breakdown))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Monthly expenses"))
	b.WriteString("\n")
	b.WriteString(renderTrend(v.Trend))
	b.WriteString("\n")

	heading := fmt.Sprintf("Transactions (%d of %d)", len(v.Rows), v.TotalRows)
	b.WriteString(sectionStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(renderRows(v.Rows))
	b.WriteString("\n")

	if v.Budget != nil {
		b.WriteString(sectionStyle.Render("50/30/20 budget"))
		b.WriteString("\n")
		b.WriteString(RenderBudget(*v.Budget))
		b.WriteString("\n")
	}

	if len(v.Goals) > 0 {
		b.WriteString(sectionStyle.Render("Savings goals"))
		b.WriteString("\n")
		b.WriteString(RenderGoals(v.Goals))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderGoals renders the goals table on its own.
func RenderGoals(goals []GoalView) string {
	if len(goals) == 0 {
		return mutedStyle.Render("No savings goals yet.") + "\n"
	}
	rows := make([][]string, len(goals))
	for i, g := range goals {
		monthly := "set a target date"
		if g.MonthlyNeeded != "" {
			monthly = fmt.Sprintf("%s/mo", g.MonthlyNeeded)
			if g.MonthsRemaining != nil {
				monthly += fmt.Sprintf(" for %d mo", *g.MonthsRemaining)
			}
		}
		name := g.Name
		if g.Editing {
			name += " (editing)"
		}
		rows[i] = []string{
			g.ID,
			name,
			fmt.Sprintf("%s / %s", g.Saved, g.Target),
			progressBar(g.Progress, 20) + " " + g.Progress.StringFixed(1) + "%",
			g.Status,
			monthly,
		}
	}
	return newTable("ID", "Goal", "Saved", "Progress", "Status", "Needed").Rows(rows...).Render() + "\n"
}

func subtitle(v View) string {
	parts := []string{"Currency " + v.Currency}
	if !v.Converted {
		parts[0] += " (no rate, amounts unconverted)"
	}
	if v.Range != "" {
		parts = append(parts, "Range "+strings.Replace(v.Range, "_", " to ", 1))
	}
	parts = append(parts, fmt.Sprintf("Sorted by %s %s", v.Sort.Column, v.Sort.Direction))
	return strings.Join(parts, " · ")
}

func renderNotice(n session.Notice) string {
	if n.Level == session.NoticeError {
		return spendStyle.Render("✗ " + n.Message)
	}
	return incomeStyle.Render("✓ " + n.Message)
}

func renderCards(c Cards) string {
	netStyle := incomeStyle
	if c.Negative {
		netStyle = spendStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Income\n"+incomeStyle.Render(c.Income)),
		cardStyle.Render("Expenses\n"+spendStyle.Render(c.Expenses)),
		cardStyle.Render("Net Balance\n"+netStyle.Render(c.Net)),
	)
}

func renderBreakdown(slices []Slice) string {
	if len(slices) == 0 {
		return mutedStyle.Render("No expenses in range.") + "\n"
	}
	rows := make([][]string, len(slices))
	for i, s := range slices {
		rows[i] = []string{s.Category, s.Amount, progressBar(s.Percent, barWidth) + " " + s.Percent.StringFixed(1) + "%"}
	}
	return newTable("Category", "Amount", "Share").Rows(rows...).Render() + "\n"
}

func renderTrend(t TrendView) string {
	if len(t.Points) == 0 {
		return mutedStyle.Render("No expenses in range.") + "\n"
	}

	peak := decimal.Zero
	for _, p := range t.Points {
		if p.Value.GreaterThan(peak) {
			peak = p.Value
		}
	}

	var b strings.Builder
	for _, p := range t.Points {
		pct := decimal.Zero
		if peak.IsPositive() {
			pct = p.Value.Mul(decimal.NewFromInt(100)).Div(peak)
		}
		fmt.Fprintf(&b, "%s %s %s\n", p.Month, progressBar(pct, barWidth), p.Amount)
	}
	b.WriteString(mutedStyle.Render("Average per month: " + t.Average))
	b.WriteString("\n")

	switch t.Insight.Kind {
	case aggregator.InsightAbove:
		b.WriteString(warnStyle.Render(t.Insight.Message))
	case aggregator.InsightBelow, aggregator.InsightOnTrack:
		b.WriteString(incomeStyle.Render(t.Insight.Message))
	default:
		b.WriteString(mutedStyle.Render(t.Insight.Message))
	}
	b.WriteString("\n")
	return b.String()
}

func renderRows(rows []Row) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No transactions.") + "\n"
	}
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Date, r.Description, r.Amount, r.Category}
	}
	t := newTable("Date", "Description", "Amount", "Category").Rows(data...)
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 2 && row >= 0 && row < len(rows) && rows[row].Income:
			return cellStyle.Foreground(colorGreen)
		case col == 2:
			return cellStyle.Foreground(colorRed)
		default:
			return cellStyle
		}
	})
	return t.Render() + "\n"
}

// RenderBudget renders the 50/30/20 table and its feedback line.
func RenderBudget(bv BudgetView) string {
	t := newTable("Bucket", "Amount", "Share", "Target").Rows(
		[]string{"Needs", bv.Needs, bv.Percentages.Needs.StringFixed(1) + "%", "50%"},
		[]string{"Wants", bv.Wants, bv.Percentages.Wants.StringFixed(1) + "%", "30%"},
		[]string{"Savings", bv.Savings, bv.Percentages.Savings.StringFixed(1) + "%", "20%"},
	)

	style := incomeStyle
	switch bv.Feedback.Kind {
	case budget.FeedbackOverspending, budget.FeedbackUnderSaving:
		style = warnStyle
	case budget.FeedbackNoData:
		style = mutedStyle
	}
	return t.Render() + "\n" + style.Render(bv.Feedback.Message) + "\n"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// progressBar renders pct (0-100) as a block bar of width cells.
func progressBar(pct decimal.Decimal, width int) string {
	filled := int(pct.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart())
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
