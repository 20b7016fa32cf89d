package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus is the lifecycle state of a saved goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// Goal is a user-defined savings target. MonthlySavingsNeeded and
// MonthsRemaining are derived and stay nil while TargetDate is unset.
type Goal struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	TargetAmount         decimal.Decimal  `json:"targetAmount"`
	SavedAmount          decimal.Decimal  `json:"savedAmount"`
	TargetDate           *time.Time       `json:"targetDate,omitempty"`
	MonthlySavingsNeeded *decimal.Decimal `json:"monthlySavingsNeeded"`
	MonthsRemaining      *int             `json:"monthsRemaining"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// Status derives Active or Completed from the amounts.
func (g Goal) Status() GoalStatus {
	if g.SavedAmount.GreaterThanOrEqual(g.TargetAmount) {
		return GoalCompleted
	}
	return GoalActive
}

// Remaining returns the amount still to save, never negative.
func (g Goal) Remaining() decimal.Decimal {
	left := g.TargetAmount.Sub(g.SavedAmount)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// ProgressPercent returns saved/target as a percentage with one decimal.
func (g Goal) ProgressPercent() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
}

// NeedsTargetDate reports whether the projection cannot be computed yet.
func (g Goal) NeedsTargetDate() bool {
	return g.TargetDate == nil
}
