// Package goals tracks savings goals persisted as one JSON array under a
// single key-value store key. Every mutation reads the whole array, changes
// it and writes it back.
package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/kvstore"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStoreKey is the key holding the goal array.
const DefaultStoreKey = "savingsGoals"

// Input carries the user-entered fields of a goal.
type Input struct {
	Name         string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	TargetDate   *time.Time
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.Invalid("name", "goal name is required")
	}
	if !in.TargetAmount.IsPositive() {
		return apperror.Invalid("target amount", "must be greater than zero, got %s", in.TargetAmount)
	}
	if in.SavedAmount.IsNegative() {
		return apperror.Invalid("saved amount", "must not be negative, got %s", in.SavedAmount)
	}
	return nil
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(t *Tracker) { t.newID = newID }
}

// Tracker manages goals in a kvstore.Store.
type Tracker struct {
	store  kvstore.Store
	key    string
	now    func() time.Time
	newID  func() (string, error)
	logger logging.Logger
	mu     sync.Mutex
}

// NewTracker creates a Tracker storing goals under key (DefaultStoreKey when empty).
func NewTracker(store kvstore.Store, key string, logger logging.Logger, opts ...Option) *Tracker {
	if key == "" {
		key = DefaultStoreKey
	}
	t := &Tracker{
		store:  store,
		key:    key,
		now:    time.Now,
		newID:  newUUIDv7,
		logger: logging.OrDefault(logger),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// MonthlySavingsNeeded projects the monthly amount required to reach target by
// targetDate. Months are counted on the calendar, (ty-ny)*12 - nm + tm, and
// never fewer than one; the amount is rounded to two decimals and zero once
// saved covers target.
func MonthlySavingsNeeded(target decimal.Decimal, targetDate time.Time, saved decimal.Decimal, now time.Time) (decimal.Decimal, int) {
	months := dateutils.MonthsBetween(now, targetDate)
	if months < 1 {
		months = 1
	}
	left := target.Sub(saved)
	if !left.IsPositive() {
		return decimal.Zero, months
	}
	return left.Div(decimal.NewFromInt(int64(months))).Round(2), months
}

// project refreshes the derived fields of g.
func (t *Tracker) project(g *models.Goal) {
	if g.TargetDate == nil {
		g.MonthlySavingsNeeded = nil
		g.MonthsRemaining = nil
		return
	}
	needed, months := MonthlySavingsNeeded(g.TargetAmount, *g.TargetDate, g.SavedAmount, t.now())
	g.MonthlySavingsNeeded = &needed
	g.MonthsRemaining = &months
}

// Create validates in and stores a new goal.
func (t *Tracker) Create(ctx context.Context, in Input) (models.Goal, error) {
	if err := in.validate(); err != nil {
		return models.Goal{}, err
	}

	id, err := t.newID()
	if err != nil {
		return models.Goal{}, fmt.Errorf("generate goal id: %w", err)
	}

	goal := models.Goal{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		TargetAmount: in.TargetAmount,
		SavedAmount:  in.SavedAmount,
		TargetDate:   in.TargetDate,
		CreatedAt:    t.now(),
	}
	t.project(&goal)

	err = t.update(ctx, func(all []models.Goal) ([]models.Goal, error) {
		return append(all, goal), nil
	})
	if err != nil {
		return models.Goal{}, err
	}

	t.logger.Info("Created savings goal",
		logging.Field{Key: logging.FieldGoalID, Value: goal.ID},
		logging.Field{Key: logging.FieldStatus, Value: goal.Status()})
	return goal, nil
}

// Contribute adds amount to a goal's saved amount, capped at its target.
// A non-positive amount is rejected without touching storage.
func (t *Tracker) Contribute(ctx context.Context, id string, amount decimal.Decimal) (models.Goal, error) {
	if !amount.IsPositive() {
		return models.Goal{}, apperror.Invalid("contribution", "must be greater than zero, got %s", amount)
	}

	var updated models.Goal
	err := t.update(ctx, func(all []models.Goal) ([]models.Goal, error) {
		i, err := indexOf(all, id)
		if err != nil {
			return nil, err
		}
		g := &all[i]
		// Clamped at the target, but never below a balance already past it.
		g.SavedAmount = decimal.Max(g.SavedAmount, decimal.Min(g.SavedAmount.Add(amount), g.TargetAmount))
		t.project(g)
		updated = *g
		return all, nil
	})
	if err != nil {
		return models.Goal{}, err
	}

	t.logger.Info("Recorded contribution",
		logging.Field{Key: logging.FieldGoalID, Value: id},
		logging.Field{Key: logging.FieldStatus, Value: updated.Status()})
	return updated, nil
}

// Edit replaces the user-entered fields of a goal.
func (t *Tracker) Edit(ctx context.Context, id string, in Input) (models.Goal, error) {
	if err := in.validate(); err != nil {
		return models.Goal{}, err
	}

	var updated models.Goal
	err := t.update(ctx, func(all []models.Goal) ([]models.Goal, error) {
		i, err := indexOf(all, id)
		if err != nil {
			return nil, err
		}
		g := &all[i]
		g.Name = strings.TrimSpace(in.Name)
		g.TargetAmount = in.TargetAmount
		g.SavedAmount = in.SavedAmount
		g.TargetDate = in.TargetDate
		t.project(g)
		updated = *g
		return all, nil
	})
	if err != nil {
		return models.Goal{}, err
	}

	t.logger.Info("Edited savings goal", logging.Field{Key: logging.FieldGoalID, Value: id})
	return updated, nil
}

// Delete removes a goal.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	err := t.update(ctx, func(all []models.Goal) ([]models.Goal, error) {
		i, err := indexOf(all, id)
		if err != nil {
			return nil, err
		}
		return append(all[:i], all[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	t.logger.Info("Deleted savings goal", logging.Field{Key: logging.FieldGoalID, Value: id})
	return nil
}

// List returns every goal in creation order.
func (t *Tracker) List(ctx context.Context) ([]models.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Get returns one goal.
func (t *Tracker) Get(ctx context.Context, id string) (models.Goal, error) {
	all, err := t.List(ctx)
	if err != nil {
		return models.Goal{}, err
	}
	i, err := indexOf(all, id)
	if err != nil {
		return models.Goal{}, err
	}
	return all[i], nil
}

// update runs fn on the stored array and writes the result back.
func (t *Tracker) update(ctx context.Context, fn func([]models.Goal) ([]models.Goal, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.load(ctx)
	if err != nil {
		return err
	}
	all, err = fn(all)
	if err != nil {
		return err
	}
	return t.save(ctx, all)
}

func (t *Tracker) load(ctx context.Context) ([]models.Goal, error) {
	data, ok, err := t.store.Get(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	if !ok || len(data) == 0 {
		return []models.Goal{}, nil
	}

	var all []models.Goal
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode goals under %s: %w", t.key, err)
	}
	if all == nil {
		all = []models.Goal{}
	}
	return all, nil
}

func (t *Tracker) save(ctx context.Context, all []models.Goal) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	if err := t.store.Set(ctx, t.key, data); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	t.logger.Debug("Saved goals",
		logging.Field{Key: logging.FieldStoreKey, Value: t.key},
		logging.Field{Key: logging.FieldCount, Value: len(all)})
	return nil
}

func indexOf(all []models.Goal, id string) (int, error) {
	for i := range all {
		if all[i].ID == id {
			return i, nil
		}
	}
	return -1, &apperror.UserInputError{
		Field:   "goal id",
		Message: fmt.Sprintf("no goal with id %q", id),
		Err:     apperror.ErrNotFound,
	}
}

// IsNotFound reports whether err names an unknown goal.
func IsNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
