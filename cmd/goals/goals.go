// Package goals implements the goals command and its add, list, contribute,
// edit and delete subcommands.
package goals

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"fjacquet/finance-dashboard/cmd/root"
	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/currencyutils"
	"fjacquet/finance-dashboard/internal/dateutils"
	"fjacquet/finance-dashboard/internal/goals"
	"fjacquet/finance-dashboard/internal/models"
	"fjacquet/finance-dashboard/internal/report"
)

// GoalFlags are the user-entered goal fields. Empty strings mean "not given".
type GoalFlags struct {
	Name       string
	Target     string
	Saved      string
	TargetDate string
	NoDate     bool
}

var (
	addFlags        GoalFlags
	editFlags       GoalFlags
	contributeValue string
)

// Cmd represents the goals command
var Cmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage savings goals",
	Long: `Create and track savings goals. A goal with a target date shows how much to
save each month to reach it; contributions stop at the target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCmd.RunE(cmd, args)
	},
}

var addCmd = &cobra.Command{
	Use:     "add",
	Short:   "Create a savings goal",
	Example: `  finance-dashboard goals add --name "Vacation" --target 1200 --date 2025-06-01`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Add(cmd.Context(), c, addFlags, cmd.OutOrStdout())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List savings goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return List(cmd.Context(), c, cmd.OutOrStdout())
	},
}

var contributeCmd = &cobra.Command{
	Use:   "contribute <goal-id>",
	Short: "Add money to a savings goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Contribute(cmd.Context(), c, args[0], contributeValue, cmd.OutOrStdout())
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <goal-id>",
	Short: "Change a savings goal",
	Long:  `Change the fields given as flags and keep the others. --no-date removes the target date.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Edit(cmd.Context(), c, args[0], editFlags, cmd.OutOrStdout())
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <goal-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a savings goal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Delete(cmd.Context(), c, args[0], cmd.OutOrStdout())
	},
}

func init() {
	bindGoalFlags(addCmd, &addFlags)
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("target")

	bindGoalFlags(editCmd, &editFlags)
	editCmd.Flags().BoolVar(&editFlags.NoDate, "no-date", false, "Remove the target date")

	contributeCmd.Flags().StringVarP(&contributeValue, "amount", "a", "", "Amount to add")
	_ = contributeCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(addCmd, listCmd, contributeCmd, editCmd, deleteCmd)
}

func bindGoalFlags(cmd *cobra.Command, f *GoalFlags) {
	cmd.Flags().StringVarP(&f.Name, "name", "n", "", "Goal name")
	cmd.Flags().StringVarP(&f.Target, "target", "t", "", "Target amount")
	cmd.Flags().StringVarP(&f.Saved, "saved", "s", "", "Amount already saved")
	cmd.Flags().StringVarP(&f.TargetDate, "date", "d", "", "Target date (YYYY-MM-DD)")
}

// Add creates a goal from f.
func Add(ctx context.Context, c *container.Container, f GoalFlags, w io.Writer) error {
	in, err := f.apply(goals.Input{}, c.GetConfig().Location())
	if err != nil {
		return err
	}
	g, err := c.GetGoalTracker().Create(ctx, in)
	if err != nil {
		return err
	}
	return printGoal(w, "Created", g, c.GetConfig().Currency.Base)
}

// List prints every goal converted to the display currency.
func List(ctx context.Context, c *container.Container, w io.Writer) error {
	all, err := c.GetGoalTracker().List(ctx)
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	var views []report.GoalView
	if len(all) > 0 {
		views = report.GoalViews(all, c.Converter(ctx), cfg.Currency.Display)
	}
	_, err = io.WriteString(w, report.RenderGoals(views))
	return err
}

// Contribute adds amount to the goal id.
func Contribute(ctx context.Context, c *container.Container, id, amount string, w io.Writer) error {
	value, err := parseAmount("amount", amount)
	if err != nil {
		return err
	}
	g, err := c.GetGoalTracker().Contribute(ctx, id, value)
	if err != nil {
		return err
	}
	return printGoal(w, "Updated", g, c.GetConfig().Currency.Base)
}

// Edit changes the fields of goal id that f sets.
func Edit(ctx context.Context, c *container.Container, id string, f GoalFlags, w io.Writer) error {
	tracker := c.GetGoalTracker()
	current, err := tracker.Get(ctx, id)
	if err != nil {
		return err
	}

	base := goals.Input{
		Name:         current.Name,
		TargetAmount: current.TargetAmount,
		SavedAmount:  current.SavedAmount,
		TargetDate:   current.TargetDate,
	}
	in, err := f.apply(base, c.GetConfig().Location())
	if err != nil {
		return err
	}

	g, err := tracker.Edit(ctx, id, in)
	if err != nil {
		return err
	}
	return printGoal(w, "Updated", g, c.GetConfig().Currency.Base)
}

// Delete removes the goal id.
func Delete(ctx context.Context, c *container.Container, id string, w io.Writer) error {
	if err := c.GetGoalTracker().Delete(ctx, id); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Deleted goal %s\n", id)
	return err
}

// apply overlays the fields f sets onto in.
func (f GoalFlags) apply(in goals.Input, loc *time.Location) (goals.Input, error) {
	if f.Name != "" {
		in.Name = f.Name
	}
	if f.Target != "" {
		v, err := parseAmount("target", f.Target)
		if err != nil {
			return in, err
		}
		in.TargetAmount = v
	}
	if f.Saved != "" {
		v, err := parseAmount("saved", f.Saved)
		if err != nil {
			return in, err
		}
		in.SavedAmount = v
	}
	switch {
	case f.NoDate:
		in.TargetDate = nil
	case f.TargetDate != "":
		d, err := dateutils.ParseCalendarDate(f.TargetDate, loc)
		if err != nil {
			return in, &apperror.UserInputError{Field: "date", Message: "invalid target date", Err: err}
		}
		in.TargetDate = &d
	}
	return in, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	v, err := currencyutils.ParseAmount(s)
	if err != nil {
		return decimal.Zero, &apperror.UserInputError{Field: field, Message: fmt.Sprintf("invalid amount %q", s), Err: err}
	}
	return v, nil
}

func printGoal(w io.Writer, verb string, g models.Goal, currency string) error {
	line := fmt.Sprintf("%s goal %s (%s): %s of %s, %s",
		verb, g.ID, g.Name,
		currencyutils.Format(g.SavedAmount, currency),
		currencyutils.Format(g.TargetAmount, currency),
		g.Status())
	if g.MonthlySavingsNeeded != nil && g.MonthsRemaining != nil {
		line += fmt.Sprintf(", save %s/month for %d months",
			currencyutils.Format(*g.MonthlySavingsNeeded, currency), *g.MonthsRemaining)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
