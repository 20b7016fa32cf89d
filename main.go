package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/finance-dashboard/cmd/budget"
	"fjacquet/finance-dashboard/cmd/categorize"
	"fjacquet/finance-dashboard/cmd/dashboard"
	"fjacquet/finance-dashboard/cmd/export"
	"fjacquet/finance-dashboard/cmd/goals"
	"fjacquet/finance-dashboard/cmd/root"
)

func init() {
	// Initialize root command flags, then add all subcommands
	root.Init()

	root.Cmd.AddCommand(dashboard.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(goals.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
