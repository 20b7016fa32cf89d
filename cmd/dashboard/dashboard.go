// Package dashboard implements the dashboard command: upload a CSV and render
// the summary cards, breakdown, trend, table, budget and goals.
package dashboard

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/finance-dashboard/cmd/common"
	"fjacquet/finance-dashboard/cmd/root"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/report"
)

// Options are the dashboard command flags.
type Options struct {
	Controls common.Controls
	Format   string
}

var opts = Options{Format: common.FormatText}

// Cmd represents the dashboard command
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the finance dashboard for a transaction CSV",
	Long: `Upload a transaction CSV and show income, expenses and net balance, spending
by category, the monthly expense trend, the transaction table, the 50/30/20
budget split and savings goals.`,
	Example: `  finance-dashboard dashboard -i bank.csv
  finance-dashboard dashboard -i bank.csv --start 2024-01-01 --end 2024-03-31 --sort amount --order desc
  finance-dashboard dashboard -i bank.csv --currency EUR --all --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, root.SharedFlags.Input, opts, cmd.OutOrStdout())
	},
}

func init() {
	opts.Controls.BindFilterFlags(Cmd.Flags())
	opts.Controls.BindTableFlags(Cmd.Flags())
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", common.FormatText, "Output format: text or json")
}

// Run uploads inputFile, applies the controls and renders the view to w.
func Run(ctx context.Context, c *container.Container, inputFile string, o Options, w io.Writer) error {
	if err := common.CheckFormat(o.Format); err != nil {
		return err
	}

	d, err := common.LoadSession(ctx, c, inputFile)
	if err != nil {
		return err
	}
	state, err := common.ApplyControls(d, o.Controls, c.GetConfig().Location())
	if err != nil {
		return err
	}

	deps, err := c.ReportDeps(ctx)
	if err != nil {
		return err
	}
	v, err := report.Build(state, deps)
	if err != nil {
		return err
	}

	if strings.EqualFold(o.Format, common.FormatJSON) {
		return report.RenderJSON(w, v)
	}
	return report.RenderText(w, v)
}
