// Package budget implements the budget command, the 50/30/20 split of the
// uploaded expenses.
package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/finance-dashboard/cmd/common"
	"fjacquet/finance-dashboard/cmd/root"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/report"
)

// Options are the budget command flags.
type Options struct {
	Controls common.Controls
	Format   string
}

var opts = Options{Format: common.FormatText}

// Cmd represents the budget command
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Check expenses against the 50/30/20 rule",
	Long: `Split the uploaded expenses into needs, wants and savings using the
configured category buckets and compare them with the 50/30/20 rule.
Categories outside every bucket are left out of the split.`,
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
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", common.FormatText, "Output format: text or json")
}

// Run uploads inputFile and writes the budget split to w.
func Run(ctx context.Context, c *container.Container, inputFile string, o Options, w io.Writer) error {
	if err := common.CheckFormat(o.Format); err != nil {
		return err
	}

	d, err := common.LoadSession(ctx, c, inputFile)
	if err != nil {
		return err
	}
	state, err := common.ApplyControls(d, common.Controls{Start: o.Controls.Start, End: o.Controls.End}, c.GetConfig().Location())
	if err != nil {
		return err
	}

	deps, err := c.ReportDeps(ctx)
	if err != nil {
		return err
	}
	deps.Goals = nil
	v, err := report.Build(state, deps)
	if err != nil {
		return err
	}
	if v.Budget == nil {
		return fmt.Errorf("budget analyzer not configured")
	}

	if strings.EqualFold(o.Format, common.FormatJSON) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v.Budget)
	}
	_, err = io.WriteString(w, report.RenderBudget(*v.Budget))
	return err
}
