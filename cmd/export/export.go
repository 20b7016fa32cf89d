// Package export implements the export command, which writes the filtered
// transactions with their categories to a CSV file.
package export

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/finance-dashboard/cmd/common"
	"fjacquet/finance-dashboard/cmd/root"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/session"
	"fjacquet/finance-dashboard/internal/tableview"
)

// Options are the export command flags.
type Options struct {
	Controls common.Controls
	Output   string
}

var opts Options

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export categorized transactions to CSV",
	Long: `Upload a transaction CSV, apply the date filter and sort order, and write
every matching transaction with its category. Use --output - to write to
standard output.`,
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
	Cmd.Flags().StringVar(&opts.Controls.Sort, "sort", "", "Sort column: date, description, amount or category")
	Cmd.Flags().StringVar(&opts.Controls.Order, "order", "", "Sort direction: asc or desc")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default from csv.export_file)")
}

// Run uploads inputFile and exports the filtered, sorted transactions. The
// export ignores the preview limit.
func Run(ctx context.Context, c *container.Container, inputFile string, o Options, stdout io.Writer) error {
	d, err := common.LoadSession(ctx, c, inputFile)
	if err != nil {
		return err
	}
	state, err := common.ApplyControls(d, o.Controls, c.GetConfig().Location())
	if err != nil {
		return err
	}

	filtered, err := session.Filtered(state)
	if err != nil {
		return err
	}
	txs := tableview.Sort(filtered, state.Sort)

	csv := c.GetCSVHandler()
	output := o.Output
	if output == "" {
		output = c.GetConfig().CSV.ExportFile
	}
	if output == "-" {
		return csv.WriteTransactions(stdout, txs)
	}
	if err := csv.ExportFile(output, txs); err != nil {
		return err
	}

	c.GetLogger().Info("Exported transactions",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}
