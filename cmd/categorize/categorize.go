// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/finance-dashboard/cmd/root"
	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/categorizer"
	"fjacquet/finance-dashboard/internal/container"
)

var listKeywords bool

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [description...]",
	Short: "Categorize transaction descriptions by keyword",
	Long: `Categorize transaction descriptions using the configured keyword map. The
first keyword, in configuration order, found anywhere in the lower-cased
description decides the category; descriptions with no match are Other.`,
	Example: `  finance-dashboard categorize "AMAZON MKTPLACE PMTS" "Whole Foods #123"
  finance-dashboard categorize --list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, args, listKeywords, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVarP(&listKeywords, "list", "l", false, "List the keyword map in matching order")
}

// Run prints the category of each description, or the keyword map when list
// is set.
func Run(ctx context.Context, c *container.Container, descriptions []string, list bool, w io.Writer) error {
	keywords := c.Keywords(ctx)

	if list {
		if len(keywords) == 0 {
			_, err := fmt.Fprintln(w, "No category keywords configured.")
			return err
		}
		for _, rule := range keywords {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", rule.Keyword, rule.Category); err != nil {
				return err
			}
		}
		return nil
	}

	if len(descriptions) == 0 {
		return &apperror.UserInputError{Field: "description", Message: "at least one description is required"}
	}

	cat := categorizer.New(keywords, c.GetLogger())
	for _, desc := range descriptions {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", desc, cat.Categorize(desc)); err != nil {
			return err
		}
	}
	return nil
}
