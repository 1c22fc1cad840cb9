// Package query implements the read-only report command
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/cmd/root"
	"fjacquet/bank-import/internal/report"
)

var (
	month  string
	flow   string
	format string
)

// Cmd represents the query command
var Cmd = &cobra.Command{
	Use:   "query NAME",
	Short: "Run a report query against the imported data",
	Long: fmt.Sprintf(`Run a named report query against the database and print the rows.
The database is opened read-only.

Queries: %s

transactions-by-month and category-breakdown need --month and --type.

Example:
  bank-import query category-breakdown --month 2024-01 --type EXPENSE`, strings.Join(report.QueryNames(), ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: report.QueryNames(),
	RunE:      queryFunc,
}

func init() {
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Month as YYYY-MM")
	Cmd.Flags().StringVarP(&flow, "type", "t", "", "Category type: INCOME or EXPENSE")
	Cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or csv")
}

func queryFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("container not initialized")
	}

	params, err := report.NewParams(month, flow)
	if err != nil {
		return err
	}

	svc, err := c.Reports(cmd.Context())
	if err != nil {
		return err
	}
	result, err := svc.Dispatch(cmd.Context(), args[0], params)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), result, format)
}
