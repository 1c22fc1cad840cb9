// Package batch implements the import command
package batch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/cmd/root"
	"fjacquet/bank-import/internal/batch"
	"fjacquet/bank-import/internal/logging"
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:     "import <file> <institution> [<file> <institution> ...]",
	Aliases: []string{"batch"},
	Short:   "Import bank CSV files into the database",
	Long: `Import one or more bank CSV exports. Arguments are (file, institution) pairs;
the institution key selects the column map, date format, category mappings
and rules from the institution file.

By default the database is deleted and rebuilt from the given files. Pass
--reset=false to add to the existing data instead.

Example:
  bank-import import visa-2024.csv visa checking-2024.csv checking`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().Bool("reset", true, "Delete the existing database before importing")
}

func importFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("container not initialized")
	}

	pairs, err := batch.ParsePairs(args)
	if err != nil {
		printUsage(cmd, err)
		return err
	}

	runner, err := c.Runner()
	if err != nil {
		return err
	}

	cfg := c.GetConfig()
	summary, err := runner.Run(cmd.Context(), pairs, batch.Options{Reset: cfg.Import.Reset})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	if n := summary.Failures(); n > 0 {
		root.Log.Warn("Some files were not imported", logging.F("failed_files", n))
	}
	return nil
}

// printUsage writes the usage text and the known institution keys.
func printUsage(cmd *cobra.Command, cause error) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n\n", cause)
	fmt.Fprint(w, cmd.UsageString())

	reg, err := root.GetContainer().Institutions()
	if err != nil {
		fmt.Fprintf(w, "\nInstitution keys unavailable: %v\n", err)
		return
	}
	fmt.Fprintf(w, "\nKnown institutions: %s\n", strings.Join(reg.Keys(), ", "))
}

// printSummary writes one line per file and the aggregate total.
func printSummary(w io.Writer, s batch.Summary) {
	for _, f := range s.Files {
		if f.Failed() {
			fmt.Fprintf(w, "%s (%s): failed: %v\n", f.Path, f.Key, f.Err)
			continue
		}
		fmt.Fprintf(w, "%s (%s): %d inserted, %d skipped\n", f.Path, f.Key, f.Inserted, f.Rows.Skipped())
	}
	fmt.Fprintf(w, "Total rows imported: %d\n", s.Total)
}
