// Package institutions lists the configured institution keys
package institutions

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/cmd/root"
	"fjacquet/bank-import/internal/institution"
)

// Cmd represents the institutions command
var Cmd = &cobra.Command{
	Use:   "institutions",
	Short: "List the institution keys of the institution file",
	Long: `List every institution key defined in the institution file with the account
its rows are booked to. Invalid entries are listed with the reason they
cannot be used.`,
	Args: cobra.NoArgs,
	RunE: institutionsFunc,
}

func institutionsFunc(cmd *cobra.Command, _ []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("container not initialized")
	}
	reg, err := c.Institutions()
	if err != nil {
		return err
	}
	list(cmd.OutOrStdout(), reg)
	return nil
}

func list(w io.Writer, reg *institution.Registry) {
	for _, key := range reg.Keys() {
		inst, err := reg.Lookup(key)
		if err != nil {
			fmt.Fprintf(w, "%s\tinvalid: %v\n", key, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s (%s)\t%d rules\n", key, inst.Account.Name, inst.Account.Type, len(inst.Rules))
	}
}
