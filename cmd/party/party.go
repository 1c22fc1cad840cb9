// Package party manages party default categories
package party

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/cmd/root"
)

// Cmd represents the party command
var Cmd = &cobra.Command{
	Use:   "party",
	Short: "Manage parties (payees)",
}

// SetDefaultCmd sets the category used for a party's uncategorized rows.
var SetDefaultCmd = &cobra.Command{
	Use:   "set-default PARTY CATEGORY",
	Short: "Set the default category of a party",
	Long: `Set the category applied to a party's future transactions when neither a bank
category mapping nor a rule decides one. The party is created if it does not
exist yet. Existing transactions are not changed.

Run the next import with --reset=false, otherwise the database is rebuilt and
the default is lost.

Example:
  bank-import party set-default "WHOLE FOODS" Groceries`,
	Args: cobra.ExactArgs(2),
	RunE: setDefaultFunc,
}

func init() {
	Cmd.AddCommand(SetDefaultCmd)
}

func setDefaultFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("container not initialized")
	}
	store := c.GetStore()
	index, err := store.Init(cmd.Context())
	if err != nil {
		return err
	}
	if err := store.SetPartyDefaultCategory(cmd.Context(), args[0], args[1], index); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now defaults to %s\n", args[0], args[1])
	return nil
}
