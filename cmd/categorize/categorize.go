// Package categorize implements a dry run of the classification rules
package categorize

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/cmd/root"
	"fjacquet/bank-import/internal/categorizer"
)

var (
	institutionKey string
	description    string
	bankCategory   string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Show how a description would be categorized",
	Long: `Show which bank category mapping and which rule of an institution would
apply to a transaction. Nothing is written to the database.

Example:
  bank-import categorize --institution visa --description "AMAZON MKTPLACE" --bank-category Shopping`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&institutionKey, "institution", "i", "", "Institution key")
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description (payee)")
	Cmd.Flags().StringVarP(&bankCategory, "bank-category", "b", "", "Category assigned by the bank (optional)")
	_ = Cmd.MarkFlagRequired("institution")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, _ []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("container not initialized")
	}
	reg, err := c.Institutions()
	if err != nil {
		return err
	}
	inst, err := reg.Lookup(institutionKey)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Institution: %s (account %s)\n", inst.Key, inst.Account.Name)

	if bankCategory != "" {
		if mapped, ok := categorizer.MapBankCategory(inst.CategoryMappings, bankCategory); ok {
			fmt.Fprintf(w, "Bank category %q maps to %s\n", bankCategory, mapped)
		} else {
			fmt.Fprintf(w, "Bank category %q has no mapping\n", bankCategory)
		}
	}

	i, ok := categorizer.MatchRule(inst.Rules, description)
	if !ok {
		fmt.Fprintln(w, "No rule matched; the party default or Uncategorized applies")
		return nil
	}
	rule := inst.Rules[i]
	fmt.Fprintf(w, "Rule %d matched: %q\n", i+1, rule.Match)
	if rule.Category != "" {
		fmt.Fprintf(w, "  category: %s\n", rule.Category)
	}
	if rule.Party != "" {
		fmt.Fprintf(w, "  party: %s\n", rule.Party)
	}
	return nil
}
