package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List selectable countries",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opecOnly, _ := cmd.Flags().GetBool("opec")

		fmt.Fprintf(out, "%-5s %-30s %-5s\n", "Code", "Name", "OPEC")
		fmt.Fprintln(out, "------------------------------------------")

		count := 0
		for _, c := range appInstance.Catalog.Countries() {
			if opecOnly && !c.IsOPEC {
				continue
			}
			marker := ""
			if c.IsOPEC {
				marker = "yes"
			}
			fmt.Fprintf(out, "%-5s %-30s %-5s\n", c.Code, truncate(c.Name, 30), marker)
			count++
		}

		fmt.Fprintf(out, "\nTotal: %d country(ies)\n", count)
		return nil
	},
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List selectable currencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		currencies := appInstance.Catalog.Currencies()

		fmt.Fprintf(out, "%-5s %-30s %-8s\n", "Code", "Name", "Symbol")
		fmt.Fprintln(out, "------------------------------------------")
		for _, c := range currencies {
			fmt.Fprintf(out, "%-5s %-30s %-8s\n", c.Code, truncate(c.Name, 30), c.SymbolNative)
		}

		fmt.Fprintf(out, "\nTotal: %d currency(ies)\n", len(currencies))
		return nil
	},
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func init() {
	countriesCmd.Flags().Bool("opec", false, "Only list OPEC member countries")
}
