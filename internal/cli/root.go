package cli

import (
	"os"

	"github.com/noema/dashboard/internal/app"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "noema",
	Short: "Submit financing requests to the Noema dashboard",
	Long: `Noema collects financing requests, checks them against the form rules and
submits them to the request API.

Running noema without arguments in a terminal launches the interactive TUI.
Use subcommands for scripted submissions and reference lookups.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return cmd.Help()
		}
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

// WantsTUI reports whether args select the interactive UI, which owns the
// terminal and so needs logs routed to a file
func WantsTUI(args []string) bool {
	if len(args) == 0 {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
	return args[0] == tuiCmd.Name()
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(currenciesCmd)
	rootCmd.AddCommand(configCmd)
}
