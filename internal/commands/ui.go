package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fleetdesk/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive admin UI",
	Long: `Start the full-screen terminal UI. The stored session is restored on
startup; otherwise the login screen is shown first.`,
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		deps := tui.Deps{
			Session: a.session,
			Client:  a.client,
			Fleet:   a.fleet,
			Reports: a.reports,
			Log:     a.log,
		}
		if err := tui.Run(deps); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}),
}
