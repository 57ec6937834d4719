package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		// Restore the persisted token first so the server sees the logout.
		_ = a.session.Initialize(context.Background())
		a.session.Logout(context.Background())
		fmt.Println("Signed out.")
	}),
}
