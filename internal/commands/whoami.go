package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		if err := a.session.Initialize(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		user := a.session.User()
		if user == nil {
			fmt.Println("Not signed in. Run 'fleetdesk login' first.")
			os.Exit(1)
		}
		fmt.Printf("%s (%s)\n", user.Username, user.Role)
		if user.DisplayName != "" {
			fmt.Println("Name: ", user.DisplayName)
		}
		if user.Email != "" {
			fmt.Println("Email:", user.Email)
		}
	}),
}
