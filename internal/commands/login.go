package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Authenticate against the fleet backend. On success the token is stored
locally so the other commands and the UI start signed in.`,
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		remember, _ := cmd.Flags().GetBool("remember")

		reader := bufio.NewReader(os.Stdin)
		if username == "" {
			fmt.Print("Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error reading username:", err)
				os.Exit(1)
			}
			username = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Print("Password: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error reading password:", err)
				os.Exit(1)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		ok, msg := a.session.Login(context.Background(), username, password, remember)
		if !ok {
			fmt.Fprintln(os.Stderr, "Login failed:", msg)
			os.Exit(1)
		}

		user := a.session.User()
		fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
	}),
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username (prompted if omitted)")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted if omitted)")
	loginCmd.Flags().Bool("remember", false, "Ask the server for a long-lived session")
}
