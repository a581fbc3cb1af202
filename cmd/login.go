/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Banh-Canh/jtv/internal/ui"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

var (
	loginUsername string
	loginPassword string
	loginQuick    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Jellyfin server",
	Long: `
Log in to the configured Jellyfin server and save the session.

With --username and --password the login runs non-interactively.
With --quick the server's Quick Connect flow is used: a code is shown
here and approved from another signed-in Jellyfin app. Without flags
an interactive form asks for credentials.`,
	Run: func(cmd *cobra.Command, args []string) {
		serverURL := viper.GetString("jellyfin.server_url")

		client, err := jellyfin.NewClientBuilder().
			WithServerURL(serverURL).
			Build()
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		if err := client.Auth.TestConnection(); err != nil {
			fmt.Printf("❌ Cannot reach %s: %v\n", serverURL, err)
			os.Exit(1)
		}

		switch {
		case loginQuick:
			err = client.Auth.AuthenticateWithQuickConnect()
		case loginUsername != "" && loginPassword != "":
			err = client.Auth.Login(loginUsername, loginPassword)
		default:
			var creds ui.LoginResult
			creds, err = ui.RunLoginForm(serverURL, loginUsername)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			if creds.QuickConnect {
				err = client.Auth.AuthenticateWithQuickConnect()
			} else {
				err = client.Auth.Login(creds.Username, creds.Password)
			}
		}
		if err != nil {
			fmt.Printf("❌ Login failed: %v\n", err)
			os.Exit(1)
		}

		if err := client.Auth.SaveSession(); err != nil {
			fmt.Printf("⚠️  Logged in, but saving the session failed: %v\n", err)
			return
		}

		name := ""
		if user, err := client.Auth.CurrentUser(); err == nil {
			name = user.Name
		}
		if name != "" {
			fmt.Printf("✅ Logged in as %s\n", name)
		} else {
			fmt.Println("✅ Logged in")
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Jellyfin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Jellyfin password")
	loginCmd.Flags().BoolVarP(&loginQuick, "quick", "q", false, "use Quick Connect instead of a password")
	RootCmd.AddCommand(loginCmd)
}
