/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := jellyfin.NewClientBuilder().
			WithServerURL(viper.GetString("jellyfin.server_url")).
			Build()
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		if err := client.Auth.LoadSession(); err != nil {
			fmt.Println("No saved session.")
			return
		}

		if err := client.Auth.Logout(); err != nil {
			fmt.Printf("❌ Logout failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Logged out.")
	},
}

func init() {
	RootCmd.AddCommand(logoutCmd)
}
