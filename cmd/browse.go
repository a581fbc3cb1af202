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

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the Jellyfin library",
	Long: `
Browse your Jellyfin media library using an interactive TUI.

Home rows, libraries, details, seasons and episodes. Use arrow keys
or hjkl to navigate, Enter to open, Space/p to play.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Create and authenticate client
		client, err := jellyfin.ConnectFromConfig(func(key string) string {
			return viper.GetString(key)
		})
		if err != nil {
			fmt.Printf("❌ Error connecting to Jellyfin: %v\n", err)
			os.Exit(1)
		}

		// Start TUI with authenticated client
		if err := ui.Run(client); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(browseCmd)
}
