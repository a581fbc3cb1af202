/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

var searchLimit int

var (
	searchTitleStyle = lipgloss.NewStyle().Bold(true)
	searchMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	searchIDStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the library",
	Long: `
Search movies, series and episodes on the server and print the matches.
The printed IDs can be passed to 'jtv play'.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := jellyfin.ConnectFromConfig(func(key string) string {
			return viper.GetString(key)
		})
		if err != nil {
			fmt.Printf("❌ Error connecting to Jellyfin: %v\n", err)
			os.Exit(1)
		}

		query := strings.Join(args, " ")
		results, err := client.Items.Search(query, searchLimit)
		if err != nil {
			fmt.Printf("❌ Search failed: %v\n", err)
			os.Exit(1)
		}

		if len(results) == 0 {
			fmt.Printf("No results for %q\n", query)
			return
		}

		for i := range results {
			item := &results[i]

			meta := item.Type
			if item.ProductionYear > 0 {
				meta = fmt.Sprintf("%s, %d", meta, item.ProductionYear)
			}
			if item.Type == "Episode" && item.SeriesName != "" {
				meta = fmt.Sprintf("%s, %s", meta, item.SeriesName)
			}

			marker := "  "
			if item.UserData != nil && item.UserData.Played {
				marker = "✓ "
			}

			fmt.Printf("%s%s %s\n   %s\n",
				marker,
				searchTitleStyle.Render(item.Name),
				searchMetaStyle.Render("("+meta+")"),
				searchIDStyle.Render(item.ID),
			)
		}
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	RootCmd.AddCommand(searchCmd)
}
