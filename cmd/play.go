/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Banh-Canh/jtv/internal/player"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

var playRestart bool

var itemIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

var playCmd = &cobra.Command{
	Use:   "play <id or query>",
	Short: "Play an item in mpv",
	Long: `
Play a movie or episode in mpv. The argument is either an item ID
(as printed by 'jtv search') or a query whose first match is played.
A series resolves to its next unwatched episode.

Partially watched items resume where they left off unless --restart
is given. Progress is reported to the server while mpv runs.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := jellyfin.ConnectFromConfig(func(key string) string {
			return viper.GetString(key)
		})
		if err != nil {
			fmt.Printf("❌ Error connecting to Jellyfin: %v\n", err)
			os.Exit(1)
		}

		item, err := resolvePlayable(client, strings.Join(args, " "))
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		mediaURL, isLocal := client.Playback.PlaybackURL(item)

		var startSeconds float64
		if !playRestart && item.UserData != nil && !item.UserData.Played {
			startSeconds = jellyfin.TicksToSeconds(item.UserData.PlaybackPositionTicks)
		}

		title := item.Name
		if item.Type == "Episode" && item.SeriesName != "" {
			title = fmt.Sprintf("%s · %s", item.SeriesName, item.Name)
		}

		p := player.New(player.Config{
			Command: viper.GetString("player.command"),
			Args:    viper.GetStringSlice("player.args"),
		})

		reporter := client.Playback.NewReporter(item.ID, isLocal)
		session, err := p.Start(mediaURL, startSeconds, player.Hooks{
			OnProgress: func(status player.Status) {
				reporter.Progress(status.Position, status.Paused)
			},
			OnExit: func(status player.Status) {
				if reporter.Finished(status.Position, status.Duration) {
					fmt.Printf("✓ Marked %s as watched\n", title)
				}
			},
		})
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		if startSeconds > 0 {
			fmt.Printf("▶ Resuming %s\n", title)
		} else {
			fmt.Printf("▶ Playing %s\n", title)
		}
		reporter.Started(startSeconds)

		session.Wait()
	},
}

// resolvePlayable turns the argument into a playable item: exact ID, else
// first search match, with series resolving to their next-up episode.
func resolvePlayable(client *jellyfin.Client, query string) (*jellyfin.BaseItem, error) {
	var item *jellyfin.BaseItem

	if itemIDPattern.MatchString(query) {
		if found, err := client.Items.Details(query); err == nil {
			item = found
		}
	}

	if item == nil {
		results, err := client.Items.Search(query, 5)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("no match for %q", query)
		}

		// Details carries the resume position and media sources the
		// search listing may omit.
		found, err := client.Items.Details(results[0].ID)
		if err != nil {
			return nil, err
		}
		item = found
	}

	if item.Type == "Series" {
		next, err := client.Items.NextUp(item.ID, 1)
		if err != nil || len(next) == 0 {
			return nil, fmt.Errorf("%s is a series with nothing up next, pick an episode", item.Name)
		}
		return client.Items.Details(next[0].ID)
	}

	if item.IsFolder {
		return nil, fmt.Errorf("%s is not playable", item.Name)
	}
	return item, nil
}

func init() {
	playCmd.Flags().BoolVar(&playRestart, "restart", false, "play from the beginning, ignoring the resume position")
	RootCmd.AddCommand(playCmd)
}
