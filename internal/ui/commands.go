package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/player"
	"github.com/Banh-Canh/jtv/internal/screens"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

func loadHome(builder *screens.Builder) tea.Cmd {
	return func() tea.Msg {
		state, err := builder.BuildHome()
		if err != nil {
			return errMsg{err}
		}
		return homeLoadedMsg{state}
	}
}

func loadCatalog(builder *screens.Builder, libraryID, libraryName, genre string, startIndex int) tea.Cmd {
	return func() tea.Msg {
		state, err := builder.BuildCatalog(libraryID, libraryName, genre, startIndex)
		if err != nil {
			return errMsg{err}
		}
		return catalogLoadedMsg{state}
	}
}

func loadDetails(builder *screens.Builder, itemID string) tea.Cmd {
	return func() tea.Msg {
		state, err := builder.BuildDetails(itemID)
		if err != nil {
			return errMsg{err}
		}
		return detailsLoadedMsg{state}
	}
}

func loadEpisodes(builder *screens.Builder, season media.Season, seriesName string) tea.Cmd {
	return func() tea.Msg {
		state, err := builder.BuildEpisodes(season, seriesName)
		if err != nil {
			return errMsg{err}
		}
		return episodesLoadedMsg{state}
	}
}

func loadSearch(builder *screens.Builder, query string) tea.Cmd {
	return func() tea.Msg {
		state, err := builder.BuildSearch(query)
		if err != nil {
			return errMsg{err}
		}
		return searchLoadedMsg{state}
	}
}

func loadSettings(builder *screens.Builder, local screens.LocalSettings) tea.Cmd {
	return func() tea.Msg {
		state, err := builder.BuildSettings(local)
		if err != nil {
			return errMsg{err}
		}
		return settingsLoadedMsg{state}
	}
}

func toggleWatched(client *jellyfin.Client, itemID string, watched bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if watched {
			err = client.Items.MarkPlayed(itemID)
		} else {
			err = client.Items.MarkUnplayed(itemID)
		}
		if err != nil {
			return errMsg{err}
		}
		return watchToggledMsg{itemID: itemID, watched: watched}
	}
}

func toggleFavorite(client *jellyfin.Client, itemID string, favorite bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if favorite {
			err = client.Items.SetFavorite(itemID)
		} else {
			err = client.Items.UnsetFavorite(itemID)
		}
		if err != nil {
			return errMsg{err}
		}
		return favoriteToggledMsg{itemID: itemID, favorite: favorite}
	}
}

func downloadItem(client *jellyfin.Client, itemID string) tea.Cmd {
	return func() tea.Msg {
		item, err := client.Items.Details(itemID)
		if err != nil {
			return downloadFinishedMsg{err: err}
		}
		if item.IsFolder {
			return downloadFinishedMsg{name: item.Name, err: fmt.Errorf("%s is not downloadable", item.Name)}
		}
		err = client.Download.DownloadVideo(item, nil)
		return downloadFinishedMsg{name: item.Name, err: err}
	}
}

func removeDownload(client *jellyfin.Client, itemID string) tea.Cmd {
	return func() tea.Msg {
		item, err := client.Items.Details(itemID)
		if err != nil {
			return errMsg{err}
		}
		if _, ok := client.Download.LocalPath(item); !ok {
			return statusMsg{fmt.Sprintf("%s is not downloaded", item.Name)}
		}
		if err := client.Download.RemoveDownload(item); err != nil {
			return errMsg{err}
		}
		return statusMsg{fmt.Sprintf("Removed download of %s", item.Name)}
	}
}

// startPlayback fetches the item's full record, launches mpv and leaves a
// reporter attached. Progress and exit reach the UI through globalProgram
// because the hooks fire on the player's monitor goroutine.
func startPlayback(client *jellyfin.Client, id string, restart bool) tea.Cmd {
	return func() tea.Msg {
		item, err := client.Items.Details(id)
		if err != nil {
			return errMsg{err}
		}
		if item.Type == "Series" {
			next, err := client.Items.NextUp(item.ID, 1)
			if err != nil || len(next) == 0 {
				return errMsg{fmt.Errorf("%s has nothing up next, pick an episode", item.Name)}
			}
			item, err = client.Items.Details(next[0].ID)
			if err != nil {
				return errMsg{err}
			}
		}
		if item.IsFolder {
			return errMsg{fmt.Errorf("%s is not playable", item.Name)}
		}

		mediaURL, isLocal := client.Playback.PlaybackURL(item)

		var startSeconds float64
		if !restart && item.UserData != nil && !item.UserData.Played {
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
		itemID := item.ID
		session, err := p.Start(mediaURL, startSeconds, player.Hooks{
			OnProgress: func(status player.Status) {
				reporter.Progress(status.Position, status.Paused)
				if globalProgram != nil {
					globalProgram.Send(playbackProgressMsg{status})
				}
			},
			OnExit: func(status player.Status) {
				watched := reporter.Finished(status.Position, status.Duration)
				if globalProgram != nil {
					globalProgram.Send(playbackEndedMsg{itemID: itemID, watched: watched})
				}
			},
		})
		if err != nil {
			return errMsg{err}
		}
		reporter.Started(startSeconds)

		return playbackStartedMsg{state: &playbackState{
			session:  session,
			itemID:   itemID,
			title:    title,
			position: startSeconds,
			duration: jellyfin.TicksToSeconds(item.RunTimeTicks),
		}}
	}
}
