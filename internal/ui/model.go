// Package ui is the interactive terminal frontend: home rows, library
// catalog, details, episodes, search and settings, with playback handed to
// mpv. All network work runs in tea.Cmd closures so the update loop never
// blocks.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/player"
	"github.com/Banh-Canh/jtv/internal/screens"
	"github.com/Banh-Canh/jtv/internal/store"
	"github.com/Banh-Canh/jtv/internal/utils"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

type screenID int

const (
	screenHome screenID = iota
	screenCatalog
	screenDetails
	screenEpisodes
	screenSearch
	screenSettings
)

// globalProgram lets playback goroutines push messages into the UI.
var globalProgram *tea.Program

// snapshot remembers cursor state for back navigation.
type snapshot struct {
	screen  screenID
	homeRow int
	homeCol int
	cursor  int
}

// playbackState tracks the running mpv session shown in the status bar.
type playbackState struct {
	session  *player.Session
	itemID   string
	title    string
	position float64
	duration float64
	paused   bool
}

type model struct {
	client  *jellyfin.Client
	builder *screens.Builder
	cache   *store.Store

	screen screenID
	stack  []snapshot

	home     *screens.HomeState
	catalog  *screens.CatalogState
	details  *screens.DetailsState
	episodes *screens.EpisodesState
	results  *screens.SearchState
	settings *screens.SettingsState

	// homeRow/homeCol drive the home grid, cursor the flat lists.
	homeRow int
	homeCol int
	cursor  int

	searchInput textinput.Model
	searching   bool // search input focused

	spinner spinner.Model
	loading bool
	err     error
	status  string

	posters *posterCache

	playing *playbackState

	width  int
	height int
}

// Messages
type homeLoadedMsg struct {
	state *screens.HomeState
}

type catalogLoadedMsg struct {
	state *screens.CatalogState
}

type detailsLoadedMsg struct {
	state *screens.DetailsState
}

type episodesLoadedMsg struct {
	state *screens.EpisodesState
}

type searchLoadedMsg struct {
	state *screens.SearchState
}

type settingsLoadedMsg struct {
	state *screens.SettingsState
}

type errMsg struct {
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

type statusMsg struct {
	message string
}

type watchToggledMsg struct {
	itemID  string
	watched bool
}

type favoriteToggledMsg struct {
	itemID   string
	favorite bool
}

type downloadFinishedMsg struct {
	name string
	err  error
}

type posterLoadedMsg struct {
	key      string
	rendered string
}

type playbackStartedMsg struct {
	state *playbackState
}

type playbackProgressMsg struct {
	status player.Status
}

type playbackEndedMsg struct {
	itemID  string
	watched bool
}

// Run starts the TUI over a connected client. It returns when the user
// quits.
func Run(client *jellyfin.Client) error {
	cache, err := store.Open(store.DefaultPath())
	if err != nil {
		// Browsing works without the offline cache, it only costs the
		// fallback.
		utils.Logger.Warn("snapshot cache unavailable", zap.Error(err))
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
	}

	go pruneThumbs()

	p := tea.NewProgram(initialModel(client, cache), tea.WithAltScreen())
	globalProgram = p

	final, err := p.Run()
	if fm, ok := final.(model); ok && fm.playing != nil && fm.playing.session != nil {
		fm.playing.session.Stop()
	}
	return err
}

func initialModel(client *jellyfin.Client, cache *store.Store) model {
	builder := screens.NewBuilder(
		screens.NewClientSource(client),
		client.Images,
		screens.Options{
			RowLimit:  viper.GetInt("ui.row_limit"),
			PageSize:  viper.GetInt("ui.page_size"),
			Snapshots: cache,
		},
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	input := textinput.New()
	input.Placeholder = "Search movies and shows..."
	input.CharLimit = 100
	input.Width = 40

	return model{
		client:      client,
		builder:     builder,
		cache:       cache,
		screen:      screenHome,
		loading:     true,
		spinner:     sp,
		searchInput: input,
		posters:     newPosterCache(),
		width:       80,
		height:      24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadHome(m.builder),
	)
}

// push saves the current cursor state before switching screens.
func (m *model) push() {
	m.stack = append(m.stack, snapshot{
		screen:  m.screen,
		homeRow: m.homeRow,
		homeCol: m.homeCol,
		cursor:  m.cursor,
	})
}

// pop restores the previous screen, returning false at the root.
func (m *model) pop() bool {
	if len(m.stack) == 0 {
		return false
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	m.screen = top.screen
	m.homeRow = top.homeRow
	m.homeCol = top.homeCol
	m.cursor = top.cursor
	m.status = ""
	return true
}

// selectedTile returns the tile under the cursor on the current screen,
// nil when nothing is selected.
func (m *model) selectedTile() *media.Movie {
	switch m.screen {
	case screenHome:
		if m.home == nil {
			return nil
		}
		rows := m.homeRows()
		if m.homeRow >= len(rows) {
			return nil
		}
		row := rows[m.homeRow]
		if m.homeCol >= len(row.Movies) {
			return nil
		}
		return &row.Movies[m.homeCol]

	case screenCatalog:
		if m.catalog == nil || m.cursor >= len(m.catalog.Movies) {
			return nil
		}
		return &m.catalog.Movies[m.cursor]

	case screenSearch:
		if m.results == nil || m.cursor >= len(m.results.Results) {
			return nil
		}
		return &m.results.Results[m.cursor]
	}
	return nil
}

// selectedEpisode returns the episode under the cursor, nil elsewhere.
func (m *model) selectedEpisode() *media.Episode {
	switch m.screen {
	case screenEpisodes:
		if m.episodes == nil || m.cursor >= len(m.episodes.Episodes) {
			return nil
		}
		return &m.episodes.Episodes[m.cursor]

	case screenHome:
		if m.home == nil {
			return nil
		}
		// Next Up is the one home row made of episodes.
		rows := m.homeRows()
		if m.homeRow < len(rows) && rows[m.homeRow].Name == nextUpRowName && m.homeCol < len(m.home.NextUp) {
			return &m.home.NextUp[m.homeCol]
		}
	}
	return nil
}

const (
	continueRowName = "Continue Watching"
	nextUpRowName   = "Next Up"
)

// homeRows flattens the home state into uniformly navigable rows.
func (m *model) homeRows() []media.MovieCategory {
	if m.home == nil {
		return nil
	}

	rows := make([]media.MovieCategory, 0, len(m.home.Latest)+2)
	if len(m.home.ContinueWatching) > 0 {
		rows = append(rows, media.MovieCategory{Name: continueRowName, Movies: m.home.ContinueWatching})
	}
	if len(m.home.NextUp) > 0 {
		rows = append(rows, media.MovieCategory{Name: nextUpRowName, Movies: episodesAsTiles(m.home.NextUp)})
	}
	rows = append(rows, m.home.Latest...)
	return rows
}

// episodesAsTiles renders next-up episodes in tile form for row navigation.
func episodesAsTiles(episodes []media.Episode) []media.Movie {
	tiles := make([]media.Movie, 0, len(episodes))
	for _, ep := range episodes {
		tiles = append(tiles, media.Movie{
			ID:        ep.ID,
			Title:     fmt.Sprintf("%s %s", ep.Code, ep.Title),
			Kind:      media.KindEpisode,
			PosterURL: ep.StillURL,
			Watched:   ep.Watched,
			Progress:  ep.Progress,
		})
	}
	return tiles
}

// localSettings assembles the config-derived half of the settings screen.
func localSettings(client *jellyfin.Client) screens.LocalSettings {
	return screens.LocalSettings{
		ServerURL:      client.GetConfig().ServerURL,
		AppVersion:     client.GetConfig().Version,
		PlayerCommand:  playerCommand(),
		PostersEnabled: postersEnabled(),
		CacheDir:       client.GetConfig().CacheDir,
	}
}

func playerCommand() string {
	if command := viper.GetString("player.command"); command != "" {
		return command
	}
	return "mpv"
}

func postersEnabled() bool {
	if !viper.IsSet("ui.posters") {
		return true
	}
	return viper.GetBool("ui.posters")
}
