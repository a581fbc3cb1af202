package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case homeLoadedMsg:
		m.loading = false
		m.err = nil
		m.home = msg.state
		rows := m.homeRows()
		if m.homeRow >= len(rows) {
			m.homeRow = 0
		}
		m.clampHomeCol()
		if msg.state.Stale {
			m.status = fmt.Sprintf("⚠ Server unreachable, showing cached home from %s", msg.state.SavedAt.Format("Jan 2 15:04"))
		}
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		m.err = nil
		m.catalog = msg.state
		if m.cursor >= len(msg.state.Movies) {
			m.cursor = 0
		}
		if msg.state.Stale {
			m.status = fmt.Sprintf("⚠ Server unreachable, showing cached page from %s", msg.state.SavedAt.Format("Jan 2 15:04"))
		}
		return m, nil

	case detailsLoadedMsg:
		m.loading = false
		m.err = nil
		m.details = msg.state
		m.cursor = 0
		if postersEnabled() && msg.state.Details.PosterURL != "" {
			return m, m.requestPoster(msg.state.Details.PosterURL)
		}
		return m, nil

	case episodesLoadedMsg:
		m.loading = false
		m.err = nil
		m.episodes = msg.state
		if m.cursor >= len(msg.state.Episodes) {
			m.cursor = 0
		}
		return m, nil

	case searchLoadedMsg:
		m.loading = false
		m.err = nil
		m.results = msg.state
		m.cursor = 0
		m.searching = false
		m.searchInput.Blur()
		if len(msg.state.Results) == 0 && msg.state.Query != "" {
			m.status = fmt.Sprintf("No results for %q", msg.state.Query)
		}
		return m, nil

	case settingsLoadedMsg:
		m.loading = false
		m.err = nil
		m.settings = msg.state
		return m, nil

	case errMsg:
		m.loading = false
		if errors.Is(msg.err, jellyfin.ErrUnauthorized) {
			m.err = fmt.Errorf("session expired, run `jtv login` to sign in again")
		} else {
			m.err = msg.err
		}
		return m, nil

	case statusMsg:
		m.status = msg.message
		return m, nil

	case watchToggledMsg:
		m.applyWatched(msg.itemID, msg.watched)
		if msg.watched {
			m.status = "✓ Marked as watched"
		} else {
			m.status = "Marked as unwatched"
		}
		return m, nil

	case favoriteToggledMsg:
		m.applyFavorite(msg.itemID, msg.favorite)
		if msg.favorite {
			m.status = "♥ Added to favorites"
		} else {
			m.status = "Removed from favorites"
		}
		return m, nil

	case downloadFinishedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("❌ Download failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("⬇ Downloaded %s", msg.name)
		}
		return m, nil

	case posterLoadedMsg:
		m.posters.put(msg.key, msg.rendered)
		return m, nil

	case playbackStartedMsg:
		m.playing = msg.state
		m.status = fmt.Sprintf("▶ Playing %s", msg.state.title)
		return m, nil

	case playbackProgressMsg:
		if m.playing != nil {
			m.playing.position = msg.status.Position
			if msg.status.Duration > 0 {
				m.playing.duration = msg.status.Duration
			}
			m.playing.paused = msg.status.Paused
		}
		return m, nil

	case playbackEndedMsg:
		m.playing = nil
		if msg.watched {
			m.applyWatched(msg.itemID, true)
			m.status = "✓ Marked as watched"
		} else {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A full-screen error only accepts quit, back and retry.
	if m.err != nil {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "h":
			m.err = nil
			return m, nil
		case "R", "r":
			m.err = nil
			return m.reloadCurrent()
		}
		return m, nil
	}

	// The focused search input swallows everything except its controls.
	if m.searching {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			query := strings.TrimSpace(m.searchInput.Value())
			if query == "" {
				return m, nil
			}
			m.loading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, loadSearch(m.builder, query))
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			if m.results == nil || len(m.results.Results) == 0 {
				m.pop()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.moveVertical(-1)
		return m, nil

	case "down", "j":
		m.moveVertical(1)
		return m, nil

	case "left":
		return m.moveHorizontal(-1)

	case "right":
		return m.moveHorizontal(1)

	case "h":
		if m.screen == screenHome {
			m.moveHomeCol(-1)
			return m, nil
		}
		return m.goBack()

	case "l":
		if m.screen == screenHome {
			m.moveHomeCol(1)
			return m, nil
		}
		return m.moveHorizontal(1)

	case "g":
		m.jumpTop()
		return m, nil

	case "G":
		m.jumpBottom()
		return m, nil

	case "enter":
		return m.openSelected()

	case "esc", "backspace":
		return m.goBack()

	case "p", " ":
		if m.playing != nil {
			m.playing.session.TogglePause()
			return m, nil
		}
		return m.playSelected(true)

	case "r":
		return m.playSelected(false)

	case "R":
		return m.reloadCurrent()

	case "s":
		if m.playing != nil {
			m.playing.session.Stop()
			return m, nil
		}
		return m.openSettings()

	case "u":
		if m.playing != nil {
			m.playing.session.CycleSubtitles()
		}
		return m, nil

	case "a":
		if m.playing != nil {
			m.playing.session.CycleAudio()
		}
		return m, nil

	case ",":
		if m.playing != nil {
			m.playing.session.Seek(-10)
		}
		return m, nil

	case ".":
		if m.playing != nil {
			m.playing.session.Seek(10)
		}
		return m, nil

	case "w":
		if id, watched, ok := m.selectedPlayableState(); ok {
			return m, toggleWatched(m.client, id, !watched)
		}
		return m, nil

	case "f":
		if id, favorite, ok := m.selectedFavoriteState(); ok {
			return m, toggleFavorite(m.client, id, !favorite)
		}
		return m, nil

	case "d":
		if id, ok := m.selectedID(); ok {
			m.status = "⬇ Downloading..."
			return m, downloadItem(m.client, id)
		}
		return m, nil

	case "x":
		if id, ok := m.selectedID(); ok {
			return m, removeDownload(m.client, id)
		}
		return m, nil

	case "/":
		if m.screen == screenSearch {
			m.searching = true
			m.searchInput.Focus()
			return m, nil
		}
		m.push()
		m.screen = screenSearch
		m.searching = true
		m.cursor = 0
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, nil

	case "o":
		// Open the full library behind the selected home row.
		if m.screen == screenHome {
			rows := m.homeRows()
			if m.homeRow < len(rows) && rows[m.homeRow].ID != "" {
				name := strings.TrimPrefix(rows[m.homeRow].Name, "Latest ")
				return m.openCatalog(rows[m.homeRow].ID, name)
			}
		}
		return m, nil

	case "c":
		return m.cycleGenre()
	}

	return m, nil
}

// moveVertical moves between home rows or within a flat list.
func (m *model) moveVertical(delta int) {
	if m.screen == screenHome {
		rows := m.homeRows()
		next := m.homeRow + delta
		if next >= 0 && next < len(rows) {
			m.homeRow = next
			m.clampHomeCol()
		}
		return
	}

	length := m.listLen()
	next := m.cursor + delta
	if next >= 0 && next < length {
		m.cursor = next
	}
}

// moveHorizontal moves the home column or pages the catalog.
func (m model) moveHorizontal(delta int) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenHome:
		m.moveHomeCol(delta)
		return m, nil

	case screenCatalog:
		if m.catalog == nil {
			return m, nil
		}
		if delta > 0 && m.catalog.HasMore() {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, loadCatalog(m.builder,
				m.catalog.LibraryID, m.catalog.LibraryName, m.catalog.Genre,
				m.catalog.StartIndex+m.builder.PageSize()))
		}
		if delta < 0 && m.catalog.StartIndex > 0 {
			start := m.catalog.StartIndex - m.builder.PageSize()
			if start < 0 {
				start = 0
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, loadCatalog(m.builder,
				m.catalog.LibraryID, m.catalog.LibraryName, m.catalog.Genre, start))
		}
	}
	return m, nil
}

func (m *model) moveHomeCol(delta int) {
	rows := m.homeRows()
	if m.homeRow >= len(rows) {
		return
	}
	next := m.homeCol + delta
	if next >= 0 && next < len(rows[m.homeRow].Movies) {
		m.homeCol = next
	}
}

func (m *model) clampHomeCol() {
	rows := m.homeRows()
	if m.homeRow >= len(rows) {
		m.homeCol = 0
		return
	}
	if max := len(rows[m.homeRow].Movies) - 1; m.homeCol > max {
		if max < 0 {
			max = 0
		}
		m.homeCol = max
	}
}

func (m *model) jumpTop() {
	if m.screen == screenHome {
		m.homeCol = 0
		return
	}
	m.cursor = 0
}

func (m *model) jumpBottom() {
	if m.screen == screenHome {
		rows := m.homeRows()
		if m.homeRow < len(rows) && len(rows[m.homeRow].Movies) > 0 {
			m.homeCol = len(rows[m.homeRow].Movies) - 1
		}
		return
	}
	if length := m.listLen(); length > 0 {
		m.cursor = length - 1
	}
}

// listLen is the cursor range of the current flat-list screen.
func (m *model) listLen() int {
	switch m.screen {
	case screenCatalog:
		if m.catalog != nil {
			return len(m.catalog.Movies)
		}
	case screenEpisodes:
		if m.episodes != nil {
			return len(m.episodes.Episodes)
		}
	case screenSearch:
		if m.results != nil {
			return len(m.results.Results)
		}
	case screenDetails:
		return m.detailsEntryCount()
	}
	return 0
}

// detailsEntryCount is the selectable list under the metadata block:
// seasons for a series, similar titles otherwise.
func (m *model) detailsEntryCount() int {
	if m.details == nil {
		return 0
	}
	if len(m.details.Seasons) > 0 {
		return len(m.details.Seasons)
	}
	return len(m.details.Similar)
}

// openSelected is enter: tiles open details, seasons open episodes,
// libraries open their catalog.
func (m model) openSelected() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenDetails:
		if m.details == nil {
			return m, nil
		}
		if len(m.details.Seasons) > 0 {
			if m.cursor >= len(m.details.Seasons) {
				return m, nil
			}
			season := m.details.Seasons[m.cursor]
			m.push()
			m.screen = screenEpisodes
			m.cursor = 0
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, loadEpisodes(m.builder, season, m.details.Details.Title))
		}
		if m.cursor < len(m.details.Similar) {
			return m.openDetails(m.details.Similar[m.cursor].ID)
		}
		return m, nil

	case screenEpisodes:
		// Entering an episode plays it, resuming a partial watch.
		if ep := m.selectedEpisode(); ep != nil {
			return m.playItem(ep.ID, false)
		}
		return m, nil

	case screenSettings:
		return m, nil
	}

	if ep := m.selectedEpisode(); ep != nil {
		return m.playItem(ep.ID, false)
	}
	if tile := m.selectedTile(); tile != nil && tile.Kind != media.KindFolder {
		return m.openDetails(tile.ID)
	}
	return m, nil
}

func (m model) openDetails(itemID string) (tea.Model, tea.Cmd) {
	m.push()
	m.screen = screenDetails
	m.details = nil
	m.cursor = 0
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, loadDetails(m.builder, itemID))
}

// openCatalog enters a library from the home screen.
func (m model) openCatalog(libraryID, libraryName string) (tea.Model, tea.Cmd) {
	m.push()
	m.screen = screenCatalog
	m.catalog = nil
	m.cursor = 0
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, loadCatalog(m.builder, libraryID, libraryName, "", 0))
}

func (m model) openSettings() (tea.Model, tea.Cmd) {
	if m.screen == screenSettings {
		return m, nil
	}
	m.push()
	m.screen = screenSettings
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, loadSettings(m.builder, localSettings(m.client)))
}

// playSelected launches mpv for whatever the cursor points at. fromStart
// ignores the saved resume position.
func (m model) playSelected(fromStart bool) (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	return m.playItem(id, fromStart)
}

func (m model) playItem(id string, fromStart bool) (tea.Model, tea.Cmd) {
	if m.playing != nil {
		m.status = "Already playing, press s to stop first"
		return m, nil
	}
	m.status = "▶ Starting playback..."
	return m, startPlayback(m.client, id, fromStart)
}

// selectedID is the item the action keys operate on. On the details screen
// that is the detailed item itself.
func (m *model) selectedID() (string, bool) {
	if m.screen == screenDetails {
		if m.details == nil {
			return "", false
		}
		return m.details.Details.ID, true
	}
	if ep := m.selectedEpisode(); ep != nil {
		return ep.ID, true
	}
	if tile := m.selectedTile(); tile != nil {
		if tile.Kind == media.KindFolder {
			return "", false
		}
		return tile.ID, true
	}
	return "", false
}

func (m *model) selectedPlayableState() (string, bool, bool) {
	if m.screen == screenDetails {
		if m.details == nil {
			return "", false, false
		}
		return m.details.Details.ID, m.details.Details.Watched, true
	}
	if ep := m.selectedEpisode(); ep != nil {
		return ep.ID, ep.Watched, true
	}
	if tile := m.selectedTile(); tile != nil && tile.Kind != media.KindFolder {
		return tile.ID, tile.Watched, true
	}
	return "", false, false
}

func (m *model) selectedFavoriteState() (string, bool, bool) {
	if m.screen == screenDetails {
		if m.details == nil {
			return "", false, false
		}
		return m.details.Details.ID, m.details.Details.Favorite, true
	}
	if tile := m.selectedTile(); tile != nil && tile.Kind != media.KindFolder {
		return tile.ID, tile.Favorite, true
	}
	return "", false, false
}

func (m model) goBack() (tea.Model, tea.Cmd) {
	if !m.pop() {
		return m, tea.Quit
	}
	return m, nil
}

// reloadCurrent refetches the screen being shown, e.g. after the server
// comes back from a stale snapshot.
func (m model) reloadCurrent() (tea.Model, tea.Cmd) {
	m.loading = true
	m.status = ""
	switch m.screen {
	case screenHome:
		return m, tea.Batch(m.spinner.Tick, loadHome(m.builder))
	case screenCatalog:
		if m.catalog != nil {
			return m, tea.Batch(m.spinner.Tick, loadCatalog(m.builder,
				m.catalog.LibraryID, m.catalog.LibraryName, m.catalog.Genre, m.catalog.StartIndex))
		}
	case screenDetails:
		if m.details != nil {
			return m, tea.Batch(m.spinner.Tick, loadDetails(m.builder, m.details.Details.ID))
		}
	case screenEpisodes:
		if m.episodes != nil {
			return m, tea.Batch(m.spinner.Tick, loadEpisodes(m.builder, m.episodes.Season, m.episodes.SeriesName))
		}
	case screenSearch:
		if m.results != nil && m.results.Query != "" {
			return m, tea.Batch(m.spinner.Tick, loadSearch(m.builder, m.results.Query))
		}
	case screenSettings:
		return m, tea.Batch(m.spinner.Tick, loadSettings(m.builder, localSettings(m.client)))
	}
	m.loading = false
	return m, nil
}

// cycleGenre rotates the catalog's genre filter through all / each genre.
func (m model) cycleGenre() (tea.Model, tea.Cmd) {
	if m.screen != screenCatalog || m.catalog == nil || len(m.catalog.Genres) == 0 {
		return m, nil
	}
	next := nextGenre(m.catalog.Genres, m.catalog.Genre)
	m.loading = true
	m.cursor = 0
	return m, tea.Batch(m.spinner.Tick, loadCatalog(m.builder,
		m.catalog.LibraryID, m.catalog.LibraryName, next, 0))
}

func nextGenre(genres []string, current string) string {
	if current == "" {
		return genres[0]
	}
	for i, g := range genres {
		if g == current {
			if i+1 < len(genres) {
				return genres[i+1]
			}
			return ""
		}
	}
	return ""
}

// applyWatched updates every loaded state that shows the item, so toggles
// render without a refetch.
func (m *model) applyWatched(itemID string, watched bool) {
	updateTile := func(tile *media.Movie) {
		if tile.ID == itemID {
			tile.Watched = watched
			if watched {
				tile.Progress = 0
			}
		}
	}
	updateEpisode := func(ep *media.Episode) {
		if ep.ID == itemID {
			ep.Watched = watched
			if watched {
				ep.Progress = 0
				ep.ResumeSeconds = 0
			}
		}
	}

	if m.home != nil {
		for i := range m.home.ContinueWatching {
			updateTile(&m.home.ContinueWatching[i])
		}
		for i := range m.home.NextUp {
			updateEpisode(&m.home.NextUp[i])
		}
		for r := range m.home.Latest {
			for i := range m.home.Latest[r].Movies {
				updateTile(&m.home.Latest[r].Movies[i])
			}
		}
	}
	if m.catalog != nil {
		for i := range m.catalog.Movies {
			updateTile(&m.catalog.Movies[i])
		}
	}
	if m.results != nil {
		for i := range m.results.Results {
			updateTile(&m.results.Results[i])
		}
	}
	if m.episodes != nil {
		for i := range m.episodes.Episodes {
			updateEpisode(&m.episodes.Episodes[i])
		}
	}
	if m.details != nil {
		if m.details.Details.ID == itemID {
			m.details.Details.Watched = watched
			if watched {
				m.details.Details.Progress = 0
				m.details.Details.ResumeSeconds = 0
			}
		}
		for i := range m.details.Similar {
			updateTile(&m.details.Similar[i])
		}
	}
}

func (m *model) applyFavorite(itemID string, favorite bool) {
	updateTile := func(tile *media.Movie) {
		if tile.ID == itemID {
			tile.Favorite = favorite
		}
	}

	if m.home != nil {
		for i := range m.home.ContinueWatching {
			updateTile(&m.home.ContinueWatching[i])
		}
		for r := range m.home.Latest {
			for i := range m.home.Latest[r].Movies {
				updateTile(&m.home.Latest[r].Movies[i])
			}
		}
	}
	if m.catalog != nil {
		for i := range m.catalog.Movies {
			updateTile(&m.catalog.Movies[i])
		}
	}
	if m.results != nil {
		for i := range m.results.Results {
			updateTile(&m.results.Results[i])
		}
	}
	if m.details != nil {
		if m.details.Details.ID == itemID {
			m.details.Details.Favorite = favorite
		}
		for i := range m.details.Similar {
			updateTile(&m.details.Similar[i])
		}
	}
}
