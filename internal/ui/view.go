package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Banh-Canh/jtv/internal/media"
)

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	if m.err != nil {
		body := errorStyle.Render(fmt.Sprintf("❌ %v", m.err)) +
			"\n\n" + dimStyle.Render("R: retry • esc: dismiss • q: quit")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	header := m.renderHeader()

	contentHeight := m.height - lipgloss.Height(header) - 1
	if m.playing != nil {
		contentHeight--
	}
	if m.status != "" {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	if m.loading {
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading...")
	} else {
		content = m.renderScreen(contentHeight)
	}

	sections := []string{header, content}
	if m.playing != nil {
		sections = append(sections, m.renderProgressBar())
	}
	if m.status != "" {
		sections = append(sections, accentStyle.Render(truncate(m.status, m.width-2)))
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderHeader() string {
	appName := headerTitleStyle.Render("󰚯 JTV")
	divider := headerDividerStyle.Render(" │ ")
	location := truncate(m.screenTitle(), m.width/2)

	var status string
	if m.currentStale() {
		status = headerStaleStyle.Render("󰪎 CACHED")
	} else {
		status = headerStatusStyle.Render("󰈀 ONLINE")
	}

	leftSide := appName + divider + location
	usedSpace := lipgloss.Width(leftSide) + lipgloss.Width(status)
	spacer := strings.Repeat(" ", max(1, m.width-usedSpace-4))

	return headerStyle.Width(m.width).Render(leftSide + spacer + status)
}

func (m model) screenTitle() string {
	switch m.screen {
	case screenHome:
		return "󰋜 Home"
	case screenCatalog:
		if m.catalog == nil {
			return "󰉕 Library"
		}
		title := "󰉕 " + m.catalog.LibraryName
		if m.catalog.Genre != "" {
			title += " · " + m.catalog.Genre
		}
		return title
	case screenDetails:
		if m.details == nil {
			return "Details"
		}
		return "󰎁 " + m.details.Details.Title
	case screenEpisodes:
		if m.episodes == nil {
			return "Episodes"
		}
		return fmt.Sprintf("󰔂 %s · %s", m.episodes.SeriesName, m.episodes.Season.Name)
	case screenSearch:
		if m.results != nil && m.results.Query != "" {
			return "󰍉 Search: " + m.results.Query
		}
		return "󰍉 Search"
	case screenSettings:
		return "󰒓 Settings"
	}
	return ""
}

// currentStale reports whether the visible screen came from the snapshot
// store instead of the server.
func (m model) currentStale() bool {
	switch m.screen {
	case screenHome:
		return m.home != nil && m.home.Stale
	case screenCatalog:
		return m.catalog != nil && m.catalog.Stale
	}
	return false
}

func (m model) renderScreen(height int) string {
	switch m.screen {
	case screenHome:
		return m.renderHome(height)
	case screenCatalog:
		return m.renderCatalog(height)
	case screenDetails:
		return m.renderDetails(height)
	case screenEpisodes:
		return m.renderEpisodes(height)
	case screenSearch:
		return m.renderSearch(height)
	case screenSettings:
		return m.renderSettings(height)
	}
	return ""
}

// renderHome draws the row grid: every row gets a name line and a strip of
// tiles, with the active tile highlighted.
func (m model) renderHome(height int) string {
	rows := m.homeRows()
	if len(rows) == 0 {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			dimStyle.Render("Nothing here yet. Add media to your server libraries."))
	}

	// Three lines per row: name, tiles, spacing.
	visible := height / 3
	if visible < 1 {
		visible = 1
	}
	start, end := windowBounds(m.homeRow, len(rows), visible)

	var b strings.Builder
	for r := start; r < end; r++ {
		row := rows[r]
		selected := r == m.homeRow

		name := row.Name
		if selected && len(row.Movies) > 0 {
			name = fmt.Sprintf("%s (%d/%d)", row.Name, m.homeCol+1, len(row.Movies))
		}
		if selected {
			line := titleStyle.Render(truncate(name, m.width-2))
			if row.ID != "" {
				line += dimString("  o: open library")
			}
			b.WriteString(line)
		} else {
			b.WriteString(dimStyle.Render(truncate(name, m.width-2)))
		}
		b.WriteString("\n")

		b.WriteString(m.renderTileStrip(row.Movies, selected))
		b.WriteString("\n")
		if r < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(rows) {
		b.WriteString(dimStyle.Render("  ↓ more rows below"))
	}
	return b.String()
}

// renderTileStrip lays one row's tiles on a single line, windowed around
// the cursor column.
func (m model) renderTileStrip(tiles []media.Movie, selected bool) string {
	if len(tiles) == 0 {
		return dimStyle.Render("  (empty)")
	}

	const tileWidth = 24
	perLine := max(1, (m.width-2)/(tileWidth+3))

	col := 0
	if selected {
		col = m.homeCol
	}
	start, end := windowBounds(col, len(tiles), perLine)

	parts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		tile := tiles[i]
		label := truncate(tileMarks(tile)+tile.Title, tileWidth)
		if selected && i == m.homeCol {
			parts = append(parts, selectedStyle.Render(" "+label+" "))
		} else {
			parts = append(parts, itemStyle.Render(label))
		}
	}

	line := strings.Join(parts, " ")
	if end < len(tiles) {
		line += dimString(" →")
	}
	if start > 0 {
		line = dimString("← ") + line
	}
	return line
}

// tileMarks prefixes state icons: watched, in progress, favorite.
func tileMarks(tile media.Movie) string {
	marks := ""
	if tile.Watched {
		marks += "✓ "
	} else if tile.Progress > 0 {
		marks += "⏸ "
	}
	if tile.Favorite {
		marks += "♥ "
	}
	return marks
}

func (m model) renderCatalog(height int) string {
	if m.catalog == nil {
		return ""
	}

	listTitle := m.catalog.LibraryName
	if m.catalog.Genre != "" {
		listTitle += " · " + m.catalog.Genre
	} else if len(m.catalog.Genres) > 0 {
		listTitle += dimString("  c: filter genre")
	}
	if m.catalog.TotalCount > 0 {
		page := m.catalog.StartIndex/max(1, m.builder.PageSize()) + 1
		pages := (m.catalog.TotalCount + m.builder.PageSize() - 1) / max(1, m.builder.PageSize())
		listTitle += dimString(fmt.Sprintf("  page %d/%d", page, pages))
	}

	lines := make([]string, 0, len(m.catalog.Movies))
	for _, tile := range m.catalog.Movies {
		label := tileMarks(tile) + tile.Title
		if tile.Year > 0 {
			label += fmt.Sprintf(" (%d)", tile.Year)
		}
		lines = append(lines, label)
	}

	var side string
	if m.cursor < len(m.catalog.Movies) {
		side = m.renderTileSummary(m.catalog.Movies[m.cursor])
	}
	return m.renderSplit(listTitle, lines, side, height, "No items in this library")
}

func (m model) renderEpisodes(height int) string {
	if m.episodes == nil {
		return ""
	}

	lines := make([]string, 0, len(m.episodes.Episodes))
	for _, ep := range m.episodes.Episodes {
		label := ""
		if ep.Watched {
			label += "✓ "
		} else if ep.Progress > 0 {
			label += "⏸ "
		}
		if ep.Code != "" {
			label += ep.Code + "  "
		}
		label += ep.Title
		lines = append(lines, label)
	}

	var side string
	if m.cursor < len(m.episodes.Episodes) {
		side = m.renderEpisodeSummary(m.episodes.Episodes[m.cursor], height)
	}
	title := fmt.Sprintf("%s · %s", m.episodes.SeriesName, m.episodes.Season.Name)
	return m.renderSplit(title, lines, side, height, "This season has no episodes")
}

func (m model) renderSearch(height int) string {
	input := m.searchInput.View()

	if m.results == nil || len(m.results.Results) == 0 {
		hint := "Type to search your libraries, enter to run it."
		if m.results != nil && m.results.Query != "" {
			hint = fmt.Sprintf("No results for %q.", m.results.Query)
		}
		body := titleStyle.Render("Search") + "\n\n" + input + "\n\n" + dimStyle.Render(hint)
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
	}

	lines := make([]string, 0, len(m.results.Results))
	for _, tile := range m.results.Results {
		label := tileMarks(tile) + tile.Title
		if tile.Year > 0 {
			label += fmt.Sprintf(" (%d)", tile.Year)
		}
		if tile.Kind == media.KindSeries {
			label += "  · series"
		}
		lines = append(lines, label)
	}

	var side string
	if m.cursor < len(m.results.Results) {
		side = m.renderTileSummary(m.results.Results[m.cursor])
	}

	title := fmt.Sprintf("Results for %q", m.results.Query)
	if m.searching {
		title = input
	}
	return m.renderSplit(title, lines, side, height, "")
}

// renderSplit is the shared two-pane layout: a cursor list on the left, a
// summary panel on the right.
func (m model) renderSplit(title string, lines []string, side string, height int, emptyNote string) string {
	leftWidth := (m.width / 2) - 2
	rightWidth := m.width - leftWidth - 2

	var b strings.Builder
	b.WriteString(titleStyle.MaxWidth(leftWidth - 2).Render(title))
	b.WriteString("\n")

	if len(lines) == 0 {
		b.WriteString(dimStyle.Render(emptyNote))
	} else {
		available := height - 3
		if available < 1 {
			available = 1
		}
		start, end := windowBounds(m.cursor, len(lines), available)
		for i := start; i < end; i++ {
			label := truncate(lines[i], leftWidth-6)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render(" ▶ " + label + " "))
			} else {
				b.WriteString(itemStyle.Render(label))
			}
			if i < end-1 {
				b.WriteString("\n")
			}
		}
		if start > 0 {
			b.WriteString("\n" + dimStyle.Render("  ↑ more above"))
		}
		if end < len(lines) {
			b.WriteString("\n" + dimStyle.Render("  ↓ more below"))
		}
	}

	leftPanel := lipgloss.NewStyle().
		Width(leftWidth).
		Height(height).
		Border(lipgloss.RoundedBorder(), false, true, false, false).
		BorderForeground(panelBorderColor).
		Render(b.String())

	rightPanel := lipgloss.NewStyle().
		Width(rightWidth).
		Height(height).
		Padding(0, 1).
		Render(side)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

// renderTileSummary is the right-pane blurb for a movie or series tile.
func (m model) renderTileSummary(tile media.Movie) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(tile.Title))
	b.WriteString("\n\n")

	if tile.Year > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Year: %d", tile.Year)))
		b.WriteString("\n")
	}
	if tile.Runtime != "" {
		b.WriteString(infoStyle.Render("Runtime: " + tile.Runtime))
		b.WriteString("\n")
	}
	if tile.CommunityRating != "" {
		b.WriteString(infoStyle.Render("Rating: ★ " + tile.CommunityRating))
		b.WriteString("\n")
	}
	b.WriteString(infoStyle.Render("Type: " + string(tile.Kind)))
	b.WriteString("\n")
	if tile.Kind == media.KindSeries && tile.Unwatched > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Unwatched: %d episodes", tile.Unwatched)))
		b.WriteString("\n")
	}

	switch {
	case tile.Watched:
		b.WriteString(watchedStyle.Render("✓ Watched"))
		b.WriteString("\n")
	case tile.Progress > 0:
		b.WriteString(infoStyle.Render(fmt.Sprintf("⏸ Resume at %.0f%%", tile.Progress)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  r: resume, p: start over"))
		b.WriteString("\n")
	}
	if tile.Favorite {
		b.WriteString(favoriteStyle.Render("♥ Favorite"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: details"))
	return b.String()
}

// renderEpisodeSummary is the right-pane blurb for an episode.
func (m model) renderEpisodeSummary(ep media.Episode, height int) string {
	rightWidth := m.width - ((m.width / 2) - 2) - 4

	var b strings.Builder
	header := ep.Title
	if ep.Code != "" {
		header = ep.Code + " · " + ep.Title
	}
	b.WriteString(titleStyle.Render(truncate(header, rightWidth)))
	b.WriteString("\n\n")

	if ep.Premiered != "" {
		b.WriteString(infoStyle.Render("Aired: " + ep.Premiered))
		b.WriteString("\n")
	}
	if ep.Runtime != "" {
		b.WriteString(infoStyle.Render("Runtime: " + ep.Runtime))
		b.WriteString("\n")
	}
	switch {
	case ep.Watched:
		b.WriteString(watchedStyle.Render("✓ Watched"))
		b.WriteString("\n")
	case ep.Progress > 0:
		b.WriteString(infoStyle.Render(fmt.Sprintf("⏸ Resume at %.0f%%", ep.Progress)))
		b.WriteString("\n")
	}

	if ep.Overview != "" {
		b.WriteString("\n")
		for _, line := range wrapWords(ep.Overview, rightWidth, height-10) {
			b.WriteString(dimStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDetails shows the full record: poster and metadata on the right,
// seasons (for series) or similar titles on the left.
func (m model) renderDetails(height int) string {
	if m.details == nil {
		return ""
	}
	d := m.details.Details

	var listTitle string
	var lines []string
	if len(m.details.Seasons) > 0 {
		listTitle = "Seasons"
		for _, season := range m.details.Seasons {
			label := season.Name
			if season.Episodes > 0 {
				label += fmt.Sprintf("  · %d episodes", season.Episodes)
				if season.Unwatched > 0 {
					label += fmt.Sprintf(", %d unwatched", season.Unwatched)
				}
			}
			lines = append(lines, label)
		}
	} else {
		listTitle = "More Like This"
		for _, tile := range m.details.Similar {
			label := tileMarks(tile) + tile.Title
			if tile.Year > 0 {
				label += fmt.Sprintf(" (%d)", tile.Year)
			}
			lines = append(lines, label)
		}
	}

	side := m.renderDetailsPanel(d, height)
	empty := "Nothing similar found"
	if len(m.details.Seasons) > 0 {
		empty = "No seasons found"
	}
	return m.renderSplit(listTitle, lines, side, height, empty)
}

func (m model) renderDetailsPanel(d media.MovieDetails, height int) string {
	rightWidth := m.width - ((m.width / 2) - 2) - 4

	var b strings.Builder
	linesUsed := 0

	if rendered, ok := m.posters.get(d.PosterURL); ok && rendered != "" {
		b.WriteString(rendered)
		b.WriteString("\n\n")
		linesUsed += strings.Count(rendered, "\n") + 3
	}

	b.WriteString(titleStyle.Render(truncate(d.Title, rightWidth)))
	b.WriteString("\n")
	linesUsed++

	if d.Tagline != "" {
		b.WriteString(dimStyle.Italic(true).Render(truncate(d.Tagline, rightWidth)))
		b.WriteString("\n")
		linesUsed++
	}

	facts := make([]string, 0, 4)
	if d.Year > 0 {
		facts = append(facts, fmt.Sprintf("%d", d.Year))
	}
	if d.Runtime != "" {
		facts = append(facts, d.Runtime)
	}
	if d.OfficialRating != "" {
		facts = append(facts, d.OfficialRating)
	}
	if d.CommunityRating != "" {
		facts = append(facts, "★ "+d.CommunityRating)
	}
	if d.Resolution != "" {
		facts = append(facts, d.Resolution)
	}
	if len(facts) > 0 {
		b.WriteString(infoStyle.Render(truncate(strings.Join(facts, " · "), rightWidth)))
		b.WriteString("\n")
		linesUsed++
	}

	if len(d.Genres) > 0 {
		b.WriteString(infoStyle.Render(truncate("Genres: "+strings.Join(d.Genres, ", "), rightWidth)))
		b.WriteString("\n")
		linesUsed++
	}
	if len(d.Studios) > 0 {
		b.WriteString(infoStyle.Render(truncate("Studio: "+d.Studios[0], rightWidth)))
		b.WriteString("\n")
		linesUsed++
	}

	switch {
	case d.Watched:
		b.WriteString(watchedStyle.Render("✓ Watched"))
		b.WriteString("\n")
		linesUsed++
	case d.Progress > 0:
		b.WriteString(infoStyle.Render(fmt.Sprintf("⏸ Resume at %.0f%% · r: resume, p: start over", d.Progress)))
		b.WriteString("\n")
		linesUsed++
	}
	if d.Favorite {
		b.WriteString(favoriteStyle.Render("♥ Favorite"))
		b.WriteString("\n")
		linesUsed++
	}

	if len(d.Cast) > 0 {
		names := make([]string, 0, 4)
		for i, member := range d.Cast {
			if i >= 4 {
				break
			}
			names = append(names, member.Name)
		}
		b.WriteString(dimStyle.Render(truncate("Cast: "+strings.Join(names, ", "), rightWidth)))
		b.WriteString("\n")
		linesUsed++
	}

	if d.Overview != "" && linesUsed < height-3 {
		b.WriteString("\n")
		for _, line := range wrapWords(d.Overview, rightWidth, height-linesUsed-3) {
			b.WriteString(dimStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m model) renderSettings(height int) string {
	if m.settings == nil {
		return ""
	}
	s := m.settings

	row := func(key, value string) string {
		return infoStyle.Render(fmt.Sprintf("%-16s", key)) + dimStyle.Render(value)
	}

	lines := []string{
		titleStyle.Render("Settings"),
		"",
		row("Server", s.ServerURL),
	}
	if s.ServerName != "" {
		lines = append(lines, row("Server name", fmt.Sprintf("%s (v%s)", s.ServerName, s.ServerVersion)))
	}
	if s.SignedIn {
		lines = append(lines, row("Signed in as", s.UserName))
	} else {
		lines = append(lines, row("Signed in as", "not signed in"))
	}

	posters := "disabled"
	if s.PostersEnabled {
		posters = "enabled"
	}
	lines = append(lines,
		"",
		row("App version", s.AppVersion),
		row("Player", s.PlayerCommand),
		row("Posters", posters),
		row("Cache dir", s.CacheDir),
	)

	body := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Padding(1, 2).Height(height).Render(body)
}

func (m model) renderProgressBar() string {
	p := m.playing
	if p == nil {
		return ""
	}

	percentage := 0.0
	if p.duration > 0 {
		percentage = p.position / p.duration * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	state := "▶"
	if p.paused {
		state = "⏸"
	}
	currentTime := formatSeconds(p.position)
	totalTime := formatSeconds(p.duration)

	title := truncate(p.title, max(10, m.width/3))

	barWidth := m.width - lipgloss.Width(title) - len(currentTime) - len(totalTime) - 16
	if barWidth < 8 {
		barWidth = 8
	}
	filled := int(percentage / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := progressBarStyle.Render(strings.Repeat("█", filled)) +
		progressTrackStyle.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf(" %s %s %s %s %s %3.0f%%",
		accentStyle.Render(state+" "+title),
		dimString(currentTime), bar, dimString(totalTime),
		dimString("·"), percentage)
}

// formatSeconds converts seconds to MM:SS or HH:MM:SS.
func formatSeconds(seconds float64) string {
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func (m model) renderHelp() string {
	var help string
	switch m.screen {
	case screenHome:
		help = "↑↓/jk: rows • ←→/hl: tiles • enter: open • o: library • p: play • r: resume • w/f: watched/fav • /: search • s: settings • q: quit"
	case screenCatalog:
		help = "↑↓/jk: navigate • ←→: page • c: genre • g/G: top/bottom • enter: open • p: play • h/esc: back • q: quit"
	case screenDetails:
		help = "↑↓/jk: select • enter: open • p: play • r: resume • w/f: watched/fav • d/x: download/remove • h/esc: back"
	case screenEpisodes:
		help = "↑↓/jk: navigate • enter: play • r: resume • w: watched • d: download • h/esc: back"
	case screenSearch:
		if m.searching {
			help = "enter: search • esc: cancel • ctrl+c: quit"
		} else {
			help = "↑↓/jk: navigate • enter: open • p: play • /: new search • h/esc: back"
		}
	case screenSettings:
		help = "R: reload • h/esc: back • q: quit"
	}

	if m.playing != nil {
		help += " • space: pause • s: stop • u/a: tracks • ,/.: seek"
	}
	return dimStyle.Render(truncate(help, m.width-2))
}

// windowBounds clips a list to the visible slots keeping the cursor shown.
func windowBounds(cursor, total, visible int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > total {
		start = total - visible
	}
	return start, start + visible
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// wrapWords word-wraps text to at most maxLines lines of the given width.
func wrapWords(text string, width, maxLines int) []string {
	if width < 20 {
		width = 20
	}
	if maxLines < 1 {
		maxLines = 1
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		if len(line)+len(word)+1 > width {
			lines = append(lines, line)
			if len(lines) >= maxLines {
				return lines
			}
			line = word
			continue
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func dimString(s string) string {
	return dimStyle.Render(s)
}
