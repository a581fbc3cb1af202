package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8E3F3")).
			Background(lipgloss.Color("#1a1b26")).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3b4261")).
			Padding(0, 2).
			Bold(true)

	headerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bb9af7")).
				Bold(true)

	headerStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ece6a"))

	headerStaleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f7768e")).
				Bold(true)

	headerDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3b4261"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bb9af7")).
			Background(lipgloss.Color("#1f2335")).
			Padding(0, 1).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#bb9af7")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7aa2f7"))

	watchedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e"))

	progressBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7aa2f7"))

	progressTrackStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3b4261"))

	panelBorderColor = lipgloss.Color("#3b4261")
)
