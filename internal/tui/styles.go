package tui

import "github.com/charmbracelet/lipgloss"

// Palette colors, 256-color codes.
const (
	colorAccent = "214"
	colorMuted  = "245"
	colorKey    = "220"
	colorError  = "203"
	colorText   = "252"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorText))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorError))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorKey))
	yearStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(colorText))
	selectedStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true).Foreground(lipgloss.Color(colorAccent))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(colorAccent)).Padding(0, 1)
	quoteStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(colorText))
)

// keyMilestoneMark flags years and entries holding a key milestone.
const keyMilestoneMark = "★"

// yearCellWidth is the rendered width of one year in the year strip.
const yearCellWidth = 8
