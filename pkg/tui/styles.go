package tui

import "github.com/charmbracelet/lipgloss"

// Colors shared with the rest of the sheet UI.
var (
	primaryColor = lipgloss.Color("212")
	warningColor = lipgloss.Color("214")
	infoColor    = lipgloss.Color("45")
	mutedColor   = lipgloss.Color("241")
	bgSecondary  = lipgloss.Color("235")
	borderColor  = lipgloss.Color("240")
)

var (
	pageStyle = lipgloss.NewStyle()

	dimmedPageStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Faint(true)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(bgSecondary).
			Align(lipgloss.Center)

	handleDraggingStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Background(bgSecondary).
				Bold(true).
				Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(bgSecondary).
			Bold(true).
			Padding(0, 1)

	headerInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Background(bgSecondary).
				Padding(0, 1)

	bodyStyle = lipgloss.NewStyle().
			Background(bgSecondary)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusStateStyle = lipgloss.NewStyle().
				Foreground(infoColor).
				Bold(true)

	statusLockStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)
)

// handleGlyph is drawn centered on the drag handle row.
const handleGlyph = "⠶⠶⠶"
