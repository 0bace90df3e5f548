package tui

import "github.com/charmbracelet/lipgloss"

// Palette for TUI rendering.
const (
	primaryColor = "#7C3AED"
	successColor = "#10B981"
	warningColor = "#F59E0B"
	errorColor   = "#EF4444"
	dimColor     = "#6B7280"
)

var (
	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// BoxStyle provides a rounded border box for detail panes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// SelectedStyle highlights the item under the cursor.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// DimStyle renders muted help text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders confirmations in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(successColor))

	// WarningStyle renders pending markers in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// ErrorStyle renders failures in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))
)
