// Package styles provides shared lipgloss styles for UI components.
package styles

import "charm.land/lipgloss/v2"

// Colors used throughout the UI.
var (
	Primary = lipgloss.Color("62")  // cyan/teal
	Accent  = lipgloss.Color("212") // pink
	Success = lipgloss.Color("82")  // green
	Error   = lipgloss.Color("196") // red
	Muted   = lipgloss.Color("240") // gray
	Normal  = lipgloss.Color("252") // light gray
	Warning = lipgloss.Color("214") // orange
	Merged  = lipgloss.Color("141") // purple
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MergedStyle  = lipgloss.NewStyle().Foreground(Merged)
)
