package output

import "charm.land/lipgloss/v2"

// Colors
var (
	Primary = lipgloss.Color("#33A8FF")
	Muted   = lipgloss.Color("#6B7280")
	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Muted)

	mutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	okStyle = lipgloss.NewStyle().
		Foreground(Success)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Warning)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Error)
)
