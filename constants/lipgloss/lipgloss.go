package lipgloss

import (
	"github.com/charmbracelet/lipgloss"
)

// Shared terminal styles used across commands.
var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
	Gray    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD"))

	// BoxStyle renders boxed info blocks (help, token usage).
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#38BDF8")).
			Padding(0, 1)

	// HighlightLine marks the highlighted line in the code viewer.
	HighlightLine = lipgloss.NewStyle().
			Background(lipgloss.Color("#334155")).
			Foreground(lipgloss.Color("#F8FAFC"))
)
