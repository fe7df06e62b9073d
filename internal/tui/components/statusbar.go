package components

import (
	"strings"

	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and a
// status message on the right. isErr colors the message as an error.
func RenderStatusBar(width int, hints, status string, isErr bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	statusColor := t.TextDim
	if isErr {
		statusColor = t.Error
	}
	statusStyle := lipgloss.NewStyle().Foreground(statusColor).Background(t.Surface)

	left := base.Render(" " + hints)
	right := statusStyle.Render(status + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
