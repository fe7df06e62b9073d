package components

import (
	"strings"

	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Today", Key: '1'},
	{Name: "Week", Key: '2'},
	{Name: "Month", Key: '3'},
	{Name: "Analytics", Key: '4'},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	name := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return bg.Render(" ") + key.Render(string(tab.Key)) + bg.Render(" ") + name.Render(tab.Name) + bg.Render(" ")
}

// TabVisualWidth returns the rendered width of a tab in terminal cells.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index, followed by
// a right-aligned label (the navigated month).
func RenderTabBar(activeIdx int, width int, right string) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	left := strings.Join(parts, sep)

	rightStyled := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render(right + " ")
	gap := width - lipgloss.Width(left) - lipgloss.Width(rightStyled)
	if gap < 1 {
		gap = 1
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))
	return left + fill + rightStyled
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
