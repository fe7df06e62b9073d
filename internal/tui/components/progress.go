package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a progress bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.Color
	switch {
	case pct >= 1:
		barColor = t.DoneBright
	case pct >= 0.5:
		barColor = t.Done
	default:
		barColor = t.Accent
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForPct grades a completion rate: the higher, the greener.
func ColorForPct(pct int) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 80:
		return t.DoneBright
	case pct >= 50:
		return t.Done
	case pct >= 25:
		return t.Warn
	default:
		return t.Error
	}
}

// HabitBar renders a labeled bar for one habit's completion percentage in
// the habit's palette color.
func HabitBar(label string, pct int, color string, labelW, barWidth int) string {
	t := theme.Active

	ratio := float64(pct) / 100
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Missed)

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(t.Surface).Render("●")
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(ColorForPct(pct)).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return swatch +
		spaceStyle.Render(" ") +
		labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(ratio) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3d%%", pct))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
