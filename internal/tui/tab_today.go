package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/cli"
	"github.com/theirongolddev/habits/internal/tui/components"
	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderTodayTab(cw int) string {
	t := theme.Active
	d := a.dash
	c := d.Checklist

	bestCurrent := 0
	for _, s := range d.Streaks {
		if s.Current > bestCurrent {
			bestCurrent = s.Current
		}
	}

	todayColor := t.TextPrimary
	if c.AllCompleted {
		todayColor = t.DoneBright
	}
	metrics := []components.Metric{
		{Label: "Today", Value: cli.FormatRatio(c.Completed, c.Total), Color: todayColor},
		{Label: fmt.Sprintf("Last %d days", len(d.Weekly.Days)), Value: cli.FormatPercent(d.Weekly.Summary.Percentage),
			Color: components.ColorForPct(d.Weekly.Summary.Percentage)},
		{Label: "Month average", Value: cli.FormatPercent(d.Monthly.AveragePercentage), Note: d.Monthly.Label},
		{Label: "Best current streak", Value: cli.FormatDays(bestCurrent)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	bg := lipgloss.NewStyle().Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	barW := inner - 6
	if barW > 50 {
		barW = 50
	}
	pct := 0.0
	if c.Total > 0 {
		pct = float64(c.Completed) / float64(c.Total)
	}
	body.WriteString(components.ProgressBar(pct, barW))
	body.WriteString("\n\n")

	if len(c.Items) == 0 {
		body.WriteString(muted.Render("No habits yet. Press a to add one."))
	}
	for i, item := range c.Items {
		selected := i == a.cursor
		rowBg := t.Surface
		if selected {
			rowBg = t.SurfaceHover
		}
		checkStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(rowBg)
		nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(rowBg)
		mark := "[ ]"
		if item.Completed {
			mark = "[✓]"
			checkStyle = checkStyle.Foreground(t.DoneBright).Bold(true)
			nameStyle = nameStyle.Foreground(t.TextMuted)
		}
		pointer := "  "
		if selected {
			pointer = "› "
		}
		line := nameStyle.Render(pointer) + checkStyle.Render(mark) + nameStyle.Render(" "+item.Name)
		if s := streakFor(a, item.HabitID); s > 1 {
			line += lipgloss.NewStyle().Foreground(t.Accent).Background(rowBg).Render(fmt.Sprintf("  %d-day streak", s))
		}
		if gap := inner - lipgloss.Width(line); gap > 0 {
			line += lipgloss.NewStyle().Background(rowBg).Render(strings.Repeat(" ", gap))
		}
		body.WriteString(line)
		if i < len(c.Items)-1 {
			body.WriteString("\n")
		}
	}

	if a.mode != inputNone {
		label := "Add habit"
		if a.mode == inputRename {
			label = "Rename habit"
		}
		body.WriteString("\n\n")
		body.WriteString(muted.Render(label + "  "))
		body.WriteString(a.input.View())
	}

	if c.AllCompleted {
		body.WriteString("\n\n")
		body.WriteString(lipgloss.NewStyle().Foreground(t.DoneBright).Background(t.Surface).Bold(true).
			Render("All habits completed today!"))
	}
	body.WriteString(bg.Render(""))

	title := calendar.LongDateLabel(d.Today)
	if a.mode != inputNone {
		b.WriteString(components.FocusedCard(title, body.String(), cw))
	} else {
		b.WriteString(components.ContentCard(title, body.String(), cw))
	}
	return b.String()
}

func streakFor(a App, id int64) int {
	for _, s := range a.dash.Streaks {
		if s.HabitID == id {
			return s.Current
		}
	}
	return 0
}
