package tui

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/cli"
	"github.com/theirongolddev/habits/internal/tui/components"
	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderMonthTab(cw int) string {
	t := theme.Active
	m := a.dash.Monthly

	var b strings.Builder
	if m.ViewingHistory {
		banner := "Viewing " + m.Label + " · press t to return to this month"
		if len(m.Dates) == 0 {
			banner = m.Label + " hasn't started yet"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warn).Background(t.Background).Bold(true).Render(" " + banner))
		b.WriteString("\n")
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Days tracked", Value: strconv.Itoa(len(m.Dates)), Note: "of " + strconv.Itoa(calendar.DaysInMonth(m.Position.Year, m.Position.Month))},
		{Label: "Completions", Value: cli.FormatRatio(m.Summary.TotalCompleted, m.Summary.TotalPossible)},
		{Label: "Overall rate", Value: cli.FormatPercent(m.Summary.Percentage), Color: components.ColorForPct(m.Summary.Percentage)},
		{Label: "Habit average", Value: cli.FormatPercent(m.AveragePercentage)},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)

	var grid string
	switch {
	case len(a.habits) == 0:
		grid = "No habits yet."
	case len(m.Dates) == 0:
		grid = "No days to show."
	default:
		labels := make([]string, len(m.Dates))
		for i, d := range m.Dates {
			labels[i] = strconv.Itoa(calendar.DayOfMonth(d))
		}
		grid = components.CompletionGrid(a.gridRows(m.Dates), labels, habitLabelWidth(a, inner), a.cursor, a.dayCursor)
	}
	title := m.Label
	if len(m.Dates) > 0 && a.dayCursor < len(m.Dates) {
		title += " · " + calendar.LongDateLabel(m.Dates[a.dayCursor])
	}
	b.WriteString(components.ContentCard(title, grid, cw))
	b.WriteString("\n")

	var bars strings.Builder
	labelW := habitLabelWidth(a, inner)
	barW := inner - labelW - 8
	if barW > 40 {
		barW = 40
	}
	if barW < 5 {
		barW = 5
	}
	for i, h := range m.Habits {
		bars.WriteString(components.HabitBar(h.Name, h.Percentage, h.Color, labelW, barW))
		if i < len(m.Habits)-1 {
			bars.WriteString("\n")
		}
	}
	if len(m.Habits) == 0 {
		bars.WriteString("No habits yet.")
	}
	b.WriteString(components.ContentCard("Completion by habit", bars.String(), cw))

	if len(m.Weeks) > 0 {
		var weeks strings.Builder
		for i, w := range m.Weeks {
			label := "Week " + strconv.Itoa(w.Week)
			weeks.WriteString(components.HabitBar(label, w.Percentage, string(components.ColorForPct(w.Percentage)), labelW, barW))
			if i < len(m.Weeks)-1 {
				weeks.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Completion by week", weeks.String(), cw))
	}
	return b.String()
}
