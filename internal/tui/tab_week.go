package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habits/internal/analytics"
	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/cli"
	"github.com/theirongolddev/habits/internal/tui/components"
	"github.com/theirongolddev/habits/internal/tui/theme"
)

func (a App) renderWeekTab(cw int) string {
	t := theme.Active
	w := a.dash.Weekly
	s := w.Summary

	best := "-"
	if w.BestDay != nil && w.BestDay.Completed > 0 {
		best = fmt.Sprintf("%s (%d)", calendar.DateLabel(w.BestDay.Date), w.BestDay.Completed)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Completed", Value: cli.FormatNumber(int64(s.TotalCompleted)), Color: t.Done},
		{Label: "Missed", Value: cli.FormatNumber(int64(s.TotalMissed))},
		{Label: "Completion rate", Value: cli.FormatPercent(s.Percentage), Color: components.ColorForPct(s.Percentage)},
		{Label: "Best day", Value: best},
	}, cw))
	b.WriteString("\n")

	dates := make([]string, len(w.Days))
	counts := make([]int, len(w.Days))
	labels := make([]string, len(w.Days))
	for i, d := range w.Days {
		dates[i] = d.Date
		counts[i] = d.Completed
		labels[i] = d.Label
	}

	inner := components.CardInnerWidth(cw)
	chart := components.BarChart(counts, labels, t.Accent, inner, 8)
	b.WriteString(components.ContentCard(fmt.Sprintf("Daily completions · last %d days", len(w.Days)), chart, cw))
	b.WriteString("\n")

	shortLabels := make([]string, len(dates))
	for i, d := range dates {
		shortLabels[i] = string([]rune(calendar.DayLabel(d))[:2])
	}
	grid := components.CompletionGrid(a.gridRows(dates), shortLabels, habitLabelWidth(a, inner), -1, -1)
	if len(a.habits) == 0 {
		grid = "No habits yet."
	}
	b.WriteString(components.ContentCard("Habits", grid, cw))
	return b.String()
}

// gridRows builds one CompletionGrid row per habit over dates.
func (a App) gridRows(dates []string) []components.GridRow {
	rows := make([]components.GridRow, len(a.habits))
	for i, h := range a.habits {
		done := make([]bool, len(dates))
		for j, d := range dates {
			done[j] = h.Completed(d)
		}
		rows[i] = components.GridRow{Label: h.Name, Color: analytics.ColorFor(i), Done: done}
	}
	return rows
}

func habitLabelWidth(a App, inner int) int {
	w := 6
	for _, h := range a.habits {
		if n := len([]rune(h.Name)); n > w {
			w = n
		}
	}
	if limit := inner / 4; w > limit {
		w = limit
	}
	return w
}
