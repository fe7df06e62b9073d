package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habits/internal/analytics"
	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/cli"
	"github.com/theirongolddev/habits/internal/tui/components"
	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderAnalyticsTab(cw int) string {
	t := theme.Active
	d := a.dash

	total, longest := 0, 0
	for _, s := range d.Streaks {
		if s.Longest > longest {
			longest = s.Longest
		}
	}
	if n := len(d.Cumulative); n > 0 {
		total = d.Cumulative[n-1].Cumulative
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Completions", Value: cli.FormatNumber(int64(total)), Note: d.Monthly.Label},
		{Label: "Possible", Value: cli.FormatNumber(int64(d.Monthly.Summary.TotalPossible))},
		{Label: "Rate", Value: cli.FormatPercent(d.Monthly.Summary.Percentage), Color: components.ColorForPct(d.Monthly.Summary.Percentage)},
		{Label: "Longest streak", Value: cli.FormatDays(longest)},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	halves := components.LayoutRow(cw, 2)

	cumulative := make([]int, len(d.Cumulative))
	daily := make([]float64, len(d.Daily))
	labels := make([]string, len(d.Cumulative))
	for i, p := range d.Cumulative {
		cumulative[i] = p.Cumulative
		labels[i] = fmt.Sprint(calendar.DayOfMonth(p.Date))
	}
	for i, p := range d.Daily {
		daily[i] = float64(p.Completed)
	}

	chart := "No days to show."
	if len(cumulative) > 0 {
		chart = components.BarChart(cumulative, labels, t.AccentBright, inner, 8)
	}
	b.WriteString(components.ContentCard("Cumulative completions · "+d.Monthly.Label, chart, cw))
	b.WriteString("\n")

	spark := "No days to show."
	if len(daily) > 0 {
		spark = components.Sparkline(daily, t.Done)
	}
	streaks := a.renderStreaks(components.CardInnerWidth(halves[1]))
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Daily completions", spark, halves[0]),
		components.ContentCard("Streaks", streaks, halves[1]),
	}))
	return b.String()
}

func (a App) renderStreaks(width int) string {
	t := theme.Active
	if len(a.dash.Streaks) == 0 {
		return "No habits yet."
	}
	head := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	val := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	nameW := width - 18
	if nameW < 6 {
		nameW = 6
	}

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-*s %8s %8s", nameW, "Habit", "Current", "Longest")))
	for i, s := range a.dash.Streaks {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(analytics.ColorFor(i))).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(name.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(s.Name, nameW))))
		b.WriteString(val.Render(fmt.Sprintf(" %8d %8d", s.Current, s.Longest)))
	}
	return b.String()
}
