package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/habits/internal/analytics"
	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/cli"
	"github.com/theirongolddev/habits/internal/model"
	"github.com/theirongolddev/habits/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagWeekDays int
	flagMonth    string
	flagPrev     int
	flagNext     int
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Today's checklist (default command)",
	RunE:  runToday,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Completion over the last week",
	RunE:  runWeek,
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Per-habit completion for a calendar month",
	RunE:  runMonth,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Streaks and cumulative completions for a month",
	RunE:  runStats,
}

func init() {
	weekCmd.Flags().IntVarP(&flagWeekDays, "days", "n", 0, "Window length in days (default from config)")

	for _, c := range []*cobra.Command{monthCmd, statsCmd} {
		c.Flags().StringVarP(&flagMonth, "month", "m", "", "Month to show (YYYY-MM)")
		c.Flags().IntVar(&flagPrev, "prev", 0, "Go back this many months")
		c.Flags().IntVar(&flagNext, "next", 0, "Go forward this many months")
	}

	rootCmd.AddCommand(todayCmd, weekCmd, monthCmd, statsCmd)
}

// position resolves --month / --prev / --next against now.
func position(now time.Time) (model.Position, error) {
	nav := calendar.NewNavigator(func() time.Time { return now })
	if flagMonth != "" {
		p, err := calendar.ParseMonth(flagMonth)
		if err != nil {
			return model.Position{}, err
		}
		nav.Set(p)
	}
	for i := 0; i < flagPrev; i++ {
		nav.Previous()
	}
	for i := 0; i < flagNext; i++ {
		nav.Next()
	}
	return nav.Position(), nil
}

func dashboard(st *store.Store, now time.Time, pos model.Position, weekDays int) model.Dashboard {
	if weekDays <= 0 {
		weekDays = cfg.General.WeekDays
	}
	return analytics.Build(st.Habits(), pos, now, weekDays)
}

func runToday(_ *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		now := time.Now()
		fmt.Print(renderToday(dashboard(st, now, calendar.Current(now), 0)))
		return nil
	})
}

func runWeek(_ *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		now := time.Now()
		d := dashboard(st, now, calendar.Current(now), flagWeekDays)
		fmt.Print(renderWeek(d.Weekly, st.Habits()))
		return nil
	})
}

func runMonth(_ *cobra.Command, _ []string) error {
	now := time.Now()
	pos, err := position(now)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		fmt.Print(renderMonth(analytics.Monthly(st.Habits(), pos, now)))
		return nil
	})
}

func runStats(_ *cobra.Command, _ []string) error {
	now := time.Now()
	pos, err := position(now)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		fmt.Print(renderStats(dashboard(st, now, pos, 0)))
		return nil
	})
}

func renderToday(d model.Dashboard) string {
	var b strings.Builder
	c := d.Checklist

	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("TODAY  " + calendar.LongDateLabel(d.Today)))
	b.WriteString("\n\n")

	if c.Total == 0 {
		b.WriteString("  No habits yet. Add one with `habits add <name>`.\n")
		return b.String()
	}

	streaks := make(map[int64]int, len(d.Streaks))
	for _, s := range d.Streaks {
		streaks[s.HabitID] = s.Current
	}

	for i, item := range c.Items {
		line := fmt.Sprintf("  %2d  %s  %s", i+1, cli.RenderCheck(item.Completed), item.Name)
		if s := streaks[item.HabitID]; s > 1 {
			line += cli.RenderMuted(fmt.Sprintf("  %s streak", cli.FormatDays(s)))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(cli.RenderProgressBar(c.Completed, c.Total, 30))
	b.WriteString("\n")
	if c.AllCompleted {
		b.WriteString("\n")
		b.WriteString(cli.RenderBanner("All habits completed today!", true))
		b.WriteString("\n")
	}
	return b.String()
}

func renderWeek(w model.WeeklyReport, habits []model.Habit) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(fmt.Sprintf("WEEK  Last %d days", len(w.Days))))
	b.WriteString("\n\n")

	if len(habits) == 0 {
		b.WriteString("  No habits yet.\n")
		return b.String()
	}

	headers := []string{"Habit"}
	for _, d := range w.Days {
		headers = append(headers, string([]rune(calendar.DayLabel(d.Date))[:2]))
	}
	headers = append(headers, "Rate")

	dates := make([]string, len(w.Days))
	for i, d := range w.Days {
		dates[i] = d.Date
	}
	summary := analytics.HabitCompletionSummary(habits, dates)

	rows := make([][]string, 0, len(habits)+2)
	for i, h := range habits {
		row := []string{cli.Truncate(h.Name, 24)}
		for _, d := range dates {
			row = append(row, cli.RenderCheck(h.Completed(d)))
		}
		row = append(row, cli.FormatPercent(summary[i].Percentage))
		rows = append(rows, row)
	}

	totals := []string{"Total"}
	for _, d := range w.Days {
		totals = append(totals, fmt.Sprint(d.Completed))
	}
	totals = append(totals, cli.FormatPercent(w.Summary.Percentage))
	rows = append(rows, []string{"---"}, totals)

	b.WriteString(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))

	counts := make([]float64, len(w.Days))
	for i, d := range w.Days {
		counts[i] = float64(d.Completed)
	}
	b.WriteString("\n  ")
	b.WriteString(cli.RenderSparkline(counts))
	fmt.Fprintf(&b, "  %d done · %d missed", w.Summary.TotalCompleted, w.Summary.TotalMissed)
	if w.BestDay != nil && w.BestDay.Completed > 0 {
		fmt.Fprintf(&b, " · best day %s (%d)", calendar.DateLabel(w.BestDay.Date), w.BestDay.Completed)
	}
	b.WriteString("\n")
	return b.String()
}

func renderMonth(m model.MonthlyReport) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("MONTH  " + m.Label))
	b.WriteString("\n\n")

	if m.ViewingHistory {
		b.WriteString(cli.RenderBanner("Viewing "+m.Label, false) + "\n\n")
	}
	if len(m.Dates) == 0 {
		b.WriteString("  This month hasn't started yet.\n")
		return b.String()
	}
	if len(m.Habits) == 0 {
		b.WriteString("  No habits yet.\n")
		return b.String()
	}

	rows := make([][]string, 0, len(m.Habits)+2)
	for _, h := range m.Habits {
		rows = append(rows, []string{
			cli.Truncate(h.Name, 24),
			cli.FormatRatio(h.Completed, h.Total),
			cli.FormatPercent(h.Percentage),
			cli.RenderHorizontalBar(float64(h.Percentage), 100, 20, h.Color),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		"Average",
		cli.FormatRatio(m.Summary.TotalCompleted, m.Summary.TotalPossible),
		cli.FormatPercent(m.AveragePercentage),
		"",
	})

	b.WriteString(cli.RenderTable(cli.Table{
		Headers: []string{"Habit", "Done", "Rate", ""},
		Rows:    rows,
		Widths:  []int{maxNameWidth(m.Habits), 7, 4, 20},
	}))
	fmt.Fprintf(&b, "\n  %s tracked · %d%% of all possible completions\n",
		cli.FormatDays(len(m.Dates)), m.Summary.Percentage)

	b.WriteString("\n")
	for _, w := range m.Weeks {
		span := calendar.DateLabel(w.Start)
		if w.End != w.Start {
			span += " - " + calendar.DateLabel(w.End)
		}
		fmt.Fprintf(&b, "  Week %d  %-15s %7s  %4s\n",
			w.Week, span, cli.FormatRatio(w.Completed, w.Possible), cli.FormatPercent(w.Percentage))
	}
	return b.String()
}

func renderStats(d model.Dashboard) string {
	var b strings.Builder
	m := d.Monthly
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("STATS  " + m.Label))
	b.WriteString("\n\n")

	if len(d.Streaks) == 0 {
		b.WriteString("  No habits yet.\n")
		return b.String()
	}

	rows := make([][]string, 0, len(d.Streaks))
	for _, s := range d.Streaks {
		rows = append(rows, []string{cli.Truncate(s.Name, 24), cli.FormatDays(s.Current), cli.FormatDays(s.Longest)})
	}
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "STREAKS",
		Headers: []string{"Habit", "Current", "Longest"},
		Rows:    rows,
	}))

	if len(d.Cumulative) == 0 {
		return b.String()
	}
	cumulative := make([]float64, len(d.Cumulative))
	daily := make([]float64, len(d.Daily))
	for i, p := range d.Cumulative {
		cumulative[i] = float64(p.Cumulative)
	}
	for i, p := range d.Daily {
		daily[i] = float64(p.Completed)
	}
	total := d.Cumulative[len(d.Cumulative)-1].Cumulative

	b.WriteString("\n")
	fmt.Fprintf(&b, "  Daily       %s\n", cli.RenderSparkline(daily))
	fmt.Fprintf(&b, "  Cumulative  %s  %s completions\n", cli.RenderSparkline(cumulative), cli.FormatNumber(int64(total)))
	fmt.Fprintf(&b, "  Rate        %s of %s possible\n",
		cli.FormatPercent(m.Summary.Percentage), cli.FormatNumber(int64(m.Summary.TotalPossible)))
	return b.String()
}

func maxNameWidth(habits []model.HabitCompletion) int {
	w := len("Average")
	for _, h := range habits {
		if n := len([]rune(cli.Truncate(h.Name, 24))); n > w {
			w = n
		}
	}
	return w
}
