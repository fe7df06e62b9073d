package analytics

import (
	"time"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/model"
)

// DefaultWeekDays is the trailing window length of the weekly view.
const DefaultWeekDays = 7

// Weekly builds the trailing n-day report ending at now. It always reflects
// real time, never the navigated month.
func Weekly(habits []model.Habit, now time.Time, n int) model.WeeklyReport {
	dates := calendar.LastNDays(n, now)
	days := DailySeries(habits, dates, calendar.DayLabel)
	return model.WeeklyReport{
		Days:    days,
		Summary: OverallSummary(habits, dates),
		BestDay: BestDay(days),
	}
}

// Monthly builds the report for the navigated month, restricted to the days
// that have elapsed as of now.
func Monthly(habits []model.Habit, pos model.Position, now time.Time) model.MonthlyReport {
	dates := calendar.MonthDaysUntil(pos.Year, pos.Month, now)
	summary := HabitCompletionSummary(habits, dates)
	return model.MonthlyReport{
		Position:          pos,
		Label:             calendar.MonthLabel(pos),
		Dates:             dates,
		Habits:            summary,
		Weeks:             WeekTotals(habits, dates),
		AveragePercentage: AveragePercentage(summary),
		Summary:           OverallSummary(habits, dates),
		ViewingHistory:    !calendar.IsCurrentMonth(pos, now),
	}
}

// Checklist builds the per-habit state for a single date.
func Checklist(habits []model.Habit, date string) model.DailyChecklist {
	c := model.DailyChecklist{
		Date:  date,
		Items: make([]model.ChecklistItem, 0, len(habits)),
		Total: len(habits),
	}
	for _, h := range habits {
		done := h.Records[date]
		if done {
			c.Completed++
		}
		c.Items = append(c.Items, model.ChecklistItem{HabitID: h.ID, Name: h.Name, Completed: done})
	}
	c.AllCompleted = c.Total > 0 && c.Completed == c.Total
	return c
}

// Streaks computes consecutive-day runs per habit as of ref. The current run
// may end yesterday so an unfinished today doesn't break it. Records after ref
// are ignored.
func Streaks(habits []model.Habit, ref time.Time) []model.Streak {
	out := make([]model.Streak, 0, len(habits))
	for _, h := range habits {
		out = append(out, model.Streak{
			HabitID: h.ID,
			Name:    h.Name,
			Current: currentStreak(h, ref),
			Longest: longestStreak(h, ref),
		})
	}
	return out
}

func currentStreak(h model.Habit, ref time.Time) int {
	y, m, d := ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	if !h.Records[calendar.FormatISO(day)] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for h.Records[calendar.FormatISO(day)] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func longestStreak(h model.Habit, ref time.Time) int {
	limit := calendar.FormatISO(ref)
	longest, run := 0, 0
	var prev time.Time
	for _, ds := range h.CompletedDates() {
		if ds > limit {
			break
		}
		t, err := calendar.ParseISO(ds)
		if err != nil {
			continue
		}
		if !prev.IsZero() && calendar.FormatISO(prev.AddDate(0, 0, 1)) == ds {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = t
	}
	return longest
}

// Build derives every view for one navigational position. The daily and
// cumulative series cover the navigated month's elapsed days.
func Build(habits []model.Habit, pos model.Position, now time.Time, weekDays int) model.Dashboard {
	if weekDays <= 0 {
		weekDays = DefaultWeekDays
	}
	today := calendar.FormatISO(now)
	monthly := Monthly(habits, pos, now)
	return model.Dashboard{
		Today:      today,
		Checklist:  Checklist(habits, today),
		Weekly:     Weekly(habits, now, weekDays),
		Monthly:    monthly,
		Daily:      DailySeries(habits, monthly.Dates, calendar.DateLabel),
		Cumulative: CumulativeSeries(habits, monthly.Dates, calendar.DateLabel),
		Streaks:    Streaks(habits, now),
	}
}
