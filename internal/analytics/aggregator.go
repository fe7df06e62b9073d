// Package analytics folds habit records over calendar date ranges into the
// aggregates the views display. Every function is pure: it reads the habits it
// is given and never mutates them.
package analytics

import (
	"math"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/model"
)

// Palette is the fixed display color cycle for per-habit summaries.
var Palette = []string{
	"#2BAB92", // teal
	"#F09342", // orange
	"#47A3D1", // blue
	"#A347D1", // purple
	"#DD3C71", // pink
	"#E8BA30", // yellow
	"#40BF40", // green
	"#DD3C3C", // red
}

// LabelFunc turns an ISO date into a display label.
type LabelFunc func(date string) string

// ColorFor returns the palette color for the habit at index.
func ColorFor(index int) string {
	return Palette[index%len(Palette)]
}

// percent returns round(100*n/d), or 0 when d is 0.
func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

// CompletionCount returns how many habits were completed on date.
func CompletionCount(habits []model.Habit, date string) int {
	n := 0
	for _, h := range habits {
		if h.Records[date] {
			n++
		}
	}
	return n
}

// DailySeries computes per-day completion counts for dates, in order.
func DailySeries(habits []model.Habit, dates []string, label LabelFunc) []model.DailyCompletion {
	if label == nil {
		label = calendar.DateLabel
	}
	days := make([]model.DailyCompletion, 0, len(dates))
	for _, d := range dates {
		days = append(days, model.DailyCompletion{
			Date:      d,
			Label:     label(d),
			Completed: CompletionCount(habits, d),
			Total:     len(habits),
		})
	}
	return days
}

// HabitCompletionSummary computes each habit's completion over dates, paired
// with its palette color by collection position.
func HabitCompletionSummary(habits []model.Habit, dates []string) []model.HabitCompletion {
	out := make([]model.HabitCompletion, 0, len(habits))
	for i, h := range habits {
		done := h.CountCompleted(dates)
		out = append(out, model.HabitCompletion{
			HabitID:    h.ID,
			Name:       h.Name,
			Completed:  done,
			Total:      len(dates),
			Percentage: percent(done, len(dates)),
			Color:      ColorFor(i),
		})
	}
	return out
}

// OverallSummary computes the period totals across all habits.
func OverallSummary(habits []model.Habit, dates []string) model.PeriodSummary {
	s := model.PeriodSummary{
		TotalPossible: len(habits) * len(dates),
		HabitCount:    len(habits),
		DaysInPeriod:  len(dates),
	}
	for _, h := range habits {
		s.TotalCompleted += h.CountCompleted(dates)
	}
	s.TotalMissed = s.TotalPossible - s.TotalCompleted
	s.Percentage = percent(s.TotalCompleted, s.TotalPossible)
	return s
}

// CumulativeSeries computes a running total of daily completions in date order.
func CumulativeSeries(habits []model.Habit, dates []string, label LabelFunc) []model.CumulativePoint {
	if label == nil {
		label = calendar.DateLabel
	}
	points := make([]model.CumulativePoint, 0, len(dates))
	running := 0
	for _, d := range dates {
		daily := CompletionCount(habits, d)
		running += daily
		points = append(points, model.CumulativePoint{
			Date:       d,
			Label:      label(d),
			Cumulative: running,
			Daily:      daily,
		})
	}
	return points
}

// WeekTotals groups dates by their week of the month. Dates that fail to
// parse are skipped.
func WeekTotals(habits []model.Habit, dates []string) []model.WeekTotal {
	var weeks []model.WeekTotal
	for _, d := range dates {
		w, err := calendar.WeekOfMonth(d)
		if err != nil {
			continue
		}
		if n := len(weeks); n == 0 || weeks[n-1].Week != w {
			weeks = append(weeks, model.WeekTotal{Week: w, Start: d})
		}
		cur := &weeks[len(weeks)-1]
		cur.End = d
		cur.Completed += CompletionCount(habits, d)
		cur.Possible += len(habits)
	}
	for i := range weeks {
		weeks[i].Percentage = percent(weeks[i].Completed, weeks[i].Possible)
	}
	return weeks
}

// AveragePercentage returns the rounded mean of per-habit percentages.
func AveragePercentage(summary []model.HabitCompletion) int {
	if len(summary) == 0 {
		return 0
	}
	total := 0
	for _, h := range summary {
		total += h.Percentage
	}
	return int(math.Round(float64(total) / float64(len(summary))))
}

// BestDay returns the first day with the highest completion count, or nil
// for an empty series.
func BestDay(days []model.DailyCompletion) *model.DailyCompletion {
	if len(days) == 0 {
		return nil
	}
	best := days[0]
	for _, d := range days[1:] {
		if d.Completed > best.Completed {
			best = d
		}
	}
	return &best
}
