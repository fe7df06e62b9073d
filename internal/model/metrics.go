package model

import "slices"

// Position is the navigated calendar month. Month is 0-based (0 = January).
type Position struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// DailyCompletion holds how many habits were completed on a single day.
type DailyCompletion struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// HabitCompletion summarizes one habit over a date range.
type HabitCompletion struct {
	HabitID    int64  `json:"habit_id"`
	Name       string `json:"name"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// CumulativePoint is one step of a running completion total.
type CumulativePoint struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	Cumulative int    `json:"cumulative"`
	Daily      int    `json:"daily"`
}

// PeriodSummary holds the top-level aggregate across all habits for a range.
type PeriodSummary struct {
	TotalCompleted int `json:"total_completed"`
	TotalMissed    int `json:"total_missed"`
	TotalPossible  int `json:"total_possible"`
	Percentage     int `json:"percentage"`
	HabitCount     int `json:"habit_count"`
	DaysInPeriod   int `json:"days_in_period"`
}

// WeeklyReport covers the trailing window ending today.
type WeeklyReport struct {
	Days    []DailyCompletion `json:"days"`
	Summary PeriodSummary     `json:"summary"`
	BestDay *DailyCompletion  `json:"best_day,omitempty"`
}

// WeekTotal rolls up completions for one Sunday-first row of a month.
type WeekTotal struct {
	Week       int    `json:"week"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Completed  int    `json:"completed"`
	Possible   int    `json:"possible"`
	Percentage int    `json:"percentage"`
}

// MonthlyReport covers the elapsed days of the navigated month.
type MonthlyReport struct {
	Position          Position          `json:"position"`
	Label             string            `json:"label"`
	Dates             []string          `json:"dates"`
	Habits            []HabitCompletion `json:"habits"`
	Weeks             []WeekTotal       `json:"weeks"`
	AveragePercentage int               `json:"average_percentage"`
	Summary           PeriodSummary     `json:"summary"`
	ViewingHistory    bool              `json:"viewing_history"`
}

// ChecklistItem is one habit's state on the checklist day.
type ChecklistItem struct {
	HabitID   int64  `json:"habit_id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// DailyChecklist is the per-day to-do view.
type DailyChecklist struct {
	Date         string          `json:"date"`
	Items        []ChecklistItem `json:"items"`
	Completed    int             `json:"completed"`
	Total        int             `json:"total"`
	AllCompleted bool            `json:"all_completed"`
}

// Streak holds consecutive-day completion runs for a habit.
type Streak struct {
	HabitID int64  `json:"habit_id"`
	Name    string `json:"name"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// Dashboard bundles every derived view for one navigational position.
type Dashboard struct {
	Today      string            `json:"today"`
	Checklist  DailyChecklist    `json:"checklist"`
	Weekly     WeeklyReport      `json:"weekly"`
	Monthly    MonthlyReport     `json:"monthly"`
	Daily      []DailyCompletion `json:"daily"`
	Cumulative []CumulativePoint `json:"cumulative"`
	Streaks    []Streak          `json:"streaks"`
}

// Clone returns a deep copy so callers can't alias another dashboard's slices.
func (d Dashboard) Clone() Dashboard {
	d.Checklist.Items = slices.Clone(d.Checklist.Items)
	d.Weekly.Days = slices.Clone(d.Weekly.Days)
	if d.Weekly.BestDay != nil {
		best := *d.Weekly.BestDay
		d.Weekly.BestDay = &best
	}
	d.Monthly.Dates = slices.Clone(d.Monthly.Dates)
	d.Monthly.Habits = slices.Clone(d.Monthly.Habits)
	d.Monthly.Weeks = slices.Clone(d.Monthly.Weeks)
	d.Daily = slices.Clone(d.Daily)
	d.Cumulative = slices.Clone(d.Cumulative)
	d.Streaks = slices.Clone(d.Streaks)
	return d
}
