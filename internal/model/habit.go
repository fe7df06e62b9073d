// Package model defines domain types for habits, their records, and derived stats.
package model

import "sort"

// Records maps an ISO date ("2006-01-02") to its completion flag.
// Only true entries are ever stored; a missing key means "not completed".
type Records map[string]bool

// Habit is a named habit with its sparse per-day completion records.
type Habit struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Records Records `json:"records"`
}

// Completed reports whether the habit was completed on date.
func (h Habit) Completed(date string) bool {
	return h.Records[date]
}

// CountCompleted returns how many of dates the habit was completed on.
func (h Habit) CountCompleted(dates []string) int {
	n := 0
	for _, d := range dates {
		if h.Records[d] {
			n++
		}
	}
	return n
}

// CompletedDates returns the completed dates in ascending order.
func (h Habit) CompletedDates() []string {
	dates := make([]string, 0, len(h.Records))
	for d, ok := range h.Records {
		if ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}

// Clone returns a deep copy so callers can't reach the owner's record map.
func (h Habit) Clone() Habit {
	cp := h
	cp.Records = make(Records, len(h.Records))
	for d, ok := range h.Records {
		if ok {
			cp.Records[d] = true
		}
	}
	return cp
}

// CloneAll deep-copies a habit collection, preserving order.
func CloneAll(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
