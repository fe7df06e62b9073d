// Package calendar computes the ISO date ranges analytics are folded over.
// All dates are plain calendar days formatted as "2006-01-02"; months are
// 0-based to match model.Position.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ISOLayout is the date format used for record keys.
const ISOLayout = "2006-01-02"

// ErrInvalidDate is returned when a string is not a valid ISO calendar date.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// FormatISO formats t's calendar day in its own location.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseISO parses an ISO date as local midnight.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISOLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysInMonth returns the day count of month (0-11) in year. It relies on
// day 0 of the following month normalizing to the last day of this one.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays returns every date of the month in order.
func MonthDays(year, month int) []string {
	return daysThrough(year, month, DaysInMonth(year, month))
}

// MonthDaysUntil returns the elapsed days of the month relative to ref:
// nothing for a month after ref's, the whole month for one before it, and
// days 1 through ref's day for ref's own month.
func MonthDaysUntil(year, month int, ref time.Time) []string {
	refYear, refMonth := ref.Year(), int(ref.Month())-1
	switch {
	case year > refYear || (year == refYear && month > refMonth):
		return []string{}
	case year == refYear && month == refMonth:
		return daysThrough(year, month, ref.Day())
	default:
		return MonthDays(year, month)
	}
}

// LastNDays returns n consecutive dates ending with ref's day, oldest first.
func LastNDays(n int, ref time.Time) []string {
	if n <= 0 {
		return []string{}
	}
	days := make([]string, 0, n)
	y, m, d := ref.Date()
	for i := n - 1; i >= 0; i-- {
		days = append(days, FormatISO(time.Date(y, m, d-i, 0, 0, 0, 0, ref.Location())))
	}
	return days
}

func daysThrough(year, month, last int) []string {
	days := make([]string, 0, last)
	for day := 1; day <= last; day++ {
		days = append(days, FormatISO(time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)))
	}
	return days
}

// WeekOfMonth returns the 1-based calendar row the date falls in when the
// month is laid out in Sunday-first weeks.
func WeekOfMonth(date string) (int, error) {
	t, err := ParseISO(date)
	if err != nil {
		return 0, err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return (t.Day()+int(first.Weekday())-1)/7 + 1, nil
}

// DayLabel returns a 3-letter weekday abbreviation, e.g. "Mon".
func DayLabel(date string) string {
	t, err := ParseISO(date)
	if err != nil {
		return date
	}
	return t.Format("Mon")
}

// DateLabel returns a short chart label, e.g. "Jan 15".
func DateLabel(date string) string {
	t, err := ParseISO(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

// LongDateLabel returns e.g. "Monday, January 15".
func LongDateLabel(date string) string {
	t, err := ParseISO(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}

// DayOfMonth returns the numeric day of an ISO date, or 0 if it doesn't parse.
func DayOfMonth(date string) int {
	t, err := ParseISO(date)
	if err != nil {
		return 0
	}
	return t.Day()
}
