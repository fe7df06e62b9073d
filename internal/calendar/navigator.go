package calendar

import (
	"fmt"
	"time"

	"github.com/theirongolddev/habits/internal/model"
)

// Current returns the position of now's month.
func Current(now time.Time) model.Position {
	return model.Position{Year: now.Year(), Month: int(now.Month()) - 1}
}

// PreviousMonth steps back one month, rolling January into last year's December.
func PreviousMonth(p model.Position) model.Position {
	if p.Month == 0 {
		return model.Position{Year: p.Year - 1, Month: 11}
	}
	return model.Position{Year: p.Year, Month: p.Month - 1}
}

// NextMonth steps forward one month, rolling December into next year's January.
func NextMonth(p model.Position) model.Position {
	if p.Month == 11 {
		return model.Position{Year: p.Year + 1, Month: 0}
	}
	return model.Position{Year: p.Year, Month: p.Month + 1}
}

// IsCurrentMonth reports whether p is now's month.
func IsCurrentMonth(p model.Position, now time.Time) bool {
	return p == Current(now)
}

// MonthLabel returns e.g. "January 2024".
func MonthLabel(p model.Position) string {
	return time.Date(p.Year, time.Month(p.Month+1), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// ParseMonth parses "YYYY-MM" into a position.
func ParseMonth(s string) (model.Position, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return model.Position{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return model.Position{Year: t.Year(), Month: int(t.Month()) - 1}, nil
}

// FormatMonth formats a position as "YYYY-MM".
func FormatMonth(p model.Position) string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month+1)
}

// Navigator holds the selected month. It only changes which window analytics
// read; it never touches stored records.
type Navigator struct {
	pos model.Position
	now func() time.Time
}

// NewNavigator starts at the clock's current month. A nil clock uses time.Now.
func NewNavigator(now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{pos: Current(now()), now: now}
}

// Position returns the selected month.
func (n *Navigator) Position() model.Position { return n.pos }

// Previous moves one month back.
func (n *Navigator) Previous() model.Position {
	n.pos = PreviousMonth(n.pos)
	return n.pos
}

// Next moves one month forward. There is no upper bound.
func (n *Navigator) Next() model.Position {
	n.pos = NextMonth(n.pos)
	return n.pos
}

// Reset jumps back to the current month.
func (n *Navigator) Reset() model.Position {
	n.pos = Current(n.now())
	return n.pos
}

// Set jumps to an arbitrary month.
func (n *Navigator) Set(p model.Position) {
	n.pos = p
}

// IsCurrent reports whether the selected month is the clock's month.
// The view uses it for the "viewing history" indicator only.
func (n *Navigator) IsCurrent() bool {
	return IsCurrentMonth(n.pos, n.now())
}

// Now returns the navigator's clock reading.
func (n *Navigator) Now() time.Time { return n.now() }
