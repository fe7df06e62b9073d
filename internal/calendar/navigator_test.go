package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habits/internal/model"
)

func TestMonthRollover(t *testing.T) {
	assert.Equal(t, model.Position{Year: 2023, Month: 11}, PreviousMonth(model.Position{Year: 2024, Month: 0}))
	assert.Equal(t, model.Position{Year: 2025, Month: 0}, NextMonth(model.Position{Year: 2024, Month: 11}))
	assert.Equal(t, model.Position{Year: 2024, Month: 4}, NextMonth(model.Position{Year: 2024, Month: 3}))
	assert.Equal(t, model.Position{Year: 2024, Month: 2}, PreviousMonth(model.Position{Year: 2024, Month: 3}))
}

func TestNavigator(t *testing.T) {
	now := time.Date(2024, time.January, 20, 9, 30, 0, 0, time.Local)
	nav := NewNavigator(func() time.Time { return now })

	require.Equal(t, model.Position{Year: 2024, Month: 0}, nav.Position())
	assert.True(t, nav.IsCurrent())

	nav.Previous()
	assert.Equal(t, model.Position{Year: 2023, Month: 11}, nav.Position())
	assert.False(t, nav.IsCurrent())

	for i := 0; i < 14; i++ {
		nav.Next()
	}
	assert.Equal(t, model.Position{Year: 2025, Month: 1}, nav.Position(), "navigation is unbounded")

	nav.Reset()
	assert.True(t, nav.IsCurrent())
}

func TestParseMonth(t *testing.T) {
	p, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, model.Position{Year: 2024, Month: 1}, p)
	assert.Equal(t, "2024-02", FormatMonth(p))

	_, err = ParseMonth("Feb 2024")
	assert.Error(t, err)
}
