package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habits/internal/analytics"
	"github.com/theirongolddev/habits/internal/model"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

func habitsFixture() []model.Habit {
	return []model.Habit{
		{ID: 1700000000001, Name: "Read", Records: model.Records{"2024-03-14": true, "2024-03-15": true}},
		{ID: 1700000000002, Name: "Stretch", Records: model.Records{"2024-03-15": true}},
		{ID: 1700000000003, Name: "read", Records: model.Records{}},
	}
}

func TestResolveHabit(t *testing.T) {
	habits := habitsFixture()

	t.Run("by id", func(t *testing.T) {
		h, err := resolveHabit(habits, "1700000000002")
		require.NoError(t, err)
		assert.Equal(t, "Stretch", h.Name)
	})
	t.Run("by name", func(t *testing.T) {
		h, err := resolveHabit(habits, " stretch ")
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000002), h.ID)
	})
	t.Run("ambiguous name", func(t *testing.T) {
		_, err := resolveHabit(habits, "READ")
		assert.ErrorContains(t, err, "matches 2 habits")
	})
	t.Run("by position", func(t *testing.T) {
		h, err := resolveHabit(habits, "3")
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000003), h.ID)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := resolveHabit(habits, "Swim")
		assert.ErrorIs(t, err, errNoHabit)
		_, err = resolveHabit(habits, "4")
		assert.ErrorIs(t, err, errNoHabit)
	})
}

func TestPosition(t *testing.T) {
	reset := func() { flagMonth, flagPrev, flagNext = "", 0, 0 }
	t.Cleanup(reset)

	reset()
	p, err := position(now)
	require.NoError(t, err)
	assert.Equal(t, model.Position{Year: 2024, Month: 2}, p)

	flagPrev = 3
	p, err = position(now)
	require.NoError(t, err)
	assert.Equal(t, model.Position{Year: 2023, Month: 11}, p)

	reset()
	flagMonth, flagNext = "2023-12", 1
	p, err = position(now)
	require.NoError(t, err)
	assert.Equal(t, model.Position{Year: 2024, Month: 0}, p)

	reset()
	flagMonth = "12/2023"
	_, err = position(now)
	assert.Error(t, err)
}

func TestRenderToday(t *testing.T) {
	habits := habitsFixture()[:2]
	d := analytics.Build(habits, model.Position{Year: 2024, Month: 2}, now, 7)

	out := renderToday(d)
	assert.Contains(t, out, "Friday, March 15")
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "2 days streak")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "All habits completed today!")

	empty := renderToday(analytics.Build(nil, model.Position{Year: 2024, Month: 2}, now, 7))
	assert.Contains(t, empty, "No habits yet")
}

func TestRenderWeek(t *testing.T) {
	habits := habitsFixture()[:2]
	w := analytics.Weekly(habits, now, 7)

	out := renderWeek(w, habits)
	assert.Contains(t, out, "Last 7 days")
	assert.Contains(t, out, "Stretch")
	assert.Contains(t, out, "3 done · 11 missed")
	assert.Contains(t, out, "best day Mar 15 (2)")
}

func TestRenderMonth(t *testing.T) {
	habits := habitsFixture()[:2]

	out := renderMonth(analytics.Monthly(habits, model.Position{Year: 2024, Month: 2}, now))
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "2/15")
	assert.Contains(t, out, "15 days tracked")
	assert.Contains(t, out, "Week 1  Mar 1 - Mar 2")
	assert.Contains(t, out, "Week 3  Mar 10 - Mar 15")
	assert.NotContains(t, out, "Viewing")

	past := renderMonth(analytics.Monthly(habits, model.Position{Year: 2024, Month: 1}, now))
	assert.Contains(t, past, "Viewing February 2024")

	future := renderMonth(analytics.Monthly(habits, model.Position{Year: 2024, Month: 5}, now))
	assert.Contains(t, future, "hasn't started yet")
}

func TestRenderStats(t *testing.T) {
	habits := habitsFixture()[:2]
	out := renderStats(analytics.Build(habits, model.Position{Year: 2024, Month: 2}, now, 7))
	assert.Contains(t, out, "STREAKS")
	assert.Contains(t, out, "3 completions")
	assert.Contains(t, out, "10% of 30 possible")
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	assert.Equal(t, []string{"serve", "--addr", ":9000"}, got)
}
