package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/model"
)

func habit(id int64, name string, dates ...string) model.Habit {
	h := model.Habit{ID: id, Name: name, Records: model.Records{}}
	for _, d := range dates {
		h.Records[d] = true
	}
	return h
}

func march() []string {
	return []string{"2024-03-01", "2024-03-02", "2024-03-03"}
}

func TestOverallSummary(t *testing.T) {
	habits := []model.Habit{
		habit(1, "A", "2024-03-01", "2024-03-02"),
		habit(2, "B", "2024-03-01"),
	}

	s := OverallSummary(habits, march())
	assert.Equal(t, 6, s.TotalPossible)
	assert.Equal(t, 3, s.TotalCompleted)
	assert.Equal(t, 3, s.TotalMissed)
	assert.Equal(t, 50, s.Percentage)
	assert.Equal(t, 2, s.HabitCount)
	assert.Equal(t, 3, s.DaysInPeriod)
}

func TestOverallSummary_ZeroDivisions(t *testing.T) {
	t.Run("no habits", func(t *testing.T) {
		s := OverallSummary(nil, march())
		assert.Equal(t, model.PeriodSummary{DaysInPeriod: 3}, s)
	})

	t.Run("no days", func(t *testing.T) {
		s := OverallSummary([]model.Habit{habit(1, "A", "2024-03-01")}, nil)
		assert.Equal(t, 0, s.Percentage)
		assert.Equal(t, 0, s.TotalPossible)
		assert.Equal(t, 1, s.HabitCount)
	})
}

func TestCumulativeSeries(t *testing.T) {
	habits := []model.Habit{
		habit(1, "A", "2024-03-01", "2024-03-03"),
		habit(2, "B", "2024-03-01"),
	}

	points := CumulativeSeries(habits, march(), nil)
	require.Len(t, points, 3)

	daily := []int{points[0].Daily, points[1].Daily, points[2].Daily}
	cumulative := []int{points[0].Cumulative, points[1].Cumulative, points[2].Cumulative}
	assert.Equal(t, []int{2, 0, 1}, daily)
	assert.Equal(t, []int{2, 2, 3}, cumulative)
	assert.Equal(t, "Mar 1", points[0].Label)
}

func TestDailySeries(t *testing.T) {
	habits := []model.Habit{
		habit(1, "A", "2024-03-02"),
		habit(2, "B", "2024-03-02"),
		habit(3, "C"),
	}

	days := DailySeries(habits, march(), calendar.DayLabel)
	require.Len(t, days, 3)
	assert.Equal(t, model.DailyCompletion{Date: "2024-03-02", Label: "Sat", Completed: 2, Total: 3}, days[1])
	assert.Equal(t, 0, days[0].Completed)
}

func TestHabitCompletionSummary(t *testing.T) {
	habits := make([]model.Habit, 0, 10)
	for i := 0; i < 10; i++ {
		habits = append(habits, habit(int64(i+1), "h"))
	}
	habits[0] = habit(1, "A", "2024-03-01", "2024-03-02")

	summary := HabitCompletionSummary(habits, march())
	require.Len(t, summary, 10)
	assert.Equal(t, 2, summary[0].Completed)
	assert.Equal(t, 3, summary[0].Total)
	assert.Equal(t, 67, summary[0].Percentage, "2/3 rounds up")
	assert.Equal(t, Palette[0], summary[0].Color)
	assert.Equal(t, Palette[0], summary[8].Color, "palette cycles by position")
	assert.Equal(t, Palette[1], summary[9].Color)

	empty := HabitCompletionSummary(habits[:1], nil)
	assert.Equal(t, 0, empty[0].Percentage)
	assert.Equal(t, 0, empty[0].Total)
}

func TestAnalyticsDoNotMutateInput(t *testing.T) {
	habits := []model.Habit{habit(1, "A", "2024-03-01")}
	before := model.CloneAll(habits)

	_ = Build(habits, model.Position{Year: 2024, Month: 2}, time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local), 7)

	assert.Equal(t, before, habits)
}

func TestBestDayAndAverage(t *testing.T) {
	assert.Nil(t, BestDay(nil))

	days := []model.DailyCompletion{{Date: "a", Completed: 1}, {Date: "b", Completed: 3}, {Date: "c", Completed: 3}}
	best := BestDay(days)
	require.NotNil(t, best)
	assert.Equal(t, "b", best.Date, "first maximum wins")

	assert.Equal(t, 0, AveragePercentage(nil))
	assert.Equal(t, 34, AveragePercentage([]model.HabitCompletion{{Percentage: 33}, {Percentage: 34}, {Percentage: 35}}))
}

func BenchmarkBuild(b *testing.B) {
	now := time.Date(2024, 12, 31, 12, 0, 0, 0, time.Local)
	habits := make([]model.Habit, 0, 20)
	for i := 0; i < 20; i++ {
		h := habit(int64(i), "h")
		for j, d := range calendar.LastNDays(365, now) {
			if (j+i)%3 != 0 {
				h.Records[d] = true
			}
		}
		habits = append(habits, h)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(habits, calendar.Current(now), now, 7)
	}
}
