package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/habits/internal/config"
	"github.com/theirongolddev/habits/internal/model"
	"github.com/theirongolddev/habits/internal/store"
	"github.com/theirongolddev/habits/internal/tui/components"
	"github.com/theirongolddev/habits/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

func clock() time.Time { return testNow }

func newTestApp(t *testing.T, seed string) (App, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryBackend([]byte(seed)), store.WithClock(clock))
	require.NoError(t, s.Load(context.Background()))

	a := NewApp(Options{Store: s, Now: clock, WeekDays: 7})
	a = update(a, tea.WindowSizeMsg{Width: 120, Height: 40})
	a = update(a, loadedMsg{})
	return a, s
}

func update(a App, msg tea.Msg) App {
	m, _ := a.Update(msg)
	return m.(App)
}

func keys(a App, s string) App {
	for _, r := range s {
		a = update(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return a
}

const twoHabits = `[{"id":1,"name":"Read","records":{}},{"id":2,"name":"Stretch","records":{"2024-03-14":true}}]`

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2
			assert.Equal(t, i, a.tabAtX(x), "active=%d x=%d", active, x)
			pos += w + 1
		}
	}
}

func TestToggleToday(t *testing.T) {
	a, s := newTestApp(t, twoHabits)
	require.Len(t, a.habits, 2)

	a = update(a, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, s.IsCompleted(1, "2024-03-15"))
	assert.Equal(t, 1, a.dash.Checklist.Completed)

	a = keys(a, "j")
	a = update(a, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, s.IsCompleted(2, "2024-03-15"))
	assert.True(t, a.dash.Checklist.AllCompleted)

	a = update(a, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, s.IsCompleted(2, "2024-03-15"))
	assert.False(t, a.dash.Checklist.AllCompleted)
}

func TestMonthNavigationAndGridToggle(t *testing.T) {
	a, s := newTestApp(t, twoHabits)

	a = keys(a, "3")
	assert.Equal(t, tabMonth, a.activeTab)
	assert.Len(t, a.dash.Monthly.Dates, 15)
	assert.Equal(t, 14, a.dayCursor)

	a = keys(a, "[")
	assert.Equal(t, model.Position{Year: 2024, Month: 1}, a.nav.Position())
	assert.True(t, a.dash.Monthly.ViewingHistory)
	assert.Len(t, a.dash.Monthly.Dates, 29)
	assert.Equal(t, 28, a.dayCursor)

	a = keys(a, "hh")
	a = update(a, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, s.IsCompleted(1, "2024-02-27"))

	a = keys(a, "]]")
	assert.Empty(t, a.dash.Monthly.Dates)
	a = update(a, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 1, len(s.Habits()[0].Records))

	a = keys(a, "t")
	assert.False(t, a.dash.Monthly.ViewingHistory)
}

func TestAddAndRenameHabit(t *testing.T) {
	a, s := newTestApp(t, twoHabits)

	a = keys(a, "a")
	require.Equal(t, inputAdd, a.mode)
	a = keys(a, "Walk")
	a = update(a, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, inputNone, a.mode)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "Walk", s.Habits()[2].Name)
	assert.Equal(t, 2, a.cursor)

	a = keys(a, "e")
	require.Equal(t, inputRename, a.mode)
	a.input.SetValue("Evening walk")
	a = update(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Evening walk", s.Habits()[2].Name)

	a = keys(a, "a")
	a = update(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 3, s.Len(), "blank names are ignored")
}

func TestEscapeCancelsInput(t *testing.T) {
	a, s := newTestApp(t, twoHabits)
	a = keys(a, "a")
	a = keys(a, "Nap")
	a = update(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, inputNone, a.mode)
	assert.Equal(t, 2, s.Len())
}

func TestPersistFailureShowsStatus(t *testing.T) {
	mem := store.NewMemoryBackend([]byte(twoHabits))
	s := store.New(mem, store.WithClock(clock))
	require.NoError(t, s.Load(context.Background()))
	mem.FailWrites(assert.AnError)

	a := NewApp(Options{Store: s, Now: clock})
	a = update(a, loadedMsg{})
	a = update(a, tea.KeyMsg{Type: tea.KeySpace})

	assert.True(t, a.statusErr)
	assert.Contains(t, a.status, "not saved")
	assert.True(t, s.IsCompleted(1, "2024-03-15"))
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t, twoHabits)
	for _, k := range []string{"1", "2", "3", "4"} {
		a = keys(a, k)
		out := a.View()
		assert.Contains(t, out, "Read", "tab %s", k)
		assert.Contains(t, out, "Stretch", "tab %s", k)
	}

	month := a.renderMonthTab(a.contentWidth())
	assert.Contains(t, month, "Completion by week")
	assert.Contains(t, month, "Week 3")

	a = keys(a, "?")
	assert.Contains(t, a.View(), "Keyboard Shortcuts")
}

func TestViewTooNarrow(t *testing.T) {
	a, _ := newTestApp(t, twoHabits)
	a = update(a, tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestSetupFormSavesConfig(t *testing.T) {
	t.Cleanup(func() { theme.SetActive(theme.FlexokiDark.Name) })

	path := filepath.Join(t.TempDir(), "config.toml")
	s := store.New(store.NewMemoryBackend(nil), store.WithClock(clock))
	require.NoError(t, s.Load(context.Background()))

	a := NewApp(Options{
		Store:      s,
		Now:        clock,
		Config:     config.DefaultConfig(),
		ConfigPath: path,
		NeedSetup:  true,
	})
	a = update(a, loadedMsg{})
	require.NotNil(t, a.setupForm)

	a.setupVals.theme = theme.TokyoNight.Name
	a.setupVals.weekDays = "14"
	a.applySetup()

	assert.Equal(t, theme.TokyoNight.Name, theme.Active.Name)
	assert.Len(t, a.dash.Weekly.Days, 14)
	assert.False(t, a.statusErr)

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.General.WeekDays)
	assert.Equal(t, theme.TokyoNight.Name, cfg.Appearance.Theme)
}
