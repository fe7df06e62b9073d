package tui

import (
	"strconv"

	"github.com/theirongolddev/habits/internal/config"
	"github.com/theirongolddev/habits/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues holds the answers of the first-run form.
type setupValues struct {
	theme    string
	weekDays string
}

// weekDayOptions are the weekly window lengths offered in setup.
var weekDayOptions = []int{7, 14, 28}

func newSetupForm(cfg config.Config, vals *setupValues) *huh.Form {
	vals.theme = cfg.Appearance.Theme
	vals.weekDays = strconv.Itoa(cfg.General.WeekDays)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	dayOpts := make([]huh.Option[string], 0, len(weekDayOptions))
	for _, n := range weekDayOptions {
		s := strconv.Itoa(n)
		dayOpts = append(dayOpts, huh.NewOption(s+" days", s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to habits").
				Description("Pick a look and a weekly window. Run `habits setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
			huh.NewSelect[string]().
				Title("Weekly view covers").
				Options(dayOpts...).
				Value(&vals.weekDays),
		),
	).WithTheme(huh.ThemeCharm())
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applySetup activates the chosen settings and saves them. A save failure
// only affects later runs, so it is reported in the status bar.
func (a *App) applySetup() {
	a.cfg.Appearance.Theme = a.setupVals.theme
	theme.SetActive(a.cfg.Appearance.Theme)

	if n, err := strconv.Atoi(a.setupVals.weekDays); err == nil && n > 0 {
		a.cfg.General.WeekDays = n
		a.weekDays = n
	}
	a.recompute()

	path := a.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	if err := config.SaveTo(path, a.cfg); err != nil {
		a.setStatus("could not save config: "+err.Error(), true)
		return
	}
	a.setStatus("saved "+path, false)
}
