// Package tui provides the interactive Bubble Tea dashboard for habits.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/habits/internal/analytics"
	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/config"
	"github.com/theirongolddev/habits/internal/model"
	"github.com/theirongolddev/habits/internal/store"
	"github.com/theirongolddev/habits/internal/tui/components"
	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// loadedMsg is sent when the store finishes loading.
type loadedMsg struct {
	err error
}

type tickMsg time.Time

const (
	tabToday = iota
	tabWeek
	tabMonth
	tabAnalytics
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5

	statusTTL = 4 * time.Second
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputRename
)

// Options configures NewApp.
type Options struct {
	Store    *store.Store
	Now      func() time.Time
	WeekDays int
	// Config is the loaded configuration; ConfigPath is where the first-run
	// form saves it. NeedSetup shows that form once the store has loaded.
	Config     config.Config
	ConfigPath string
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	memo     *analytics.Memo
	nav      *calendar.Navigator
	weekDays int

	// Derived state, rebuilt by recompute
	habits []model.Habit
	dash   model.Dashboard

	loaded  bool
	loadErr error
	spinner spinner.Model

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int // selected habit
	dayCursor int // selected day in the month grid

	// Add / rename prompt
	mode  inputMode
	input textinput.Model

	// Delete confirmation (huh form)
	confirmForm   *huh.Form
	confirmDelete *bool
	pendingDelete model.Habit

	// First-run setup (huh form)
	cfg        config.Config
	configPath string
	needSetup  bool
	setupForm  *huh.Form
	setupVals  *setupValues

	status    string
	statusErr bool
	statusAt  time.Time
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	weekDays := opts.WeekDays
	if weekDays <= 0 {
		weekDays = analytics.DefaultWeekDays
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		store:      opts.Store,
		memo:       analytics.NewMemo(0),
		nav:        calendar.NewNavigator(now),
		weekDays:   weekDays,
		spinner:    sp,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		needSetup:  opts.NeedSetup,
		setupVals:  &setupValues{},
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.store),
		a.spinner.Tick,
		tickCmd(),
	)
}

func loadCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return loadedMsg{err: s.Load(ctx)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// recompute rebuilds every derived view from a fresh snapshot of the store.
func (a *App) recompute() {
	a.habits = a.store.Habits()
	a.dash = a.memo.Dashboard(a.habits, a.nav.Position(), a.nav.Now(), a.weekDays)

	if a.cursor >= len(a.habits) {
		a.cursor = len(a.habits) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.clampDayCursor()
}

func (a *App) clampDayCursor() {
	n := len(a.dash.Monthly.Dates)
	if a.dayCursor >= n {
		a.dayCursor = n - 1
	}
	if a.dayCursor < 0 {
		a.dayCursor = 0
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	a.statusAt = a.nav.Now()
}

// afterMutation refreshes derived state and surfaces persistence failures.
func (a *App) afterMutation(msg string) {
	a.recompute()
	if err := a.store.LastError(); err != nil {
		a.setStatus("not saved: "+err.Error(), true)
		return
	}
	a.setStatus(msg, false)
}

func (a App) selectedHabit() (model.Habit, bool) {
	if a.cursor < 0 || a.cursor >= len(a.habits) {
		return model.Habit{}, false
	}
	return a.habits[a.cursor], true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case loadedMsg:
		a.loaded = true
		a.loadErr = msg.err
		if msg.err != nil {
			a.setStatus("load failed, changes won't be saved: "+msg.err.Error(), true)
		}
		a.recompute()
		a.dayCursor = len(a.dash.Monthly.Dates) - 1
		a.clampDayCursor()

		if a.needSetup {
			a.setupForm = newSetupForm(a.cfg, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		// Pick up a day rollover while the dashboard is open.
		if a.loaded && calendar.FormatISO(a.nav.Now()) != a.dash.Today {
			a.recompute()
		}
		if a.status != "" && a.nav.Now().Sub(a.statusAt) > statusTTL {
			a.status = ""
		}
		return a, tickCmd()

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.confirmForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	// Forward unhandled messages (cursor blinks etc.) to the active form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.confirmForm != nil {
		return a.updateConfirm(msg)
	}
	if a.mode != inputNone {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.confirmForm != nil {
		return a.updateConfirm(msg)
	}
	if a.mode != inputNone {
		return a.updateInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit

	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil

	case "[":
		a.nav.Previous()
		a.recompute()
		a.dayCursor = len(a.dash.Monthly.Dates) - 1
		a.clampDayCursor()
		return a, nil
	case "]":
		a.nav.Next()
		a.recompute()
		a.dayCursor = len(a.dash.Monthly.Dates) - 1
		a.clampDayCursor()
		return a, nil
	case "t":
		a.nav.Reset()
		a.recompute()
		a.dayCursor = len(a.dash.Monthly.Dates) - 1
		a.clampDayCursor()
		return a, nil

	case "j", "down":
		if a.cursor < len(a.habits)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "a":
		return a.startInput(inputAdd, "")
	case "e":
		if h, ok := a.selectedHabit(); ok {
			return a.startInput(inputRename, h.Name)
		}
		return a, nil
	case "d":
		if h, ok := a.selectedHabit(); ok {
			return a.startConfirmDelete(h)
		}
		return a, nil

	case " ", "enter", "x":
		return a.toggleSelected()
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	if a.activeTab == tabMonth {
		switch key {
		case "h", "left":
			if a.dayCursor > 0 {
				a.dayCursor--
			}
		case "l", "right":
			if a.dayCursor < len(a.dash.Monthly.Dates)-1 {
				a.dayCursor++
			}
		}
		return a, nil
	}

	switch key {
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	}
	return a, nil
}

// toggleSelected flips the selected habit for today, or for the selected
// grid day on the Month tab.
func (a App) toggleSelected() (tea.Model, tea.Cmd) {
	h, ok := a.selectedHabit()
	if !ok {
		return a, nil
	}

	date := a.dash.Today
	if a.activeTab == tabMonth {
		dates := a.dash.Monthly.Dates
		if len(dates) == 0 {
			a.setStatus("nothing to mark in a future month", false)
			return a, nil
		}
		date = dates[a.dayCursor]
	}

	done, found := a.store.ToggleRecord(h.ID, date)
	if !found {
		a.recompute()
		return a, nil
	}
	verb := "cleared"
	if done {
		verb = "done"
	}
	a.afterMutation(fmt.Sprintf("%s · %s %s", h.Name, calendar.DateLabel(date), verb))
	return a, nil
}

func (a App) startInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40
	ti.Prompt = "› "
	if mode == inputAdd {
		ti.Placeholder = "New habit name"
	}
	ti.SetValue(value)
	ti.Focus()

	a.mode = mode
	a.input = ti
	a.activeTab = tabToday
	return a, textinput.Blink
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = inputNone
		return a, nil

	case "enter":
		name := strings.TrimSpace(a.input.Value())
		mode := a.mode
		a.mode = inputNone
		if name == "" {
			return a, nil
		}
		switch mode {
		case inputAdd:
			if _, ok := a.store.AddHabit(name); ok {
				a.afterMutation("added " + name)
				a.cursor = len(a.habits) - 1
			}
		case inputRename:
			if h, ok := a.selectedHabit(); ok && a.store.RenameHabit(h.ID, name) {
				a.afterMutation("renamed to " + name)
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) startConfirmDelete(h model.Habit) (tea.Model, tea.Cmd) {
	a.confirmDelete = new(bool)
	a.pendingDelete = h
	a.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", h.Name)).
				Description(fmt.Sprintf("%d recorded days will be removed.", len(h.Records))).
				Affirmative("Delete").
				Negative("Keep").
				Value(a.confirmDelete),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
	return a, a.confirmForm.Init()
}

func (a App) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.confirmForm = nil
		return a, nil
	}

	form, cmd := a.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirmForm = f
	}

	switch a.confirmForm.State {
	case huh.StateCompleted:
		if *a.confirmDelete && a.store.DeleteHabit(a.pendingDelete.ID) {
			a.afterMutation("deleted " + a.pendingDelete.Name)
		}
		a.confirmForm = nil
		return a, nil
	case huh.StateAborted:
		a.confirmForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  habits needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ habits") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Loading habits...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"1 2 3 4", "Jump to tab"},
			{"tab ←/→", "Next / previous tab"},
			{"j k", "Select habit"},
			{"h l", "Select day (Month)"},
			{"[ ]", "Previous / next month"},
			{"t", "Back to this month"},
		}},
		{"Habits", []binding{
			{"space", "Toggle completion"},
			{"a", "Add habit"},
			{"e", "Rename habit"},
			{"d", "Delete habit"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	monthLabel := a.dash.Monthly.Label
	if a.dash.Monthly.ViewingHistory {
		monthLabel = "◷ " + monthLabel
	}
	header := components.RenderTabBar(a.activeTab, w, monthLabel)

	status := a.status
	if status == "" && a.loadErr != nil {
		status = "storage unavailable"
	}
	statusBar := components.RenderStatusBar(w, a.hints(), status, a.statusErr || a.loadErr != nil)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabToday:
		content = a.renderTodayTab(cw)
	case tabWeek:
		content = a.renderWeekTab(cw)
	case tabMonth:
		content = a.renderMonthTab(cw)
	case tabAnalytics:
		content = a.renderAnalyticsTab(cw)
	}

	if a.confirmForm != nil {
		content = components.FocusedCard("Confirm", a.confirmForm.View(), cw) + "\n" + content
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) hints() string {
	switch {
	case a.mode != inputNone:
		return "[enter]save  [esc]cancel"
	case a.confirmForm != nil:
		return "[←/→]choose  [enter]confirm  [esc]cancel"
	case a.activeTab == tabMonth:
		return "[space]toggle  [h/l]day  [[/]]month  [t]oday  [?]help  [q]uit"
	default:
		return "[space]toggle  [a]dd  [d]elete  [[/]]month  [?]help  [q]uit"
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
