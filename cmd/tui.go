package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/habits/internal/config"
	"github.com/theirongolddev/habits/internal/store"
	"github.com/theirongolddev/habits/internal/tui"
	"github.com/theirongolddev/habits/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	backend, err := store.OpenBackend(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	// The app loads the store itself so the loading screen shows.
	st := store.New(backend, store.WithLogger(logger))
	defer func() { _ = st.Close() }()

	app := tui.NewApp(tui.Options{
		Store:      st,
		Now:        time.Now,
		WeekDays:   cfg.General.WeekDays,
		Config:     cfg,
		ConfigPath: cfgPath,
		NeedSetup:  flagConfig == "" && !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
