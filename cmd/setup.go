package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/habits/internal/config"
	"github.com/theirongolddev/habits/internal/store"
	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	c := cfg
	weekDays := strconv.Itoa(c.General.WeekDays)
	redisDB := strconv.Itoa(c.Redis.DB)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	backendOpts := make([]huh.Option[string], 0, len(store.Backends))
	for _, b := range store.Backends {
		backendOpts = append(backendOpts, huh.NewOption(b, b))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to habits!").
				Description("Settings are saved to "+cfgPath),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(backendOpts...).
				Value(&c.Storage.Backend),
			huh.NewSelect[string]().
				Title("Weekly view covers").
				Options(
					huh.NewOption("7 days", "7"),
					huh.NewOption("14 days", "14"),
					huh.NewOption("28 days", "28"),
				).
				Value(&weekDays),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&c.Appearance.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis address").
				Value(&c.Redis.Addr),
			huh.NewInput().
				Title("Redis password").
				EchoMode(huh.EchoModePassword).
				Value(&c.Redis.Password),
			huh.NewInput().
				Title("Redis database").
				Validate(func(s string) error {
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("must be a number")
					}
					return nil
				}).
				Value(&redisDB),
		).WithHideFunc(func() bool { return c.Storage.Backend != "redis" }),
	)

	if err := form.Run(); err != nil {
		return err
	}

	c.General.WeekDays, _ = strconv.Atoi(weekDays)
	c.Redis.DB, _ = strconv.Atoi(redisDB)

	if err := config.SaveTo(cfgPath, c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", cfgPath)
	fmt.Println("  Run `habits setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
