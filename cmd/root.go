package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/habits/internal/config"
	"github.com/theirongolddev/habits/internal/logging"
	"github.com/theirongolddev/habits/internal/model"
	"github.com/theirongolddev/habits/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagBackend string
	flagData    string
	flagVerbose bool
	flagQuiet   bool
)

// Resolved in PersistentPreRunE.
var (
	cfg     config.Config
	cfgPath string
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Personal habit tracker",
	Long:  "Track daily habits, mark them done, and review weekly and monthly progress.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupRuntime(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	RunE:          runToday,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Storage backend: "+strings.Join(store.Backends, ", "))
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Path of the habit file or database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
}

// setupRuntime loads .env, the config file and flag overrides, then builds
// the logger. Commands that own the terminal log to a file.
func setupRuntime(cmd *cobra.Command) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	cfgPath = flagConfig
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	c, err := config.LoadFrom(cfgPath)
	if err != nil {
		return err
	}
	if flagBackend != "" {
		c.Storage.Backend = flagBackend
	}
	if flagData != "" {
		c.Storage.Path = flagData
	}
	cfg = c

	logFile := cfg.LogPath()
	if cmd.Name() == "serve" && cfg.Log.File == "" {
		logFile = ""
	}
	l, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    logFile,
		Verbose: flagVerbose,
		Quiet:   flagQuiet,
	})
	if err != nil {
		return err
	}
	logger = l.With(zap.String("cmd", cmd.Name()))
	return nil
}

// openStore opens the configured backend and loads the habit collection.
// The caller closes the returned store.
func openStore(ctx context.Context) (*store.Store, error) {
	backend, err := store.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	st := store.New(backend, store.WithLogger(logger))
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := st.Load(loadCtx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// withStore runs fn against a loaded store and closes it afterwards.
func withStore(fn func(*store.Store) error) error {
	st, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

// checkSaved turns a failed write-through into a command error.
func checkSaved(st *store.Store) error {
	if err := st.LastError(); err != nil {
		return fmt.Errorf("change applied but not saved: %w", err)
	}
	return nil
}

var errNoHabit = errors.New("no such habit")

// resolveHabit finds a habit by numeric id, then by case-insensitive name,
// then by 1-based position in list order.
func resolveHabit(habits []model.Habit, arg string) (model.Habit, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		for _, h := range habits {
			if h.ID == id {
				return h, nil
			}
		}
	}
	var match []model.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, arg) {
			match = append(match, h)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
	default:
		return model.Habit{}, fmt.Errorf("%q matches %d habits, use the id", arg, len(match))
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(habits) {
		return habits[n-1], nil
	}
	return model.Habit{}, fmt.Errorf("%w: %q", errNoHabit, arg)
}
