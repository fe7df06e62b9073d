// Package cmd implements the habits CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", cfgPath)
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Week days: %d\n", cfg.General.WeekDays)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case "redis":
		fmt.Printf("    Address: %s (db %d)\n", cfg.Redis.Addr, cfg.Redis.DB)
		if cfg.Redis.Password != "" {
			fmt.Printf("    Password: %s\n", maskSecret(cfg.Redis.Password))
		}
	case "memory":
		fmt.Println("    Path:    none (not persisted)")
	default:
		fmt.Printf("    Path:    %s\n", cfg.StoragePath())
	}
	fmt.Printf("    Key:     %s\n", cfg.Storage.Key)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s\n", cfg.LogPath())
	fmt.Println()

	fmt.Println("  Run `habits setup` to reconfigure.")
	return nil
}

func maskSecret(s string) string {
	if len(s) > 8 {
		return s[:2] + "..." + s[len(s)-2:]
	}
	return "****"
}
