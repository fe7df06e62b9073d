package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/cli"
	"github.com/theirongolddev/habits/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagDoneDate string
	flagRmYes    bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var rmCmd = &cobra.Command{
	Use:     "rm <habit>",
	Aliases: []string{"delete"},
	Short:   "Delete a habit and all its records",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

var renameCmd = &cobra.Command{
	Use:   "rename <habit> <new name>",
	Short: "Rename a habit",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRename,
}

var doneCmd = &cobra.Command{
	Use:   "done <habit>",
	Short: "Toggle a habit's completion for today (or --date)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with their ids",
	RunE:    runList,
}

func init() {
	doneCmd.Flags().StringVar(&flagDoneDate, "date", "", "Date to toggle (YYYY-MM-DD, default today)")
	rmCmd.Flags().BoolVarP(&flagRmYes, "yes", "y", false, "Skip confirmation")

	rootCmd.AddCommand(addCmd, rmCmd, renameCmd, doneCmd, listCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	return withStore(func(st *store.Store) error {
		h, ok := st.AddHabit(name)
		if !ok {
			return errors.New("habit name is empty")
		}
		if err := checkSaved(st); err != nil {
			return err
		}
		fmt.Printf("  Added %s (id %s)\n", h.Name, cli.FormatID(h.ID))
		return nil
	})
}

func runRm(_ *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		h, err := resolveHabit(st.Habits(), args[0])
		if err != nil {
			return err
		}

		if !flagRmYes {
			confirmed := false
			err := huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", h.Name)).
				Description(fmt.Sprintf("%d recorded days will be removed.", len(h.Records))).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed).
				Run()
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("  Kept.")
				return nil
			}
		}

		st.DeleteHabit(h.ID)
		if err := checkSaved(st); err != nil {
			return err
		}
		fmt.Printf("  Deleted %s\n", h.Name)
		return nil
	})
}

func runRename(_ *cobra.Command, args []string) error {
	name := strings.Join(args[1:], " ")
	return withStore(func(st *store.Store) error {
		h, err := resolveHabit(st.Habits(), args[0])
		if err != nil {
			return err
		}
		if !st.RenameHabit(h.ID, name) {
			return errors.New("new name is empty")
		}
		if err := checkSaved(st); err != nil {
			return err
		}
		fmt.Printf("  Renamed %s to %s\n", h.Name, strings.TrimSpace(name))
		return nil
	})
}

func runDone(_ *cobra.Command, args []string) error {
	date := flagDoneDate
	if date == "" {
		date = calendar.FormatISO(time.Now())
	}
	if _, err := calendar.ParseISO(date); err != nil {
		return err
	}

	return withStore(func(st *store.Store) error {
		h, err := resolveHabit(st.Habits(), args[0])
		if err != nil {
			return err
		}
		done, _ := st.ToggleRecord(h.ID, date)
		if err := checkSaved(st); err != nil {
			return err
		}

		state := "not done"
		if done {
			state = "done"
		}
		fmt.Printf("  %s %s · %s %s\n", cli.RenderCheck(done), h.Name, calendar.DateLabel(date), state)

		today := calendar.FormatISO(time.Now())
		if date == today && st.CompletionCount(today) == st.Len() {
			fmt.Println()
			fmt.Println(cli.RenderBanner("All habits completed today!", true))
		}
		return nil
	})
}

func runList(_ *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		habits := st.Habits()
		if len(habits) == 0 {
			fmt.Println("\n  No habits yet. Add one with `habits add <name>`.")
			return nil
		}

		rows := make([][]string, 0, len(habits))
		for i, h := range habits {
			rows = append(rows, []string{
				fmt.Sprint(i + 1),
				h.Name,
				cli.FormatID(h.ID),
				cli.FormatNumber(int64(len(h.Records))),
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "HABITS",
			Headers:  []string{"#", "Name", "ID", "Days done"},
			Rows:     rows,
			LeftCols: 2,
		}))
		return nil
	})
}
