package main

import (
	"context"
	"fmt"
	"io"
	"journald/internal/di"
	"journald/internal/journal"
	"journald/internal/models"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	journalUser string
	journalDate string
	journalTime string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Read and write journal entries directly against the entry store",
}

var journalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List a day's entries, latest first",
	Long: `List a day's entries, latest first.

Examples:
  journald journal show --user alice
  journald journal show --user alice --date 2025-06-03`,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		date, err := journalDay(j)
		if err != nil {
			return err
		}
		return showDay(cmd.Context(), cmd.OutOrStdout(), j, date)
	},
}

var journalAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Save an entry and print the updated day",
	Long: `Save an entry and print the updated day. Time defaults to now.

Examples:
  journald journal add --user alice "went for a run"
  journald journal add --user alice --date 2025-06-03 --time "9:05 PM" "late note"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		date, err := journalDay(j)
		if err != nil {
			return err
		}
		return addEntry(cmd.Context(), cmd.OutOrStdout(), j, date, journalTime, strings.Join(args, " "))
	},
}

func init() {
	journalCmd.PersistentFlags().StringVar(&journalUser, "user", "", "journal owner (required)")
	journalCmd.PersistentFlags().StringVar(&journalDate, "date", "", "day as YYYY-MM-DD (defaults to today)")
	_ = journalCmd.MarkPersistentFlagRequired("user")
	journalAddCmd.Flags().StringVar(&journalTime, "time", "", "time of day, e.g. \"9:05:12 PM\"")

	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalAddCmd)
}

func openJournal() (*journal.Journal, error) {
	entryStore, err := di.InitEntryStore(&flags)
	if err != nil {
		return nil, err
	}
	return newJournal(journalUser, entryStore, journal.ClockFunc(time.Now)), nil
}

func newJournal(user string, fetcher journal.Fetcher, clock journal.Clock) *journal.Journal {
	return journal.NewJournal(user, journal.NewCache(user, fetcher, clock), clock)
}

func journalDay(j *journal.Journal) (models.DateKey, error) {
	if journalDate == "" {
		today, _ := j.Now()
		return today, nil
	}
	return models.ParseDateKey(journalDate)
}

func showDay(ctx context.Context, w io.Writer, j *journal.Journal, date models.DateKey) error {
	view := j.Select(ctx, date)
	printDay(w, j)
	if view.Err != nil && len(view.Entries) == 0 {
		return view.Err
	}
	return nil
}

// addEntry loads the day first so the printed list includes earlier entries.
func addEntry(ctx context.Context, w io.Writer, j *journal.Journal, date models.DateKey, timeOfDay, text string) error {
	j.Select(ctx, date)
	if _, err := j.Save(ctx, date, timeOfDay, text); err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	fmt.Fprintln(w, "Entry saved.")
	printDay(w, j)
	return nil
}

func printDay(w io.Writer, j *journal.Journal) {
	fmt.Fprintf(w, "%s\n", j.Selected())
	if banner := j.Banner(); banner != "" {
		fmt.Fprintln(w, banner)
	}
	entries := j.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries for this date.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %-12s %s\n", e.Time, e.Text)
	}
}
