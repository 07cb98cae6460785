package cli

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/sadopc/habitr/internal/condition"
	"github.com/sadopc/habitr/internal/store"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var (
		date                       string
		mood, energy, productivity int
		sleep                      float64
		exercise                   bool
		notes                      string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record the day's metrics and re-evaluate tasks",
		Long: `Record mood, energy and productivity (1-10), hours of sleep and whether you
exercised. Flags left out keep the value already recorded for that day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag(date)
			if err != nil {
				return err
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			entry := store.DailyEntry{Date: d}
			existing, err := st.GetDailyEntry(d)
			if err != nil {
				return err
			}
			if existing != nil {
				entry = *existing
			}

			flags := cmd.Flags()
			if flags.Changed("mood") {
				entry.Mood = mood
			}
			if flags.Changed("energy") {
				entry.Energy = energy
			}
			if flags.Changed("productivity") {
				entry.Productivity = productivity
			}
			if flags.Changed("sleep") {
				entry.Sleep = sleep
			}
			if flags.Changed("exercise") {
				entry.Exercise = exercise
			}
			if flags.Changed("notes") {
				entry.Notes = notes
			}
			if err := validateEntry(entry); err != nil {
				return err
			}

			if _, err := st.SaveDailyEntry(entry); err != nil {
				return err
			}
			day, err := condition.LoadForDate(st, d)
			if err != nil {
				return err
			}
			slog.Info("logged metrics", "date", d, "mood", entry.Mood, "energy", entry.Energy,
				"productivity", entry.Productivity, "sleep", entry.Sleep, "exercise", entry.Exercise)
			printDay(cmd.OutOrStdout(), day, false)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to record as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&mood, "mood", 0, "Mood rating 1-10")
	cmd.Flags().IntVar(&energy, "energy", 0, "Energy rating 1-10")
	cmd.Flags().IntVar(&productivity, "productivity", 0, "Productivity rating 1-10")
	cmd.Flags().Float64Var(&sleep, "sleep", 0, "Hours slept")
	cmd.Flags().BoolVar(&exercise, "exercise", false, "Exercised today")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func validateEntry(e store.DailyEntry) error {
	ratings := []struct {
		name  string
		value int
	}{
		{"mood", e.Mood},
		{"energy", e.Energy},
		{"productivity", e.Productivity},
	}
	for _, r := range ratings {
		if r.value < 1 || r.value > 10 {
			return fmt.Errorf("--%s must be between 1 and 10, got %d", r.name, r.value)
		}
	}
	if math.IsNaN(e.Sleep) || e.Sleep < 0 || e.Sleep > 24 {
		return fmt.Errorf("--sleep must be between 0 and 24 hours, got %g", e.Sleep)
	}
	return nil
}
