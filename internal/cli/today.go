package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/sadopc/habitr/internal/condition"
	"github.com/spf13/cobra"
)

func newTodayCmd() *cobra.Command {
	var date string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Evaluate and list tasks for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, date, verbose)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to show as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the result of every rule")
	return cmd
}

func runToday(cmd *cobra.Command, date string, verbose bool) error {
	d, err := dateFlag(date)
	if err != nil {
		return err
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	day, err := condition.LoadForDate(st, d)
	if err != nil {
		return err
	}
	slog.Debug("evaluated day", "date", d, "tasks", len(day.Tasks), "has_snapshot", day.Snapshot != nil)
	printDay(cmd.OutOrStdout(), day, verbose)
	return nil
}

func formatSnapshot(s *condition.Snapshot) string {
	if s == nil {
		return "none recorded"
	}
	exercise := "no"
	if s.Exercise {
		exercise = "yes"
	}
	return fmt.Sprintf("mood %d, energy %d, productivity %d, sleep %sh, exercise %s",
		s.Mood, s.Energy, s.Productivity, strconv.FormatFloat(s.Sleep, 'f', -1, 64), exercise)
}

func printDay(w io.Writer, day *condition.Day, verbose bool) {
	_, _ = fmt.Fprintf(w, "Date:    %s\n", day.Date)
	_, _ = fmt.Fprintf(w, "Metrics: %s\n", formatSnapshot(day.Snapshot))
	if len(day.Tasks) == 0 {
		_, _ = fmt.Fprintln(w, "\nNo tasks yet. Add one with `habitr task add`.")
		return
	}
	_, _ = fmt.Fprintln(w)

	for _, t := range day.Tasks {
		check := "[ ]"
		if t.IsCompleted {
			check = "[x]"
		}
		_, _ = fmt.Fprintf(w, "%s #%-3d %-20s %-18s", check, t.ID, t.Name, t.State())
		r, ok := day.Result(t.ID)
		if ok {
			_, _ = fmt.Fprintf(w, " %s", r.FinalReason)
		}
		_, _ = fmt.Fprintln(w)
		if verbose && ok {
			for _, er := range r.EvaluatedRules {
				_, _ = fmt.Fprintf(w, "       %s\n", er.Reason)
			}
		}
	}
}
