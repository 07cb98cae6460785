package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sadopc/habitr/internal/condition"
	"github.com/spf13/cobra"
)

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("task ID must be a positive integer, got %q", arg)
	}
	return id, nil
}

// withDay loads the evaluated day, applies fn to task id and saves the result.
// An error from fn aborts before saving.
func withDay(cmd *cobra.Command, arg, date string, fn func(day *condition.Day, id int64) error) error {
	id, err := parseTaskID(arg)
	if err != nil {
		return err
	}
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
	if _, ok := day.Task(id); !ok {
		return fmt.Errorf("task %d not found", id)
	}
	if err := fn(day, id); err != nil {
		return err
	}
	if err := day.Save(st); err != nil {
		return err
	}

	t, _ := day.Task(id)
	slog.Info("task updated", "task_id", id, "date", d, "state", t.State().String(), "completed", t.IsCompleted)
	done := ""
	if t.IsCompleted {
		done = ", done"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %d (%s) on %s: %s%s\n", id, t.Name, d, t.State(), done)
	return nil
}

func newOverrideCmd() *cobra.Command {
	var date string
	var active, skip bool

	cmd := &cobra.Command{
		Use:   "override <task-id>",
		Short: "Force a task active or skipped for the day, ignoring its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(cmd, args[0], date, func(day *condition.Day, id int64) error {
				if t, _ := day.Task(id); !t.HasRules() {
					return fmt.Errorf("task %d (%s) has no conditions; only conditional tasks can be overridden", id, t.Name)
				}
				day.Override(id, active)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&active, "active", false, "Force the task active")
	cmd.Flags().BoolVar(&skip, "skip", false, "Force the task skipped")
	cmd.MarkFlagsMutuallyExclusive("active", "skip")
	cmd.MarkFlagsOneRequired("active", "skip")
	return cmd
}

func newResetCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reset <task-id>",
		Short: "Clear a manual override and re-evaluate the task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(cmd, args[0], date, func(day *condition.Day, id int64) error {
				day.Reset(id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default: today)")
	return cmd
}

func newDoneCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle whether a task is completed for the day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDay(cmd, args[0], date, func(day *condition.Day, id int64) error {
				day.ToggleCompletion(id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default: today)")
	return cmd
}
