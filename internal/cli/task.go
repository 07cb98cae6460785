package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadopc/habitr/internal/condition"
	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and their activation rules",
	}
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskEditCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskArchiveCmd())
	return cmd
}

// buildRules parses and validates rule flags. Each flag is one rule in the
// form "[AND|OR] <metric> <comparator> <value>".
func buildRules(lines []string) ([]condition.Rule, error) {
	rules, err := condition.ParseRules(lines)
	if err != nil {
		return nil, err
	}
	if res := condition.ValidateConditionRules(rules); !res.IsValid {
		return nil, errors.New(res.Error())
	}
	return rules, nil
}

const ruleHelp = `Rule such as "energy < 5"; repeat for more, prefixing AND or OR (e.g. --rule "OR mood < 5")`

func newTaskAddCmd() *cobra.Command {
	var kind string
	var ruleLines []string
	var defaultActive bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Long: `Add a task. Without rules the task is active every day unless
--default-active=false. With rules it is active on days whose metrics satisfy them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("task name is required")
			}
			k, err := condition.ParseTaskKind(kind)
			if err != nil {
				return err
			}
			rules, err := buildRules(ruleLines)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("default-active") {
				defaultActive = len(rules) == 0
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			t, err := st.CreateTask(name, k, rules, defaultActive)
			if err != nil {
				return err
			}
			slog.Info("task created", "task_id", t.ID, "name", t.Name, "rules", len(t.Rules))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task %d (%s): %s\n", t.ID, t.Name, condition.DescribeConditionRules(t.Rules))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(condition.KindSupplement), "Task kind: supplement, routine or goal")
	cmd.Flags().StringArrayVar(&ruleLines, "rule", nil, ruleHelp)
	cmd.Flags().BoolVar(&defaultActive, "default-active", false, "Active when no metrics are recorded (default: true without rules)")
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var name, kind string
	var ruleLines []string
	var clearRules, defaultActive bool

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's name, kind, rules or default state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			t, err := st.GetTask(id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				t.Name = strings.TrimSpace(name)
			}
			if flags.Changed("kind") {
				if t.Kind, err = condition.ParseTaskKind(kind); err != nil {
					return err
				}
			}
			if clearRules {
				t.Rules = nil
			}
			if flags.Changed("rule") {
				if t.Rules, err = buildRules(ruleLines); err != nil {
					return err
				}
			}
			if flags.Changed("default-active") {
				t.DefaultActive = defaultActive
			}
			if t.Name == "" {
				return errors.New("task name is required")
			}

			if err := st.UpdateTask(t.ID, t.Name, t.Kind, t.Rules, t.DefaultActive); err != nil {
				return err
			}
			slog.Info("task updated", "task_id", t.ID, "rules", len(t.Rules))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d (%s): %s\n", t.ID, t.Name, condition.DescribeConditionRules(t.Rules))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&kind, "kind", "", "Task kind: supplement, routine or goal")
	cmd.Flags().StringArrayVar(&ruleLines, "rule", nil, "Replace the rules. "+ruleHelp)
	cmd.Flags().BoolVar(&clearRules, "clear-rules", false, "Remove all rules")
	cmd.Flags().BoolVar(&defaultActive, "default-active", false, "Active when no metrics are recorded")
	cmd.MarkFlagsMutuallyExclusive("rule", "clear-rules")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks and their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			tasks, err := st.ListTasks(all)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No tasks.")
				return nil
			}
			for _, t := range tasks {
				def := "off"
				if t.DefaultActive {
					def = "on"
				}
				archived := ""
				if t.Archived {
					archived = " (archived)"
				}
				_, _ = fmt.Fprintf(w, "#%-3d %-20s %-10s default %-3s  %s%s\n",
					t.ID, t.Name, t.Kind, def, condition.DescribeConditionRules(t.Rules), archived)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived tasks")
	return cmd
}

func newTaskArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <task-id>",
		Short: "Hide a task from daily lists, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			t, err := st.GetTask(id)
			if err != nil {
				return err
			}
			if err := st.ArchiveTask(id); err != nil {
				return err
			}
			slog.Info("task archived", "task_id", id)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Archived task %d (%s)\n", id, t.Name)
			return nil
		},
	}
}
