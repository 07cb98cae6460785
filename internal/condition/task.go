package condition

import (
	"fmt"
	"slices"
	"strings"
)

// TaskKind groups tasks for display.
type TaskKind string

const (
	KindSupplement TaskKind = "supplement"
	KindRoutine    TaskKind = "routine"
	KindGoal       TaskKind = "goal"
)

var TaskKinds = []TaskKind{KindSupplement, KindRoutine, KindGoal}

func ParseTaskKind(s string) (TaskKind, error) {
	k := TaskKind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(TaskKinds, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown task kind %q (want supplement, routine or goal)", s)
}

// Task is a recurring item together with its flags for one day.
//
// IsActive and IsSkipped are complementary for a task with rules. While
// IsOverridden is set, automatic evaluation leaves both alone. A task without
// rules is always in its default state and cannot be overridden. IsCompleted
// is independent of all three.
type Task struct {
	ID            int64
	Name          string
	Kind          TaskKind
	Rules         []Rule
	DefaultActive bool

	IsActive     bool
	IsSkipped    bool
	IsOverridden bool
	IsCompleted  bool
}

// NewTask returns a task in its initial state: not overridden, not
// completed, active iff defaultActive.
func NewTask(id int64, name string, kind TaskKind, rules []Rule, defaultActive bool) Task {
	t := Task{
		ID:            id,
		Name:          name,
		Kind:          kind,
		Rules:         rules,
		DefaultActive: defaultActive,
	}
	t.IsActive = defaultActive
	t.IsSkipped = !defaultActive && t.HasRules()
	return t
}

func (t Task) HasRules() bool { return len(t.Rules) > 0 }

// State is the activation state of a task, ignoring completion.
type State int

const (
	AutoActive State = iota
	AutoSkipped
	OverriddenActive
	OverriddenSkipped
)

var stateNames = map[State]string{
	AutoActive:        "active",
	AutoSkipped:       "skipped",
	OverriddenActive:  "active (override)",
	OverriddenSkipped: "skipped (override)",
}

func (s State) String() string { return stateNames[s] }

func (t Task) State() State {
	switch {
	case t.IsOverridden && t.IsActive:
		return OverriddenActive
	case t.IsOverridden:
		return OverriddenSkipped
	case t.IsActive:
		return AutoActive
	}
	return AutoSkipped
}

func indexOf(tasks []Task, id int64) int {
	return slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
}

// UpdateTasksFromEvaluation writes each result's verdict into the matching
// task. Overridden tasks keep their flags; the result is still available to
// the caller for display. Results without a matching task are ignored.
func UpdateTasksFromEvaluation(tasks []Task, results []TaskEvaluationResult) []Task {
	byID := make(map[int64]TaskEvaluationResult, len(results))
	for _, r := range results {
		byID[r.TaskID] = r
	}
	out := slices.Clone(tasks)
	for i := range out {
		if !out[i].HasRules() {
			out[i].IsOverridden = false
		}
		if out[i].IsOverridden {
			continue
		}
		r, ok := byID[out[i].ID]
		if !ok {
			continue
		}
		out[i].IsActive = r.IsActive
		out[i].IsSkipped = r.IsSkipped
	}
	return out
}

// OverrideStatus forces one task active or skipped and freezes it against
// automatic evaluation. An unknown id or a task without rules leaves tasks
// unchanged.
func OverrideStatus(tasks []Task, id int64, forceActive bool) []Task {
	out := slices.Clone(tasks)
	i := indexOf(out, id)
	if i < 0 || !out[i].HasRules() {
		return out
	}
	out[i].IsOverridden = true
	out[i].IsActive = forceActive
	out[i].IsSkipped = !forceActive
	return out
}

// ResetOverride returns a task to automatic evaluation and immediately
// re-evaluates it. With a nil snapshot the task falls back to its default
// state, as on a day with no recorded metrics.
func ResetOverride(tasks []Task, id int64, snap *Snapshot) []Task {
	out := slices.Clone(tasks)
	i := indexOf(out, id)
	if i < 0 {
		return out
	}
	out[i].IsOverridden = false
	var res TaskEvaluationResult
	if snap != nil {
		res = EvaluateTaskConditions(out[i], *snap)
	} else {
		res = fallbackResult(out[i])
	}
	out[i].IsActive = res.IsActive
	out[i].IsSkipped = res.IsSkipped
	return out
}

// ToggleCompletion flips IsCompleted and nothing else.
func ToggleCompletion(tasks []Task, id int64) []Task {
	out := slices.Clone(tasks)
	if i := indexOf(out, id); i >= 0 {
		out[i].IsCompleted = !out[i].IsCompleted
	}
	return out
}

// ApplyDefaults puts every non-overridden task into its no-data state.
func ApplyDefaults(tasks []Task) []Task {
	out := slices.Clone(tasks)
	for i := range out {
		if !out[i].HasRules() {
			out[i].IsOverridden = false
		}
		if out[i].IsOverridden {
			continue
		}
		out[i].IsActive, out[i].IsSkipped = defaultFlags(out[i])
	}
	return out
}
