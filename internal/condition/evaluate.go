package condition

import "fmt"

// Snapshot is one day's recorded metrics.
type Snapshot struct {
	Mood         int
	Energy       int
	Productivity int
	Sleep        float64 // hours
	Exercise     bool
}

// Lookup returns the snapshot value for m, or false for an unrecognized metric.
func (s Snapshot) Lookup(m Metric) (Value, bool) {
	switch m {
	case MetricMood:
		return Number(float64(s.Mood)), true
	case MetricEnergy:
		return Number(float64(s.Energy)), true
	case MetricProductivity:
		return Number(float64(s.Productivity)), true
	case MetricSleep:
		return Number(s.Sleep), true
	case MetricExercise:
		return Bool(s.Exercise), true
	}
	return Value{}, false
}

// RuleOutcome is the verdict of a single rule plus a display string.
type RuleOutcome struct {
	Result bool
	Reason string
}

// RuleEvaluation pairs a rule with its outcome inside a TaskEvaluationResult.
type RuleEvaluation struct {
	Rule   Rule
	Result bool
	Reason string
}

// TaskEvaluationResult explains how a task's verdict was reached. It is
// computed fresh for display and is never persisted.
type TaskEvaluationResult struct {
	TaskID         int64
	IsActive       bool
	IsSkipped      bool
	EvaluatedRules []RuleEvaluation
	FinalReason    string
}

const (
	ReasonNoConditions  = "No conditions defined, using default active state"
	ReasonConditionsMet = "Conditions met - task is active"
	ReasonNotMet        = "Conditions not met - task is skipped"
	ReasonNoData        = "No metrics recorded for this day, using default active state"
)

// EvaluateRule compares the snapshot field named by rule.Metric against
// rule.Value. An unknown metric or comparator never panics; it yields a false
// result with a reason naming the offending field.
func EvaluateRule(rule Rule, snap Snapshot) RuleOutcome {
	actual, ok := snap.Lookup(rule.Metric)
	if !ok {
		return RuleOutcome{Result: false, Reason: fmt.Sprintf("Unknown metric: %s", rule.Metric)}
	}
	result, ok := compare(actual, rule.Comparator, rule.Value)
	if !ok {
		return RuleOutcome{Result: false, Reason: fmt.Sprintf("Unknown comparator: %s", rule.Comparator)}
	}
	return RuleOutcome{
		Result: result,
		Reason: fmt.Sprintf("%s(%s) %s %s = %t", rule.Metric, actual, rule.Comparator, rule.Value, result),
	}
}

func compare(actual Value, op Comparator, expected Value) (bool, bool) {
	switch op {
	case CompEqual:
		return actual.Equal(expected), true
	case CompNotEqual:
		return !actual.Equal(expected), true
	case CompLess:
		return actual.Float() < expected.Float(), true
	case CompGreater:
		return actual.Float() > expected.Float(), true
	case CompLessEqual:
		return actual.Float() <= expected.Float(), true
	case CompGreaterEqual:
		return actual.Float() >= expected.Float(), true
	}
	return false, false
}

// EvaluateTaskConditions evaluates every rule of task against snap and folds
// the results strictly left to right: each rule's operator combines it with
// the running result, with no AND-before-OR precedence. [A, OR B, AND C] is
// ((A OR B) AND C).
//
// A task without rules keeps its default: active when DefaultActive, and
// never skipped.
func EvaluateTaskConditions(task Task, snap Snapshot) TaskEvaluationResult {
	res := TaskEvaluationResult{TaskID: task.ID}
	if len(task.Rules) == 0 {
		res.IsActive = task.DefaultActive
		res.IsSkipped = false
		res.FinalReason = ReasonNoConditions
		return res
	}

	res.EvaluatedRules = make([]RuleEvaluation, len(task.Rules))
	for i, rule := range task.Rules {
		out := EvaluateRule(rule, snap)
		res.EvaluatedRules[i] = RuleEvaluation{Rule: rule, Result: out.Result, Reason: out.Reason}
	}

	acc := res.EvaluatedRules[0].Result
	for _, ev := range res.EvaluatedRules[1:] {
		if ev.Rule.Operator() == LogicOr {
			acc = acc || ev.Result
		} else {
			acc = acc && ev.Result
		}
	}

	res.IsActive = acc
	res.IsSkipped = !acc
	if acc {
		res.FinalReason = ReasonConditionsMet
	} else {
		res.FinalReason = ReasonNotMet
	}
	return res
}

func EvaluateMultipleTasks(tasks []Task, snap Snapshot) []TaskEvaluationResult {
	results := make([]TaskEvaluationResult, len(tasks))
	for i, t := range tasks {
		results[i] = EvaluateTaskConditions(t, snap)
	}
	return results
}

// fallbackResult describes a task on a day without a snapshot.
func fallbackResult(task Task) TaskEvaluationResult {
	active, skipped := defaultFlags(task)
	return TaskEvaluationResult{
		TaskID:      task.ID,
		IsActive:    active,
		IsSkipped:   skipped,
		FinalReason: ReasonNoData,
	}
}

// defaultFlags is the state used when there is nothing to evaluate against.
// A conditional task cannot satisfy its rules without data, so it is skipped
// unless it defaults to active.
func defaultFlags(task Task) (active, skipped bool) {
	return task.DefaultActive, !task.DefaultActive && task.HasRules()
}
