package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conditionalTasks() []Task {
	return []Task{
		NewTask(1, "Caffeine", KindSupplement, []Rule{rule(MetricEnergy, CompLess, Number(5))}, false),
		NewTask(2, "Melatonin", KindSupplement, []Rule{rule(MetricSleep, CompLess, Number(6))}, false),
		NewTask(3, "Stretch", KindRoutine, nil, true),
	}
}

func TestNewTask(t *testing.T) {
	task := NewTask(1, "Creatine", KindSupplement, []Rule{rule(MetricExercise, CompEqual, Bool(true))}, false)
	assert.False(t, task.IsActive)
	assert.True(t, task.IsSkipped)
	assert.False(t, task.IsOverridden)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, AutoSkipped, task.State())

	task = NewTask(2, "Water", KindRoutine, nil, true)
	assert.True(t, task.IsActive)
	assert.False(t, task.IsSkipped)
	assert.Equal(t, AutoActive, task.State())
}

func TestUpdateTasksFromEvaluation(t *testing.T) {
	tasks := conditionalTasks()
	snap := Snapshot{Energy: 3, Sleep: 8}
	updated := UpdateTasksFromEvaluation(tasks, EvaluateMultipleTasks(tasks, snap))

	assert.True(t, updated[0].IsActive)
	assert.False(t, updated[0].IsSkipped)
	assert.False(t, updated[1].IsActive)
	assert.True(t, updated[1].IsSkipped)
	assert.True(t, updated[2].IsActive)

	// input slice is not modified
	assert.False(t, tasks[0].IsActive)
}

func TestUpdateTasksFromEvaluation_IgnoresUnmatched(t *testing.T) {
	tasks := conditionalTasks()
	updated := UpdateTasksFromEvaluation(tasks, []TaskEvaluationResult{{TaskID: 99, IsActive: true}})
	assert.Equal(t, tasks, updated)
}

func TestOverrideSurvivesEvaluation(t *testing.T) {
	tasks := conditionalTasks()
	snap := Snapshot{Energy: 9, Sleep: 8} // caffeine rule fails

	tasks = OverrideStatus(tasks, 1, true)
	results := EvaluateMultipleTasks(tasks, snap)
	assert.False(t, results[0].IsActive, "evaluation is still computed")

	tasks = UpdateTasksFromEvaluation(tasks, results)
	assert.True(t, tasks[0].IsActive)
	assert.False(t, tasks[0].IsSkipped)
	assert.True(t, tasks[0].IsOverridden)
	assert.Equal(t, OverriddenActive, tasks[0].State())
}

func TestOverrideStatus(t *testing.T) {
	tasks := OverrideStatus(conditionalTasks(), 2, false)
	assert.True(t, tasks[1].IsOverridden)
	assert.False(t, tasks[1].IsActive)
	assert.True(t, tasks[1].IsSkipped)
	assert.Equal(t, OverriddenSkipped, tasks[1].State())

	again := OverrideStatus(tasks, 2, false)
	assert.Equal(t, tasks, again, "override is idempotent")
}

func TestOverrideStatus_RulelessTaskKeepsDefault(t *testing.T) {
	for _, defaultActive := range []bool{true, false} {
		tasks := []Task{NewTask(1, "Water", KindRoutine, nil, defaultActive)}

		overridden := OverrideStatus(tasks, 1, !defaultActive)
		assert.Equal(t, tasks, overridden, "override is a no-op without rules")

		updated := UpdateTasksFromEvaluation(overridden, EvaluateMultipleTasks(overridden, Snapshot{Mood: 5}))
		assert.Equal(t, defaultActive, updated[0].IsActive)
		assert.False(t, updated[0].IsSkipped)
		assert.False(t, updated[0].IsOverridden)
	}
}

func TestRulelessTaskDropsStaleOverride(t *testing.T) {
	// A task whose rules were removed after it was overridden.
	task := NewTask(1, "Water", KindRoutine, nil, true)
	task.IsOverridden, task.IsActive, task.IsSkipped = true, false, true
	tasks := []Task{task}

	updated := UpdateTasksFromEvaluation(tasks, EvaluateMultipleTasks(tasks, Snapshot{}))
	assert.False(t, updated[0].IsOverridden)
	assert.True(t, updated[0].IsActive)
	assert.False(t, updated[0].IsSkipped)

	defaults := ApplyDefaults(tasks)
	assert.False(t, defaults[0].IsOverridden)
	assert.True(t, defaults[0].IsActive)
	assert.False(t, defaults[0].IsSkipped)
}

func TestOverrideStatus_UnknownID(t *testing.T) {
	tasks := conditionalTasks()
	assert.Equal(t, tasks, OverrideStatus(tasks, 42, true))
	assert.Equal(t, tasks, ResetOverride(tasks, 42, nil))
	assert.Equal(t, tasks, ToggleCompletion(tasks, 42))
}

func TestResetOverride(t *testing.T) {
	snap := Snapshot{Energy: 9, Sleep: 4}
	tasks := OverrideStatus(conditionalTasks(), 1, true)
	tasks = OverrideStatus(tasks, 2, false)

	tasks = ResetOverride(tasks, 1, &snap)
	fresh := EvaluateTaskConditions(tasks[0], snap)
	assert.False(t, tasks[0].IsOverridden)
	assert.Equal(t, fresh.IsActive, tasks[0].IsActive)
	assert.Equal(t, fresh.IsSkipped, tasks[0].IsSkipped)
	assert.False(t, tasks[0].IsActive)

	tasks = ResetOverride(tasks, 2, &snap)
	assert.False(t, tasks[1].IsOverridden)
	assert.True(t, tasks[1].IsActive)
}

func TestResetOverride_NoSnapshot(t *testing.T) {
	tasks := OverrideStatus(conditionalTasks(), 1, true)
	tasks = ResetOverride(tasks, 1, nil)
	assert.False(t, tasks[0].IsOverridden)
	assert.False(t, tasks[0].IsActive)
	assert.True(t, tasks[0].IsSkipped)
}

func TestToggleCompletion_OnlyTouchesCompletion(t *testing.T) {
	snap := Snapshot{Energy: 3}
	base := UpdateTasksFromEvaluation(conditionalTasks(), EvaluateMultipleTasks(conditionalTasks(), snap))
	base = OverrideStatus(base, 2, false)

	for _, task := range base {
		toggled := ToggleCompletion(base, task.ID)
		i := indexOf(toggled, task.ID)
		require.GreaterOrEqual(t, i, 0)

		want := task
		want.IsCompleted = !task.IsCompleted
		assert.Equal(t, want, toggled[i])

		back := ToggleCompletion(toggled, task.ID)
		assert.Equal(t, task, back[i])
	}
}

func TestCompletedSkippedTask(t *testing.T) {
	tasks := OverrideStatus(conditionalTasks(), 1, false)
	tasks = ToggleCompletion(tasks, 1)
	assert.True(t, tasks[0].IsCompleted)
	assert.True(t, tasks[0].IsSkipped)

	snap := Snapshot{Energy: 1}
	tasks = UpdateTasksFromEvaluation(tasks, EvaluateMultipleTasks(tasks, snap))
	assert.True(t, tasks[0].IsCompleted, "evaluation never touches completion")
	assert.True(t, tasks[0].IsSkipped)
}

func TestApplyDefaults(t *testing.T) {
	tasks := []Task{
		NewTask(1, "Supplement", KindSupplement, []Rule{rule(MetricExercise, CompEqual, Bool(false))}, false),
		NewTask(2, "Routine", KindRoutine, nil, true),
		NewTask(3, "Default on", KindSupplement, []Rule{rule(MetricMood, CompLess, Number(4))}, true),
	}
	tasks[0].IsActive, tasks[0].IsSkipped = true, false
	tasks = OverrideStatus(tasks, 3, false)

	out := ApplyDefaults(tasks)
	assert.False(t, out[0].IsActive)
	assert.True(t, out[0].IsSkipped)
	assert.True(t, out[1].IsActive)
	assert.False(t, out[1].IsSkipped)
	assert.False(t, out[2].IsActive, "overridden task keeps its flags")
	assert.True(t, out[2].IsOverridden)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", AutoActive.String())
	assert.Equal(t, "skipped (override)", OverriddenSkipped.String())
}

func TestParseTaskKind(t *testing.T) {
	k, err := ParseTaskKind(" Routine ")
	require.NoError(t, err)
	assert.Equal(t, KindRoutine, k)

	_, err = ParseTaskKind("chore")
	assert.EqualError(t, err, `unknown task kind "chore" (want supplement, routine or goal)`)
}
