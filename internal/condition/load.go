package condition

import "fmt"

// Repository loads and stores the per-day task state. Dates are
// "YYYY-MM-DD" strings. A nil snapshot means nothing was recorded that day.
type Repository interface {
	LoadTasksAndSnapshot(date string) ([]Task, *Snapshot, error)
	SaveTasks(date string, tasks []Task) error
}

// Day is the evaluated task list for one date.
type Day struct {
	Date     string
	Tasks    []Task
	Snapshot *Snapshot
	Results  []TaskEvaluationResult
}

// LoadForDate loads tasks and the snapshot for date, merges fresh verdicts
// into every task that is not overridden, and saves the result. Without a
// snapshot each task falls back to its default state.
func LoadForDate(repo Repository, date string) (*Day, error) {
	tasks, snap, err := repo.LoadTasksAndSnapshot(date)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", date, err)
	}

	d := &Day{Date: date, Snapshot: snap}
	if snap != nil {
		d.Results = EvaluateMultipleTasks(tasks, *snap)
		d.Tasks = UpdateTasksFromEvaluation(tasks, d.Results)
	} else {
		d.Results = make([]TaskEvaluationResult, len(tasks))
		for i, t := range tasks {
			d.Results[i] = fallbackResult(t)
		}
		d.Tasks = ApplyDefaults(tasks)
	}

	if err := d.Save(repo); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Day) Save(repo Repository) error {
	if err := repo.SaveTasks(d.Date, d.Tasks); err != nil {
		return fmt.Errorf("save %s: %w", d.Date, err)
	}
	return nil
}

// Result returns the evaluation for task id.
func (d *Day) Result(id int64) (TaskEvaluationResult, bool) {
	for _, r := range d.Results {
		if r.TaskID == id {
			return r, true
		}
	}
	return TaskEvaluationResult{}, false
}

// Task returns the task with id.
func (d *Day) Task(id int64) (Task, bool) {
	if i := indexOf(d.Tasks, id); i >= 0 {
		return d.Tasks[i], true
	}
	return Task{}, false
}

func (d *Day) Override(id int64, forceActive bool) {
	d.Tasks = OverrideStatus(d.Tasks, id, forceActive)
}

func (d *Day) Reset(id int64) {
	d.Tasks = ResetOverride(d.Tasks, id, d.Snapshot)
}

func (d *Day) ToggleCompletion(id int64) {
	d.Tasks = ToggleCompletion(d.Tasks, id)
}
