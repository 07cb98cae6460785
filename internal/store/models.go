package store

import (
	"time"

	"github.com/sadopc/habitr/internal/condition"
)

// DateLayout is the format of every date key in the database.
const DateLayout = "2006-01-02"

// Today returns the local calendar date.
func Today() string {
	return time.Now().Format(DateLayout)
}

type Task struct {
	ID            int64
	Name          string
	Kind          condition.TaskKind
	Rules         []condition.Rule
	DefaultActive bool
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Core returns the task in its initial daily state.
func (t Task) Core() condition.Task {
	return condition.NewTask(t.ID, t.Name, t.Kind, t.Rules, t.DefaultActive)
}

// DailyEntry is one day's journal: the metric snapshot plus free-form notes.
type DailyEntry struct {
	Date         string
	Mood         int
	Energy       int
	Productivity int
	Sleep        float64
	Exercise     bool
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e DailyEntry) Snapshot() condition.Snapshot {
	return condition.Snapshot{
		Mood:         e.Mood,
		Energy:       e.Energy,
		Productivity: e.Productivity,
		Sleep:        e.Sleep,
		Exercise:     e.Exercise,
	}
}

// TaskDay is the persisted state of one task on one date.
type TaskDay struct {
	TaskID       int64
	TaskName     string
	Date         string
	IsActive     bool
	IsSkipped    bool
	IsOverridden bool
	IsCompleted  bool
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter restricts daily entry queries to [From, To).
type EntryFilter struct {
	From  string
	To    string
	Limit int
}

// CompletionSummary counts task states for one day.
type CompletionSummary struct {
	Date      string
	Active    int
	Skipped   int
	Completed int
}
