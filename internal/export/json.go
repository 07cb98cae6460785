package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/habitr/internal/store"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Date    string       `json:"date"`
	Metrics *jsonMetrics `json:"metrics,omitempty"`
	Notes   string       `json:"notes,omitempty"`
	Tasks   []jsonTask   `json:"tasks"`
}

type jsonMetrics struct {
	Mood         int     `json:"mood"`
	Energy       int     `json:"energy"`
	Productivity int     `json:"productivity"`
	Sleep        float64 `json:"sleep"`
	Exercise     bool    `json:"exercise"`
}

type jsonTask struct {
	TaskID     int64  `json:"task_id"`
	Task       string `json:"task"`
	Active     bool   `json:"active"`
	Skipped    bool   `json:"skipped"`
	Overridden bool   `json:"overridden"`
	Completed  bool   `json:"completed"`
}

// ToJSON groups task states by day. days must be ordered by date, as
// returned by store.ListTaskDays. Count is the number of days.
func ToJSON(days []store.TaskDay, entries map[string]*store.DailyEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Days:       []jsonDay{},
	}

	for _, d := range days {
		n := len(export.Days)
		if n == 0 || export.Days[n-1].Date != d.Date {
			day := jsonDay{Date: d.Date}
			if e, ok := entries[d.Date]; ok && e != nil {
				day.Metrics = &jsonMetrics{
					Mood:         e.Mood,
					Energy:       e.Energy,
					Productivity: e.Productivity,
					Sleep:        e.Sleep,
					Exercise:     e.Exercise,
				}
				day.Notes = e.Notes
			}
			export.Days = append(export.Days, day)
			n++
		}
		export.Days[n-1].Tasks = append(export.Days[n-1].Tasks, jsonTask{
			TaskID:     d.TaskID,
			Task:       d.TaskName,
			Active:     d.IsActive,
			Skipped:    d.IsSkipped,
			Overridden: d.IsOverridden,
			Completed:  d.IsCompleted,
		})
	}
	export.Count = len(export.Days)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
