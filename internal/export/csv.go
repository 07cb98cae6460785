package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/habitr/internal/store"
)

var csvHeader = []string{"Date", "Task", "Active", "Skipped", "Overridden", "Completed", "Mood", "Energy", "Productivity", "Sleep", "Exercise"}

// ToCSV writes one row per task per day. Metric columns are empty for days
// without a journal entry.
func ToCSV(days []store.TaskDay, entries map[string]*store.DailyEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, d := range days {
		row := []string{
			d.Date,
			d.TaskName,
			yesNo(d.IsActive),
			yesNo(d.IsSkipped),
			yesNo(d.IsOverridden),
			yesNo(d.IsCompleted),
		}
		if e, ok := entries[d.Date]; ok && e != nil {
			row = append(row,
				strconv.Itoa(e.Mood),
				strconv.Itoa(e.Energy),
				strconv.Itoa(e.Productivity),
				formatSleep(e.Sleep),
				yesNo(e.Exercise),
			)
		} else {
			row = append(row, "", "", "", "", "")
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatSleep(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
