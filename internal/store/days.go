package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/habitr/internal/condition"
)

var _ condition.Repository = (*Store)(nil)

// LoadTasksAndSnapshot returns every unarchived task with its state for
// date, and the metric snapshot recorded that day (nil if none). Tasks with
// no stored state for the date start in their initial state.
func (s *Store) LoadTasksAndSnapshot(date string) ([]condition.Task, *condition.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.kind, t.condition_rules, t.default_active, t.archived, t.created_at, t.updated_at,
		       d.is_active, d.is_skipped, d.is_overridden, d.is_completed
		FROM tasks t
		LEFT JOIN task_days d ON d.task_id = t.id AND d.date = ?
		WHERE t.archived = 0
		ORDER BY t.kind, t.name`, date)
	if err != nil {
		return nil, nil, fmt.Errorf("load tasks for %s: %w", date, err)
	}
	defer rows.Close()

	var tasks []condition.Task
	for rows.Next() {
		var (
			st                                     Task
			kind, rules, createdAt, updatedAt      string
			defaultActive, archived                int
			active, skipped, overridden, completed sql.NullInt64
		)
		if err := rows.Scan(&st.ID, &st.Name, &kind, &rules, &defaultActive, &archived, &createdAt, &updatedAt,
			&active, &skipped, &overridden, &completed); err != nil {
			return nil, nil, err
		}
		decoded, err := condition.DecodeRules(rules)
		if err != nil {
			return nil, nil, fmt.Errorf("task %d: %w", st.ID, err)
		}
		st.Kind = condition.TaskKind(kind)
		st.Rules = decoded
		st.DefaultActive = defaultActive == 1

		t := st.Core()
		if active.Valid {
			t.IsActive = active.Int64 == 1
			t.IsSkipped = skipped.Int64 == 1
			t.IsOverridden = overridden.Int64 == 1
			t.IsCompleted = completed.Int64 == 1
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	rows.Close()

	entry, err := s.GetDailyEntry(date)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return tasks, nil, nil
	}
	snap := entry.Snapshot()
	return tasks, &snap, nil
}

// SaveTasks stores the per-day flags of tasks for date in one transaction.
func (s *Store) SaveTasks(date string, tasks []condition.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO task_days (task_id, date, is_active, is_skipped, is_overridden, is_completed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id, date) DO UPDATE SET
			is_active = excluded.is_active,
			is_skipped = excluded.is_skipped,
			is_overridden = excluded.is_overridden,
			is_completed = excluded.is_completed`)
	if err != nil {
		return fmt.Errorf("prepare save tasks: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.Exec(t.ID, date,
			boolToInt(t.IsActive), boolToInt(t.IsSkipped), boolToInt(t.IsOverridden), boolToInt(t.IsCompleted),
		); err != nil {
			return fmt.Errorf("save task %d for %s: %w", t.ID, date, err)
		}
	}
	return tx.Commit()
}

// ListTaskDays returns stored task states for dates in [from, to), oldest first.
func (s *Store) ListTaskDays(from, to string) ([]TaskDay, error) {
	rows, err := s.db.Query(`
		SELECT d.task_id, t.name, d.date, d.is_active, d.is_skipped, d.is_overridden, d.is_completed
		FROM task_days d
		JOIN tasks t ON t.id = d.task_id
		WHERE d.date >= ? AND d.date < ?
		ORDER BY d.date, t.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list task days: %w", err)
	}
	defer rows.Close()

	var days []TaskDay
	for rows.Next() {
		var d TaskDay
		var active, skipped, overridden, completed int
		if err := rows.Scan(&d.TaskID, &d.TaskName, &d.Date, &active, &skipped, &overridden, &completed); err != nil {
			return nil, err
		}
		d.IsActive = active == 1
		d.IsSkipped = skipped == 1
		d.IsOverridden = overridden == 1
		d.IsCompleted = completed == 1
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetCompletionSummary counts active, skipped and completed tasks per day
// for dates in [from, to).
func (s *Store) GetCompletionSummary(from, to string) ([]CompletionSummary, error) {
	rows, err := s.db.Query(`
		SELECT date,
		       COALESCE(SUM(is_active), 0),
		       COALESCE(SUM(is_skipped), 0),
		       COALESCE(SUM(is_completed), 0)
		FROM task_days
		WHERE date >= ? AND date < ?
		GROUP BY date
		ORDER BY date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("completion summary: %w", err)
	}
	defer rows.Close()

	var summaries []CompletionSummary
	for rows.Next() {
		var cs CompletionSummary
		if err := rows.Scan(&cs.Date, &cs.Active, &cs.Skipped, &cs.Completed); err != nil {
			return nil, err
		}
		summaries = append(summaries, cs)
	}
	return summaries, rows.Err()
}
