package store

import (
	"fmt"
	"time"

	"github.com/sadopc/habitr/internal/condition"
)

const taskColumns = `id, name, kind, condition_rules, default_active, archived, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var kind, rules, createdAt, updatedAt string
	var defaultActive, archived int
	if err := row.Scan(&t.ID, &t.Name, &kind, &rules, &defaultActive, &archived, &createdAt, &updatedAt); err != nil {
		return Task{}, err
	}
	decoded, err := condition.DecodeRules(rules)
	if err != nil {
		return Task{}, fmt.Errorf("task %d: %w", t.ID, err)
	}
	t.Kind = condition.TaskKind(kind)
	t.Rules = decoded
	t.DefaultActive = defaultActive == 1
	t.Archived = archived == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

// CreateTask stores a new task. Rules are stored as given; callers validate
// them with condition.ValidateConditionRules first.
func (s *Store) CreateTask(name string, kind condition.TaskKind, rules []condition.Rule, defaultActive bool) (*Task, error) {
	encoded, err := condition.EncodeRules(rules)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (name, kind, condition_rules, default_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name, string(kind), encoded, boolToInt(defaultActive), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

func (s *Store) ListTasks(includeArchived bool) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY kind, name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(id int64, name string, kind condition.TaskKind, rules []condition.Rule, defaultActive bool) error {
	encoded, err := condition.EncodeRules(rules)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE tasks SET name = ?, kind = ?, condition_rules = ?, default_active = ?, updated_at = ? WHERE id = ?`,
		name, string(kind), encoded, boolToInt(defaultActive), now, id,
	)
	return err
}

func (s *Store) ArchiveTask(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}
