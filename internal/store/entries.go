package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const entryColumns = `date, mood, energy, productivity, sleep, exercise, notes, created_at, updated_at`

func scanEntry(row rowScanner) (DailyEntry, error) {
	var e DailyEntry
	var exercise int
	var createdAt, updatedAt string
	if err := row.Scan(&e.Date, &e.Mood, &e.Energy, &e.Productivity, &e.Sleep, &exercise, &e.Notes, &createdAt, &updatedAt); err != nil {
		return DailyEntry{}, err
	}
	e.Exercise = exercise == 1
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

// SaveDailyEntry inserts or replaces the journal entry for e.Date.
func (s *Store) SaveDailyEntry(e DailyEntry) (*DailyEntry, error) {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return nil, fmt.Errorf("save entry: bad date %q: %w", e.Date, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO daily_entries (date, mood, energy, productivity, sleep, exercise, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			mood = excluded.mood,
			energy = excluded.energy,
			productivity = excluded.productivity,
			sleep = excluded.sleep,
			exercise = excluded.exercise,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		e.Date, e.Mood, e.Energy, e.Productivity, e.Sleep, boolToInt(e.Exercise), e.Notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return s.GetDailyEntry(e.Date)
}

// GetDailyEntry returns the entry for date, or nil if nothing was recorded.
func (s *Store) GetDailyEntry(date string) (*DailyEntry, error) {
	e, err := scanEntry(s.db.QueryRow(`SELECT `+entryColumns+` FROM daily_entries WHERE date = ?`, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", date, err)
	}
	return &e, nil
}

func (s *Store) DeleteDailyEntry(date string) error {
	_, err := s.db.Exec(`DELETE FROM daily_entries WHERE date = ?`, date)
	return err
}

func (s *Store) ListDailyEntries(f EntryFilter) ([]DailyEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE 1=1`
	var args []any

	if f.From != "" {
		query += ` AND date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND date < ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY date DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
