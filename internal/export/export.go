// Package export writes per-day task state and journal metrics to CSV or
// JSON files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/habitr/internal/store"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var Formats = []Format{FormatCSV, FormatJSON}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// FileName returns habitr-export-<date>.<format>.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("habitr-export-%s.%s", now.Format(store.DateLayout), f)
}

// Store exports every recorded task day and journal entry from s into dir
// and returns the written path.
func Store(s *store.Store, f Format, dir string, now time.Time) (string, error) {
	days, err := s.ListTaskDays("0000-01-01", "9999-12-31")
	if err != nil {
		return "", err
	}
	list, err := s.ListDailyEntries(store.EntryFilter{})
	if err != nil {
		return "", err
	}
	entries := make(map[string]*store.DailyEntry, len(list))
	for i := range list {
		entries[list[i].Date] = &list[i]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(f, now))

	switch f {
	case FormatCSV:
		err = ToCSV(days, entries, path)
	case FormatJSON:
		err = ToJSON(days, entries, path)
	default:
		return "", fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
