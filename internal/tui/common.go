package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitr/internal/condition"
	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTasks
	viewJournal
	viewReports
	viewSettings
)

var viewNames = []string{"Today", "Tasks", "Journal", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// entrySavedMsg reports a new or changed journal entry so the day is re-evaluated.
type entrySavedMsg struct {
	date string
}

type tasksChangedMsg struct{}

// ConfigReloadedMsg carries config.yaml after it changed on disk.
type ConfigReloadedMsg struct {
	Config config.Config
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

func formatSnapshot(s *condition.Snapshot) string {
	if s == nil {
		return "No metrics recorded"
	}
	exercise := "no"
	if s.Exercise {
		exercise = "yes"
	}
	return fmt.Sprintf("mood %d · energy %d · productivity %d · sleep %s · exercise %s",
		s.Mood, s.Energy, s.Productivity, formatHours(s.Sleep), exercise)
}

// shiftDate moves a YYYY-MM-DD date by days. Invalid input is returned as is.
func shiftDate(date string, days int) string {
	t, err := time.Parse(store.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(store.DateLayout)
}

// formatDate renders a YYYY-MM-DD date as "Fri Oct 16, 2026".
func formatDate(date string) string {
	t, err := time.Parse(store.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon Jan 02, 2006")
}
