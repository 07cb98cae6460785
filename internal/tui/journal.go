package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
)

var ratingOptions = huh.NewOptions(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

// journalModel records the metric snapshot for one day.
type journalModel struct {
	store  *store.Store
	width  int
	height int

	date      string
	entry     *store.DailyEntry
	sleepGoal float64

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	mood         *int
	energy       *int
	productivity *int
	sleep        *string
	exercise     *bool
	notes        *string
}

func newJournalModel(s *store.Store) journalModel {
	mood, energy, productivity := 5, 5, 5
	sleep, exercise, notes := "", false, ""
	return journalModel{
		store:        s,
		date:         store.Today(),
		mood:         &mood,
		energy:       &energy,
		productivity: &productivity,
		sleep:        &sleep,
		exercise:     &exercise,
		notes:        &notes,
	}
}

func (j *journalModel) setSize(w, h int) {
	j.width = w
	j.height = h
}

type journalDataMsg struct {
	date      string
	entry     *store.DailyEntry
	sleepGoal float64
}

func (j journalModel) refresh() tea.Cmd {
	date := j.date
	return func() tea.Msg {
		entry, err := j.store.GetDailyEntry(date)
		if err != nil {
			slog.Error("load entry failed", "date", date, "err", err)
		}
		goal, _ := strconv.ParseFloat(j.store.GetSettingOr("sleep_goal", "8"), 64)
		return journalDataMsg{date: date, entry: entry, sleepGoal: goal}
	}
}

func parseSleep(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "h"))
	if s == "" {
		return 0, nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("hours must be a number, got %q", s)
	}
	if math.IsNaN(h) || h < 0 || h > 24 {
		return 0, fmt.Errorf("hours must be between 0 and 24, got %g", h)
	}
	return h, nil
}

func validateSleep(s string) error {
	_, err := parseSleep(s)
	return err
}

func (j journalModel) update(msg tea.Msg) (journalModel, tea.Cmd) {
	if j.formActive && j.form != nil {
		return j.updateForm(msg)
	}

	switch msg := msg.(type) {
	case journalDataMsg:
		if msg.date != j.date {
			return j, nil
		}
		j.entry = msg.entry
		j.sleepGoal = msg.sleepGoal
		return j, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return j.showForm()
		case key.Matches(msg, keys.Delete):
			if j.entry == nil {
				return j, nil
			}
			if err := j.store.DeleteDailyEntry(j.date); err != nil {
				return j, statusCmd(fmt.Sprintf("Error: %v", err), true)
			}
			slog.Info("entry deleted", "date", j.date)
			j.entry = nil
			date := j.date
			return j, tea.Batch(
				func() tea.Msg { return entrySavedMsg{date: date} },
				statusCmd("Deleted entry for "+date, false),
			)
		}
	}
	return j, nil
}

func (j journalModel) showForm() (journalModel, tea.Cmd) {
	if e := j.entry; e != nil {
		*j.mood, *j.energy, *j.productivity = e.Mood, e.Energy, e.Productivity
		*j.sleep = strconv.FormatFloat(e.Sleep, 'f', -1, 64)
		*j.exercise = e.Exercise
		*j.notes = e.Notes
	} else {
		*j.mood, *j.energy, *j.productivity = 5, 5, 5
		*j.sleep = ""
		*j.exercise = false
		*j.notes = ""
	}

	j.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Mood").Options(ratingOptions...).Value(j.mood),
			huh.NewSelect[int]().Title("Energy").Options(ratingOptions...).Value(j.energy),
			huh.NewSelect[int]().Title("Productivity").Options(ratingOptions...).Value(j.productivity),
		).Title("Ratings (1-10)"),
		huh.NewGroup(
			huh.NewInput().Title("Sleep (hours)").Placeholder("7.5").Value(j.sleep).Validate(validateSleep),
			huh.NewConfirm().Title("Exercised?").Affirmative("Yes").Negative("No").Value(j.exercise),
			huh.NewText().Title("Notes").Value(j.notes),
		).Title("Body"),
	).WithShowHelp(true).WithShowErrors(true)

	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) updateForm(msg tea.Msg) (journalModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			j.formActive = false
			j.form = nil
			return j, nil
		}
	}

	form, cmd := j.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		j.form = f
	}

	if j.form.State == huh.StateCompleted {
		j.formActive = false
		return j.save()
	}

	return j, cmd
}

func (j journalModel) save() (journalModel, tea.Cmd) {
	sleep, err := parseSleep(*j.sleep)
	if err != nil {
		return j, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	entry, err := j.store.SaveDailyEntry(store.DailyEntry{
		Date:         j.date,
		Mood:         *j.mood,
		Energy:       *j.energy,
		Productivity: *j.productivity,
		Sleep:        sleep,
		Exercise:     *j.exercise,
		Notes:        strings.TrimSpace(*j.notes),
	})
	if err != nil {
		slog.Error("save entry failed", "date", j.date, "err", err)
		return j, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	slog.Info("entry saved", "date", j.date, "mood", entry.Mood, "energy", entry.Energy,
		"productivity", entry.Productivity, "sleep", entry.Sleep, "exercise", entry.Exercise)
	j.entry = entry
	date := j.date
	return j, tea.Batch(
		func() tea.Msg { return entrySavedMsg{date: date} },
		statusCmd("Logged "+date+", tasks re-evaluated", false),
	)
}

func (j journalModel) view() string {
	w := j.width - 4

	title := titleStyle.Render("Journal  " + formatDate(j.date))

	if j.formActive && j.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", j.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")

	if j.entry == nil {
		rows = append(rows,
			mutedStyle.Render("Nothing logged for this day."),
			mutedStyle.Render("Conditional tasks stay at their default until you log."),
			"",
			mutedStyle.Render("  enter: log metrics"),
		)
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	e := j.entry
	rows = append(rows,
		metricRow("Mood", ratingBar(e.Mood)),
		metricRow("Energy", ratingBar(e.Energy)),
		metricRow("Productivity", ratingBar(e.Productivity)),
		metricRow("Sleep", j.renderSleep(e.Sleep)),
		metricRow("Exercise", yesNo(e.Exercise)),
	)
	if e.Notes != "" {
		rows = append(rows, "", mutedStyle.Render(e.Notes))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: edit  d: delete entry"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (j journalModel) renderSleep(h float64) string {
	s := formatHours(h)
	if j.sleepGoal <= 0 {
		return s
	}
	goal := mutedStyle.Render(" / goal " + formatHours(j.sleepGoal))
	if h < j.sleepGoal {
		return warningStyle.Render(s) + goal
	}
	return successStyle.Render(s) + goal
}

func metricRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(14).Render(label), value)
}

// ratingBar renders a 1-10 rating as a ten-cell bar followed by the number.
func ratingBar(n int) string {
	n = min(max(n, 0), 10)
	style := successStyle
	switch {
	case n <= 3:
		style = accentStyle
	case n <= 6:
		style = warningStyle
	}
	return style.Render(strings.Repeat("■", n)) + mutedStyle.Render(strings.Repeat("□", 10-n)) +
		highlightStyle.Render(fmt.Sprintf(" %d", n))
}

func yesNo(b bool) string {
	if b {
		return successStyle.Render("yes")
	}
	return mutedStyle.Render("no")
}
