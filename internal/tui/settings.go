package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	sleepGoal     *string
	showCompleted *string
	weekStart     *string
	reportDays    *string
}

func newSettingsModel(s *store.Store, cfg config.Config) settingsModel {
	sg, sc, ws, rd := "", "", "", ""
	return settingsModel{
		store:         s,
		cfg:           cfg,
		sleepGoal:     &sg,
		showCompleted: &sc,
		weekStart:     &ws,
		reportDays:    &rd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

// settingsSavedMsg tells other views to reload their preferences.
type settingsSavedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func validateSleepGoal(v string) error {
	h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(h) || h <= 0 || h > 24 {
		return errors.New("enter hours between 0 and 24")
	}
	return nil
}

func validateReportDays(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 || n > 31 {
		return errors.New("enter a number of days between 1 and 31")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.sleepGoal = s.store.GetSettingOr("sleep_goal", "8")
	*s.showCompleted = s.store.GetSettingOr("show_completed", "true")
	*s.weekStart = s.store.GetSettingOr("week_start", "monday")
	*s.reportDays = s.store.GetSettingOr("report_days", "7")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sleep goal (hours)").Value(s.sleepGoal).Validate(validateSleepGoal),
			huh.NewSelect[string]().Title("Completed tasks on Today").
				Options(
					huh.NewOption("Show", "true"),
					huh.NewOption("Hide", "false"),
				).Value(s.showCompleted),
		).Title("Daily"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
			huh.NewInput().Title("Report period (days)").Value(s.reportDays).Validate(validateReportDays),
		).Title("Reports"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			slog.Error("save settings failed", "err", err)
			return s, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsSavedMsg{} },
			statusCmd("Settings saved", false),
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []store.Setting{
		{Key: "sleep_goal", Value: strings.TrimSpace(*s.sleepGoal)},
		{Key: "show_completed", Value: *s.showCompleted},
		{Key: "week_start", Value: *s.weekStart},
		{Key: "report_days", Value: strings.TrimSpace(*s.reportDays)},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.Key, v.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render("Config file"))
	for _, kv := range [][2]string{
		{"db_path", s.cfg.DBPath},
		{"log_level", s.cfg.LogLevel},
		{"export_dir", s.cfg.ExportDir},
	} {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, mutedStyle.Render(kv[1])))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "sleep_goal":
		if h, err := strconv.ParseFloat(v, 64); err == nil {
			return fmt.Sprintf("%s hours", strconv.FormatFloat(h, 'f', -1, 64))
		}
	case "report_days":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d days", n)
		}
	case "show_completed":
		if v == "true" {
			return "show"
		}
		return "hide"
	}
	return v
}
