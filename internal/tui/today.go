package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/condition"
	"github.com/sadopc/habitr/internal/store"
)

type todayModel struct {
	store  *store.Store
	width  int
	height int

	date     string
	today    string // calendar date when date was last following the clock
	day      *condition.Day
	cursor   int
	verbose  bool
	showDone bool
}

func newTodayModel(s *store.Store) todayModel {
	now := store.Today()
	return todayModel{
		store:    s,
		date:     now,
		today:    now,
		showDone: s.GetSettingBool("show_completed", true),
	}
}

func (d todayModel) Init() tea.Cmd {
	return d.load()
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dayLoadedMsg struct {
	day *condition.Day
	err error
}

func (d todayModel) load() tea.Cmd {
	date := d.date
	return func() tea.Msg {
		day, err := condition.LoadForDate(d.store, date)
		return dayLoadedMsg{day: day, err: err}
	}
}

// visible returns the tasks shown in the list, hiding completed ones when
// show_completed is off.
func (d todayModel) visible() []condition.Task {
	if d.day == nil {
		return nil
	}
	if d.showDone {
		return d.day.Tasks
	}
	var out []condition.Task
	for _, t := range d.day.Tasks {
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

func (d todayModel) selected() (condition.Task, bool) {
	tasks := d.visible()
	if d.cursor < 0 || d.cursor >= len(tasks) {
		return condition.Task{}, false
	}
	return tasks[d.cursor], true
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dayLoadedMsg:
		if msg.err != nil {
			slog.Error("load day failed", "date", d.date, "err", msg.err)
			return d, statusCmd(fmt.Sprintf("Error: %v", msg.err), true)
		}
		if msg.day.Date != d.date {
			return d, nil
		}
		d.day = msg.day
		d.clampCursor()
		return d, nil

	case tickMsg:
		now := store.Today()
		if now != d.today {
			follow := d.date == d.today
			d.today = now
			if follow {
				d.date = now
				return d, d.load()
			}
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.visible())-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Left):
			return d.setDate(shiftDate(d.date, -1))
		case key.Matches(msg, keys.Right):
			return d.setDate(shiftDate(d.date, 1))
		case key.Matches(msg, keys.Today):
			return d.setDate(store.Today())
		case key.Matches(msg, keys.Details):
			d.verbose = !d.verbose
		case key.Matches(msg, keys.Activate):
			return d.override(true)
		case key.Matches(msg, keys.Skip):
			return d.override(false)
		case key.Matches(msg, keys.Reset):
			return d.mutate("override cleared", func(day *condition.Day, id int64) { day.Reset(id) })
		case key.Matches(msg, keys.Done):
			return d.mutate("completion toggled", func(day *condition.Day, id int64) { day.ToggleCompletion(id) })
		}
	}
	return d, nil
}

func (d todayModel) setDate(date string) (todayModel, tea.Cmd) {
	if date == d.date {
		return d, nil
	}
	d.date = date
	d.day = nil
	d.cursor = 0
	return d, d.load()
}

func (d *todayModel) clampCursor() {
	if n := len(d.visible()); d.cursor >= n {
		d.cursor = max(0, n-1)
	}
}

// mutate applies fn to the selected task and saves the day.
// override forces the selected task. Tasks without rules always keep their
// default state.
func (d todayModel) override(active bool) (todayModel, tea.Cmd) {
	t, ok := d.selected()
	if !ok {
		return d, nil
	}
	if !t.HasRules() {
		return d, statusCmd(fmt.Sprintf("%s has no conditions to override", t.Name), true)
	}
	verb := "forced skipped"
	if active {
		verb = "forced active"
	}
	return d.mutate(verb, func(day *condition.Day, id int64) { day.Override(id, active) })
}

func (d todayModel) mutate(verb string, fn func(day *condition.Day, id int64)) (todayModel, tea.Cmd) {
	t, ok := d.selected()
	if !ok {
		return d, nil
	}
	fn(d.day, t.ID)
	if err := d.day.Save(d.store); err != nil {
		slog.Error("save day failed", "date", d.date, "task_id", t.ID, "err", err)
		return d, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	d.clampCursor()
	slog.Info("task updated", "date", d.date, "task_id", t.ID, "action", verb)
	return d, statusCmd(fmt.Sprintf("%s: %s", t.Name, verb), false)
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderDayPanel(w),
		d.renderTaskPanel(w),
	)
}

func (d todayModel) renderDayPanel(w int) string {
	title := titleStyle.Render(formatDate(d.date))
	if d.date == d.today {
		title += highlightStyle.Render("  today")
	}

	var snap *condition.Snapshot
	if d.day != nil {
		snap = d.day.Snapshot
	}
	metrics := mutedStyle.Render(formatSnapshot(snap))
	if snap == nil {
		metrics += mutedStyle.Render("  (press 3 to log)")
	}

	progress := ""
	if d.day != nil && len(d.day.Tasks) > 0 {
		var active, skipped, done int
		for _, t := range d.day.Tasks {
			if t.IsActive {
				active++
			}
			if t.IsSkipped {
				skipped++
			}
			if t.IsCompleted {
				done++
			}
		}
		progress = fmt.Sprintf("%s  %s  %s",
			successStyle.Render(fmt.Sprintf("%d/%d done", done, active)),
			stateActiveStyle.Render(fmt.Sprintf("%d active", active)),
			stateSkippedStyle.Render(fmt.Sprintf("%d skipped", skipped)),
		)
	}

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, metrics, progress))
}

func (d todayModel) renderTaskPanel(w int) string {
	title := titleStyle.Render("Tasks")
	if d.day == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Loading...")))
	}
	tasks := d.visible()
	if len(tasks) == 0 {
		hint := "No tasks yet. Press 2 to go to Tasks and create one."
		if len(d.day.Tasks) > 0 {
			hint = "Everything is done."
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render(hint)))
	}

	var rows []string
	rows = append(rows, title)
	for i, t := range tasks {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if t.IsCompleted {
			check = successStyle.Render("[x]")
		}
		state := t.State()
		row := fmt.Sprintf("%s%s %s %s",
			style.Render(cursor), check,
			style.Render(fmt.Sprintf("%-22s", t.Name)),
			stateStyle(state).Render(fmt.Sprintf("%-18s", state)),
		)
		r, ok := d.day.Result(t.ID)
		if ok {
			row += " " + mutedStyle.Render(r.FinalReason)
		}
		rows = append(rows, row)

		if d.verbose && ok {
			if t.HasRules() {
				rows = append(rows, mutedStyle.Render("      "+condition.DescribeConditionRules(t.Rules)))
			}
			for _, er := range r.EvaluatedRules {
				mark := successStyle.Render("✓")
				if !er.Result {
					mark = errorStyle.Render("✗")
				}
				rows = append(rows, fmt.Sprintf("      %s %s", mark, mutedStyle.Render(er.Reason)))
			}
		}
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  a: active  s: skip  r: reset  space: done  v: details  ←/→: day  t: today"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
