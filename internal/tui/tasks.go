package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/condition"
	"github.com/sadopc/habitr/internal/store"
)

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formName    *string
	formKind    *string
	formRules   *string
	formDefault *bool

	editingID int64
}

func newTasksModel(s *store.Store) tasksModel {
	name, kind, rules, def := "", string(condition.KindSupplement), "", false
	return tasksModel{
		store:       s,
		formName:    &name,
		formKind:    &kind,
		formRules:   &rules,
		formDefault: &def,
	}
}

func (p *tasksModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (p tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := p.store.ListTasks(false)
		if err != nil {
			slog.Error("list tasks failed", "err", err)
		}
		return tasksDataMsg{tasks: tasks}
	}
}

// parseRuleText reads one rule per line in the form
// "[AND|OR] <metric> <comparator> <value>" and validates the result.
func parseRuleText(text string) ([]condition.Rule, error) {
	rules, err := condition.ParseRules(strings.Split(text, "\n"))
	if err != nil {
		return nil, err
	}
	if res := condition.ValidateConditionRules(rules); !res.IsValid {
		return nil, errors.New(res.Error())
	}
	return rules, nil
}

// formatRuleText is the inverse of parseRuleText.
func formatRuleText(rules []condition.Rule) string {
	lines := make([]string, len(rules))
	for i, r := range rules {
		lines[i] = r.String()
		if i > 0 && r.LogicOperator != "" {
			lines[i] = string(r.LogicOperator) + " " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func validateTaskName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateRuleText(s string) error {
	_, err := parseRuleText(s)
	return err
}

func (p tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		p.tasks = msg.tasks
		if p.cursor >= len(p.tasks) {
			p.cursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.tasks)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(p.tasks) > 0 {
				t := p.tasks[p.cursor]
				return p.showForm(&t)
			}
		case key.Matches(msg, keys.Delete):
			if len(p.tasks) > 0 {
				t := p.tasks[p.cursor]
				if err := p.store.ArchiveTask(t.ID); err != nil {
					return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
				}
				slog.Info("task archived", "task_id", t.ID)
				return p, tea.Batch(p.refresh(), changedCmd(), statusCmd("Archived "+t.Name, false))
			}
		}
	}
	return p, nil
}

func changedCmd() tea.Cmd {
	return func() tea.Msg { return tasksChangedMsg{} }
}

// showForm opens the task form, prefilled from t when editing.
func (p tasksModel) showForm(t *store.Task) (tasksModel, tea.Cmd) {
	if t == nil {
		*p.formName = ""
		*p.formKind = string(condition.KindSupplement)
		*p.formRules = ""
		*p.formDefault = false
		p.formType = "new"
		p.editingID = 0
	} else {
		*p.formName = t.Name
		*p.formKind = string(t.Kind)
		*p.formRules = formatRuleText(t.Rules)
		*p.formDefault = t.DefaultActive
		p.formType = "edit"
		p.editingID = t.ID
	}

	kindOptions := make([]huh.Option[string], len(condition.TaskKinds))
	for i, k := range condition.TaskKinds {
		kindOptions[i] = huh.NewOption(string(k), string(k))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(p.formName).Validate(validateTaskName),
			huh.NewSelect[string]().Title("Kind").Options(kindOptions...).Value(p.formKind),
			huh.NewText().
				Title("Rules").
				Description("One per line: [AND|OR] metric comparator value, e.g. \"OR mood < 5\". Empty for every day.").
				Value(p.formRules).
				Validate(validateRuleText),
			huh.NewConfirm().
				Title("Active when no metrics are logged?").
				Affirmative("Yes").
				Negative("No").
				Value(p.formDefault),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.saveForm()
	}

	return p, cmd
}

func (p tasksModel) saveForm() tea.Cmd {
	name := strings.TrimSpace(*p.formName)
	rules, err := parseRuleText(*p.formRules)
	if err == nil {
		err = validateTaskName(name)
	}
	var kind condition.TaskKind
	if err == nil {
		kind, err = condition.ParseTaskKind(*p.formKind)
	}
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	switch p.formType {
	case "edit":
		err = p.store.UpdateTask(p.editingID, name, kind, rules, *p.formDefault)
	default:
		var t *store.Task
		t, err = p.store.CreateTask(name, kind, rules, *p.formDefault)
		if err == nil {
			p.editingID = t.ID
		}
	}
	if err != nil {
		slog.Error("save task failed", "name", name, "err", err)
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	slog.Info("task saved", "task_id", p.editingID, "name", name, "rules", len(rules))
	return tea.Batch(p.refresh(), changedCmd(), statusCmd("Saved "+name, false))
}

func (p tasksModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task")
		if p.formType == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	return p.renderTaskList()
}

func (p tasksModel) renderTaskList() string {
	w := p.width - 4
	title := titleStyle.Render("Tasks")

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-24s %-12s %-9s %s", "Name", "Kind", "Default", "Rules"))
	rows = append(rows, header)

	for i, t := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		def := "off"
		if t.DefaultActive {
			def = "on"
		}
		row := style.Render(fmt.Sprintf("%s%-24s %-12s %-9s", cursor, t.Name, t.Kind, def))
		rows = append(rows, row+" "+subtitleStyle.Render(condition.DescribeConditionRules(t.Rules)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: archive"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
