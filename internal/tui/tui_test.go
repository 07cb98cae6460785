package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitr/internal/condition"
	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	app := NewApp(s, config.Default(t.TempDir()))
	app.width = 120
	app.height = 40
	return app, s
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// createTask adds a task skipped by default that activates on low energy.
func createTask(t *testing.T, s *store.Store, name string) *store.Task {
	t.Helper()
	rules, err := parseRuleText("energy < 5")
	if err != nil {
		t.Fatal(err)
	}
	task, err := s.CreateTask(name, condition.KindSupplement, rules, false)
	if err != nil {
		t.Fatal(err)
	}
	return task
}

// loadedToday returns a today model with its day already loaded.
func loadedToday(t *testing.T, s *store.Store) todayModel {
	t.Helper()
	d := newTodayModel(s)
	d.setSize(120, 40)
	d, _ = d.update(d.load()())
	if d.day == nil {
		t.Fatal("day should be loaded")
	}
	return d
}

// ============================================================
// Helpers
// ============================================================

func TestFormatHours(t *testing.T) {
	tests := []struct {
		h    float64
		want string
	}{
		{0, "0h"},
		{7.5, "7.5h"},
		{8, "8h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.h); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestFormatSnapshot(t *testing.T) {
	if got := formatSnapshot(nil); got != "No metrics recorded" {
		t.Fatalf("nil snapshot = %q", got)
	}
	got := formatSnapshot(&condition.Snapshot{Mood: 6, Energy: 3, Productivity: 7, Sleep: 6.5, Exercise: true})
	for _, want := range []string{"mood 6", "energy 3", "productivity 7", "sleep 6.5h", "exercise yes"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatSnapshot missing %q in %q", want, got)
		}
	}
}

func TestShiftDate(t *testing.T) {
	tests := []struct {
		date string
		days int
		want string
	}{
		{"2026-10-16", 1, "2026-10-17"},
		{"2026-10-16", -1, "2026-10-15"},
		{"2026-10-31", 1, "2026-11-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"bogus", 1, "bogus"},
	}
	for _, tt := range tests {
		if got := shiftDate(tt.date, tt.days); got != tt.want {
			t.Errorf("shiftDate(%q, %d) = %q, want %q", tt.date, tt.days, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate("2026-10-16"); got != "Fri Oct 16, 2026" {
		t.Fatalf("formatDate = %q", got)
	}
	if got := formatDate("bogus"); got != "bogus" {
		t.Fatalf("formatDate(bogus) = %q", got)
	}
}

func TestStatusCmd(t *testing.T) {
	msg := statusCmd("saved", false)()
	sm, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", msg)
	}
	if sm.text != "saved" || sm.isError {
		t.Fatalf("unexpected status: %+v", sm)
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	expected := []string{"Today", "Tasks", "Journal", "Reports", "Settings"}
	if len(viewNames) != len(expected) {
		t.Fatalf("expected %d view names, got %d", len(expected), len(viewNames))
	}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewToday != 0 || viewTasks != 1 || viewJournal != 2 || viewReports != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Today model
// ============================================================

func TestTodayLoadsDefaults(t *testing.T) {
	s := newTestStore(t)
	createTask(t, s, "Iron")
	if _, err := s.CreateTask("Vitamin D", condition.KindSupplement, nil, true); err != nil {
		t.Fatal(err)
	}

	d := loadedToday(t, s)
	if d.date != store.Today() {
		t.Fatalf("date = %q, want today", d.date)
	}
	if len(d.day.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(d.day.Tasks))
	}
	for _, task := range d.day.Tasks {
		switch task.Name {
		case "Iron":
			if task.IsActive || !task.IsSkipped {
				t.Errorf("conditional task without data should be skipped: %+v", task)
			}
		case "Vitamin D":
			if !task.IsActive || task.IsSkipped {
				t.Errorf("rule-less default task should be active: %+v", task)
			}
		}
	}
}

func TestTodayOverrideAndReset(t *testing.T) {
	s := newTestStore(t)
	task := createTask(t, s, "Iron")
	d := loadedToday(t, s)

	d, _ = d.update(runeKey("a"))
	got, _ := d.day.Task(task.ID)
	if !got.IsActive || got.IsSkipped || !got.IsOverridden {
		t.Fatalf("after force active: %+v", got)
	}

	// Override survives a reload.
	day, err := condition.LoadForDate(s, d.date)
	if err != nil {
		t.Fatal(err)
	}
	got, _ = day.Task(task.ID)
	if !got.IsOverridden || !got.IsActive {
		t.Fatalf("override not persisted: %+v", got)
	}

	d, _ = d.update(runeKey("r"))
	got, _ = d.day.Task(task.ID)
	if got.IsOverridden || got.IsActive || !got.IsSkipped {
		t.Fatalf("after reset: %+v", got)
	}

	d, _ = d.update(runeKey("s"))
	got, _ = d.day.Task(task.ID)
	if !got.IsSkipped || !got.IsOverridden {
		t.Fatalf("after force skip: %+v", got)
	}
}

func TestTodayOverrideIgnoresTaskWithoutRules(t *testing.T) {
	s := newTestStore(t)
	task, err := s.CreateTask("Vitamin D", condition.KindSupplement, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	d := loadedToday(t, s)

	for _, k := range []string{"a", "s"} {
		var cmd tea.Cmd
		d, cmd = d.update(runeKey(k))
		if cmd == nil {
			t.Fatalf("%q should report why nothing changed", k)
		}
		msg, ok := cmd().(statusMsg)
		if !ok || !msg.isError || !strings.Contains(msg.text, "no conditions") {
			t.Fatalf("%q: unexpected status %+v", k, msg)
		}
		got, _ := d.day.Task(task.ID)
		if !got.IsActive || got.IsSkipped || got.IsOverridden {
			t.Fatalf("%q changed a rule-less task: %+v", k, got)
		}
	}
}

func TestTodayToggleDone(t *testing.T) {
	s := newTestStore(t)
	task := createTask(t, s, "Iron")
	d := loadedToday(t, s)

	d, cmd := d.update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("toggle should emit a status")
	}
	got, _ := d.day.Task(task.ID)
	if !got.IsCompleted {
		t.Fatal("task should be completed")
	}

	d, _ = d.update(tea.KeyMsg{Type: tea.KeySpace})
	got, _ = d.day.Task(task.ID)
	if got.IsCompleted {
		t.Fatal("second toggle should clear completion")
	}
}

func TestTodayHidesCompleted(t *testing.T) {
	s := newTestStore(t)
	createTask(t, s, "Iron")
	createTask(t, s, "Zinc")
	s.SetSetting("show_completed", "false")

	d := loadedToday(t, s)
	if d.showDone {
		t.Fatal("show_completed=false should hide done tasks")
	}
	d, _ = d.update(tea.KeyMsg{Type: tea.KeySpace})
	if n := len(d.visible()); n != 1 {
		t.Fatalf("expected 1 visible task, got %d", n)
	}
	if d.cursor != 0 {
		t.Fatalf("cursor should be clamped, got %d", d.cursor)
	}
}

func TestTodayDateNavigation(t *testing.T) {
	s := newTestStore(t)
	d := loadedToday(t, s)
	today := d.date

	d, cmd := d.update(tea.KeyMsg{Type: tea.KeyLeft})
	if d.date != shiftDate(today, -1) {
		t.Fatalf("left should go to yesterday, got %s", d.date)
	}
	if cmd == nil || d.day != nil {
		t.Fatal("changing date should clear and reload the day")
	}

	// A stale load for another date is ignored.
	d, _ = d.update(dayLoadedMsg{day: &condition.Day{Date: today}})
	if d.day != nil {
		t.Fatal("stale day should be ignored")
	}

	d, _ = d.update(tea.KeyMsg{Type: tea.KeyRight})
	d, _ = d.update(tea.KeyMsg{Type: tea.KeyRight})
	if d.date != shiftDate(today, 1) {
		t.Fatalf("expected tomorrow, got %s", d.date)
	}

	d, _ = d.update(runeKey("t"))
	if d.date != today {
		t.Fatalf("t should jump back to today, got %s", d.date)
	}
}

func TestTodayRollsOverAtMidnight(t *testing.T) {
	s := newTestStore(t)
	d := newTodayModel(s)
	d.today = "2000-01-01"
	d.date = "2000-01-01"

	d, cmd := d.update(tickMsg(time.Now()))
	if d.date != store.Today() || d.today != store.Today() {
		t.Fatalf("date should follow the clock, got %s", d.date)
	}
	if cmd == nil {
		t.Fatal("rollover should reload the day")
	}

	// A browsed date is left alone.
	d.today = "2000-01-01"
	d.date = "1999-12-31"
	d, _ = d.update(tickMsg(time.Now()))
	if d.date != "1999-12-31" {
		t.Fatalf("browsed date should not change, got %s", d.date)
	}
}

func TestTodayView(t *testing.T) {
	s := newTestStore(t)
	createTask(t, s, "Iron")
	d := loadedToday(t, s)

	out := d.view()
	for _, want := range []string{"Iron", "skipped", "No metrics recorded"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	d, _ = d.update(runeKey("v"))
	if !d.verbose {
		t.Fatal("v should toggle details")
	}
	if !containsString(d.view(), "energy < 5") {
		t.Error("details should describe the rules")
	}
}

func TestTodayViewEmpty(t *testing.T) {
	s := newTestStore(t)
	d := loadedToday(t, s)
	if !containsString(d.view(), "No tasks yet") {
		t.Fatal("empty view should hint at creating tasks")
	}
}

// ============================================================
// Tasks model
// ============================================================

func TestParseRuleText(t *testing.T) {
	rules, err := parseRuleText("mood < 5\n\nOR energy >= 7\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[1].LogicOperator != condition.LogicOr {
		t.Fatalf("second rule should be OR, got %q", rules[1].LogicOperator)
	}

	if rules, err := parseRuleText(""); err != nil || len(rules) != 0 {
		t.Fatalf("empty text should give no rules: %v %v", rules, err)
	}
}

func TestParseRuleTextInvalid(t *testing.T) {
	tests := []string{
		"mood <",
		"weather < 5",
		"exercise > true",
		"exercise = 1",
	}
	for _, text := range tests {
		if _, err := parseRuleText(text); err == nil {
			t.Errorf("parseRuleText(%q) should fail", text)
		}
	}
}

func TestFormatRuleTextRoundTrip(t *testing.T) {
	text := "mood < 5\nOR exercise = false\nAND sleep >= 7.5"
	rules, err := parseRuleText(text)
	if err != nil {
		t.Fatal(err)
	}
	if got := formatRuleText(rules); got != text {
		t.Fatalf("formatRuleText = %q, want %q", got, text)
	}
}

func TestValidateTaskName(t *testing.T) {
	if validateTaskName("  ") == nil {
		t.Fatal("blank name should fail")
	}
	if validateTaskName("Iron") != nil {
		t.Fatal("valid name should pass")
	}
}

func TestTasksSaveForm(t *testing.T) {
	s := newTestStore(t)
	p := newTasksModel(s)

	*p.formName = "  Magnesium "
	*p.formKind = "routine"
	*p.formRules = "sleep < 7"
	*p.formDefault = true
	p.formType = "new"
	if cmd := p.saveForm(); cmd == nil {
		t.Fatal("save should return a command")
	}

	tasks, _ := s.ListTasks(false)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Name != "Magnesium" || got.Kind != condition.KindRoutine || !got.DefaultActive {
		t.Fatalf("unexpected task: %+v", got)
	}
	if len(got.Rules) != 1 || got.Rules[0].Metric != condition.MetricSleep {
		t.Fatalf("unexpected rules: %+v", got.Rules)
	}

	// Edit keeps the id.
	p.formType = "edit"
	p.editingID = got.ID
	*p.formName = "Magnesium glycinate"
	*p.formRules = ""
	p.saveForm()
	edited, _ := s.GetTask(got.ID)
	if edited.Name != "Magnesium glycinate" || len(edited.Rules) != 0 {
		t.Fatalf("edit not applied: %+v", edited)
	}
}

func TestTasksSaveFormRejectsBadRules(t *testing.T) {
	s := newTestStore(t)
	p := newTasksModel(s)
	*p.formName = "Iron"
	*p.formRules = "energy ~ 5"
	p.formType = "new"

	msg := p.saveForm()()
	sm, ok := msg.(statusMsg)
	if !ok || !sm.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
	tasks, _ := s.ListTasks(false)
	if len(tasks) != 0 {
		t.Fatal("invalid task should not be saved")
	}
}

func TestTasksArchive(t *testing.T) {
	s := newTestStore(t)
	createTask(t, s, "Iron")
	p := newTasksModel(s)
	p, _ = p.update(p.refresh()())
	if len(p.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(p.tasks))
	}

	p, cmd := p.update(runeKey("d"))
	if cmd == nil {
		t.Fatal("archive should return a command")
	}
	tasks, _ := s.ListTasks(false)
	if len(tasks) != 0 {
		t.Fatal("task should be archived")
	}
}

func TestTasksView(t *testing.T) {
	s := newTestStore(t)
	p := newTasksModel(s)
	p.setSize(120, 40)
	if !containsString(p.view(), "No tasks yet") {
		t.Fatal("empty list should hint at creating tasks")
	}

	createTask(t, s, "Iron")
	p, _ = p.update(p.refresh()())
	if !containsString(p.view(), "Iron") {
		t.Fatal("list should show the task")
	}
}

// ============================================================
// Journal model
// ============================================================

func TestParseSleep(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"7.5", 7.5, false},
		{" 8h ", 8, false},
		{"abc", 0, true},
		{"25", 0, true},
		{"-1", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSleep(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSleep(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSleep(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRatingBar(t *testing.T) {
	bar := ratingBar(3)
	if strings.Count(bar, "■") != 3 || strings.Count(bar, "□") != 7 {
		t.Fatalf("unexpected bar %q", bar)
	}
	if !containsString(bar, " 3") {
		t.Fatal("bar should end with the number")
	}
	if strings.Count(ratingBar(15), "■") != 10 {
		t.Fatal("rating should clamp to 10")
	}
}

func TestJournalSaveReevaluates(t *testing.T) {
	s := newTestStore(t)
	task := createTask(t, s, "Iron")

	j := newJournalModel(s)
	*j.mood, *j.energy, *j.productivity = 6, 3, 7
	*j.sleep = "6.5"
	*j.exercise = true
	*j.notes = " tired "

	j, cmd := j.save()
	if cmd == nil {
		t.Fatal("save should return a command")
	}
	if j.entry == nil || j.entry.Energy != 3 {
		t.Fatalf("entry not stored on model: %+v", j.entry)
	}

	e, err := s.GetDailyEntry(j.date)
	if err != nil || e == nil {
		t.Fatalf("entry not persisted: %v", err)
	}
	if e.Sleep != 6.5 || !e.Exercise || e.Notes != "tired" {
		t.Fatalf("unexpected entry: %+v", e)
	}

	day, err := condition.LoadForDate(s, j.date)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := day.Task(task.ID)
	if !got.IsActive || got.IsSkipped {
		t.Fatalf("energy 3 < 5 should activate the task: %+v", got)
	}
}

func TestJournalSaveRejectsBadSleep(t *testing.T) {
	s := newTestStore(t)
	j := newJournalModel(s)
	*j.sleep = "lots"

	_, cmd := j.save()
	sm, ok := cmd().(statusMsg)
	if !ok || !sm.isError {
		t.Fatal("bad sleep should produce an error status")
	}
	if e, _ := s.GetDailyEntry(j.date); e != nil {
		t.Fatal("nothing should be saved")
	}
}

func TestJournalDelete(t *testing.T) {
	s := newTestStore(t)
	j := newJournalModel(s)
	*j.sleep = "8"
	j, _ = j.save()

	j, cmd := j.update(runeKey("d"))
	if cmd == nil || j.entry != nil {
		t.Fatal("delete should clear the entry")
	}
	if e, _ := s.GetDailyEntry(j.date); e != nil {
		t.Fatal("entry should be deleted")
	}
}

func TestJournalView(t *testing.T) {
	s := newTestStore(t)
	j := newJournalModel(s)
	j.setSize(120, 40)
	j, _ = j.update(j.refresh()())
	if !containsString(j.view(), "Nothing logged") {
		t.Fatal("empty journal should say nothing is logged")
	}

	*j.sleep = "7"
	j, _ = j.save()
	out := j.view()
	for _, want := range []string{"Mood", "Sleep", "7h"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

// ============================================================
// Reports model
// ============================================================

func TestReportsDateRange(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s)
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.Local) // Friday

	tests := []struct {
		name      string
		mode      reportMode
		offset    int
		weekStart time.Weekday
		from, to  string
	}{
		{"recent", reportRecent, 0, time.Monday, "2026-10-10", "2026-10-17"},
		{"recent previous", reportRecent, 1, time.Monday, "2026-10-03", "2026-10-10"},
		{"week from monday", reportWeekly, 0, time.Monday, "2026-10-12", "2026-10-19"},
		{"week from sunday", reportWeekly, 0, time.Sunday, "2026-10-11", "2026-10-18"},
		{"previous week", reportWeekly, 1, time.Monday, "2026-10-05", "2026-10-12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.mode = tt.mode
			r.offset = tt.offset
			r.weekStart = tt.weekStart
			from, to := r.dateRange(now)
			if got := from.Format(store.DateLayout); got != tt.from {
				t.Errorf("from = %s, want %s", got, tt.from)
			}
			if got := to.Format(store.DateLayout); got != tt.to {
				t.Errorf("to = %s, want %s", got, tt.to)
			}
		})
	}
}

func TestReportsLoadsSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("report_days", "14")
	s.SetSetting("week_start", "sunday")
	s.SetSetting("sleep_goal", "7.5")

	r := newReportsModel(s)
	if r.days != 14 || r.weekStart != time.Sunday || r.sleepGoal != 7.5 {
		t.Fatalf("settings not loaded: days=%d weekStart=%v goal=%v", r.days, r.weekStart, r.sleepGoal)
	}
}

func TestReportsRefreshAndView(t *testing.T) {
	s := newTestStore(t)
	createTask(t, s, "Iron")
	if _, err := s.SaveDailyEntry(store.DailyEntry{Date: store.Today(), Mood: 5, Energy: 3, Productivity: 5, Sleep: 6}); err != nil {
		t.Fatal(err)
	}
	if _, err := condition.LoadForDate(s, store.Today()); err != nil {
		t.Fatal(err)
	}

	r := newReportsModel(s)
	r.setSize(120, 40)
	r, _ = r.update(r.refresh()())
	if len(r.summaries) != 1 || r.summaries[0].Active != 1 {
		t.Fatalf("unexpected summaries: %+v", r.summaries)
	}
	if _, ok := r.entries[store.Today()]; !ok {
		t.Fatal("today's entry should be loaded")
	}

	out := r.view()
	for _, want := range []string{"Reports", store.Today(), "0/1"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReportsNavigation(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s)

	r, _ = r.update(tea.KeyMsg{Type: tea.KeyLeft})
	if r.offset != 1 {
		t.Fatalf("left should go back one period, got %d", r.offset)
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	if r.offset != 0 {
		t.Fatalf("offset should not go below 0, got %d", r.offset)
	}

	r.offset = 2
	r, _ = r.update(runeKey("v"))
	if r.mode != reportWeekly || r.offset != 0 {
		t.Fatal("v should switch to weekly and reset the offset")
	}
}

// ============================================================
// Settings helpers
// ============================================================

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"sleep_goal", "8", "8 hours"},
		{"sleep_goal", "7.5", "7.5 hours"},
		{"report_days", "7", "7 days"},
		{"show_completed", "true", "show"},
		{"show_completed", "false", "hide"},
		{"week_start", "monday", "monday"},
		{"sleep_goal", "invalid", "invalid"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

func TestSettingsValidators(t *testing.T) {
	for _, v := range []string{"8", "7.5", " 6 "} {
		if err := validateSleepGoal(v); err != nil {
			t.Errorf("validateSleepGoal(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"", "0", "25", "x", "NaN", "+Inf"} {
		if validateSleepGoal(v) == nil {
			t.Errorf("validateSleepGoal(%q) should fail", v)
		}
	}
	for _, v := range []string{"1", "31"} {
		if err := validateReportDays(v); err != nil {
			t.Errorf("validateReportDays(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"0", "32", "1.5"} {
		if validateReportDays(v) == nil {
			t.Errorf("validateReportDays(%q) should fail", v)
		}
	}
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s, config.Default(t.TempDir()))
	*m.sleepGoal = " 7 "
	*m.showCompleted = "false"
	*m.weekStart = "sunday"
	*m.reportDays = "14"

	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}
	if v := s.GetSettingOr("sleep_goal", ""); v != "7" {
		t.Fatalf("sleep_goal = %q", v)
	}
	if s.GetSettingBool("show_completed", true) {
		t.Fatal("show_completed should be false")
	}
	if s.GetSettingInt("report_days", 0) != 14 {
		t.Fatal("report_days should be 14")
	}
}

func TestSettingsViewShowsConfig(t *testing.T) {
	s := newTestStore(t)
	cfg := config.Default(t.TempDir())
	m := newSettingsModel(s, cfg)
	m.setSize(200, 40)
	m, _ = m.update(m.refresh()())

	out := m.view()
	for _, want := range []string{"sleep_goal", "week_start", "db_path", "log_level"} {
		if !containsString(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.activeView != viewToday {
		t.Fatal("default view should be today")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _ := newTestApp(t)

	views := []viewState{viewToday, viewTasks, viewJournal, viewReports, viewSettings}
	for _, v := range views {
		app.activeView = v
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, _ := newTestApp(t)
	app.today.date = "2026-01-05"

	model, cmd := app.Update(runeKey("3"))
	app = model.(App)
	if app.activeView != viewJournal {
		t.Fatalf("3 should open the journal, got %d", app.activeView)
	}
	if app.journal.date != "2026-01-05" {
		t.Fatalf("journal should follow the today date, got %s", app.journal.date)
	}
	if cmd == nil {
		t.Fatal("switching view should refresh it")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewReports {
		t.Fatalf("tab should cycle to reports, got %d", app.activeView)
	}

	app.activeView = viewSettings
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewToday {
		t.Fatal("tab should wrap to today")
	}
}

func TestAppEntrySavedReloadsToday(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(entrySavedMsg{date: app.today.date})
	if cmd == nil {
		t.Fatal("entry for the shown day should reload it")
	}
	_, cmd = app.Update(entrySavedMsg{date: "1999-01-01"})
	if cmd != nil {
		t.Fatal("entry for another day should be ignored")
	}
}

func TestAppSettingsSavedUpdatesToday(t *testing.T) {
	app, s := newTestApp(t)
	s.SetSetting("show_completed", "false")

	model, _ := app.Update(settingsSavedMsg{})
	app = model.(App)
	if app.today.showDone {
		t.Fatal("today should pick up show_completed")
	}
}

func TestAppExport(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(runeKey("e"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !containsString(app.View(), "JSON") {
		t.Fatal("picker should list formats")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(App)
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and export")
	}

	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("export should succeed")
	}
	if !strings.HasSuffix(done.path, ".json") {
		t.Fatalf("expected json export, got %s", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	model, _ = app.Update(done)
	app = model.(App)
	if !containsString(app.renderFooter(), "Exported to") {
		t.Fatal("footer should report the export")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !containsString(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
	if !containsString(header, "habitr") {
		t.Fatal("header should show the app name")
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, config.Default(t.TempDir()))
	// Width 0 means not yet sized
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)
	if !containsString(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppQuit(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should not be empty")
	}
	if len(keys.FullHelp()) == 0 {
		t.Fatal("full help should not be empty")
	}
}

func TestStateStyleCoversAllStates(t *testing.T) {
	for _, st := range []condition.State{condition.AutoActive, condition.AutoSkipped, condition.OverriddenActive, condition.OverriddenSkipped} {
		if stateStyle(st).Render(st.String()) == "" {
			t.Fatalf("state %v rendered empty", st)
		}
	}
}

func containsString(s, substr string) bool {
	return len(s) > 0 && len(substr) > 0 && strings.Contains(s, substr)
}

func TestAppConfigReloaded(t *testing.T) {
	app, _ := newTestApp(t)
	dbPath := app.cfg.DBPath

	cfg := app.cfg
	cfg.LogLevel = "debug"
	cfg.ExportDir = t.TempDir()
	model, cmd := app.Update(ConfigReloadedMsg{Config: cfg})
	app = model.(App)
	if app.cfg.ExportDir != cfg.ExportDir || app.settings.cfg.LogLevel != "debug" {
		t.Fatalf("config not applied: %+v", app.cfg)
	}
	if sm, ok := cmd().(statusMsg); !ok || sm.text != "Config reloaded" {
		t.Fatalf("unexpected status %#v", sm)
	}

	cfg.DBPath = "/elsewhere/habitr.db"
	model, cmd = app.Update(ConfigReloadedMsg{Config: cfg})
	app = model.(App)
	if app.cfg.DBPath != dbPath {
		t.Fatal("db_path must not change while running")
	}
	if sm, _ := cmd().(statusMsg); !strings.Contains(sm.text, "restart") {
		t.Fatalf("expected restart hint, got %q", sm.text)
	}
}
