package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
)

type reportMode int

const (
	reportRecent reportMode = iota
	reportWeekly
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	mode      reportMode
	offset    int // periods back from the current one (0 = current)
	days      int // length of the recent period, from report_days
	weekStart time.Weekday
	sleepGoal float64

	summaries []store.CompletionSummary
	entries   map[string]store.DailyEntry

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	r := reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
	r.loadSettings()
	return r
}

func (r *reportsModel) loadSettings() {
	r.days = r.store.GetSettingInt("report_days", 7)
	if r.days < 1 {
		r.days = 7
	}
	r.weekStart = time.Monday
	if r.store.GetSettingOr("week_start", "monday") == "sunday" {
		r.weekStart = time.Sunday
	}
	r.sleepGoal, _ = strconv.ParseFloat(r.store.GetSettingOr("sleep_goal", "8"), 64)
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	summaries []store.CompletionSummary
	entries   []store.DailyEntry
}

func (r reportsModel) refresh() tea.Cmd {
	r.loadSettings()
	from, to := r.dateRange(time.Now())
	fromStr, toStr := from.Format(store.DateLayout), to.Format(store.DateLayout)
	return func() tea.Msg {
		summaries, _ := r.store.GetCompletionSummary(fromStr, toStr)
		entries, _ := r.store.ListDailyEntries(store.EntryFilter{From: fromStr, To: toStr})
		return reportsDataMsg{summaries: summaries, entries: entries}
	}
}

// dateRange returns [from, to) for the current mode and offset.
func (r reportsModel) dateRange(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch r.mode {
	case reportWeekly:
		back := (int(today.Weekday()) - int(r.weekStart) + 7) % 7
		start := today.AddDate(0, 0, -back-7*r.offset)
		return start, start.AddDate(0, 0, 7)
	default:
		end := today.AddDate(0, 0, 1-r.days*r.offset)
		return end.AddDate(0, 0, -r.days), end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.loadSettings()
		r.summaries = msg.summaries
		r.entries = make(map[string]store.DailyEntry, len(msg.entries))
		for _, e := range msg.entries {
			r.entries[e.Date] = e
		}
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Details):
			if r.mode == reportRecent {
				r.mode = reportWeekly
			} else {
				r.mode = reportRecent
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r reportsModel) summary(date string) (store.CompletionSummary, bool) {
	for _, s := range r.summaries {
		if s.Date == date {
			return s, true
		}
	}
	return store.CompletionSummary{}, false
}

// buildChart draws one stacked bar per day: completed tasks, then active
// tasks still open, then skipped tasks.
func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	doneStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	openStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	skipStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	from, to := r.dateRange(time.Now())
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		label := d.Format("Mon 02")
		s, ok := r.summary(d.Format(store.DateLayout))

		values := []barchart.BarValue{{Name: "", Value: 0, Style: skipStyle}}
		if ok {
			open := max(s.Active-s.Completed, 0)
			values = []barchart.BarValue{
				{Name: "Done", Value: float64(s.Completed), Style: doneStyle},
				{Name: "Open", Value: float64(open), Style: openStyle},
				{Name: "Skipped", Value: float64(s.Skipped), Style: skipStyle},
			}
		}
		bars = append(bars, barchart.BarData{Label: label, Values: values})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	// Mode tabs
	recentTab := inactiveTabStyle.Render(fmt.Sprintf("Last %d days", r.days))
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportRecent {
		recentTab = activeTabStyle.Render(fmt.Sprintf("Last %d days", r.days))
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, recentTab, weeklyTab)

	from, to := r.dateRange(time.Now())
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	legend := "  " + successStyle.Render("● done") + "  " +
		lipgloss.NewStyle().Foreground(colorPrimary).Render("● open") + "  " +
		lipgloss.NewStyle().Foreground(colorSubtle).Render("● skipped")

	nav := mutedStyle.Render("  ←/→: navigate  v: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", legend, "", r.renderTable(w, from, to), "", nav,
		),
	)
}

func (r reportsModel) renderTable(w int, from, to time.Time) string {
	if len(r.summaries) == 0 && len(r.entries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %5s %7s %6s %7s %4s  %s",
		"Date", "Mood", "Energy", "Prod", "Sleep", "Ex", "Done"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(store.DateLayout)
		e, hasEntry := r.entries[date]
		s, hasSummary := r.summary(date)
		if !hasEntry && !hasSummary {
			continue
		}

		metrics := mutedStyle.Render(fmt.Sprintf("%5s %7s %6s %7s %4s", "-", "-", "-", "-", "-"))
		if hasEntry {
			sleep := fmt.Sprintf("%7s", formatHours(e.Sleep))
			if r.sleepGoal > 0 && e.Sleep < r.sleepGoal {
				sleep = warningStyle.Render(sleep)
			}
			ex := "no"
			if e.Exercise {
				ex = "yes"
			}
			metrics = fmt.Sprintf("%5d %7d %6d %s %4s", e.Mood, e.Energy, e.Productivity, sleep, ex)
		}

		done := mutedStyle.Render("-")
		if hasSummary {
			done = fmt.Sprintf("%d/%d", s.Completed, s.Active)
		}
		rows = append(rows, fmt.Sprintf("  %-12s %s  %s", date, metrics, done))
	}

	return strings.Join(rows, "\n")
}
