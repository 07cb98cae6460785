package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/condition"
)

// Palette: green for what is due today, slate for what is not, amber for
// manual decisions.
var (
	colorPrimary   = lipgloss.Color("#3FB68B")
	colorSecondary = lipgloss.Color("#5FA8D3")
	colorAccent    = lipgloss.Color("#E07A5F")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#7BD389")
	colorWarning   = lipgloss.Color("#F2C14E")
	colorError     = lipgloss.Color("#D1495B")
	colorFg        = lipgloss.Color("#E5E7EB")
	colorSubtle    = lipgloss.Color("#374151")
	colorHighlight = lipgloss.Color("#A5D8FF")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

var (
	activeTabStyle = fg(colorPrimary).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = boxed(colorSubtle)
	activePanelStyle = boxed(colorPrimary)

	titleStyle     = fg(colorFg).Bold(true)
	subtitleStyle  = fg(colorSecondary)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)

	stateActiveStyle   = fg(colorSuccess).Bold(true)
	stateSkippedStyle  = fg(colorMuted).Faint(true)
	stateOverrideStyle = fg(colorWarning).Bold(true).Italic(true)
)

// stateStyle colors a task state badge. Overrides share one color whichever
// way they were forced.
func stateStyle(s condition.State) lipgloss.Style {
	switch s {
	case condition.AutoActive:
		return stateActiveStyle
	case condition.OverriddenActive, condition.OverriddenSkipped:
		return stateOverrideStyle
	}
	return stateSkippedStyle
}
