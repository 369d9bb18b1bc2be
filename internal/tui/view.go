package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/engine"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateCalendar:
		content = cli.RenderCalendar(m.grid, m.year, m.month, m.tracker.Today())
	case StateInsights:
		content = m.viewInsights()
	case StateAddHabit:
		content = m.form.View()
	}

	var status string
	if m.err != nil {
		status = dangerStyle.Render("Error: " + m.err.Error())
	} else if m.notice != "" {
		status = noticeStyle.Render(m.notice)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		content,
		status,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(views))
	for i, v := range views {
		if v == m.state || (m.state == StateAddHabit && v == StateToday) {
			tabs[i] = activeTabStyle.Render(v.String())
		} else {
			tabs[i] = inactiveTabStyle.Render(v.String())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	d := m.dashboard
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", cli.Title(d.Today.Time().Format("Monday, January 2")), cli.StatusLabel(d.Status))
	fmt.Fprintf(&b, "🔥 %d day streak\n\n", d.Streak)

	if len(d.Habits) == 0 {
		b.WriteString(cli.Muted("Nothing scheduled today. Press a to add a habit.") + "\n")
	}
	for i, hd := range d.Habits {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		line := pointer + cli.Check(hd.Completed) + " " + cli.Colored(hd.Habit.Color, hd.Habit.Title)
		if goal := hd.Habit.GoalLabel(); goal != "" {
			line += " " + cli.Muted(goal)
		}
		b.WriteString(line + "\n")
	}

	if d.Quote.Text != "" {
		fmt.Fprintf(&b, "\n%s\n", cli.Quote(fmt.Sprintf("%q - %s", d.Quote.Text, d.Quote.Author)))
	}
	return b.String()
}

func (m Model) viewInsights() string {
	ins := m.insights
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", cli.Title(fmt.Sprintf("%s %d", m.month, m.year)))
	fmt.Fprintf(&b, "%s %3d%%  %s\n\n", cli.Bar(ins.Summary.Percentage, 20), ins.Summary.Percentage,
		cli.Muted(fmt.Sprintf("%d/%d", ins.Summary.Completed, ins.Summary.Total)))

	for _, s := range ins.Categories {
		fmt.Fprintf(&b, "%s %-14s %s %3d%%\n", cli.Colored(s.Color, "●"), s.Category, cli.Bar(s.Percentage, 10), s.Percentage)
	}

	b.WriteString("\n")
	for _, tier := range engine.Tiers {
		if day, ok := m.dashboard.Achievements[tier.ID]; ok {
			fmt.Fprintf(&b, "🏆 %s %s\n", tier.Label, cli.Muted(day.String()))
		} else {
			fmt.Fprintf(&b, "%s %s\n", cli.Check(false), cli.Muted(tier.Label))
		}
	}
	return b.String()
}
