package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/engine"
	"github.com/julianstephens/betteryou/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	partialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	todayStyle = lipgloss.NewStyle().Underline(true)

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

// habitColors maps habit colors to ANSI 256 palette entries.
var habitColors = map[models.Color]lipgloss.Color{
	models.ColorBlue:   lipgloss.Color("33"),
	models.ColorGreen:  lipgloss.Color("42"),
	models.ColorRed:    lipgloss.Color("196"),
	models.ColorYellow: lipgloss.Color("220"),
	models.ColorPurple: lipgloss.Color("135"),
	models.ColorPink:   lipgloss.Color("205"),
	models.ColorTeal:   lipgloss.Color("37"),
}

func Title(s string) string { return titleStyle.Render(s) }

func Muted(s string) string { return mutedStyle.Render(s) }

func Quote(s string) string { return quoteStyle.Render(s) }

// Colored renders s in the habit color c.
func Colored(c models.Color, s string) string {
	color, ok := habitColors[c]
	if !ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Render(s)
}

// Check is the completion marker shown next to a habit.
func Check(done bool) string {
	if done {
		return completeStyle.Render("✓")
	}
	return mutedStyle.Render("○")
}

// StatusLabel renders a day status for list output.
func StatusLabel(s engine.Status) string {
	switch s {
	case engine.StatusComplete:
		return completeStyle.Render("complete")
	case engine.StatusPartial:
		return partialStyle.Render("partial")
	default:
		return mutedStyle.Render("none")
	}
}

// Bar draws a percentage as a fixed-width bar.
func Bar(percentage, width int) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	filled := percentage * width / 100
	return completeStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

// RenderCalendar lays a month grid out in week rows. Consecutive complete
// days in the same row are joined with a bar.
func RenderCalendar(grid []engine.GridDay, year int, month time.Month, today date.Date) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %d", month, year)
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(header))

	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(engine.WeekStart) + i) % 7)
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(mutedStyle.Render(wd.String()[:2]))
	}
	b.WriteString("\n")

	col := engine.Leading(grid)
	b.WriteString(strings.Repeat("   ", col))

	for _, g := range grid {
		b.WriteString(cell(g, today))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
			continue
		}
		if g.ConnectsRight {
			b.WriteString(completeStyle.Render("━"))
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func cell(g engine.GridDay, today date.Date) string {
	text := fmt.Sprintf("%2d", g.Day)
	var style lipgloss.Style
	switch g.Status {
	case engine.StatusComplete:
		style = completeStyle
	case engine.StatusPartial:
		style = partialStyle
	default:
		style = mutedStyle
	}
	if g.Date == today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(text)
}
