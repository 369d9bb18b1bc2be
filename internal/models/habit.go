package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/utils"
)

type GoalType string

const (
	GoalReps      GoalType = "reps"
	GoalDuration  GoalType = "duration"
	GoalSteps     GoalType = "steps"
	GoalChecklist GoalType = "checklist"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Icon is the closed set of habit icons the presentation layer knows how to draw.
type Icon string

const (
	IconZap     Icon = "zap"
	IconBook    Icon = "book"
	IconCoffee  Icon = "coffee"
	IconDroplet Icon = "droplet"
	IconMoon    Icon = "moon"
	IconSun     Icon = "sun"
)

var Icons = []Icon{IconZap, IconBook, IconCoffee, IconDroplet, IconMoon, IconSun}

type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorTeal   Color = "teal"
)

var Colors = []Color{ColorBlue, ColorGreen, ColorRed, ColorYellow, ColorPurple, ColorPink, ColorTeal}

type Goal struct {
	Type   GoalType `json:"type"`
	Target int      `json:"target"`
	Unit   string   `json:"unit"`
}

// Repeat describes how often a habit is due. Days is only meaningful for
// weekly habits and is not consulted when deciding whether a habit is active.
type Repeat struct {
	Frequency Frequency      `json:"frequency"`
	Days      []time.Weekday `json:"days,omitempty"`
}

type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Habit represents a recurring practice to track
type Habit struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Icon         Icon               `json:"icon"`
	Color        Color              `json:"color"`
	Category     string             `json:"category,omitempty"`
	Goal         Goal               `json:"goal"`
	Repeat       Repeat             `json:"repeat"`
	Subtasks     map[string]Subtask `json:"subtasks,omitempty"`
	StartDate    date.Date          `json:"start_date"`
	EndDate      *date.Date         `json:"end_date,omitempty"`
	ReminderTime string             `json:"reminder_time,omitempty"` // HH:MM format
	CreatedAt    time.Time          `json:"created_at"`
	DeletedAt    *time.Time         `json:"deleted_at,omitempty"`
}

// CategoryOrDefault returns the habit's category, falling back to "General".
func (h Habit) CategoryOrDefault() string {
	if strings.TrimSpace(h.Category) == "" {
		return constants.DefaultCategory
	}
	return h.Category
}

// IsActiveOn reports whether d falls inside the habit's [StartDate, EndDate]
// range. A zero StartDate places no lower bound.
func (h Habit) IsActiveOn(d date.Date) bool {
	if !h.StartDate.IsZero() && h.StartDate.After(d) {
		return false
	}
	if h.EndDate != nil && !h.EndDate.IsZero() && h.EndDate.Before(d) {
		return false
	}
	return true
}

// Normalize fills in defaults for missing or malformed goal and repeat data.
func (h *Habit) Normalize() {
	if h.Goal.Target < 0 {
		h.Goal.Target = 0
	}
	switch h.Repeat.Frequency {
	case FrequencyDaily, FrequencyWeekly:
	default:
		h.Repeat.Frequency = FrequencyDaily
	}
	if h.Icon == "" {
		h.Icon = IconZap
	}
	if h.Color == "" {
		h.Color = ColorBlue
	}
}

// GoalLabel renders the goal as e.g. "10 pages".
func (h Habit) GoalLabel() string {
	if h.Goal.Target == 0 && h.Goal.Unit == "" {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", h.Goal.Target, h.Goal.Unit))
}

// Validate checks the fields a habit cannot be stored without.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("habit title is required")
	}
	if !validIcon(h.Icon) {
		return fmt.Errorf("unknown icon %q", h.Icon)
	}
	if !validColor(h.Color) {
		return fmt.Errorf("unknown color %q", h.Color)
	}
	switch h.Goal.Type {
	case "", GoalReps, GoalDuration, GoalSteps, GoalChecklist:
	default:
		return fmt.Errorf("unknown goal type %q", h.Goal.Type)
	}
	if h.StartDate.IsZero() {
		return fmt.Errorf("habit start date is required")
	}
	if h.EndDate != nil && !h.EndDate.IsZero() && h.EndDate.Before(h.StartDate) {
		return fmt.Errorf("end date %s is before start date %s", h.EndDate, h.StartDate)
	}
	return utils.ValidateReminderTime(h.ReminderTime)
}

func validIcon(i Icon) bool {
	for _, known := range Icons {
		if i == known {
			return true
		}
	}
	return false
}

func validColor(c Color) bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}
