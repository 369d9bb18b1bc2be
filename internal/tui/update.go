package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/tracker"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateAddHabit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case DashboardMsg:
		m.setDashboard(tracker.Dashboard(msg))
		m.reloadMonth()
		return m, nil

	case toggledMsg:
		if msg.done {
			m.notice = fmt.Sprintf("✓ %s done", msg.title)
		} else {
			m.notice = fmt.Sprintf("○ %s not done", msg.title)
		}
		m.reload()
		if len(msg.tiers) > 0 {
			m.notice = "🏆 " + tracker.UnlockMessage(msg.tiers)
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = cycle(m.state, 1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = cycle(m.state, -1)
		return m, nil
	}

	switch m.state {
	case StateToday:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.dashboard.Habits)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if hd, ok := m.selected(); ok {
				return m, m.toggle(hd.Habit)
			}
		case key.Matches(msg, m.keys.Add):
			m.habitForm = &HabitFormModel{Icon: models.IconZap, Color: models.ColorBlue, Target: "1"}
			m.form = NewHabitForm(m.habitForm)
			m.state = StateAddHabit
			m.err = nil
			return m, m.form.Init()
		}
	case StateCalendar, StateInsights:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.shiftMonth(-1)
		case key.Matches(msg, m.keys.Right):
			m.shiftMonth(1)
		}
	}
	return m, nil
}

func cycle(s State, step int) State {
	for i, v := range views {
		if v == s {
			return views[(i+step+len(views))%len(views)]
		}
	}
	return StateToday
}

// toggle flips today's completion and awards any tier the new streak reaches.
func (m Model) toggle(h models.Habit) tea.Cmd {
	tr, userID := m.tracker, m.userID
	return func() tea.Msg {
		today := tr.Today()
		done, err := tr.ToggleCompletion(userID, h.ID, today)
		if err != nil {
			return errMsg{err}
		}
		tiers, err := tr.AwardAchievements(userID, today)
		if err != nil {
			return errMsg{err}
		}
		return toggledMsg{title: h.Title, done: done, tiers: tiers}
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit, err := m.habitForm.habit(m.tracker.Today())
		if err == nil {
			err = m.store.AddHabit(m.userID, habit)
		}
		if err != nil {
			logger.Warn("failed to add habit from dashboard", "error", err)
			m.err = err
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.notice = "Added " + habit.Title
		m.state = StateToday
		m.reload()
	case huh.StateAborted:
		m.state = StateToday
	}
	return m, cmd
}

func (f HabitFormModel) habit(today date.Date) (models.Habit, error) {
	target := 0
	if s := strings.TrimSpace(f.Target); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return models.Habit{}, fmt.Errorf("goal target must be a whole number")
		}
		target = n
	}
	h := models.Habit{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(f.Title),
		Icon:      f.Icon,
		Color:     f.Color,
		Category:  strings.TrimSpace(f.Category),
		Goal:      models.Goal{Type: models.GoalReps, Target: target, Unit: strings.TrimSpace(f.Unit)},
		Repeat:    models.Repeat{Frequency: models.FrequencyDaily},
		StartDate: today,
		CreatedAt: time.Now().UTC(),
	}
	h.Normalize()
	return h, h.Validate()
}
