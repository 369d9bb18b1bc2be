// Package tui is the interactive dashboard. It redraws whenever the user's
// data changes, whether the change came from this process or another one.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/engine"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
	"github.com/julianstephens/betteryou/internal/tracker"
)

type State int

const (
	StateToday State = iota
	StateCalendar
	StateInsights
	StateAddHabit
)

// views are the tabs cycled with tab and shift+tab.
var views = []State{StateToday, StateCalendar, StateInsights}

func (s State) String() string {
	switch s {
	case StateToday:
		return "Today"
	case StateCalendar:
		return "Calendar"
	case StateInsights:
		return "Insights"
	case StateAddHabit:
		return "Add Habit"
	}
	return ""
}

type HabitFormModel struct {
	Title    string
	Category string
	Icon     models.Icon
	Color    models.Color
	Target   string
	Unit     string
}

// DashboardMsg carries a dashboard computed outside the program, typically
// by Tracker.Watch.
type DashboardMsg tracker.Dashboard

type toggledMsg struct {
	title string
	done  bool
	tiers []engine.Tier
}

type errMsg struct{ err error }

type Model struct {
	store   storage.Provider
	tracker *tracker.Tracker
	userID  string

	state State
	keys  KeyMap
	help  help.Model

	dashboard tracker.Dashboard
	cursor    int
	year      int
	month     time.Month
	grid      []engine.GridDay
	insights  tracker.Insights

	form      *huh.Form
	habitForm *HabitFormModel

	notice   string
	err      error
	width    int
	height   int
	quitting bool
}

func NewModel(store storage.Provider, tr *tracker.Tracker, userID string) Model {
	today := tr.Today()
	m := Model{
		store:   store,
		tracker: tr,
		userID:  userID,
		state:   StateToday,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		year:    today.Year(),
		month:   today.Month(),
	}
	m.reload()
	return m
}

// reload recomputes every view from the store.
func (m *Model) reload() {
	d, err := m.tracker.Dashboard(m.userID, m.tracker.Today())
	if err != nil {
		m.err = err
		return
	}
	m.setDashboard(d)
	m.reloadMonth()
}

func (m *Model) setDashboard(d tracker.Dashboard) {
	m.dashboard = d
	if m.cursor >= len(d.Habits) {
		m.cursor = len(d.Habits) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(d.NewlyUnlocked) > 0 {
		m.notice = "🏆 " + tracker.UnlockMessage(d.NewlyUnlocked)
	}
}

func (m *Model) reloadMonth() {
	grid, err := m.tracker.Month(m.userID, m.year, m.month)
	if err != nil {
		m.err = err
		return
	}
	m.grid = grid

	ins, err := m.tracker.Insights(m.userID, engine.MonthPeriod(m.year, m.month))
	if err != nil {
		m.err = err
		return
	}
	m.insights = ins
}

// shiftMonth moves the calendar and insights by n months.
func (m *Model) shiftMonth(n int) {
	first := date.New(m.year, m.month+time.Month(n), 1)
	m.year, m.month = first.Year(), first.Month()
	m.reloadMonth()
}

func (m Model) selected() (tracker.HabitDay, bool) {
	if m.cursor < 0 || m.cursor >= len(m.dashboard.Habits) {
		return tracker.HabitDay{}, false
	}
	return m.dashboard.Habits[m.cursor], true
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Toggle, m.keys.Add)
	case StateCalendar, StateInsights:
		keys = append(keys, m.keys.Left, m.keys.Right)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}
	actions := []key.Binding{m.keys.Toggle, m.keys.Add}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
