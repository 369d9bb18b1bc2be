package models

import (
	"sort"
	"time"

	"github.com/julianstephens/betteryou/internal/date"
)

// CompletionLog is a single (habit, day) completion record as stored.
type CompletionLog struct {
	HabitID   string    `json:"habit_id"`
	Day       date.Date `json:"day"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Logs is the snapshot form of all completion records: habitID -> day -> completed.
// A missing entry means not completed.
type Logs map[string]map[date.Date]bool

// NewLogs builds a snapshot from stored rows. Later rows win.
func NewLogs(rows []CompletionLog) Logs {
	logs := make(Logs)
	for _, r := range rows {
		logs.Set(r.HabitID, r.Day, r.Completed)
	}
	return logs
}

// Completed reports whether the habit was completed on d.
func (l Logs) Completed(habitID string, d date.Date) bool {
	return l[habitID][d]
}

// Set records a completion value, overwriting any previous value for the day.
func (l Logs) Set(habitID string, d date.Date, completed bool) {
	days, ok := l[habitID]
	if !ok {
		days = make(map[date.Date]bool)
		l[habitID] = days
	}
	days[d] = completed
}

// Entries returns the recorded days of a habit in ascending order.
func (l Logs) Entries(habitID string) []CompletionLog {
	days := l[habitID]
	entries := make([]CompletionLog, 0, len(days))
	for d, completed := range days {
		entries = append(entries, CompletionLog{HabitID: habitID, Day: d, Completed: completed})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day.Before(entries[j].Day)
	})
	return entries
}
