package engine

import (
	"math"
	"time"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

// Period is an inclusive date range used to filter logs. A zero bound is open.
type Period struct {
	From date.Date
	To   date.Date
}

// AllTime matches every log entry.
var AllTime = Period{}

// MonthPeriod returns the period covering a calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{
		From: date.New(year, month, 1),
		To:   date.New(year, month, date.DaysIn(year, month)),
	}
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d date.Date) bool {
	if !p.From.IsZero() && d.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && d.After(p.To) {
		return false
	}
	return true
}

// IsZero reports whether the period is unbounded.
func (p Period) IsZero() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// CategoryStat is the completion rate of one habit category.
type CategoryStat struct {
	Category   string
	Color      models.Color
	Completed  int
	Total      int
	Percentage int
}

// Summary is the overall completion rate across all habits.
type Summary struct {
	Completed  int
	Total      int
	Percentage int
	HabitCount int
}

// CategoryCompletion groups habits by category and computes the share of
// recorded log entries within period that are completed. Categories appear
// in the order they are first seen in habits; a category's color is that of
// its first habit. Logs of habits absent from the snapshot are ignored.
func CategoryCompletion(habits []models.Habit, logs models.Logs, period Period) []CategoryStat {
	var stats []CategoryStat
	index := make(map[string]int)

	for _, h := range habits {
		category := h.CategoryOrDefault()
		i, ok := index[category]
		if !ok {
			i = len(stats)
			index[category] = i
			stats = append(stats, CategoryStat{Category: category, Color: h.Color})
		}
		completed, total := countLogs(logs, h.ID, period)
		stats[i].Completed += completed
		stats[i].Total += total
	}

	for i := range stats {
		stats[i].Percentage = percentage(stats[i].Completed, stats[i].Total)
	}
	return stats
}

// MonthlySummary computes the overall completion rate of all habits' log
// entries within period.
func MonthlySummary(habits []models.Habit, logs models.Logs, period Period) Summary {
	s := Summary{HabitCount: len(habits)}
	for _, h := range habits {
		completed, total := countLogs(logs, h.ID, period)
		s.Completed += completed
		s.Total += total
	}
	s.Percentage = percentage(s.Completed, s.Total)
	return s
}

func countLogs(logs models.Logs, habitID string, period Period) (completed, total int) {
	for d, done := range logs[habitID] {
		if !period.Contains(d) {
			continue
		}
		total++
		if done {
			completed++
		}
	}
	return completed, total
}

func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
