package engine

import (
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

// Status is the completion state of a single day.
type Status string

const (
	StatusNone     Status = "none"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

// DayStatus classifies d by how many of its active habits were completed.
// A day with nothing scheduled is StatusNone, never complete.
func DayStatus(habits []models.Habit, logs models.Logs, d date.Date) Status {
	return statusOf(ActiveHabits(habits, d), logs, d)
}

func statusOf(active []models.Habit, logs models.Logs, d date.Date) Status {
	if len(active) == 0 {
		return StatusNone
	}
	completed := 0
	for _, h := range active {
		if logs.Completed(h.ID, d) {
			completed++
		}
	}
	switch {
	case completed == len(active):
		return StatusComplete
	case completed > 0:
		return StatusPartial
	default:
		return StatusNone
	}
}
