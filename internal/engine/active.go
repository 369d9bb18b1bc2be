package engine

import (
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

// ActiveHabits returns the habits whose date range contains d, in input order.
//
// Weekly habits are treated as due every day of their range; Repeat.Days is
// not consulted. Any weekday gating belongs here so the status and streak
// calculations pick it up unchanged.
func ActiveHabits(habits []models.Habit, d date.Date) []models.Habit {
	active := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsActiveOn(d) {
			active = append(active, h)
		}
	}
	return active
}
