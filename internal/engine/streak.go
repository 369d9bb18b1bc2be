package engine

import (
	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

// MaxLookbackDays caps the number of days CurrentStreak inspects.
const MaxLookbackDays = constants.MaxStreakLookbackDays

// CurrentStreak counts consecutive fully-completed days ending today, or
// ending yesterday when nothing is scheduled today.
//
// An incomplete today resets the streak to 0. Walking backwards, the count
// stops at the first day that is not complete or has nothing scheduled.
func CurrentStreak(habits []models.Habit, logs models.Logs, today date.Date) int {
	if len(habits) == 0 {
		return 0
	}

	streak := 0
	if active := ActiveHabits(habits, today); len(active) > 0 {
		if statusOf(active, logs, today) != StatusComplete {
			return 0
		}
		streak = 1
	}

	day := today.AddDays(-1)
	for i := 1; i < MaxLookbackDays; i++ {
		active := ActiveHabits(habits, day)
		if len(active) == 0 {
			break
		}
		if statusOf(active, logs, day) != StatusComplete {
			break
		}
		streak++
		day = day.AddDays(-1)
	}

	return streak
}
