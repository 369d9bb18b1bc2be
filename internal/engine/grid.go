package engine

import (
	"time"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

// WeekStart is the first column of a displayed calendar week.
const WeekStart = time.Sunday

// GridDay is one cell of a month calendar.
type GridDay struct {
	Day     int
	Date    date.Date
	Weekday time.Weekday
	Status  Status
	// ConnectsLeft and ConnectsRight are set when this day and its horizontal
	// neighbour in the same week row are both complete.
	ConnectsLeft  bool
	ConnectsRight bool
}

// MonthGrid returns the status of every day of the month, day 1 first.
func MonthGrid(habits []models.Habit, logs models.Logs, year int, month time.Month) []GridDay {
	n := date.DaysIn(year, month)
	grid := make([]GridDay, n)
	for i := range grid {
		d := date.New(year, month, i+1)
		grid[i] = GridDay{
			Day:     i + 1,
			Date:    d,
			Weekday: d.Weekday(),
			Status:  DayStatus(habits, logs, d),
		}
	}

	for i := range grid {
		if grid[i].Status != StatusComplete {
			continue
		}
		if i > 0 && grid[i].Weekday != WeekStart && grid[i-1].Status == StatusComplete {
			grid[i].ConnectsLeft = true
		}
		if i < n-1 && grid[i].Weekday != weekEnd() && grid[i+1].Status == StatusComplete {
			grid[i].ConnectsRight = true
		}
	}

	return grid
}

// Leading returns how many empty cells precede day 1 in the first week row.
func Leading(grid []GridDay) int {
	if len(grid) == 0 {
		return 0
	}
	return (int(grid[0].Weekday) - int(WeekStart) + 7) % 7
}

func weekEnd() time.Weekday {
	return (WeekStart + 6) % 7
}
