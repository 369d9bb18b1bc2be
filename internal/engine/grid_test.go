package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/betteryou/internal/models"
)

func TestMonthGrid(t *testing.T) {
	habits := []models.Habit{habit("a", "2025-01-01"), habit("b", "2025-01-01")}
	logs := models.Logs{}
	// January 2025 starts on a Wednesday. Complete Wed 1 .. Sun 5.
	completeRange(logs, "a", "2025-01-01", "2025-01-05")
	completeRange(logs, "b", "2025-01-01", "2025-01-05")
	// Partial on the 7th, complete on the 8th.
	logs.Set("a", d("2025-01-07"), true)
	logs.Set("a", d("2025-01-08"), true)
	logs.Set("b", d("2025-01-08"), true)

	grid := MonthGrid(habits, logs, 2025, time.January)

	if len(grid) != 31 {
		t.Fatalf("expected 31 days, got %d", len(grid))
	}
	if Leading(grid) != 3 {
		t.Errorf("expected 3 leading blanks, got %d", Leading(grid))
	}

	tests := []struct {
		day       int
		status    Status
		left      bool
		right     bool
		weekdayIs time.Weekday
	}{
		{1, StatusComplete, false, true, time.Wednesday},
		{2, StatusComplete, true, true, time.Thursday},
		{3, StatusComplete, true, true, time.Friday},
		{4, StatusComplete, true, false, time.Saturday}, // last column
		{5, StatusComplete, false, false, time.Sunday},  // first column, 6th incomplete
		{6, StatusNone, false, false, time.Monday},
		{7, StatusPartial, false, false, time.Tuesday},
		{8, StatusComplete, false, false, time.Wednesday},
		{31, StatusNone, false, false, time.Friday},
	}

	for _, tt := range tests {
		g := grid[tt.day-1]
		if g.Day != tt.day {
			t.Errorf("grid[%d].Day = %d", tt.day-1, g.Day)
		}
		if g.Weekday != tt.weekdayIs {
			t.Errorf("day %d weekday = %s, want %s", tt.day, g.Weekday, tt.weekdayIs)
		}
		if g.Status != tt.status {
			t.Errorf("day %d status = %s, want %s", tt.day, g.Status, tt.status)
		}
		if g.ConnectsLeft != tt.left || g.ConnectsRight != tt.right {
			t.Errorf("day %d connects = (%v, %v), want (%v, %v)", tt.day, g.ConnectsLeft, g.ConnectsRight, tt.left, tt.right)
		}
	}
}

func TestMonthGridLeapFebruary(t *testing.T) {
	grid := MonthGrid(nil, models.Logs{}, 2024, time.February)
	if len(grid) != 29 {
		t.Errorf("expected 29 days in Feb 2024, got %d", len(grid))
	}
	for _, g := range grid {
		if g.Status != StatusNone {
			t.Errorf("day %d should be none without habits, got %s", g.Day, g.Status)
		}
	}
}

func TestMonthGridDeterministic(t *testing.T) {
	habits := []models.Habit{habit("a", "2025-01-01"), habitUntil("b", "2025-01-10", "2025-01-20")}
	logs := models.Logs{}
	completeRange(logs, "a", "2025-01-01", "2025-01-31")
	completeRange(logs, "b", "2025-01-12", "2025-01-15")

	first := MonthGrid(habits, logs, 2025, time.January)
	second := MonthGrid(habits, logs, 2025, time.January)

	if !reflect.DeepEqual(first, second) {
		t.Error("MonthGrid returned different results for identical inputs")
	}
}
