package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
)

func TestHabitCRUD(t *testing.T) {
	store := setupTestStore(t)

	end := date.MustParse("2025-06-30")
	habit := newHabit("Morning reading", "2025-01-01")
	habit.Icon = models.IconBook
	habit.Color = models.ColorPurple
	habit.Category = "Mind"
	habit.Goal = models.Goal{Type: models.GoalReps, Target: 10, Unit: "pages"}
	habit.Repeat = models.Repeat{Frequency: models.FrequencyWeekly, Days: []time.Weekday{time.Monday, time.Thursday}}
	habit.Subtasks = map[string]models.Subtask{"s1": {Text: "Pick a book"}}
	habit.EndDate = &end
	habit.ReminderTime = "07:30"

	if err := store.AddHabit("local", habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	got, err := store.GetHabit("local", habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if got.Title != habit.Title || got.Icon != models.IconBook || got.Color != models.ColorPurple {
		t.Errorf("basic fields lost: %+v", got)
	}
	if got.Goal != habit.Goal {
		t.Errorf("goal = %+v, want %+v", got.Goal, habit.Goal)
	}
	if got.Repeat.Frequency != models.FrequencyWeekly || len(got.Repeat.Days) != 2 || got.Repeat.Days[1] != time.Thursday {
		t.Errorf("repeat = %+v", got.Repeat)
	}
	if got.Subtasks["s1"].Text != "Pick a book" {
		t.Errorf("subtasks = %+v", got.Subtasks)
	}
	if got.StartDate != habit.StartDate || got.EndDate == nil || *got.EndDate != end {
		t.Errorf("dates = %s..%v", got.StartDate, got.EndDate)
	}
	if got.ReminderTime != "07:30" || got.CreatedAt.IsZero() {
		t.Errorf("reminder/created = %q / %v", got.ReminderTime, got.CreatedAt)
	}

	habit.Title = "Evening reading"
	habit.EndDate = nil
	if err := store.UpdateHabit("local", habit); err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}
	updated, err := store.GetHabit("local", habit.ID)
	if err != nil {
		t.Fatalf("failed to get updated habit: %v", err)
	}
	if updated.Title != "Evening reading" || updated.EndDate != nil {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestHabitDefaultsOnAdd(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Drink water", "2025-01-01")

	if err := store.AddHabit("local", habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	got, err := store.GetHabit("local", habit.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Icon != models.IconZap || got.Color != models.ColorBlue || got.Repeat.Frequency != models.FrequencyDaily {
		t.Errorf("defaults not applied: %+v", got)
	}
	if got.CategoryOrDefault() != "General" {
		t.Errorf("category = %q", got.CategoryOrDefault())
	}
}

func TestHabitValidationOnAdd(t *testing.T) {
	store := setupTestStore(t)

	tests := []struct {
		name   string
		mutate func(h *models.Habit)
	}{
		{"empty title", func(h *models.Habit) { h.Title = " " }},
		{"unknown icon", func(h *models.Habit) { h.Icon = "rocket" }},
		{"missing start", func(h *models.Habit) { h.StartDate = date.Date{} }},
		{"end before start", func(h *models.Habit) {
			end := date.MustParse("2024-12-31")
			h.EndDate = &end
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHabit("Valid", "2025-01-01")
			tt.mutate(&h)
			if err := store.AddHabit("local", h); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHabitSoftDelete(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Stretch", "2025-01-01")
	if err := store.AddHabit("local", habit); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteHabit("local", habit.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if _, err := store.GetHabit("local", habit.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted habit still visible: %v", err)
	}
	if err := store.DeleteHabit("local", habit.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleting twice = %v, want ErrNotFound", err)
	}

	all, err := store.ListHabits("local", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].DeletedAt == nil {
		t.Errorf("ListHabits(includeDeleted) = %+v", all)
	}
	active, err := store.ListHabits("local", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("deleted habit listed: %+v", active)
	}

	if err := store.RestoreHabit("local", habit.ID); err != nil {
		t.Fatalf("failed to restore habit: %v", err)
	}
	if err := store.RestoreHabit("local", habit.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("restoring a live habit = %v, want ErrNotFound", err)
	}
	if _, err := store.GetHabit("local", habit.ID); err != nil {
		t.Errorf("restored habit missing: %v", err)
	}
}

func TestHabitsAreScopedByUser(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Private", "2025-01-01")
	if err := store.AddHabit("alice", habit); err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetHabit("bob", habit.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("bob can read alice's habit: %v", err)
	}
	if err := store.UpdateHabit("bob", habit); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("bob can update alice's habit: %v", err)
	}
	if err := store.DeleteHabit("bob", habit.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("bob can delete alice's habit: %v", err)
	}
}

func TestListHabitsOrder(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	titles := []string{"First", "Second", "Third"}
	for i, title := range titles {
		h := newHabit(title, "2025-01-01")
		h.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.AddHabit("local", h); err != nil {
			t.Fatal(err)
		}
	}

	habits, err := store.ListHabits("local", false)
	if err != nil {
		t.Fatal(err)
	}
	for i, h := range habits {
		if h.Title != titles[i] {
			t.Errorf("habits[%d] = %s, want %s", i, h.Title, titles[i])
		}
	}
}
