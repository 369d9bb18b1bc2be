package sqlite

import (
	"errors"
	"testing"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
)

func TestSetCompletionLastWriteWins(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Meditate", "2025-01-01")
	if err := store.AddHabit("local", habit); err != nil {
		t.Fatal(err)
	}

	mustComplete(t, store, "local", habit.ID, "2025-01-05", true)
	mustComplete(t, store, "local", habit.ID, "2025-01-05", false)
	mustComplete(t, store, "local", habit.ID, "2025-01-05", true)
	mustComplete(t, store, "local", habit.ID, "2025-01-04", false)

	logs, err := store.ListCompletionLogs("local")
	if err != nil {
		t.Fatalf("ListCompletionLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log rows, got %d", len(logs))
	}
	if logs[0].Day.String() != "2025-01-04" || logs[0].Completed {
		t.Errorf("logs[0] = %+v", logs[0])
	}
	if logs[1].Day.String() != "2025-01-05" || !logs[1].Completed {
		t.Errorf("logs[1] = %+v", logs[1])
	}
}

func TestSetCompletionRequiresOwnedHabit(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Meditate", "2025-01-01")
	if err := store.AddHabit("alice", habit); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		userID  string
		habitID string
	}{
		{"unknown habit", "alice", "missing"},
		{"other user's habit", "bob", habit.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SetCompletion(tt.userID, models.CompletionLog{
				HabitID:   tt.habitID,
				Day:       date.MustParse("2025-01-01"),
				Completed: true,
			})
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("SetCompletion error = %v, want ErrNotFound", err)
			}
		})
	}

	if err := store.SetCompletion("alice", models.CompletionLog{HabitID: habit.ID}); err == nil {
		t.Error("expected error for missing day")
	}
}
