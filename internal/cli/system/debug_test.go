package system

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, store, out := newTestContext(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("DebugDBPathCmd failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got["path"] != store.GetConfigPath() {
		t.Errorf("path = %q, want %q", got["path"], store.GetConfigPath())
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, _, out := setupSystemTest(t)
	addTestHabit(t, ctx, "read", "Read", func(h *models.Habit) { h.Category = "Mind" })

	if err := (&DebugDumpHabitCmd{Habit: "read"}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpHabitCmd failed: %v", err)
	}
	var got models.Habit
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not a habit: %v\n%s", err, out.String())
	}
	if got.ID != "read" || got.Category != "Mind" || got.StartDate != date.MustParse("2025-01-01") {
		t.Errorf("unexpected habit: %+v", got)
	}
}

func TestDebugDumpHabitCmd_NotFound(t *testing.T) {
	ctx, _, _ := setupSystemTest(t)

	err := (&DebugDumpHabitCmd{Habit: "missing"}).Run(ctx)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDebugDumpLogsCmd(t *testing.T) {
	ctx, _, out := setupSystemTest(t)
	addTestHabit(t, ctx, "read", "Read")
	addTestHabit(t, ctx, "run", "Run")
	for _, id := range []string{"read", "run"} {
		if err := ctx.Tracker.SetCompletion(ctx.UserID, id, date.MustParse("2025-01-02"), true); err != nil {
			t.Fatalf("SetCompletion failed: %v", err)
		}
	}

	if err := (&DebugDumpLogsCmd{Habit: "Run"}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpLogsCmd failed: %v", err)
	}
	var logs []models.CompletionLog
	if err := json.Unmarshal(out.Bytes(), &logs); err != nil {
		t.Fatalf("output is not a log list: %v\n%s", err, out.String())
	}
	if len(logs) != 1 || logs[0].HabitID != "run" || !logs[0].Completed {
		t.Errorf("logs = %+v", logs)
	}
}

func TestDebugDumpProfileCmd(t *testing.T) {
	ctx, store, out := setupSystemTest(t)

	if err := (&DebugDumpProfileCmd{}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before a profile exists, got %v", err)
	}

	name := "Sam"
	if _, err := store.UpdateProfile(ctx.UserID, models.ProfilePatch{Name: &name}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if err := (&DebugDumpProfileCmd{}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpProfileCmd failed: %v", err)
	}
	var got models.UserProfile
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not a profile: %v\n%s", err, out.String())
	}
	if got.Name != "Sam" || got.UserID != ctx.UserID {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestDebugDumpSettingsCmd(t *testing.T) {
	ctx, _, out := setupSystemTest(t)

	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpSettingsCmd failed: %v", err)
	}
	var got models.Settings
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not settings: %v\n%s", err, out.String())
	}
	if got != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}
