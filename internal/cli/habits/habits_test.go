package habits

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/config"
	"github.com/julianstephens/betteryou/internal/date"
	apperrors "github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
	"github.com/julianstephens/betteryou/internal/storage/sqlite"
	"github.com/julianstephens/betteryou/internal/tracker"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	clock := func() time.Time { return time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC) }
	cfg := *config.Default()
	cfg.Database = dbPath
	ctx := cli.NewContext(store, cfg, tracker.WithClock(clock), tracker.WithLocation(time.UTC))
	out := &bytes.Buffer{}
	ctx.Out = out

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, out, cleanup
}

func addHabit(t *testing.T, ctx *cli.Context, title string, extra ...func(*HabitAddCmd)) models.Habit {
	t.Helper()
	cmd := &HabitAddCmd{Title: title, Icon: "zap", Color: "blue", Goal: "reps", Target: 1, Start: "2025-01-01"}
	for _, fn := range extra {
		fn(cmd)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add %q failed: %v", title, err)
	}
	h, err := ctx.FindHabit(title, false)
	if err != nil {
		t.Fatalf("habit %q not found after add: %v", title, err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", func(c *HabitAddCmd) {
		c.Icon = "book"
		c.Color = "purple"
		c.Category = "Mind"
		c.Target = 10
		c.Unit = "pages"
		c.Days = "mon,wed"
		c.Subtask = []string{"Pick a book", "Find a chair"}
	})

	if h.Icon != models.IconBook || h.Color != models.ColorPurple || h.Category != "Mind" {
		t.Errorf("unexpected habit fields: %+v", h)
	}
	if h.GoalLabel() != "10 pages" {
		t.Errorf("GoalLabel() = %q, want %q", h.GoalLabel(), "10 pages")
	}
	if h.Repeat.Frequency != models.FrequencyWeekly || len(h.Repeat.Days) != 2 {
		t.Errorf("repeat = %+v, want weekly on 2 days", h.Repeat)
	}
	if len(h.Subtasks) != 2 {
		t.Errorf("expected 2 subtasks, got %d", len(h.Subtasks))
	}
	if h.StartDate != date.MustParse("2025-01-01") {
		t.Errorf("start date = %s", h.StartDate)
	}
	if !strings.Contains(out.String(), "Added habit: Read") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitAddCmd_DefaultsToToday(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Walk", func(c *HabitAddCmd) { c.Start = "" })
	if h.StartDate != date.MustParse("2025-01-05") {
		t.Errorf("start date = %s, want 2025-01-05", h.StartDate)
	}
}

func TestHabitAddCmd_Invalid(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{"blank title", HabitAddCmd{Title: "  ", Icon: "zap", Color: "blue", Goal: "reps"}},
		{"end before start", HabitAddCmd{Title: "x", Icon: "zap", Color: "blue", Goal: "reps", Start: "2025-01-05", End: "2025-01-01"}},
		{"bad reminder", HabitAddCmd{Title: "x", Icon: "zap", Color: "blue", Goal: "reps", Reminder: "25:99"}},
		{"bad weekday", HabitAddCmd{Title: "x", Icon: "zap", Color: "blue", Goal: "reps", Days: "funday"}},
		{"bad start", HabitAddCmd{Title: "x", Icon: "zap", Color: "blue", Goal: "reps", Start: "01/05/2025"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("expected invalid input error, got %v", err)
			}
		})
	}

	habits, err := ctx.Store.ListHabits(ctx.UserID, true)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("invalid habits were stored: %+v", habits)
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	addHabit(t, ctx, "Read")
	gone := addHabit(t, ctx, "Run")
	if err := ctx.Store.DeleteHabit(ctx.UserID, gone.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Read") || strings.Contains(out.String(), "Run") {
		t.Errorf("list without --deleted = %q", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{Deleted: true}).Run(ctx); err != nil {
		t.Fatalf("habit list --deleted failed: %v", err)
	}
	if !strings.Contains(out.String(), "Run [DELETED]") {
		t.Errorf("list with --deleted = %q", out.String())
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", func(c *HabitAddCmd) { c.End = "2025-02-01" })

	title := "Read more"
	target := 20
	none := "none"
	cmd := &HabitEditCmd{Habit: h.ID, Title: &title, Target: &target, End: &none}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}

	got, err := ctx.Store.GetHabit(ctx.UserID, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Title != "Read more" || got.Goal.Target != 20 || got.EndDate != nil {
		t.Errorf("edit not applied: %+v", got)
	}

	bad := "mauve"
	if err := (&HabitEditCmd{Habit: h.ID, Color: &bad}).Run(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected invalid color to be rejected, got %v", err)
	}
}

func TestHabitDeleteAndRestore(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Meditate")

	if err := (&HabitDeleteCmd{Habit: "meditate"}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}
	if _, err := ctx.FindHabit(h.ID, false); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted habit still listed: %v", err)
	}

	if err := (&HabitRestoreCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatalf("habit restore failed: %v", err)
	}
	if _, err := ctx.FindHabit(h.ID, false); err != nil {
		t.Errorf("restored habit not listed: %v", err)
	}

	if err := (&HabitRestoreCmd{Habit: h.ID}).Run(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("restoring an active habit should fail, got %v", err)
	}
}

func TestHabitMarkCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Stretch")

	for _, day := range []string{"2025-01-03", "2025-01-04", "today"} {
		if err := (&HabitMarkCmd{Habit: h.ID, Date: day}).Run(ctx); err != nil {
			t.Fatalf("mark %s failed: %v", day, err)
		}
	}
	if !strings.Contains(out.String(), "3 Day Streak") {
		t.Errorf("expected unlock message, got %q", out.String())
	}

	profile, err := ctx.Store.GetProfile(ctx.UserID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got := profile.Achievements["streak_3_day"]; got != date.MustParse("2025-01-05") {
		t.Errorf("streak_3_day = %s, want 2025-01-05", got)
	}

	if err := (&HabitMarkCmd{Habit: h.ID, Undo: true}).Run(ctx); err != nil {
		t.Fatalf("mark --undo failed: %v", err)
	}
	dash, err := ctx.Tracker.Dashboard(ctx.UserID, ctx.Today())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dash.Streak != 0 {
		t.Errorf("streak after undo = %d, want 0", dash.Streak)
	}
}

func TestHabitMarkCmd_Rejects(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Stretch")

	if err := (&HabitMarkCmd{Habit: h.ID, Date: "2025-01-06"}).Run(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("future date should be rejected, got %v", err)
	}
	if err := (&HabitMarkCmd{Habit: "nope"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown habit should be not found, got %v", err)
	}
}

func TestHabitToggleCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Water")

	if err := (&HabitToggleCmd{Habit: h.ID, Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if err := (&HabitToggleCmd{Habit: h.ID, Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}

	logs, err := ctx.Store.ListCompletionLogs(ctx.UserID)
	if err != nil {
		t.Fatalf("ListCompletionLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Completed {
		t.Errorf("expected one log toggled back off, got %+v", logs)
	}
	if !strings.Contains(out.String(), "2025-01-04") {
		t.Errorf("output should name the day: %q", out.String())
	}
}
