package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/betteryou/internal/backup"
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, out := setupSystemTest(t)
	addTestHabit(t, ctx, "read", "Read")

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "✓ Schema version: OK") {
		t.Errorf("missing schema check:\n%s", out.String())
	}
}

func TestDoctorCmd_MissingBackups(t *testing.T) {
	ctx, _, out := setupSystemTest(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command should not fail on missing backups: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected a backup warning:\n%s", out.String())
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, store, out := setupSystemTest(t)

	if _, err := backup.NewManager(store.GetConfigPath()).Create(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("backup check should pass:\n%s", out.String())
	}
}

func TestDoctorCmd_NotInitialized(t *testing.T) {
	ctx, _, out := newTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail without a database")
	}
	if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED") {
		t.Errorf("dependent checks should be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store, out := setupSystemTest(t)

	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("failed to corrupt schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
	if !strings.Contains(out.String(), "newer than supported") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx, store, _ := setupSystemTest(t)

	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 0"); err != nil {
		t.Fatalf("failed to downgrade schema version: %v", err)
	}

	err := checkMigrationsComplete(ctx)
	if err == nil || !strings.Contains(err.Error(), "migrations incomplete") {
		t.Errorf("expected incomplete migrations, got %v", err)
	}
}

func TestCheckOrphanLogs(t *testing.T) {
	ctx, store, _ := setupSystemTest(t)
	addTestHabit(t, ctx, "read", "Read")

	if err := checkOrphanLogs(ctx); err != nil {
		t.Fatalf("clean database reported orphans: %v", err)
	}

	// A log filed under the local user against somebody else's habit.
	other := models.Habit{ID: "theirs", Title: "Theirs", StartDate: date.MustParse("2025-01-01")}
	if err := store.AddHabit("friend", other); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if _, err := store.GetDB().Exec(
		`INSERT INTO completion_logs (habit_id, user_id, day, completed, updated_at) VALUES ('theirs', ?, '2025-01-02', 1, '2025-01-02T00:00:00Z')`,
		ctx.UserID); err != nil {
		t.Fatalf("failed to insert orphan log: %v", err)
	}

	err := checkOrphanLogs(ctx)
	if err == nil || !strings.Contains(err.Error(), "1 completion log") {
		t.Errorf("expected one orphaned log, got %v", err)
	}
}

func TestCheckHabits_Invalid(t *testing.T) {
	ctx, store, _ := setupSystemTest(t)
	addTestHabit(t, ctx, "read", "Read")

	if _, err := store.GetDB().Exec(`UPDATE habits SET title = '' WHERE id = 'read'`); err != nil {
		t.Fatalf("failed to corrupt habit: %v", err)
	}
	if err := checkHabits(ctx); err == nil {
		t.Error("expected validation to flag the untitled habit")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx, _, _ := setupSystemTest(t)

	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("default timezone should pass: %v", err)
	}
	ctx.Config.Timezone = "Mars/Olympus_Mons"
	if err := checkClockTimezone(ctx); err == nil {
		t.Error("expected an invalid timezone to fail")
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, store, out := setupSystemTest(t)

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("expected up-to-date message:\n%s", out.String())
	}

	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 0"); err != nil {
		t.Fatalf("failed to downgrade schema version: %v", err)
	}
	out.Reset()
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully applied 1 migration(s)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if err := checkMigrationsComplete(ctx); err != nil {
		t.Errorf("migrations should be complete: %v", err)
	}
}
