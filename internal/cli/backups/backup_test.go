package backups

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/config"
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage/postgres"
	"github.com/julianstephens/betteryou/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := *config.Default()
	cfg.Database = dbPath
	ctx := cli.NewContext(store, cfg)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, store, out
}

func addHabit(t *testing.T, ctx *cli.Context, id string) {
	t.Helper()
	h := models.Habit{ID: id, Title: id, StartDate: date.MustParse("2025-01-01"), CreatedAt: time.Now().UTC()}
	if err := ctx.Store.AddHabit(ctx.UserID, h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, _, out := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("expected empty list, got %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Backup created: betteryou-") {
		t.Errorf("unexpected create output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("expected one backup listed, got %q", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, store, out := setupTestDB(t)

	addHabit(t, ctx, "before")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))

	addHabit(t, ctx, "after")

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "restored successfully") {
		t.Errorf("unexpected restore output: %q", out.String())
	}

	if err := store.Load(); err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	habits, err := store.ListHabits(ctx.UserID, true)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 1 || habits[0].ID != "before" {
		t.Errorf("restored habits = %+v, want only 'before'", habits)
	}
}

func TestBackupRestore_Missing(t *testing.T) {
	ctx, _, _ := setupTestDB(t)

	err := (&BackupRestoreCmd{BackupFile: "betteryou-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
	if _, statErr := os.Stat(ctx.Store.GetConfigPath()); statErr != nil {
		t.Errorf("database should be untouched: %v", statErr)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx := cli.NewContext(postgres.New("postgres://localhost/betteryou"), *config.Default())
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected an error for a PostgreSQL store")
	}
}
