package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/config"
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage/sqlite"
	"github.com/julianstephens/betteryou/internal/tracker"
)

var testNow = time.Date(2025, 1, 5, 8, 30, 0, 0, time.UTC)

// newTestContext returns a context over an uninitialized SQLite database.
func newTestContext(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	cfg := *config.Default()
	cfg.Database = dbPath
	ctx := cli.NewContext(store, cfg,
		tracker.WithClock(func() time.Time { return testNow }),
		tracker.WithLocation(time.UTC))
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, store, out
}

func setupSystemTest(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	ctx, store, out := newTestContext(t)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return ctx, store, out
}

func addTestHabit(t *testing.T, ctx *cli.Context, id, title string, edit ...func(*models.Habit)) models.Habit {
	t.Helper()
	h := models.Habit{ID: id, Title: title, StartDate: date.MustParse("2025-01-01")}
	for _, fn := range edit {
		fn(&h)
	}
	if err := ctx.Store.AddHabit(ctx.UserID, h); err != nil {
		t.Fatalf("AddHabit(%s) failed: %v", id, err)
	}
	return h
}
