package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/migration"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
	"github.com/julianstephens/betteryou/migrations"
)

// pragmas are applied to every pooled connection.
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

type Store struct {
	path string
	db   *sql.DB
	hub  *storage.Hub

	// Progress receives migration output during Init. Nil discards it.
	Progress func(string)

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		hub:  storage.NewHub(),
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+pragmas)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

// Init creates the database file if needed, applies pending migrations and
// seeds default settings.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(s.Progress); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

// Load opens an existing database and refuses schemas newer than this build.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	s.stopWatcher()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite)
}

// PendingMigrations reports how many migrations Init would apply.
func (s *Store) PendingMigrations() (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.Pending()
}

// SchemaVersion reports the applied and the newest known schema versions.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	latest, err = runner.GetLatestVersion()
	return current, latest, err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (s *Store) publish(userID string, kind storage.ChangeKind) {
	s.hub.Publish(storage.Change{UserID: userID, Kind: kind})
}

func (s *Store) Snapshot(userID string) (storage.Snapshot, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.Snapshot{}, err
	}
	defer tx.Rollback()

	habits, err := listHabits(tx, userID, false)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("failed to list habits: %w", err)
	}
	rows, err := listCompletionLogs(tx, userID)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("failed to list completion logs: %w", err)
	}
	logger.Debug("loaded snapshot", "user", userID, "habits", len(habits), "logs", len(rows))
	return storage.Snapshot{Habits: habits, Logs: models.NewLogs(rows)}, nil
}
