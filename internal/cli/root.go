package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/betteryou/internal/backup"
	"github.com/julianstephens/betteryou/internal/config"
	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/date"
	apperrors "github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/keyring"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
	"github.com/julianstephens/betteryou/internal/storage/postgres"
	"github.com/julianstephens/betteryou/internal/storage/sqlite"
	"github.com/julianstephens/betteryou/internal/tracker"
	"github.com/julianstephens/betteryou/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	Config  config.Config
	// UserID is the profile commands read and write.
	UserID string
	Out    io.Writer
}

// NewContext builds a command context acting as cfg.User.
func NewContext(store storage.Provider, cfg config.Config, opts ...tracker.Option) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, opts...),
		Config:  cfg,
		UserID:  cfg.User,
	}
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Today is the current calendar day in the configured timezone.
func (c *Context) Today() date.Date {
	return c.Tracker.Today()
}

// OpenStore picks a storage backend for a configured database value. The
// value may be a SQLite path, a PostgreSQL connection string or a keyring
// reference. Connection strings typed into config must not carry a password;
// ones that come from the keyring or the environment may.
func OpenStore(database string) (storage.Provider, error) {
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return openStore(env, true)
	}
	return openStore(database, false)
}

// OpenSource opens a database named on the command line. The environment
// override does not apply.
func OpenSource(database string) (storage.Provider, error) {
	return openStore(database, false)
}

func openStore(database string, fromSecret bool) (storage.Provider, error) {
	if _, ok := keyring.IsReference(database); ok {
		resolved, err := keyring.Resolve(database)
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		database = resolved
		fromSecret = true
	}

	if postgres.IsConnString(database) {
		if !fromSecret {
			if _, err := postgres.ValidateConnString(database); err != nil {
				return nil, fmt.Errorf("%w\n  store the full connection string with '%s keyring set' or export %s",
					err, constants.AppName, constants.EnvDBConnection)
			}
		}
		return postgres.New(database), nil
	}

	path, err := utils.ExpandPath(database)
	if err != nil {
		return nil, fmt.Errorf("failed to expand database path: %w", err)
	}
	return sqlite.NewStore(path), nil
}

// PerformAutomaticBackup snapshots a SQLite database before destructive
// commands. Failures are logged and otherwise ignored.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDay accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func ParseDay(s string, today date.Date) (date.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, apperrors.Invalid("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// FindHabit resolves ref as a habit ID or, failing that, a case-insensitive
// title. Ambiguous titles are an error.
func (c *Context) FindHabit(ref string, includeDeleted bool) (models.Habit, error) {
	habits, err := c.Store.ListHabits(c.UserID, includeDeleted)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to list habits: %w", err)
	}

	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}

	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, apperrors.Invalid("%d habits are titled %q, use the habit ID", len(matches), ref)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// 0=Sunday, 6=Saturday
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, apperrors.Invalid("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// FormatRepeat renders a repeat rule, e.g. "weekly (Mon, Wed)".
func FormatRepeat(r models.Repeat) string {
	if r.Frequency != models.FrequencyWeekly || len(r.Days) == 0 {
		return string(r.Frequency)
	}
	days := make([]string, len(r.Days))
	for i, wd := range r.Days {
		days[i] = wd.String()[:3]
	}
	return fmt.Sprintf("weekly (%s)", strings.Join(days, ", "))
}
