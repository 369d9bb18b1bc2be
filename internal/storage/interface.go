package storage

import (
	apperrors "github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/models"
)

// ErrNotFound is returned when a habit or profile does not exist for the user.
var ErrNotFound = apperrors.ErrNotFound

// Snapshot is a consistent view of one user's habits and completion logs,
// read inside a single transaction.
type Snapshot struct {
	Habits []models.Habit
	Logs   models.Logs
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits. Deletion is soft; ListHabits omits deleted habits unless asked.
	AddHabit(userID string, habit models.Habit) error
	GetHabit(userID, id string) (models.Habit, error)
	ListHabits(userID string, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(userID string, habit models.Habit) error
	DeleteHabit(userID, id string) error
	RestoreHabit(userID, id string) error

	// Completion logs. SetCompletion upserts on (habit, day); last write wins.
	SetCompletion(userID string, log models.CompletionLog) error
	ListCompletionLogs(userID string) ([]models.CompletionLog, error)

	// Snapshot returns the non-deleted habits and all their logs.
	Snapshot(userID string) (Snapshot, error)

	// Profiles. UpdateProfile creates the profile when missing, merges the
	// patch and only ever inserts achievement tiers.
	GetProfile(userID string) (models.UserProfile, error)
	UpdateProfile(userID string, patch models.ProfilePatch) (models.UserProfile, error)

	// Subscribe registers fn for changes to userID's data. The returned
	// function unsubscribes and is safe to call more than once.
	Subscribe(userID string, fn func(Change)) (func(), error)

	// Utils
	GetConfigPath() string
}
