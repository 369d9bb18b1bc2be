// Package tracker runs the streak engine against a habit store. Every query
// reloads a fresh snapshot and recomputes from scratch; nothing derived is
// cached between calls.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/engine"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/motivation"
	"github.com/julianstephens/betteryou/internal/storage"
)

var ErrHabitNotFound = errors.New("habit not found")

// Notifier announces achievement unlocks.
type Notifier interface {
	Notify(text string) error
}

type Tracker struct {
	store    storage.Provider
	now      func() time.Time
	loc      *time.Location
	notifier Notifier
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the timezone that decides which calendar day is today.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now is the current instant in the tracker's timezone.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Today is the current calendar day in the tracker's timezone.
func (t *Tracker) Today() date.Date {
	return date.FromTime(t.Now())
}

// HabitDay pairs a habit active on a day with its completion.
type HabitDay struct {
	Habit     models.Habit
	Completed bool
}

type Dashboard struct {
	UserID       string
	Today        date.Date
	Streak       int
	Status       engine.Status
	Habits       []HabitDay
	Achievements models.Achievements
	// NewlyUnlocked lists tiers recorded by the refresh that produced this
	// dashboard. Only Watch fills it.
	NewlyUnlocked []engine.Tier
	Quote         motivation.Quote
}

// Insights is the completion breakdown for a period.
type Insights struct {
	Period     engine.Period
	Summary    engine.Summary
	Categories []engine.CategoryStat
}

// ShareCard is the public view of a user's progress.
type ShareCard struct {
	UserID    string
	Streak    int
	Unlocked  []engine.Tier
	Celebrate bool
	Message   string
}

func (t *Tracker) Snapshot(userID string) (storage.Snapshot, error) {
	snap, err := t.store.Snapshot(userID)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("failed to load habits for %s: %w", userID, err)
	}
	if snap.Logs == nil {
		snap.Logs = models.Logs{}
	}
	return snap, nil
}

// profile returns the user's profile, or an empty one when none exists yet.
func (t *Tracker) profile(userID string) (models.UserProfile, error) {
	p, err := t.store.GetProfile(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.UserProfile{UserID: userID, Achievements: models.Achievements{}}, nil
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}
	if p.Achievements == nil {
		p.Achievements = models.Achievements{}
	}
	return p, nil
}

func (t *Tracker) Dashboard(userID string, today date.Date) (Dashboard, error) {
	snap, err := t.Snapshot(userID)
	if err != nil {
		return Dashboard{}, err
	}
	p, err := t.profile(userID)
	if err != nil {
		return Dashboard{}, err
	}

	active := engine.ActiveHabits(snap.Habits, today)
	habits := make([]HabitDay, len(active))
	for i, h := range active {
		habits[i] = HabitDay{Habit: h, Completed: snap.Logs.Completed(h.ID, today)}
	}

	return Dashboard{
		UserID:       userID,
		Today:        today,
		Streak:       engine.CurrentStreak(snap.Habits, snap.Logs, today),
		Status:       engine.DayStatus(snap.Habits, snap.Logs, today),
		Habits:       habits,
		Achievements: p.Achievements,
		Quote:        motivation.ForDay(today),
	}, nil
}

// SetCompletion records whether habitID was done on day. Writes fully state
// the new value, so repeating one is harmless and the last write wins.
// Store failures are returned, not retried.
func (t *Tracker) SetCompletion(userID, habitID string, day date.Date, completed bool) error {
	if day.IsZero() {
		return fmt.Errorf("completion day is required")
	}
	err := t.store.SetCompletion(userID, models.CompletionLog{
		HabitID:   habitID,
		Day:       day,
		Completed: completed,
		UpdatedAt: t.now(),
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

// ToggleCompletion flips the completion of habitID on day and returns the
// new value.
func (t *Tracker) ToggleCompletion(userID, habitID string, day date.Date) (bool, error) {
	if _, err := t.store.GetHabit(userID, habitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
		}
		return false, err
	}
	snap, err := t.Snapshot(userID)
	if err != nil {
		return false, err
	}
	completed := !snap.Logs.Completed(habitID, day)
	if err := t.SetCompletion(userID, habitID, day, completed); err != nil {
		return false, err
	}
	return completed, nil
}

// AwardAchievements evaluates the current streak and records any tier it
// reaches for the first time. Only the new tiers are written, so dates that
// are already recorded are never touched. Unlocks are announced through the
// notifier when notifications are enabled; a failed announcement is logged.
func (t *Tracker) AwardAchievements(userID string, today date.Date) ([]engine.Tier, error) {
	snap, err := t.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	p, err := t.profile(userID)
	if err != nil {
		return nil, err
	}

	streak := engine.CurrentStreak(snap.Habits, snap.Logs, today)
	updated, changed := engine.EvaluateAchievements(p.Achievements, streak, today)
	if !changed {
		return nil, nil
	}

	tiers := engine.NewlyUnlocked(p.Achievements, updated)
	patch := models.ProfilePatch{Achievements: models.Achievements{}}
	for _, tier := range tiers {
		patch.Achievements[tier.ID] = updated[tier.ID]
	}
	if _, err := t.store.UpdateProfile(userID, patch); err != nil {
		return nil, fmt.Errorf("failed to record achievements: %w", err)
	}
	logger.Info("achievements unlocked", "user", userID, "streak", streak, "tiers", len(tiers))

	t.announce(tiers)
	return tiers, nil
}

func (t *Tracker) announce(tiers []engine.Tier) {
	if t.notifier == nil || len(tiers) == 0 {
		return
	}
	settings, err := t.store.GetSettings()
	if err != nil {
		logger.Warn("failed to read settings, skipping notification", "error", err)
		return
	}
	if !settings.NotificationsEnabled {
		return
	}
	if err := t.notifier.Notify(UnlockMessage(tiers)); err != nil {
		logger.Warn("failed to send achievement notification", "error", err)
	}
}

// UnlockMessage is the notification text for newly unlocked tiers.
func UnlockMessage(tiers []engine.Tier) string {
	labels := make([]string, len(tiers))
	for i, tier := range tiers {
		labels[i] = tier.Label
	}
	return "Achievement unlocked: " + strings.Join(labels, ", ")
}

// Month returns the calendar grid for a month.
func (t *Tracker) Month(userID string, year int, month time.Month) ([]engine.GridDay, error) {
	snap, err := t.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	return engine.MonthGrid(snap.Habits, snap.Logs, year, month), nil
}

func (t *Tracker) Insights(userID string, period engine.Period) (Insights, error) {
	snap, err := t.Snapshot(userID)
	if err != nil {
		return Insights{}, err
	}
	return Insights{
		Period:     period,
		Summary:    engine.MonthlySummary(snap.Habits, snap.Logs, period),
		Categories: engine.CategoryCompletion(snap.Habits, snap.Logs, period),
	}, nil
}

// Share builds the share card for any user. It depends only on that user's
// data and works the same whoever asks.
func (t *Tracker) Share(userID string, today date.Date) (ShareCard, error) {
	snap, err := t.Snapshot(userID)
	if err != nil {
		return ShareCard{}, err
	}
	streak := engine.CurrentStreak(snap.Habits, snap.Logs, today)
	return ShareCard{
		UserID:    userID,
		Streak:    streak,
		Unlocked:  engine.Unlocked(streak),
		Celebrate: engine.Celebrate(streak),
		Message:   engine.ShareMessage(streak),
	}, nil
}
