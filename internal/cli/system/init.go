package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
	"github.com/julianstephens/betteryou/internal/storage/postgres"
	"github.com/julianstephens/betteryou/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy the current user's data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	setProgress(ctx.Store, func(msg string) { ctx.Println(msg) })
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized betteryou storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

// reset deletes an existing SQLite database. PostgreSQL databases are never
// dropped from here.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		ctx.PerformAutomaticBackup()
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func setProgress(store storage.Provider, fn func(string)) {
	switch s := store.(type) {
	case *sqlite.Store:
		s.Progress = fn
	case *postgres.Store:
		s.Progress = fn
	}
}

// migrateData copies settings and the current user's habits, completion logs
// and profile from another database.
func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := cli.OpenSource(source)
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables, .pgpass or the keyring instead")
		}
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	ctx.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	user := ctx.UserID

	ctx.Println("  Migrating habits...")
	habits, err := sourceStore.ListHabits(user, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, habit := range habits {
		if err := ctx.Store.AddHabit(user, habit); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", habit.ID, err)
		}
	}
	ctx.Printf("    Migrated %d habits\n", len(habits))

	ctx.Println("  Migrating completion logs...")
	logs, err := sourceStore.ListCompletionLogs(user)
	if err != nil {
		return fmt.Errorf("failed to get completion logs from source: %w", err)
	}
	for _, log := range logs {
		if err := ctx.Store.SetCompletion(user, log); err != nil {
			return fmt.Errorf("failed to add completion for %s on %s: %w", log.HabitID, log.Day, err)
		}
	}
	ctx.Printf("    Migrated %d completion logs\n", len(logs))

	// Deleted habits are removed only after their logs are in place.
	for _, habit := range habits {
		if habit.DeletedAt == nil {
			continue
		}
		if err := ctx.Store.DeleteHabit(user, habit.ID); err != nil {
			return fmt.Errorf("failed to mark habit %s deleted: %w", habit.ID, err)
		}
	}

	ctx.Println("  Migrating profile...")
	profile, err := sourceStore.GetProfile(user)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.Println("    No profile to migrate")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get profile from source: %w", err)
	}
	if _, err := ctx.Store.UpdateProfile(user, profilePatch(profile)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	ctx.Printf("    Migrated profile with %d achievements\n", len(profile.Achievements))

	return nil
}

func profilePatch(p models.UserProfile) models.ProfilePatch {
	patch := models.ProfilePatch{
		Name:                &p.Name,
		PrimaryGoal:         &p.PrimaryGoal,
		HeightCm:            &p.HeightCm,
		WeightKg:            &p.WeightKg,
		FocusAreas:          p.FocusAreas,
		OnboardingCompleted: &p.OnboardingCompleted,
		Achievements:        p.Achievements,
	}
	if !p.BirthDate.IsZero() {
		patch.BirthDate = &p.BirthDate
	}
	return patch
}
