package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/betteryou/internal/backup"
	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/storage/sqlite"
	"github.com/julianstephens/betteryou/internal/utils"
)

// schemaReporter is implemented by both database stores.
type schemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// needsDB checks are skipped when the database cannot be opened.
	needsDB bool
	// warnOnly checks never fail the command.
	warnOnly bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Habit validation", run: checkHabits, needsDB: true},
	{name: "Completion logs", run: checkOrphanLogs, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Some checks failed. Please review the errors above.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All checks passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func schemaVersion(ctx *cli.Context) (int, int, error) {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return 0, 0, nil
	}
	current, latest, err := r.SchemaVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d. Run '%s migrate'", current, latest, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.UserID, true)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s (%s): %w", h.ID, h.Title, err)
		}
	}
	return nil
}

// checkOrphanLogs finds completion logs recorded for the user against a
// habit the user does not own.
func checkOrphanLogs(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.UserID, true)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	owned := make(map[string]bool, len(habits))
	for _, h := range habits {
		owned[h.ID] = true
	}

	logs, err := ctx.Store.ListCompletionLogs(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to list completion logs: %w", err)
	}
	orphaned := 0
	for _, l := range logs {
		if !owned[l.HabitID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d completion log(s) referencing unknown habits", orphaned)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(ctx.Config.Timezone); err != nil {
		return fmt.Errorf("configured timezone %q is invalid: %w", ctx.Config.Timezone, err)
	}
	return nil
}
