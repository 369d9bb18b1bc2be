package system

import (
	"fmt"

	"github.com/julianstephens/betteryou/internal/cli"
)

type migrator interface {
	PendingMigrations() (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate is not supported for this storage backend")
	}
	count, err := m.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to inspect migrations: %w", err)
	}
	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	setProgress(ctx.Store, func(msg string) { ctx.Println(msg) })
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	return nil
}
