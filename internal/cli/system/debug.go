package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/models"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
	DumpLogs     DebugDumpLogsCmd     `cmd:"" help:"Dump completion logs as JSON."`
	DumpProfile  DebugDumpProfileCmd  `cmd:"" help:"Dump the user profile as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"ID or title of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	habit, err := ctx.FindHabit(cmd.Habit, true)
	if err != nil {
		return err
	}
	return printJSON(ctx, habit)
}

type DebugDumpLogsCmd struct {
	Habit string `help:"Only dump logs for this habit (ID or title)."`
}

func (cmd *DebugDumpLogsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	logs, err := ctx.Store.ListCompletionLogs(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to list completion logs: %w", err)
	}
	if cmd.Habit != "" {
		habit, err := ctx.FindHabit(cmd.Habit, true)
		if err != nil {
			return err
		}
		filtered := []models.CompletionLog{}
		for _, l := range logs {
			if l.HabitID == habit.ID {
				filtered = append(filtered, l)
			}
		}
		logs = filtered
	}
	return printJSON(ctx, logs)
}

type DebugDumpProfileCmd struct{}

func (cmd *DebugDumpProfileCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	profile, err := ctx.Store.GetProfile(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	return printJSON(ctx, profile)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
