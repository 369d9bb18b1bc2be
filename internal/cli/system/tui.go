package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/tracker"
	"github.com/julianstephens/betteryou/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Tracker, ctx.UserID), tea.WithAltScreen())

	// Edits from other processes reach the dashboard through the change feed.
	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := ctx.Tracker.Watch(watchCtx, ctx.UserID, func(d tracker.Dashboard) {
			p.Send(tui.DashboardMsg(d))
		})
		if err != nil {
			logger.Warn("live updates unavailable", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited with error: %w", err)
	}
	return nil
}
