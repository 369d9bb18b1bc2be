package system

import (
	"fmt"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/notifier"
	"github.com/julianstephens/betteryou/internal/tracker"
)

// NotifyCmd sends reminders for habits whose reminder time is the current
// minute and that are still open today. It is meant to run from cron.
type NotifyCmd struct {
	DryRun bool   `help:"Print notifications to stdout instead of sending them."`
	Test   string `help:"Send this message once and exit, to check the tray app is reachable."`

	notifier tracker.Notifier
}

func (c *NotifyCmd) send(ctx *cli.Context, msg string) error {
	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}
	if c.notifier == nil {
		c.notifier = notifier.New()
	}
	return c.notifier.Notify(msg)
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.Test != "" {
		if err := c.send(ctx, c.Test); err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}
		ctx.Println("✓ Notification sent")
		return nil
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		if c.DryRun {
			ctx.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	now := ctx.Tracker.Now().Format(constants.TimeFormat)
	d, err := ctx.Tracker.Dashboard(ctx.UserID, ctx.Today())
	if err != nil {
		return err
	}

	sent := 0
	for _, hd := range d.Habits {
		if hd.Completed || hd.Habit.ReminderTime != now {
			continue
		}
		msg := fmt.Sprintf("Reminder: %s", hd.Habit.Title)
		if goal := hd.Habit.GoalLabel(); goal != "" {
			msg += fmt.Sprintf(" (%s)", goal)
		}
		if err := c.send(ctx, msg); err != nil {
			// Keep going so one failure does not swallow the other reminders.
			logger.Warn("failed to send reminder", "habit", hd.Habit.ID, "error", err)
			continue
		}
		sent++
	}

	if c.DryRun && sent == 0 {
		ctx.Printf("No reminders due at %s.\n", now)
	}
	return nil
}
