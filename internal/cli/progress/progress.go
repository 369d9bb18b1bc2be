package progress

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/engine"
	apperrors "github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/tracker"
	"github.com/julianstephens/betteryou/internal/utils"
)

type TodayCmd struct {
	Date string `help:"Show another day (YYYY-MM-DD, 'yesterday')."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Date, ctx.Today())
	if err != nil {
		return err
	}
	d, err := ctx.Tracker.Dashboard(ctx.UserID, day)
	if err != nil {
		return err
	}
	printDashboard(ctx, d)
	return nil
}

func printDashboard(ctx *cli.Context, d tracker.Dashboard) {
	ctx.Printf("%s  %s\n", cli.Title(d.Today.Time().Format("Monday, January 2")), cli.StatusLabel(d.Status))
	ctx.Printf("🔥 Streak: %d day%s\n\n", d.Streak, plural(d.Streak))

	if len(d.Habits) == 0 {
		ctx.Println("No habits scheduled. Add one with: betteryou habit add <title>")
	}
	done := 0
	for _, hd := range d.Habits {
		if hd.Completed {
			done++
		}
		line := fmt.Sprintf("%s %s", cli.Check(hd.Completed), cli.Colored(hd.Habit.Color, hd.Habit.Title))
		if goal := hd.Habit.GoalLabel(); goal != "" {
			line += " " + cli.Muted("("+goal+")")
		}
		ctx.Println(line)
	}
	if len(d.Habits) > 0 {
		ctx.Printf("\n%d/%d done\n", done, len(d.Habits))
	}

	for _, tier := range d.NewlyUnlocked {
		ctx.Printf("🏆 Achievement unlocked: %s\n", tier.Label)
	}

	ctx.Printf("\n%s\n", cli.Quote(fmt.Sprintf("%q %s", d.Quote.Text, "- "+d.Quote.Author)))
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Tracker.Dashboard(ctx.UserID, ctx.Today())
	if err != nil {
		return err
	}
	ctx.Printf("%d\n", d.Streak)
	return nil
}

type CalendarCmd struct {
	Month string `help:"Month to show (YYYY-MM, default: current month)."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	year, month := today.Year(), today.Month()
	if c.Month != "" {
		var err error
		year, month, err = utils.ParseMonth(c.Month)
		if err != nil {
			return apperrors.Invalid("%v", err)
		}
	}

	grid, err := ctx.Tracker.Month(ctx.UserID, year, month)
	if err != nil {
		return err
	}
	ctx.Printf("%s", cli.RenderCalendar(grid, year, month, today))
	return nil
}

type InsightsCmd struct {
	Month string `help:"Month to summarize (YYYY-MM, default: current month)." xor:"period"`
	All   bool   `help:"Summarize all recorded history." xor:"period"`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	period := engine.AllTime
	label := "All time"
	if !c.All {
		today := ctx.Today()
		year, month := today.Year(), today.Month()
		if c.Month != "" {
			var err error
			year, month, err = utils.ParseMonth(c.Month)
			if err != nil {
				return apperrors.Invalid("%v", err)
			}
		}
		period = engine.MonthPeriod(year, month)
		label = fmt.Sprintf("%s %d", month, year)
	}

	ins, err := ctx.Tracker.Insights(ctx.UserID, period)
	if err != nil {
		return err
	}

	ctx.Println(cli.Title(label))
	ctx.Printf("Completion: %s %3d%%  (%d/%d across %d habits)\n\n",
		cli.Bar(ins.Summary.Percentage, 20), ins.Summary.Percentage,
		ins.Summary.Completed, ins.Summary.Total, ins.Summary.HabitCount)

	if len(ins.Categories) == 0 {
		ctx.Println("No habits yet.")
		return nil
	}
	ctx.Println(cli.Title("By category"))
	for _, s := range ins.Categories {
		ctx.Printf("  %-14s %s %3d%%  (%d/%d)\n",
			s.Category, cli.Colored(s.Color, "●"), s.Percentage, s.Completed, s.Total)
	}
	return nil
}

type AchievementsCmd struct{}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	// Catch up on tiers reached through writes made by other clients.
	if _, err := ctx.Tracker.AwardAchievements(ctx.UserID, ctx.Today()); err != nil {
		return err
	}
	d, err := ctx.Tracker.Dashboard(ctx.UserID, ctx.Today())
	if err != nil {
		return err
	}

	for _, tier := range engine.Tiers {
		if day, ok := d.Achievements[tier.ID]; ok {
			ctx.Printf("%s %-14s unlocked %s\n", cli.Check(true), tier.Label, day)
			continue
		}
		remaining := tier.Threshold - d.Streak
		ctx.Printf("%s %-14s %s\n", cli.Check(false), tier.Label,
			cli.Muted(fmt.Sprintf("%d more day%s", remaining, plural(remaining))))
	}
	return nil
}

type ShareCmd struct {
	User string `arg:"" optional:"" help:"User whose progress to show (default: you)."`
}

func (c *ShareCmd) Run(ctx *cli.Context) error {
	user := c.User
	if user == "" {
		user = ctx.UserID
	}
	card, err := ctx.Tracker.Share(user, ctx.Today())
	if err != nil {
		return err
	}

	ctx.Println(card.Message)
	if card.Celebrate {
		ctx.Println("🎉 30 days strong!")
	}
	for _, tier := range card.Unlocked {
		ctx.Printf("🏆 %s\n", tier.Label)
	}
	return nil
}

type WatchCmd struct{}

// Run redraws the dashboard whenever the user's data changes, here or in
// another process, until interrupted.
func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch(sigCtx, ctx)
}

func watch(sigCtx context.Context, ctx *cli.Context) error {
	first := true
	return ctx.Tracker.Watch(sigCtx, ctx.UserID, func(d tracker.Dashboard) {
		if !first {
			ctx.Println(cli.Muted("──────── updated ────────"))
		}
		first = false
		printDashboard(ctx, d)
	})
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
