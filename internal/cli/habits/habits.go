package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/date"
	apperrors "github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/tracker"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
	Mark    HabitMarkCmd    `cmd:"" help:"Mark a habit as done for a day."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Flip a habit's completion for a day."`
}

type HabitAddCmd struct {
	Title    string   `arg:"" help:"Habit title."`
	Icon     string   `help:"Icon." enum:"zap,book,coffee,droplet,moon,sun" default:"zap"`
	Color    string   `help:"Color." enum:"blue,green,red,yellow,purple,pink,teal" default:"blue"`
	Category string   `help:"Category (default: General)."`
	Goal     string   `help:"Goal type." enum:"reps,duration,steps,checklist" default:"reps"`
	Target   int      `help:"Goal target." default:"1"`
	Unit     string   `help:"Goal unit, e.g. pages or minutes."`
	Days     string   `help:"Weekdays for a weekly habit, e.g. mon,wed,fri."`
	Start    string   `help:"Start date (YYYY-MM-DD, default: today)."`
	End      string   `help:"End date (YYYY-MM-DD)."`
	Reminder string   `help:"Reminder time (HH:MM)."`
	Subtask  []string `help:"Checklist item; repeat for more."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	start, err := cli.ParseDay(c.Start, today)
	if err != nil {
		return err
	}

	habit := models.Habit{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(c.Title),
		Icon:         models.Icon(c.Icon),
		Color:        models.Color(c.Color),
		Category:     strings.TrimSpace(c.Category),
		Goal:         models.Goal{Type: models.GoalType(c.Goal), Target: c.Target, Unit: c.Unit},
		Repeat:       models.Repeat{Frequency: models.FrequencyDaily},
		StartDate:    start,
		ReminderTime: c.Reminder,
		CreatedAt:    time.Now().UTC(),
	}

	if c.Days != "" {
		days, err := cli.ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		habit.Repeat = models.Repeat{Frequency: models.FrequencyWeekly, Days: days}
	}

	if c.End != "" {
		end, err := date.Parse(c.End)
		if err != nil {
			return apperrors.Invalid("invalid end date %q (expected YYYY-MM-DD)", c.End)
		}
		habit.EndDate = &end
	}

	if len(c.Subtask) > 0 {
		habit.Subtasks = make(map[string]models.Subtask, len(c.Subtask))
		for _, text := range c.Subtask {
			habit.Subtasks[uuid.New().String()] = models.Subtask{Text: text}
		}
	}

	habit.Normalize()
	if err := habit.Validate(); err != nil {
		return apperrors.Invalid("%v", err)
	}

	if err := ctx.Store.AddHabit(ctx.UserID, habit); err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}

	ctx.Printf("Added habit: %s (ID: %s)\n", habit.Title, habit.ID)
	return nil
}

type HabitListCmd struct {
	Deleted bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.UserID, c.Deleted)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	for _, h := range habits {
		status := ""
		switch {
		case h.DeletedAt != nil:
			status = " [DELETED]"
		case !h.IsActiveOn(today):
			status = " [INACTIVE]"
		}
		ctx.Printf("%s %s%s\n", cli.Colored(h.Color, "●"), cli.Title(h.Title), status)

		details := []string{h.CategoryOrDefault(), cli.FormatRepeat(h.Repeat)}
		if goal := h.GoalLabel(); goal != "" {
			details = append(details, goal)
		}
		if h.ReminderTime != "" {
			details = append(details, "reminder "+h.ReminderTime)
		}
		ctx.Printf("  %s\n", cli.Muted(strings.Join(details, " · ")))
		ctx.Printf("  %s\n", cli.Muted("ID: "+h.ID))
	}
	return nil
}

type HabitEditCmd struct {
	Habit    string  `arg:"" help:"Habit ID or title."`
	Title    *string `help:"New title."`
	Icon     *string `help:"New icon."`
	Color    *string `help:"New color."`
	Category *string `help:"New category."`
	Target   *int    `help:"New goal target."`
	Unit     *string `help:"New goal unit."`
	Days     *string `help:"Weekdays for a weekly habit; empty makes it daily."`
	Start    *string `help:"New start date (YYYY-MM-DD)."`
	End      *string `help:"New end date (YYYY-MM-DD); 'none' clears it."`
	Reminder *string `help:"New reminder time (HH:MM); empty clears it."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit, false)
	if err != nil {
		return err
	}

	if c.Title != nil {
		habit.Title = strings.TrimSpace(*c.Title)
	}
	if c.Icon != nil {
		habit.Icon = models.Icon(*c.Icon)
	}
	if c.Color != nil {
		habit.Color = models.Color(*c.Color)
	}
	if c.Category != nil {
		habit.Category = strings.TrimSpace(*c.Category)
	}
	if c.Target != nil {
		habit.Goal.Target = *c.Target
	}
	if c.Unit != nil {
		habit.Goal.Unit = *c.Unit
	}
	if c.Days != nil {
		if *c.Days == "" {
			habit.Repeat = models.Repeat{Frequency: models.FrequencyDaily}
		} else {
			days, err := cli.ParseWeekdays(*c.Days)
			if err != nil {
				return err
			}
			habit.Repeat = models.Repeat{Frequency: models.FrequencyWeekly, Days: days}
		}
	}
	if c.Start != nil {
		start, err := date.Parse(*c.Start)
		if err != nil {
			return apperrors.Invalid("invalid start date %q (expected YYYY-MM-DD)", *c.Start)
		}
		habit.StartDate = start
	}
	if c.End != nil {
		if strings.EqualFold(*c.End, "none") || *c.End == "" {
			habit.EndDate = nil
		} else {
			end, err := date.Parse(*c.End)
			if err != nil {
				return apperrors.Invalid("invalid end date %q (expected YYYY-MM-DD)", *c.End)
			}
			habit.EndDate = &end
		}
	}
	if c.Reminder != nil {
		habit.ReminderTime = *c.Reminder
	}

	if err := habit.Validate(); err != nil {
		return apperrors.Invalid("%v", err)
	}
	if err := ctx.Store.UpdateHabit(ctx.UserID, habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	ctx.Printf("Updated habit: %s\n", habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit, false)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.DeleteHabit(ctx.UserID, habit.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	ctx.Printf("Deleted habit: %s\n", habit.Title)
	ctx.Printf("Restore it with: betteryou habit restore %s\n", habit.ID)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit, true)
	if err != nil {
		return err
	}
	if habit.DeletedAt == nil {
		return apperrors.Invalid("habit %q is not deleted", habit.Title)
	}

	if err := ctx.Store.RestoreHabit(ctx.UserID, habit.ID); err != nil {
		return fmt.Errorf("failed to restore habit: %w", err)
	}

	ctx.Printf("Restored habit: %s\n", habit.Title)
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Date  string `help:"Date in YYYY-MM-DD format, 'today' or 'yesterday' (default: today)."`
	Undo  bool   `help:"Mark the habit as not done."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, day, err := resolve(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.SetCompletion(ctx.UserID, habit.ID, day, !c.Undo); err != nil {
		return err
	}

	if c.Undo {
		ctx.Printf("Unmarked %s for %s\n", habit.Title, day)
	} else {
		ctx.Printf("%s Marked %s as done for %s\n", cli.Check(true), habit.Title, day)
	}
	return award(ctx)
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Date  string `help:"Date in YYYY-MM-DD format, 'today' or 'yesterday' (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	habit, day, err := resolve(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}

	done, err := ctx.Tracker.ToggleCompletion(ctx.UserID, habit.ID, day)
	if err != nil {
		return err
	}

	ctx.Printf("%s %s on %s\n", cli.Check(done), habit.Title, day)
	return award(ctx)
}

// resolve finds the habit and day a completion command targets. Future days
// cannot be recorded.
func resolve(ctx *cli.Context, ref, day string) (models.Habit, date.Date, error) {
	today := ctx.Today()
	d, err := cli.ParseDay(day, today)
	if err != nil {
		return models.Habit{}, date.Date{}, err
	}
	if d.After(today) {
		return models.Habit{}, date.Date{}, apperrors.Invalid("cannot record %s, it is in the future", d)
	}
	habit, err := ctx.FindHabit(ref, false)
	if err != nil {
		return models.Habit{}, date.Date{}, err
	}
	return habit, d, nil
}

// award records achievement tiers the new streak reaches.
func award(ctx *cli.Context) error {
	tiers, err := ctx.Tracker.AwardAchievements(ctx.UserID, ctx.Today())
	if err != nil {
		return err
	}
	if len(tiers) > 0 {
		ctx.Printf("🏆 %s\n", tracker.UnlockMessage(tiers))
	}
	return nil
}
