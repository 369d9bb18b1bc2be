package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/cli/backups"
	"github.com/julianstephens/betteryou/internal/cli/habits"
	"github.com/julianstephens/betteryou/internal/cli/profile"
	"github.com/julianstephens/betteryou/internal/cli/progress"
	"github.com/julianstephens/betteryou/internal/cli/settings"
	"github.com/julianstephens/betteryou/internal/cli/system"
	"github.com/julianstephens/betteryou/internal/config"
	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/notifier"
	"github.com/julianstephens/betteryou/internal/storage"
	"github.com/julianstephens/betteryou/internal/tracker"
	"github.com/julianstephens/betteryou/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Path to config.yaml." default:"${config_file}" env:"BETTERYOU_CONFIG"`
	Database string `help:"SQLite path, PostgreSQL connection string or 'keyring[:account]'. PostgreSQL credentials must NOT be embedded; use the keyring, .pgpass or ${db_env}."`
	User     string `help:"Profile to act as." short:"u"`
	Timezone string `help:"IANA timezone used to decide the current day."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize betteryou storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`

	Today        progress.TodayCmd        `cmd:"" help:"Show today's habits, streak and status."`
	Streak       progress.StreakCmd       `cmd:"" help:"Print the current streak."`
	Calendar     progress.CalendarCmd     `cmd:"" help:"Show a month of completion status."`
	Insights     progress.InsightsCmd     `cmd:"" help:"Show completion rates overall and by category."`
	Achievements progress.AchievementsCmd `cmd:"" help:"Show streak achievements."`
	Share        progress.ShareCmd        `cmd:"" help:"Show a shareable progress card."`
	Watch        progress.WatchCmd        `cmd:"" help:"Follow the dashboard as data changes."`

	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and habit tracking."`
	Profile  profile.ProfileCmd   `cmd:"" help:"Show or edit your profile."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage database credentials in the OS keyring."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Notify   system.NotifyCmd     `cmd:"" hidden:"" help:"Send due habit reminders (run from cron)."`
}

// Commands that open the database themselves, or never touch it.
var noAutoLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, calendars and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
			"db_env":      constants.EnvDBConnection,
		},
	)

	cfg, err := config.Load(CLI.Config)
	errors.Fatal(err)
	cfg.Merge(config.Overrides{
		Database: CLI.Database,
		User:     CLI.User,
		Timezone: CLI.Timezone,
		Debug:    CLI.Debug,
	})

	configDir, err := config.ConfigDir(CLI.Config)
	if err != nil {
		errors.Fatalf("cannot resolve config directory for %s: %v", CLI.Config, err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir, Level: cfg.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	command := strings.Fields(ctx.Command())[0]

	var store storage.Provider
	if command != "keyring" {
		store, err = cli.OpenStore(cfg.Database)
		errors.Fatal(err)
	}
	if !noAutoLoad[command] {
		errors.Fatal(store.Load())
	}

	opts, err := trackerOptions(store, cfg, !noAutoLoad[command])
	errors.Fatal(err)

	appCtx := cli.NewContext(store, *cfg, opts...)
	logger.Debug("running command", "command", ctx.Command(), "user", appCtx.UserID)

	err = ctx.Run(appCtx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("failed to close store", "error", cerr)
		}
	}
	errors.Fatal(err)
}

// trackerOptions resolves the timezone and notification settings. The config
// file wins over stored settings unless it leaves the timezone at its default.
func trackerOptions(store storage.Provider, cfg *config.Config, loaded bool) ([]tracker.Option, error) {
	timezone := cfg.Timezone
	notify := false
	if loaded {
		stored, err := store.GetSettings()
		if err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		if timezone == constants.DefaultTimezone && stored.Timezone != "" {
			timezone = stored.Timezone
		}
		notify = stored.NotificationsEnabled
	}
	if cfg.Notifications != nil {
		notify = *cfg.Notifications
	}

	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return nil, errors.Invalid("unknown timezone %q", timezone)
	}

	opts := []tracker.Option{tracker.WithLocation(loc)}
	if notify {
		opts = append(opts, tracker.WithNotifier(notifier.New()))
	}
	return opts, nil
}
