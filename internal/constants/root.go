package constants

import "time"

const (
	AppName            = "betteryou"
	DefaultKeyringUser = "database-connection"
	DefaultConfigFile  = "~/.config/betteryou/config.yaml"
	DefaultDBPath      = "~/.config/betteryou/betteryou.db"
	DefaultUserID      = "local"
	Version            = "v0.1.0"

	// Environment overrides
	EnvDBConnection = "BETTERYOU_DB_CONNECTION"

	// DefaultCategory is used for habits created without a category
	DefaultCategory = "General"

	// MaxStreakLookbackDays bounds how far back the streak scan walks
	MaxStreakLookbackDays = 365

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "betteryou-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "betteryou-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.betteryou"
	TrayProcessName        = "betteryou-tray"

	// Postgres change feed channel used with LISTEN/NOTIFY
	ChangeChannel = "betteryou_changes"

	// WatchDebounce coalesces bursts of file system events from one write
	WatchDebounce = 150 * time.Millisecond
)
