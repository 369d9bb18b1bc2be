package constants

const (
	SettingNotificationsEnabled = "notifications_enabled"
	SettingTimezone             = "timezone"

	DefaultNotificationsEnabled = true
	DefaultTimezone             = "Local" // Use system local timezone by default
)
