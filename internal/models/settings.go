package models

// Settings represents application-wide settings
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether achievement unlocks are announced via the tray app
	Timezone             string `json:"timezone"`              // IANA timezone name used to decide "today" (or "Local")
}
