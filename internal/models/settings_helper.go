package models

import (
	"github.com/julianstephens/betteryou/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys that are absent keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	ApplyDefaultSettings(&settings)
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	enabled := "false"
	if settings.NotificationsEnabled {
		enabled = "true"
	}
	return map[string]string{
		constants.SettingNotificationsEnabled: enabled,
		constants.SettingTimezone:             settings.Timezone,
	}
}

// DefaultSettings returns the settings a fresh store is initialized with.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		Timezone:             constants.DefaultTimezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
