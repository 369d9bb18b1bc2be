package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/betteryou/internal/constants"
)

// LoadLocation loads an IANA timezone. "Local" or empty yields the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ValidateReminderTime accepts an empty string or a HH:MM time of day.
func ValidateReminderTime(timeStr string) error {
	if timeStr == "" {
		return nil
	}
	if _, err := ParseTime(timeStr); err != nil {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM): %w", timeStr, err)
	}
	return nil
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(constants.MonthFormat, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}
