package storage

import "strings"

// ChangeKind names the table a change touched.
type ChangeKind string

const (
	ChangeHabits       ChangeKind = "habits"
	ChangeLogs         ChangeKind = "completion_logs"
	ChangeProfile      ChangeKind = "profiles"
	ChangeAchievements ChangeKind = "achievements"
	// ChangeExternal is a write observed from outside this process whose
	// scope is unknown.
	ChangeExternal ChangeKind = "external"
)

// Change is pushed to subscribers after a write. An empty UserID means the
// change may concern any user.
type Change struct {
	UserID string
	Kind   ChangeKind
}

// Payload encodes the change as "<user>:<kind>", the format used on the
// PostgreSQL notification channel.
func (c Change) Payload() string {
	return c.UserID + ":" + string(c.Kind)
}

// ParseChange decodes a notification payload.
func ParseChange(payload string) (Change, bool) {
	userID, kind, ok := strings.Cut(payload, ":")
	if !ok || userID == "" {
		return Change{}, false
	}
	return Change{UserID: userID, Kind: ChangeKind(kind)}, true
}

// Matches reports whether a subscriber for userID should see c.
func (c Change) Matches(userID string) bool {
	return c.UserID == "" || c.UserID == userID
}
