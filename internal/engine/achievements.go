package engine

import (
	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
)

// Tier is a streak length that permanently unlocks a badge on first reach.
type Tier struct {
	ID        string
	Threshold int
	Label     string
}

// Tiers are ordered by ascending threshold.
var Tiers = []Tier{
	{ID: "streak_3_day", Threshold: 3, Label: "3 Day Streak"},
	{ID: "streak_7_day", Threshold: 7, Label: "7 Day Streak"},
	{ID: "streak_30_day", Threshold: 30, Label: "30 Day Streak"},
}

// TierByID looks up a tier.
func TierByID(id string) (Tier, bool) {
	for _, t := range Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// EvaluateAchievements records today against every tier the streak reaches
// that is not already recorded. It returns a merged copy of current and
// whether anything was added; current itself is left untouched and existing
// dates are never changed.
func EvaluateAchievements(current models.Achievements, streak int, today date.Date) (models.Achievements, bool) {
	updated := current.Clone()
	changed := false
	for _, tier := range Tiers {
		if _, ok := updated[tier.ID]; ok {
			continue
		}
		if streak >= tier.Threshold {
			updated[tier.ID] = today
			changed = true
		}
	}
	return updated, changed
}

// NewlyUnlocked returns the tiers present in updated but not in previous.
func NewlyUnlocked(previous, updated models.Achievements) []Tier {
	var tiers []Tier
	for _, tier := range Tiers {
		_, had := previous[tier.ID]
		_, has := updated[tier.ID]
		if has && !had {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

// Unlocked returns the tiers the given streak currently qualifies for.
func Unlocked(streak int) []Tier {
	var tiers []Tier
	for _, tier := range Tiers {
		if streak >= tier.Threshold {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

// Celebrate reports whether the streak reaches the highest tier.
func Celebrate(streak int) bool {
	return streak >= Tiers[len(Tiers)-1].Threshold
}
