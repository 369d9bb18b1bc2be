package models

import (
	"time"

	"github.com/julianstephens/betteryou/internal/date"
)

// Achievements maps an achievement tier id to the day it was first unlocked.
// Entries are never removed or overwritten once recorded.
type Achievements map[string]date.Date

// Clone returns an independent copy.
func (a Achievements) Clone() Achievements {
	out := make(Achievements, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type UserProfile struct {
	UserID              string       `json:"user_id"`
	Name                string       `json:"name"`
	PrimaryGoal         string       `json:"primary_goal,omitempty"`
	HeightCm            int          `json:"height_cm,omitempty"`
	WeightKg            int          `json:"weight_kg,omitempty"`
	BirthDate           date.Date    `json:"birth_date,omitempty"`
	FocusAreas          []string     `json:"focus_areas,omitempty"`
	OnboardingCompleted bool         `json:"onboarding_completed"`
	Achievements        Achievements `json:"achievements,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// ProfilePatch is a partial profile update. Nil fields are left untouched and
// Achievements entries are only added when the tier is not already recorded.
type ProfilePatch struct {
	Name                *string
	PrimaryGoal         *string
	HeightCm            *int
	WeightKg            *int
	BirthDate           *date.Date
	FocusAreas          []string
	OnboardingCompleted *bool
	Achievements        Achievements
}

// Apply merges the patch into p and returns the result.
func (patch ProfilePatch) Apply(p UserProfile) UserProfile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.PrimaryGoal != nil {
		p.PrimaryGoal = *patch.PrimaryGoal
	}
	if patch.HeightCm != nil {
		p.HeightCm = *patch.HeightCm
	}
	if patch.WeightKg != nil {
		p.WeightKg = *patch.WeightKg
	}
	if patch.BirthDate != nil {
		p.BirthDate = *patch.BirthDate
	}
	if patch.FocusAreas != nil {
		p.FocusAreas = append([]string(nil), patch.FocusAreas...)
	}
	if patch.OnboardingCompleted != nil {
		p.OnboardingCompleted = *patch.OnboardingCompleted
	}
	if len(patch.Achievements) > 0 {
		merged := p.Achievements.Clone()
		for id, day := range patch.Achievements {
			if _, exists := merged[id]; !exists {
				merged[id] = day
			}
		}
		p.Achievements = merged
	}
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (patch ProfilePatch) IsEmpty() bool {
	return patch.Name == nil && patch.PrimaryGoal == nil && patch.HeightCm == nil &&
		patch.WeightKg == nil && patch.BirthDate == nil && patch.FocusAreas == nil &&
		patch.OnboardingCompleted == nil && len(patch.Achievements) == 0
}
