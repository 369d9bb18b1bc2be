package models

import (
	"testing"

	"github.com/julianstephens/betteryou/internal/date"
)

func TestProfilePatch_ApplyKeepsExistingAchievements(t *testing.T) {
	profile := UserProfile{
		Name: "Sam",
		Achievements: Achievements{
			"streak_3_day": date.MustParse("2025-01-03"),
		},
	}

	patch := ProfilePatch{
		Achievements: Achievements{
			"streak_3_day": date.MustParse("2025-03-01"),
			"streak_7_day": date.MustParse("2025-03-01"),
		},
	}

	got := patch.Apply(profile)

	if got.Achievements["streak_3_day"].String() != "2025-01-03" {
		t.Errorf("existing achievement was overwritten: %s", got.Achievements["streak_3_day"])
	}
	if got.Achievements["streak_7_day"].String() != "2025-03-01" {
		t.Errorf("new achievement not recorded: %v", got.Achievements)
	}
	if got.Name != "Sam" {
		t.Errorf("unrelated field changed: %q", got.Name)
	}
	if _, ok := profile.Achievements["streak_7_day"]; ok {
		t.Error("Apply must not mutate the original profile's achievements")
	}
}

func TestProfilePatch_ApplyFields(t *testing.T) {
	name := "Alex"
	height := 180
	done := true
	patch := ProfilePatch{Name: &name, HeightCm: &height, OnboardingCompleted: &done}

	got := patch.Apply(UserProfile{PrimaryGoal: "Run a 5k", WeightKg: 70})

	if got.Name != "Alex" || got.HeightCm != 180 || !got.OnboardingCompleted {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.PrimaryGoal != "Run a 5k" || got.WeightKg != 70 {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestProfilePatch_IsEmpty(t *testing.T) {
	if !(ProfilePatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	name := "x"
	if (ProfilePatch{Name: &name}).IsEmpty() {
		t.Error("patch with name should not be empty")
	}
}
