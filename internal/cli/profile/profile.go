package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/betteryou/internal/cli"
	"github.com/julianstephens/betteryou/internal/date"
	apperrors "github.com/julianstephens/betteryou/internal/errors"
	"github.com/julianstephens/betteryou/internal/engine"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
)

type ProfileCmd struct {
	Show ProfileShowCmd `cmd:"" help:"Show your profile." default:"1"`
	Set  ProfileSetCmd  `cmd:"" help:"Update profile fields."`
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Store.GetProfile(ctx.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.Printf("No profile for %s yet. Create one with: betteryou profile set --name <name>\n", ctx.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	ctx.Println(cli.Title("Profile: " + p.UserID))
	ctx.Printf("  Name:         %s\n", p.Name)
	if p.PrimaryGoal != "" {
		ctx.Printf("  Primary Goal: %s\n", p.PrimaryGoal)
	}
	if p.HeightCm > 0 {
		ctx.Printf("  Height:       %d cm\n", p.HeightCm)
	}
	if p.WeightKg > 0 {
		ctx.Printf("  Weight:       %d kg\n", p.WeightKg)
	}
	if !p.BirthDate.IsZero() {
		ctx.Printf("  Birth Date:   %s\n", p.BirthDate)
	}
	if len(p.FocusAreas) > 0 {
		ctx.Printf("  Focus Areas:  %s\n", strings.Join(p.FocusAreas, ", "))
	}
	ctx.Printf("  Onboarded:    %v\n", p.OnboardingCompleted)

	if len(p.Achievements) > 0 {
		ctx.Println("\nAchievements:")
		for _, tier := range engine.Tiers {
			if day, ok := p.Achievements[tier.ID]; ok {
				ctx.Printf("  🏆 %-14s %s\n", tier.Label, day)
			}
		}
	}
	return nil
}

type ProfileSetCmd struct {
	Name      *string  `help:"Display name."`
	Goal      *string  `help:"Primary goal."`
	Height    *int     `help:"Height in centimetres."`
	Weight    *int     `help:"Weight in kilograms."`
	Birth     *string  `help:"Birth date (YYYY-MM-DD)."`
	Focus     []string `help:"Focus areas; replaces the current list."`
	Onboarded *bool    `help:"Mark onboarding as completed."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	patch := models.ProfilePatch{
		Name:                c.Name,
		PrimaryGoal:         c.Goal,
		HeightCm:            c.Height,
		WeightKg:            c.Weight,
		FocusAreas:          c.Focus,
		OnboardingCompleted: c.Onboarded,
	}

	if c.Height != nil && *c.Height < 0 {
		return apperrors.Invalid("height cannot be negative")
	}
	if c.Weight != nil && *c.Weight < 0 {
		return apperrors.Invalid("weight cannot be negative")
	}
	if c.Birth != nil {
		birth, err := date.Parse(*c.Birth)
		if err != nil {
			return apperrors.Invalid("invalid birth date %q (expected YYYY-MM-DD)", *c.Birth)
		}
		if birth.After(ctx.Today()) {
			return apperrors.Invalid("birth date %s is in the future", birth)
		}
		patch.BirthDate = &birth
	}

	if patch.IsEmpty() {
		ctx.Println("No changes specified. Use flags such as --name to update your profile.")
		return nil
	}

	p, err := ctx.Store.UpdateProfile(ctx.UserID, patch)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	ctx.Printf("Profile updated for %s.\n", p.UserID)
	return nil
}
