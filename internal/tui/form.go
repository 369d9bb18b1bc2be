package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/betteryou/internal/models"
)

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	icons := make([]huh.Option[models.Icon], len(models.Icons))
	for i, icon := range models.Icons {
		icons[i] = huh.NewOption(string(icon), icon)
	}
	colors := make([]huh.Option[models.Color], len(models.Colors))
	for i, c := range models.Colors {
		colors[i] = huh.NewOption(string(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category").
				Description("Leave empty for General").
				Value(&fm.Category),
			huh.NewSelect[models.Icon]().
				Title("Icon").
				Options(icons...).
				Value(&fm.Icon),
			huh.NewSelect[models.Color]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
			huh.NewInput().
				Title("Daily goal").
				Value(&fm.Target).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i < 0 {
						return fmt.Errorf("goal cannot be negative")
					}
					return nil
				}),
			huh.NewInput().
				Title("Unit").
				Description("e.g. pages, minutes, glasses").
				Value(&fm.Unit),
		),
	).WithTheme(huh.ThemeDracula())
}
