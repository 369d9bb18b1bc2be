package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/betteryou/internal/date"
	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
)

func (s *Store) GetProfile(userID string) (models.UserProfile, error) {
	return getProfile(s.db, userID)
}

func getProfile(q queryer, userID string) (models.UserProfile, error) {
	var p models.UserProfile
	var focusAreas, createdAt, updatedAt string

	err := q.QueryRow(`
		SELECT user_id, name, primary_goal, height_cm, weight_kg, birth_date, focus_areas,
			onboarding_completed, created_at, updated_at
		FROM profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.Name, &p.PrimaryGoal, &p.HeightCm, &p.WeightKg, &p.BirthDate, &focusAreas,
		&p.OnboardingCompleted, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return models.UserProfile{}, err
	}

	if err := json.Unmarshal([]byte(focusAreas), &p.FocusAreas); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse focus_areas: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	p.Achievements, err = listAchievements(q, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

func listAchievements(q queryer, userID string) (models.Achievements, error) {
	rows, err := q.Query("SELECT tier_id, unlocked_on FROM achievements WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := models.Achievements{}
	for rows.Next() {
		var id string
		var day date.Date
		if err := rows.Scan(&id, &day); err != nil {
			return nil, err
		}
		achievements[id] = day
	}
	return achievements, rows.Err()
}

// UpdateProfile merges patch into the stored profile, creating it first when
// absent. Achievement rows are insert-only: a tier that is already recorded
// keeps its original date.
func (s *Store) UpdateProfile(userID string, patch models.ProfilePatch) (models.UserProfile, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.UserProfile{}, err
	}
	defer tx.Rollback()

	now := time.Now()
	current, err := getProfile(tx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		current = models.UserProfile{UserID: userID, CreatedAt: now, Achievements: models.Achievements{}}
	} else if err != nil {
		return models.UserProfile{}, err
	}

	merged := patch.Apply(current)
	focusAreas := merged.FocusAreas
	if focusAreas == nil {
		focusAreas = []string{}
	}
	focusJSON, err := json.Marshal(focusAreas)
	if err != nil {
		return models.UserProfile{}, err
	}

	var birthDate interface{}
	if !merged.BirthDate.IsZero() {
		birthDate = merged.BirthDate.String()
	}

	_, err = tx.Exec(`
		INSERT INTO profiles (user_id, name, primary_goal, height_cm, weight_kg, birth_date, focus_areas,
			onboarding_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			primary_goal = excluded.primary_goal,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			birth_date = excluded.birth_date,
			focus_areas = excluded.focus_areas,
			onboarding_completed = excluded.onboarding_completed,
			updated_at = excluded.updated_at`,
		userID, merged.Name, merged.PrimaryGoal, merged.HeightCm, merged.WeightKg, birthDate,
		string(focusJSON), merged.OnboardingCompleted,
		current.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	for id, day := range patch.Achievements {
		_, err := tx.Exec(`
			INSERT INTO achievements (user_id, tier_id, unlocked_on) VALUES (?, ?, ?)
			ON CONFLICT(user_id, tier_id) DO NOTHING`,
			userID, id, day.String())
		if err != nil {
			return models.UserProfile{}, fmt.Errorf("failed to record achievement %s: %w", id, err)
		}
	}

	updated, err := getProfile(tx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.UserProfile{}, err
	}

	s.publish(userID, storage.ChangeProfile)
	return updated, nil
}
