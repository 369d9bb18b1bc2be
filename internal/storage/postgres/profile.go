package postgres

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
	var focusAreas []byte

	err := q.QueryRow(`
		SELECT user_id, name, primary_goal, height_cm, weight_kg, birth_date, focus_areas,
			onboarding_completed, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.Name, &p.PrimaryGoal, &p.HeightCm, &p.WeightKg, &p.BirthDate, &focusAreas,
		&p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := json.Unmarshal(focusAreas, &p.FocusAreas); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse focus_areas: %w", err)
	}

	p.Achievements, err = listAchievements(q, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

func listAchievements(q queryer, userID string) (models.Achievements, error) {
	rows, err := q.Query("SELECT tier_id, unlocked_on FROM achievements WHERE user_id = $1", userID)
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

// UpdateProfile upserts the profile row and inserts any achievement tier not
// yet recorded; the row lock keeps concurrent awards from racing.
func (s *Store) UpdateProfile(userID string, patch models.ProfilePatch) (models.UserProfile, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.UserProfile{}, err
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.Exec(`
		INSERT INTO profiles (user_id, created_at, updated_at) VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO NOTHING`, userID, now); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	if _, err := tx.Exec("SELECT 1 FROM profiles WHERE user_id = $1 FOR UPDATE", userID); err != nil {
		return models.UserProfile{}, err
	}

	current, err := getProfile(tx, userID)
	if err != nil {
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
		UPDATE profiles SET name = $1, primary_goal = $2, height_cm = $3, weight_kg = $4,
			birth_date = $5, focus_areas = $6::jsonb, onboarding_completed = $7, updated_at = $8
		WHERE user_id = $9`,
		merged.Name, merged.PrimaryGoal, merged.HeightCm, merged.WeightKg, birthDate,
		string(focusJSON), merged.OnboardingCompleted, now, userID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	for id, day := range patch.Achievements {
		_, err := tx.Exec(`
			INSERT INTO achievements (user_id, tier_id, unlocked_on) VALUES ($1, $2, $3)
			ON CONFLICT (user_id, tier_id) DO NOTHING`,
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
	return updated, nil
}
