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

const habitColumns = `id, title, icon, color, category, goal_type, goal_target, goal_unit,
	repeat_frequency, repeat_days, subtasks, start_date, end_date, reminder_time,
	created_at, deleted_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var repeatDays, subtasks []byte
	var endDate date.Date
	var deletedAt sql.NullTime

	err := row.Scan(&h.ID, &h.Title, &h.Icon, &h.Color, &h.Category,
		&h.Goal.Type, &h.Goal.Target, &h.Goal.Unit,
		&h.Repeat.Frequency, &repeatDays, &subtasks,
		&h.StartDate, &endDate, &h.ReminderTime, &h.CreatedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if err := json.Unmarshal(repeatDays, &h.Repeat.Days); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse repeat_days for habit %s: %w", h.ID, err)
	}
	if err := json.Unmarshal(subtasks, &h.Subtasks); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse subtasks for habit %s: %w", h.ID, err)
	}
	if !endDate.IsZero() {
		h.EndDate = &endDate
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		h.DeletedAt = &t
	}

	h.Normalize()
	return h, nil
}

func habitArgs(h models.Habit) ([]interface{}, error) {
	days := h.Repeat.Days
	if days == nil {
		days = []time.Weekday{}
	}
	repeatDays, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	subtasks := h.Subtasks
	if subtasks == nil {
		subtasks = map[string]models.Subtask{}
	}
	subtasksJSON, err := json.Marshal(subtasks)
	if err != nil {
		return nil, err
	}

	var endDate interface{}
	if h.EndDate != nil && !h.EndDate.IsZero() {
		endDate = h.EndDate.String()
	}

	return []interface{}{
		h.Title, string(h.Icon), string(h.Color), h.Category,
		string(h.Goal.Type), h.Goal.Target, h.Goal.Unit,
		string(h.Repeat.Frequency), string(repeatDays), string(subtasksJSON),
		h.StartDate.String(), endDate, h.ReminderTime,
	}, nil
}

func (s *Store) AddHabit(userID string, habit models.Habit) error {
	habit.Normalize()
	if err := habit.Validate(); err != nil {
		return err
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	args, err := habitArgs(habit)
	if err != nil {
		return fmt.Errorf("failed to encode habit: %w", err)
	}
	args = append([]interface{}{habit.ID, userID}, args...)
	args = append(args, habit.CreatedAt)

	_, err = s.db.Exec(`
		INSERT INTO habits (id, user_id, title, icon, color, category, goal_type, goal_target, goal_unit,
			repeat_frequency, repeat_days, subtasks, start_date, end_date, reminder_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12::jsonb, $13, $14, $15, $16)`, args...)
	if err != nil {
		return err
	}
	return nil
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+`
		FROM habits WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) ListHabits(userID string, includeDeleted bool) ([]models.Habit, error) {
	return listHabits(s.db, userID, includeDeleted)
}

func listHabits(q queryer, userID string, includeDeleted bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	rows, err := q.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(userID string, habit models.Habit) error {
	habit.Normalize()
	if err := habit.Validate(); err != nil {
		return err
	}

	args, err := habitArgs(habit)
	if err != nil {
		return fmt.Errorf("failed to encode habit: %w", err)
	}
	args = append(args, habit.ID, userID)

	result, err := s.db.Exec(`
		UPDATE habits SET title = $1, icon = $2, color = $3, category = $4, goal_type = $5,
			goal_target = $6, goal_unit = $7, repeat_frequency = $8, repeat_days = $9::jsonb,
			subtasks = $10::jsonb, start_date = $11, end_date = $12, reminder_time = $13
		WHERE id = $14 AND user_id = $15 AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if err := requireRow(result, "habit "+habit.ID); err != nil {
		return err
	}
	return nil
}

func (s *Store) DeleteHabit(userID, id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = $1 WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`,
		time.Now(), id, userID)
	if err != nil {
		return err
	}
	if err := requireRow(result, "habit "+id); err != nil {
		return err
	}
	return nil
}

func (s *Store) RestoreHabit(userID, id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL`,
		id, userID)
	if err != nil {
		return err
	}
	if err := requireRow(result, "deleted habit "+id); err != nil {
		return err
	}
	return nil
}

func requireRow(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
