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

const habitColumns = `id, title, icon, color, category, goal_type, goal_target, goal_unit,
	repeat_frequency, repeat_days, subtasks, start_date, end_date, reminder_time,
	created_at, deleted_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var repeatDays, subtasks, createdAt string
	var endDate date.Date
	var deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Title, &h.Icon, &h.Color, &h.Category,
		&h.Goal.Type, &h.Goal.Target, &h.Goal.Unit,
		&h.Repeat.Frequency, &repeatDays, &subtasks,
		&h.StartDate, &endDate, &h.ReminderTime, &createdAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if err := json.Unmarshal([]byte(repeatDays), &h.Repeat.Days); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse repeat_days for habit %s: %w", h.ID, err)
	}
	if err := json.Unmarshal([]byte(subtasks), &h.Subtasks); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse subtasks for habit %s: %w", h.ID, err)
	}
	if !endDate.IsZero() {
		h.EndDate = &endDate
	}
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse deleted_at for habit %s: %w", h.ID, err)
		}
		h.DeletedAt = &t
	}

	h.Normalize()
	return h, nil
}

// habitArgs encodes the mutable columns in habitColumns order, minus id,
// created_at and deleted_at.
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
	args = append(args, habit.CreatedAt.Format(time.RFC3339))

	_, err = s.db.Exec(`
		INSERT INTO habits (id, user_id, title, icon, color, category, goal_type, goal_target, goal_unit,
			repeat_frequency, repeat_days, subtasks, start_date, end_date, reminder_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return err
	}

	s.publish(userID, storage.ChangeHabits)
	return nil
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+`
		FROM habits WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)

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
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
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
		UPDATE habits SET title = ?, icon = ?, color = ?, category = ?, goal_type = ?, goal_target = ?,
			goal_unit = ?, repeat_frequency = ?, repeat_days = ?, subtasks = ?, start_date = ?,
			end_date = ?, reminder_time = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if err := requireRow(result, "habit "+habit.ID); err != nil {
		return err
	}

	s.publish(userID, storage.ChangeHabits)
	return nil
}

func (s *Store) DeleteHabit(userID, id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		time.Now().Format(time.RFC3339), id, userID)
	if err != nil {
		return err
	}
	if err := requireRow(result, "habit "+id); err != nil {
		return err
	}

	s.publish(userID, storage.ChangeHabits)
	return nil
}

func (s *Store) RestoreHabit(userID, id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND user_id = ? AND deleted_at IS NOT NULL`,
		id, userID)
	if err != nil {
		return err
	}
	if err := requireRow(result, "deleted habit "+id); err != nil {
		return err
	}

	s.publish(userID, storage.ChangeHabits)
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
