package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/betteryou/internal/models"
	"github.com/julianstephens/betteryou/internal/storage"
)

// SetCompletion upserts the log for (habit, day). The habit must belong to
// userID; deleted habits can still be logged so history stays editable.
func (s *Store) SetCompletion(userID string, log models.CompletionLog) error {
	if log.Day.IsZero() {
		return fmt.Errorf("completion day is required")
	}
	if log.UpdatedAt.IsZero() {
		log.UpdatedAt = time.Now()
	}

	var owner string
	err := s.db.QueryRow("SELECT user_id FROM habits WHERE id = ?", log.HabitID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != userID) {
		return fmt.Errorf("habit %s: %w", log.HabitID, storage.ErrNotFound)
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO completion_logs (habit_id, user_id, day, completed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			completed = excluded.completed,
			updated_at = excluded.updated_at`,
		log.HabitID, userID, log.Day.String(), log.Completed, log.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	s.publish(userID, storage.ChangeLogs)
	return nil
}

func (s *Store) ListCompletionLogs(userID string) ([]models.CompletionLog, error) {
	return listCompletionLogs(s.db, userID)
}

func listCompletionLogs(q queryer, userID string) ([]models.CompletionLog, error) {
	rows, err := q.Query(`
		SELECT habit_id, day, completed, updated_at
		FROM completion_logs WHERE user_id = ?
		ORDER BY day, habit_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.CompletionLog
	for rows.Next() {
		var l models.CompletionLog
		var updatedAt string
		if err := rows.Scan(&l.HabitID, &l.Day, &l.Completed, &updatedAt); err != nil {
			return nil, err
		}
		l.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for %s on %s: %w", l.HabitID, l.Day, err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
