package tracker

import (
	"context"
	"fmt"

	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/storage"
)

// Watch calls fn with a freshly computed dashboard now and after every
// change to the user's data, awarding achievements on the way. Changes that
// arrive while a refresh is running collapse into one more refresh. Watch
// unsubscribes and returns nil once ctx is cancelled.
func (t *Tracker) Watch(ctx context.Context, userID string, fn func(Dashboard)) error {
	pending := make(chan struct{}, 1)
	signal := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	unsubscribe, err := t.store.Subscribe(userID, func(c storage.Change) {
		logger.Debug("change received", "user", c.UserID, "kind", c.Kind)
		signal()
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to changes: %w", err)
	}
	defer unsubscribe()

	signal()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			d, err := t.refresh(userID)
			if err != nil {
				logger.Warn("failed to refresh dashboard", "user", userID, "error", err)
				continue
			}
			fn(d)
		}
	}
}

func (t *Tracker) refresh(userID string) (Dashboard, error) {
	today := t.Today()
	unlocked, err := t.AwardAchievements(userID, today)
	if err != nil {
		return Dashboard{}, err
	}
	d, err := t.Dashboard(userID, today)
	if err != nil {
		return Dashboard{}, err
	}
	d.NewlyUnlocked = unlocked
	return d, nil
}
