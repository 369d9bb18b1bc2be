package postgres

import (
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/storage"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// Subscribe listens on the change channel. Every write to a user table fires
// a trigger that notifies it, so changes from other processes and other
// machines arrive the same way as this process's own writes.
func (s *Store) Subscribe(userID string, fn func(storage.Change)) (func(), error) {
	if err := s.startListener(); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(userID, fn), nil
}

func (s *Store) startListener() error {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	if s.listener != nil {
		return nil
	}

	l := pq.NewListener(s.connStr, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventDisconnected:
			logger.Warn("lost connection to change feed", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("reconnected to change feed")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Debug("change feed connection attempt failed", "error", err)
		}
	})
	if err := l.Listen(constants.ChangeChannel); err != nil {
		l.Close()
		return fmt.Errorf("failed to listen on %s: %w", constants.ChangeChannel, err)
	}

	s.listener = l
	s.done = make(chan struct{})
	go s.listenLoop(l, s.done)
	logger.Debug("listening for changes", "channel", constants.ChangeChannel)
	return nil
}

func (s *Store) stopListener() {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	if s.listener == nil {
		return
	}
	close(s.done)
	s.listener.Close()
	s.listener = nil
}

func (s *Store) listenLoop(l *pq.Listener, done <-chan struct{}) {
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return

		case n, ok := <-l.Notify:
			if !ok {
				return
			}
			// A nil notification follows a reconnect. Anything may have
			// changed while we were away.
			if n == nil {
				s.hub.Publish(storage.Change{Kind: storage.ChangeExternal})
				continue
			}
			c, ok := storage.ParseChange(n.Extra)
			if !ok {
				logger.Warn("ignoring malformed change notification", "payload", n.Extra)
				continue
			}
			s.hub.Publish(c)

		case <-ping.C:
			go l.Ping()
		}
	}
}
