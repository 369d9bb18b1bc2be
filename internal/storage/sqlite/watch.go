package sqlite

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/logger"
	"github.com/julianstephens/betteryou/internal/storage"
)

// Subscribe delivers changes made through this Store immediately. Writes by
// other processes are picked up by watching the database and its WAL file
// and are reported as ChangeExternal to every subscriber.
func (s *Store) Subscribe(userID string, fn func(storage.Change)) (func(), error) {
	if err := s.startWatcher(); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(userID, fn), nil
}

func (s *Store) startWatcher() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory: SQLite recreates the -wal file on checkpoints.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s.watcher = w
	s.done = make(chan struct{})
	go s.watchLoop(w, s.done)
	logger.Debug("watching database for external writes", "path", s.path)
	return nil
}

func (s *Store) stopWatcher() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher == nil {
		return
	}
	close(s.done)
	s.watcher.Close()
	s.watcher = nil
}

func (s *Store) watchLoop(w *fsnotify.Watcher, done <-chan struct{}) {
	base := filepath.Base(s.path)
	relevant := map[string]bool{base: true, base + "-wal": true}

	timer := time.NewTimer(constants.WatchDebounce)
	timer.Stop()

	for {
		select {
		case <-done:
			timer.Stop()
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !relevant[filepath.Base(event.Name)] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(constants.WatchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("database watcher error", "error", err)

		case <-timer.C:
			s.hub.Publish(storage.Change{Kind: storage.ChangeExternal})
		}
	}
}
