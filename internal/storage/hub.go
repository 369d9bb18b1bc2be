package storage

import (
	"sync"

	"github.com/julianstephens/betteryou/internal/logger"
)

type subscriber struct {
	userID string
	fn     func(Change)
}

// Hub fans changes out to in-process subscribers. Callbacks run on the
// publishing goroutine, outside the lock, and must not block.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscriber)}
}

// Subscribe registers fn and returns an idempotent unsubscribe function.
func (h *Hub) Subscribe(userID string, fn func(Change)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{userID: userID, fn: fn}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers c to every matching subscriber.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	targets := make([]func(Change), 0, len(h.subs))
	for _, s := range h.subs {
		if c.Matches(s.userID) {
			targets = append(targets, s.fn)
		}
	}
	h.mu.RUnlock()

	logger.Debug("publishing change", "user", c.UserID, "kind", c.Kind, "subscribers", len(targets))
	for _, fn := range targets {
		fn(c)
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
