// Package cache provides a small in-process LRU with per-entry TTL. The web
// client uses it to keep recently fetched backend data (profile, budgets,
// categories) for a few seconds, keyed by session, so one page view does not
// turn into a dozen identical backend calls.
package cache

import (
	"log/slog"
	"time"
)

// Cache is the read/write surface handlers use.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries in bulk.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs periodic cleanup over registered caches.
type Manager struct {
	logger  *slog.Logger
	caches  []Cleaner
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Register adds a cache to the cleanup rotation. Call before StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup launches the background sweep.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := 0
			for _, c := range m.caches {
				removed += c.CleanExpired()
			}
			if removed > 0 && m.logger != nil {
				m.logger.Debug("cache cleanup", "removed", removed)
			}
		case <-m.stopCh:
			return
		}
	}
}

// Stop ends the sweep and waits for it to finish.
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	close(m.stopCh)
	<-m.doneCh
}
