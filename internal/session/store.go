// Package session holds submitted analysis bundles between the intake call
// and the report render, scoped to a session ID with a TTL. Purely a
// transport convenience; the report engine itself is stateless.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/safestreets/livability-report/internal/report"
)

type entry struct {
	bundle    *report.AnalysisBundle
	expiresAt time.Time
}

func (e *entry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// Store is a thread-safe TTL store of analysis bundles keyed by session ID.
type Store struct {
	mu    sync.RWMutex
	items map[string]*entry
	ttl   time.Duration
	stop  chan struct{}
}

// NewStore creates a store and starts its background expiry sweep.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		items: make(map[string]*entry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go s.cleanup()
	return s
}

// Put stores a bundle and returns its new session ID.
func (s *Store) Put(b *report.AnalysisBundle) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = &entry{bundle: b, expiresAt: time.Now().Add(s.ttl)}
	return id
}

// Get returns the bundle for a session, or false when unknown or expired.
func (s *Store) Get(id string) (*report.AnalysisBundle, bool) {
	s.mu.RLock()
	e, ok := s.items[id]
	s.mu.RUnlock()

	if !ok || e.expired() {
		return nil, false
	}
	return e.bundle, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.items {
		if !e.expired() {
			n++
		}
	}
	return n
}

// Close stops the background sweep.
func (s *Store) Close() {
	close(s.stop)
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for id, e := range s.items {
				if e.expired() {
					delete(s.items, id)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
