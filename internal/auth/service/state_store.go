package service

import (
	"sync"
	"time"
)

// stateEntry is one stored OAuth state with its expiry.
type stateEntry struct {
	data      map[string]string
	expiresAt time.Time
}

// MemoryStateStore is a mutex-guarded in-memory StateStore. A background
// goroutine sweeps expired entries so abandoned logins do not accumulate.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
	ttl     time.Duration
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewMemoryStateStore creates a state store whose entries expire after ttl.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	s := &MemoryStateStore{
		entries: make(map[string]stateEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Save stores data under the state token with the configured TTL.
func (s *MemoryStateStore) Save(state string, data map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[state] = stateEntry{
		data:      data,
		expiresAt: time.Now().UTC().Add(s.ttl),
	}
}

// Consume retrieves and removes the entry. A second Consume of the same
// state always fails, which defeats replayed callbacks.
func (s *MemoryStateStore) Consume(state string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[state]
	if !ok {
		return nil, false
	}
	delete(s.entries, state)

	if time.Now().UTC().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Len returns the number of live entries, expired or not.
func (s *MemoryStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine and waits for it to exit.
func (s *MemoryStateStore) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *MemoryStateStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryStateStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for state, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, state)
		}
	}
}
