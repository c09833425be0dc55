// Package memory provides an in-process kv.Store, useful for tests and for
// single-instance deployments that do not share limiter state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AlexKimmel/edgelimit/kv"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store keeps values in a mutex-protected map and honors per-key TTLs.
type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]entry
}

var _ kv.Store = (*Store)(nil)

// New creates an empty store. Expired entries are dropped lazily on read;
// call NewWithCleanup instead to also reclaim keys that are never read again.
func New() *Store {
	return &Store{
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// NewWithCleanup creates a store with a background goroutine that removes
// expired entries every interval. The goroutine stops when ctx is done.
func NewWithCleanup(ctx context.Context, interval time.Duration) *Store {
	s := New()
	if interval > 0 {
		go s.runCleanup(ctx, interval)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// Len reports the number of live entries, counting expired ones that have
// not been reclaimed yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) runCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for key, e := range s.entries {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
