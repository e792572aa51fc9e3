package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryStore is an in-process Store. Expired entries are dropped lazily on
// read and periodically by a background sweep that stops with the context
// passed to NewMemoryStore.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive cleanupInterval disables the background sweep.
func NewMemoryStore(ctx context.Context, cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
	if cleanupInterval > 0 {
		go s.cleanup(ctx, cleanupInterval)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.expired(s.now()) {
		s.mu.Lock()
		if current, still := s.items[key]; still && current.expired(s.now()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.items[key] = memoryEntry{value: stored, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.items, key)
	}
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for key, entry := range s.items {
				if entry.expired(now) {
					delete(s.items, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
