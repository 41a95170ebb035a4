package cache

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"
)

const DefaultCleanupInterval = time.Minute * 20

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type MemoryStore struct {
	entries         map[string]memoryEntry
	cleanupInterval time.Duration
	now             clock
	locks           *KeyLocker
	mu              sync.RWMutex
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Locker = (*MemoryStore)(nil)
)

type MemoryOption func(*MemoryStore)

func WithCleanupInterval(interval time.Duration) MemoryOption {
	return func(ms *MemoryStore) {
		if interval > 0 {
			ms.cleanupInterval = interval
		}
	}
}

func WithClock(now func() time.Time) MemoryOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]memoryEntry, 10),
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		locks:           NewKeyLocker(),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

func (ms *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	ms.mu.RLock()
	entry, prs := ms.entries[key]
	ms.mu.RUnlock()

	if !prs {
		return nil, false, nil
	}
	if !ms.now().Before(entry.expiresAt) {
		ms.removeIfExpired(key)
		return nil, false, nil
	}
	return slices.Clone(entry.value), true, nil
}

func (ms *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	ms.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		expiresAt: ms.now().Add(ttl),
	}
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) SetMany(ctx context.Context, ttl time.Duration, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	expiresAt := ms.now().Add(ttl)
	for _, entry := range entries {
		ms.entries[entry.Key] = memoryEntry{value: slices.Clone(entry.Value), expiresAt: expiresAt}
	}
	return nil
}

// Lock serializes callers sharing this store on key.
func (ms *MemoryStore) Lock(ctx context.Context, key string) (func(), error) {
	return ms.locks.Lock(ctx, key)
}

func (ms *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	_, prs := ms.entries[key]
	delete(ms.entries, key)
	ms.mu.Unlock()

	if prs {
		log.Printf("cache entry removed: %s", key)
	}
	return nil
}

func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}

// removeIfExpired re-checks under the write lock since the entry may have
// been refreshed after the read.
func (ms *MemoryStore) removeIfExpired(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if entry, prs := ms.entries[key]; prs && !ms.now().Before(entry.expiresAt) {
		delete(ms.entries, key)
	}
}

// Sweep deletes every expired entry and returns how many were removed.
func (ms *MemoryStore) Sweep() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for key, entry := range ms.entries {
		if !now.Before(entry.expiresAt) {
			delete(ms.entries, key)
			removed++
		}
	}
	return removed
}

// Expired entries are already invisible to Get; the periodic sweep only
// keeps abandoned sessions from piling up in memory.
func (ms *MemoryStore) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := ms.Sweep(); removed > 0 {
				log.Printf("cache cleanup removed %d expired entries", removed)
			}
		}
	}
}
