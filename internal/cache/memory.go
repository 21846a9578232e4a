package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	createdAt time.Time
}

// MemoryCache is an in-process GenerationCache. When full, the oldest entry
// is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	store      map[string]memoryEntry
	maxEntries int
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemoryCache creates a cache holding at most maxEntries values. A
// positive cleanupInterval starts a janitor that drops expired entries until
// Close is called.
func NewMemoryCache(maxEntries int, cleanupInterval time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	m := &MemoryCache{
		store:      make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.janitor(cleanupInterval)
	}
	return m
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.store[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.store[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.store, key)
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}
	return append([]byte(nil), entry.value...), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.store[key]; !exists && len(m.store) >= m.maxEntries {
		m.removeExpired(now)
		if len(m.store) >= m.maxEntries {
			m.evictOldest()
		}
	}

	m.store[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: now.Add(ttl),
		createdAt: now,
	}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.store, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// Close stops the janitor
func (m *MemoryCache) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.removeExpired(m.now())
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// caller holds the write lock
func (m *MemoryCache) removeExpired(now time.Time) {
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
		}
	}
}

// caller holds the write lock
func (m *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range m.store {
		if oldestKey == "" || entry.createdAt.Before(oldest) {
			oldestKey, oldest = key, entry.createdAt
		}
	}
	if oldestKey != "" {
		delete(m.store, oldestKey)
	}
}
