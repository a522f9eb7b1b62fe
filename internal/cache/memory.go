package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	storedAt  time.Time
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryReviewCache is an in-process ReviewCache for development and tests.
type MemoryReviewCache struct {
	mu              sync.RWMutex
	items           map[string]memoryEntry
	maxEntries      int
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
	cleanupInterval time.Duration
}

// NewMemoryReviewCache creates an in-memory cache.
// cleanupInterval <= 0 defaults to 5 minutes. maxEntries <= 0 means unbounded;
// otherwise the oldest entry is evicted to make room for a new key.
func NewMemoryReviewCache(cleanupInterval time.Duration, maxEntries int) *MemoryReviewCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	if maxEntries < 0 {
		maxEntries = 0
	}

	c := &MemoryReviewCache{
		items:           make(map[string]memoryEntry),
		maxEntries:      maxEntries,
		stopCleanup:     make(chan struct{}),
		cleanupInterval: cleanupInterval,
	}

	go c.cleanupExpired()

	return c
}

func (c *MemoryReviewCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	now := time.Now()
	if entry.expired(now) {
		c.mu.Lock()
		if e, exists := c.items[key]; exists && e.expired(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return "", false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key, overwriting any previous value.
func (c *MemoryReviewCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	now := time.Now()
	entry := memoryEntry{value: value, storedAt: now}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.items[key] = entry

	return nil
}

// evictOldestLocked drops the entry with the earliest store time.
// Caller must hold c.mu.
func (c *MemoryReviewCache) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, v := range c.items {
		if !found || v.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, v.storedAt, true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}

// Ping always succeeds for the in-memory backend.
func (c *MemoryReviewCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (c *MemoryReviewCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, v := range c.items {
				if v.expired(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (c *MemoryReviewCache) Close() error {
	c.cleanupOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

// Len returns the number of items currently in the cache.
func (c *MemoryReviewCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
