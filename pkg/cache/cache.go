package cache

import (
	"sync"
	"time"
)

// Cache is a generic interface for caching operations
// Implementations can be in-memory, Redis, or any other backing store
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the specified TTL
	Set(key string, value interface{}, ttl time.Duration)

	// Increment atomically adds delta to an int64 counter and returns the new
	// value. A missing or expired entry starts from zero and takes the given
	// TTL; an existing entry keeps its original expiration.
	Increment(key string, delta int64, ttl time.Duration) int64

	// Delete removes a specific key from the cache
	Delete(key string)

	// Clear removes all items from the cache
	Clear()

	// Size returns the number of items currently in the cache
	Size() int

	// Stop gracefully shuts down the cache (e.g., stops cleanup goroutines)
	Stop()
}

// cacheItem represents a single cached value with expiration
type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// isExpired checks if the cache item has expired
func (item *cacheItem) isExpired() bool {
	return time.Now().After(item.expiration)
}

// InMemoryCache is a thread-safe in-memory cache implementation
type InMemoryCache struct {
	items           map[string]*cacheItem
	mu              sync.RWMutex
	cleanupInterval time.Duration
	stopCleanup     chan bool
	stopOnce        sync.Once
}

// NewInMemoryCache creates a new in-memory cache with automatic cleanup
// cleanupInterval determines how often expired items are removed
func NewInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	cache := &InMemoryCache{
		items:           make(map[string]*cacheItem),
		cleanupInterval: cleanupInterval,
		stopCleanup:     make(chan bool),
	}

	// Start background cleanup goroutine
	go cache.startCleanup()

	return cache
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	if item.isExpired() {
		return nil, false
	}

	return item.value, true
}

// Set stores a value in the cache with the specified TTL
func (c *InMemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
}

// Increment atomically adds delta to an int64 counter entry
func (c *InMemoryCache) Increment(key string, delta int64, ttl time.Duration) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found || item.isExpired() {
		c.items[key] = &cacheItem{
			value:      delta,
			expiration: time.Now().Add(ttl),
		}
		return delta
	}

	current, ok := item.value.(int64)
	if !ok {
		// Entry holds a non-counter value, replace it
		item.value = delta
		return delta
	}

	item.value = current + delta
	return current + delta
}

// Delete removes a specific key from the cache
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheItem)
}

// Size returns the number of items currently in the cache, expired included
func (c *InMemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stop shuts down the background cleanup goroutine
func (c *InMemoryCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

// startCleanup periodically removes expired items
func (c *InMemoryCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// removeExpired deletes all expired items from the cache
func (c *InMemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
		}
	}
}
