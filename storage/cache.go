package storage

import (
	"sync"
	"time"
)

// CacheItem represents a cached item with expiration
type CacheItem[V any] struct {
	Value      V
	Expiration time.Time
}

func (i *CacheItem[V]) expired(now time.Time) bool {
	return !i.Expiration.IsZero() && now.After(i.Expiration)
}

// Cache is an in-memory registry whose entries expire after a TTL. It
// backs the live widget registry and the image probe cache.
type Cache[V any] struct {
	items map[string]*CacheItem[V]
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time

	// OnEvict is called outside the lock for every expired or deleted entry
	OnEvict func(key string, value V)

	stop chan struct{}
	once sync.Once
}

// NewCache creates a cache with a default TTL. A zero ttl never expires.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]*CacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
}

// StartCleanup removes expired items every interval until Close
func (c *Cache[V]) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-c.stop:
				return
			}
		}
	}()
}

// Close stops the cleanup loop
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Set stores a value with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL stores a value with an explicit TTL
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	item := &CacheItem[V]{Value: value}
	if ttl > 0 {
		item.Expiration = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
}

// Get retrieves a value, dropping it if it has expired
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}
	if item.expired(c.now()) {
		c.Delete(key)
		return zero, false
	}
	return item.Value, true
}

// GetOrCreate returns the live value for key or stores the one built by create
func (c *Cache[V]) GetOrCreate(key string, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	if item, ok := c.items[key]; ok && !item.expired(c.now()) {
		c.mu.Unlock()
		return item.Value, nil
	}
	v, err := create()
	if err != nil {
		c.mu.Unlock()
		var zero V
		return zero, err
	}
	item := &CacheItem[V]{Value: v}
	if c.ttl > 0 {
		item.Expiration = c.now().Add(c.ttl)
	}
	c.items[key] = item
	c.mu.Unlock()
	return v, nil
}

// Touch extends an entry's lifetime by the default TTL
func (c *Cache[V]) Touch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return false
	}
	if c.ttl > 0 {
		item.Expiration = c.now().Add(c.ttl)
	}
	return true
}

// Delete removes an item and reports whether it was present
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	item, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if ok && c.OnEvict != nil {
		c.OnEvict(key, item.Value)
	}
	return ok
}

// Cleanup removes expired items
func (c *Cache[V]) Cleanup() int {
	now := c.now()
	evicted := make(map[string]V)

	c.mu.Lock()
	for key, item := range c.items {
		if item.expired(now) {
			evicted[key] = item.Value
			delete(c.items, key)
		}
	}
	c.mu.Unlock()

	if c.OnEvict != nil {
		for key, v := range evicted {
			c.OnEvict(key, v)
		}
	}
	return len(evicted)
}

// Clear removes all items, calling OnEvict for each
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	items := c.items
	c.items = make(map[string]*CacheItem[V])
	c.mu.Unlock()

	if c.OnEvict != nil {
		for key, item := range items {
			c.OnEvict(key, item.Value)
		}
	}
}

// Size returns the number of items in cache
func (c *Cache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys returns all keys in cache
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	return keys
}
