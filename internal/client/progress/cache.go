package progress

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long computed stats are served without
// re-reading the local store.
const DefaultCacheTTL = 30 * time.Second

// Observer is notified after every local progress write.
type Observer interface {
	ProgressChanged()
}

// Cache holds the last computed stats for a single date range and the
// set of registered observers. Writes invalidate the value and notify
// observers; reads within the TTL are served from memory.
type Cache struct {
	mu        sync.Mutex
	now       func() time.Time
	ttl       time.Duration
	from, to  string
	stats     *Stats
	fetchedAt time.Time
	observers []Observer
}

// NewCache creates a cache with the given TTL and clock.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now}
}

// Subscribe registers an observer. Observers are called synchronously
// from the writing goroutine and must not block.
func (c *Cache) Subscribe(obs Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, obs)
}

// Get returns the cached stats for the range, or nil when the cache is
// empty, stale, or holds a different range.
func (c *Cache) Get(from, to string) *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil || c.from != from || c.to != to {
		return nil
	}
	if c.now().Sub(c.fetchedAt) > c.ttl {
		c.stats = nil
		return nil
	}
	out := *c.stats
	return &out
}

// Put stores freshly computed stats for the range.
func (c *Cache) Put(from, to string, stats Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.from, c.to = from, to
	c.stats = &stats
	c.fetchedAt = c.now()
}

// Invalidate drops the cached value and notifies every observer.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stats = nil
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, obs := range observers {
		obs.ProgressChanged()
	}
}

// ObserverFunc adapts a func to the Observer interface.
type ObserverFunc func()

func (f ObserverFunc) ProgressChanged() { f() }
