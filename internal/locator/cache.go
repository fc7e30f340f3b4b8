package locator

import (
	"sync"
	"time"

	"screenpilot/internal/model"
)

// DefaultCacheTTL is how long cached element geometry is trusted. UI layouts
// shift quickly; five seconds is long enough to act on a find result and
// short enough to catch most relayouts.
const DefaultCacheTTL = 5 * time.Second

// Cache holds the elements from the most recent enumeration, keyed by the
// 1-based IDs shown to the user (annotated screenshots, find output). A new
// Store replaces the entire previous generation, so an ID is only meaningful
// against the enumeration that produced it.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	elements map[int]model.Element
	storedAt time.Time
	screenW  int
	screenH  int
}

// NewCache returns a Cache with the given TTL; 0 means DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl, elements: make(map[int]model.Element)}
}

// Store replaces the cache contents with a fresh enumeration, assigning IDs
// 1..len(elements) in order. screenW/screenH record the display size at
// capture time so a resolution change invalidates the geometry.
func (c *Cache) Store(elements []model.Element, screenW, screenH int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = make(map[int]model.Element, len(elements))
	for i, el := range elements {
		c.elements[i+1] = el
	}
	c.storedAt = time.Now()
	c.screenW = screenW
	c.screenH = screenH
}

// Get returns the element for an ID if the cache is still valid.
func (c *Cache) Get(id int) (model.Element, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.validLocked() {
		return model.Element{}, false
	}
	el, ok := c.elements[id]
	return el, ok
}

// GetAll returns every cached element keyed by ID, or an empty map when
// the cache has expired.
func (c *Cache) GetAll() map[int]model.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]model.Element, len(c.elements))
	if !c.validLocked() {
		return out
	}
	for id, el := range c.elements {
		out[id] = el
	}
	return out
}

// IsValid reports whether the cache holds elements and the TTL has not
// elapsed.
func (c *Cache) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validLocked()
}

// CheckScreenSize invalidates the cache when the display no longer matches
// the dimensions recorded at Store time, and reports whether the cache is
// still valid. Cached geometry is meaningless after a resolution change.
func (c *Cache) CheckScreenSize(screenW, screenH int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.elements) == 0 {
		return false
	}
	if screenW != c.screenW || screenH != c.screenH {
		c.invalidateLocked()
		return false
	}
	return c.validLocked()
}

// Invalidate clears the cache immediately, resetting the timestamp and the
// recorded screen size.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

func (c *Cache) invalidateLocked() {
	c.elements = make(map[int]model.Element)
	c.storedAt = time.Time{}
	c.screenW = 0
	c.screenH = 0
}

// Count returns the number of cached elements regardless of TTL.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.elements)
}

// Age returns how long ago the cache was last stored.
func (c *Cache) Age() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storedAt.IsZero() {
		return 0
	}
	return time.Since(c.storedAt)
}

func (c *Cache) validLocked() bool {
	if len(c.elements) == 0 {
		return false
	}
	return time.Since(c.storedAt) < c.ttl
}
