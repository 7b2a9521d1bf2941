package images

import (
	"sync"
	"time"

	"github.com/Antirender/moodpeek1/pkg/model"
)

// MemoryCache is a small bounded cache in front of the disk cache. Inserting
// past the cap evicts the single oldest entry (insertion order, not LRU).
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	order   []string
	cap     int
	ttl     time.Duration
	now     func() time.Time
}

type memEntry struct {
	image   model.CachedImage
	savedAt time.Time
}

// NewMemoryCache creates a MemoryCache holding at most capacity entries, each
// fresh for ttl.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memEntry),
		cap:     capacity,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached image for key if present and not expired. Expired
// entries are removed lazily.
func (c *MemoryCache) Get(key string) (model.CachedImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return model.CachedImage{}, false
	}

	if c.now().Sub(entry.savedAt) >= c.ttl {
		c.remove(key)
		return model.CachedImage{}, false
	}

	return entry.image, true
}

// Put stores the image under key, evicting the oldest entry when full.
func (c *MemoryCache) Put(key string, image model.CachedImage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}

	c.entries[key] = memEntry{image: image, savedAt: c.now()}
	c.order = append(c.order, key)

	if len(c.entries) > c.cap {
		c.remove(c.order[0])
	}
}

// Len reports the number of cached entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memEntry)
	c.order = nil
}

// remove deletes key from both the map and the insertion-order list. Caller
// holds the lock.
func (c *MemoryCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
