package backendapi

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCache is a bounded Cache implementation that evicts the least recently
// used entry once the size limit is reached. Expiry is still honored per
// entry; eviction only bounds memory.
type LRUCache struct {
	entries *lru.Cache[string, *CacheEntry]
}

// NewLRUCache creates a cache holding at most size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[string, *CacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{entries: entries}, nil
}

// Get returns the live entry for key. Expired entries are removed on read.
func (c *LRUCache) Get(key string) (*CacheEntry, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if entry.Expired(time.Now()) {
		c.entries.Remove(key)
		return nil, false
	}
	return entry, true
}

// Set stores an entry, evicting the oldest one when full. A ttl of zero
// stores the entry without expiry.
func (c *LRUCache) Set(key string, entry *CacheEntry, ttl time.Duration) {
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	} else {
		entry.ExpiresAt = time.Time{}
	}
	c.entries.Add(key, entry)
}

// Delete removes the entry for key.
func (c *LRUCache) Delete(key string) {
	c.entries.Remove(key)
}

// Clear removes all entries.
func (c *LRUCache) Clear() {
	c.entries.Purge()
}

// Len returns the number of stored entries.
func (c *LRUCache) Len() int {
	return c.entries.Len()
}
