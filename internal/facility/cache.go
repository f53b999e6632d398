package facility

import (
	"slices"
	"time"
)

const (
	CacheCapacity = 20
	CacheTTL      = 5 * time.Minute
)

type cacheEntry struct {
	facilities []Facility
	at         time.Time
}

// Cache keeps results per grid bucket, evicting in insertion order once it
// holds more than its capacity.
type Cache struct {
	capacity int
	ttl      time.Duration
	order    []string
	entries  map[string]cacheEntry
}

func NewCache(capacity int, ttl time.Duration) *Cache {
	return &Cache{capacity: capacity, ttl: ttl, entries: map[string]cacheEntry{}}
}

// Get returns the bucket's facilities if the entry is younger than the TTL.
func (c *Cache) Get(key string, now time.Time) ([]Facility, bool) {
	e, ok := c.entries[key]
	if !ok || now.Sub(e.at) >= c.ttl {
		return nil, false
	}
	return e.facilities, true
}

// Put stores facilities under key. Rewriting a key moves it to the newest slot.
func (c *Cache) Put(key string, facilities []Facility, now time.Time) {
	if _, ok := c.entries[key]; ok {
		c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	}
	c.entries[key] = cacheEntry{facilities: facilities, at: now}
	c.order = append(c.order, key)
	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}
