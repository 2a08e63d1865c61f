// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type cacheKey struct {
	LatQ int64
	LonQ int64
	Lang string
}

type cacheEntry struct {
	Address    Address
	InsertedAt time.Time
}

// Cache is a bounded, time-expiring mapping from quantized coordinates and
// language to previously resolved addresses. Reads do not refresh entry age:
// eviction under the size cap always removes the entry with the oldest
// insertion timestamp. The cache lives in memory only and starts empty on
// every process start.
type Cache struct {
	ttl        time.Duration
	maxEntries int
	scale      float64
	clock      clockwork.Clock

	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

// NewCache returns a new Cache with the given TTL, size cap and coordinate key
// precision in decimal places.
func NewCache(ttl time.Duration, maxEntries, precision int) *Cache {
	return NewCacheWithClock(ttl, maxEntries, precision, clockwork.NewRealClock())
}

// NewCacheWithClock returns a new Cache with an injectable clock for TTL tests.
// A size cap below 1 is raised to 1.
func NewCacheWithClock(ttl time.Duration, maxEntries, precision int, clock clockwork.Clock) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		scale:      math.Pow(10, float64(precision)),
		clock:      clock,
		entries:    make(map[cacheKey]cacheEntry),
	}
}

func (c *Cache) key(lat, lon float64, lang string) cacheKey {
	return cacheKey{
		LatQ: int64(math.Round(lat * c.scale)),
		LonQ: int64(math.Round(lon * c.scale)),
		Lang: lang,
	}
}

// Get returns the cached address for the given coordinates and language. Expired
// entries are treated as absent and are lazily purged.
func (c *Cache) Get(lat, lon float64, lang string) (Address, bool) {
	key := c.key(lat, lon, lang)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Address{}, false
	}
	if c.clock.Now().Sub(entry.InsertedAt) > c.ttl {
		c.mu.Lock()
		if current, exists := c.entries[key]; exists && current.InsertedAt.Equal(entry.InsertedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Address{}, false
	}
	return entry.Address, true
}

// Put inserts or overwrites the entry for the given coordinates and language
// with the current timestamp. If inserting a new key would exceed the size cap,
// the oldest entry is evicted first.
func (c *Cache) Put(lat, lon float64, lang string, addr Address) {
	key := c.key(lat, lon, lang)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = cacheEntry{
		Address:    addr,
		InsertedAt: c.clock.Now(),
	}
}

// evictOldest removes the entry with the oldest insertion timestamp. Caller must
// hold the write lock.
func (c *Cache) evictOldest() {
	var oldestKey cacheKey
	var oldestTime time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.InsertedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.InsertedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Sweep removes all expired entries and returns the number of removed entries.
// It is run periodically by the service scheduler.
func (c *Cache) Sweep() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.InsertedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
