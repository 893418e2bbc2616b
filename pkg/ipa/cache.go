package ipa

import (
	"sync"
	"sync/atomic"
)

type cacheKey struct {
	locale string
	text   string
}

// Cache memoizes transcriptions by locale and trimmed text. It never
// evicts; Reset empties it and starts a new generation, so results
// computed before a Reset are not stored after it.
type Cache struct {
	mu      sync.Mutex
	gen     uint64
	entries map[cacheKey]string
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]string)}
}

// Get returns the cached transcription, counting the hit or miss.
func (c *Cache) Get(locale, text string) (string, bool) {
	c.mu.Lock()
	v, ok := c.entries[cacheKey{locale, text}]
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Generation returns the current generation. Capture it before
// computing a value and hand it to Put.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Put stores a transcription computed during generation gen. Stale
// writes are dropped and Put reports false.
func (c *Cache) Put(gen uint64, locale, text, ipa string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.entries[cacheKey{locale, text}] = ipa
	return true
}

// Len returns the number of cached transcriptions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every cached transcription.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.gen++
	c.entries = make(map[cacheKey]string)
	c.mu.Unlock()
}
