package measure

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/loom/internal/content"
)

// DefaultCacheSize is the number of entries a Cache keeps when no size is given.
const DefaultCacheSize = 4096

// Cache memoizes another Measurer with LRU eviction.
// Entries are validated against the stored text and style so a hash
// collision can never return foreign metrics.
type Cache struct {
	mu        sync.Mutex
	entries   map[uint64]*cacheEntry
	inner     Measurer
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	text       string
	style      content.Style
	metrics    Metrics
	lastAccess time.Time
}

// NewCache wraps inner. maxSize <= 0 selects DefaultCacheSize.
func NewCache(inner Measurer, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		entries: make(map[uint64]*cacheEntry),
		inner:   inner,
		maxSize: maxSize,
	}
}

// Measure implements Measurer.
func (c *Cache) Measure(text string, style content.Style) Metrics {
	key := hashKey(text, style)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.text == text && e.style == style {
		e.lastAccess = time.Now()
		m := e.metrics
		c.mu.Unlock()
		c.hits.Add(1)
		return m
	}
	c.mu.Unlock()

	c.misses.Add(1)
	m := c.inner.Measure(text, style)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		text:       text,
		style:      style,
		metrics:    m,
		lastAccess: time.Now(),
	}
	if len(c.entries) > c.maxSize {
		c.evict()
	}
	return m
}

// evict removes the least recently used entry.
// Must be called with mu held.
func (c *Cache) evict() {
	var (
		oldestKey  uint64
		oldestTime time.Time
		found      bool
	)
	for key, e := range c.entries {
		if !found || e.lastAccess.Before(oldestTime) {
			oldestKey, oldestTime, found = key, e.lastAccess, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evictions.Add(1)
	}
}

// Invalidate clears every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of entries
	MaxSize   int     // Maximum entries allowed
	Hits      uint64  // Number of cache hits
	Misses    uint64  // Number of cache misses
	Evictions uint64  // Number of evicted entries
	HitRate   float64 // Hit rate (0.0 - 1.0)
}

// hashKey computes an FNV-1a hash of the style key and text.
func hashKey(text string, style content.Style) uint64 {
	h := fnv.New64a()
	h.Write([]byte(style.Key()))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum64()
}
