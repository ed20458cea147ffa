package resolvable

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// purgeThreshold is how many descriptors must have been collected before
// an access sweeps dead entries out of the Cache
const purgeThreshold = 64

// Cache interns descriptors by value, so that structurally equal descriptors
// share their memoized hierarchy walks.
//
// Entries are weak: a descriptor nothing else references may be collected,
// which only forces it to be rebuilt. The lock is only held for lookups and
// insertions, never while resolving.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64][]weak.Pointer[Type]
	size    int

	collected atomic.Int64
	hits      atomic.Uint64
	misses    atomic.Uint64

	logger *slog.Logger
}

// CacheStats is a snapshot of a Cache's counters
type CacheStats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

func NewCache() *Cache {
	return &Cache{entries: make(map[uint64][]weak.Pointer[Type])}
}

// get returns the interned descriptor equal to probe, or nil
func (c *Cache) get(probe *Type) *Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybePurge()
	for _, ref := range c.entries[probe.hash] {
		if t := ref.Value(); t != nil && t.Equal(probe) {
			c.hits.Add(1)
			return t
		}
	}
	c.misses.Add(1)
	return nil
}

// put interns t, unless an equal descriptor was interned concurrently:
// then that one is returned and t is dropped.
func (c *Cache) put(t *Type) *Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket := c.entries[t.hash]
	for _, ref := range bucket {
		if existing := ref.Value(); existing != nil && existing.Equal(t) {
			return existing
		}
	}
	c.entries[t.hash] = append(bucket, weak.Make(t))
	c.size++
	runtime.AddCleanup(t, func(c *Cache) { c.collected.Add(1) }, c)
	return t
}

// maybePurge drops entries whose descriptor was collected. c.mu must be held.
func (c *Cache) maybePurge() {
	if c.collected.Load() < purgeThreshold {
		return
	}
	c.collected.Store(0)
	for hash, bucket := range c.entries {
		live := bucket[:0]
		for _, ref := range bucket {
			if ref.Value() != nil {
				live = append(live, ref)
			}
		}
		c.size -= len(bucket) - len(live)
		if len(live) == 0 {
			delete(c.entries, hash)
		} else {
			c.entries[hash] = live
		}
	}
	if c.logger != nil {
		c.logger.Debug("purged collected descriptors", "size", c.size)
	}
}

// Clear drops every entry. Descriptors already handed out stay valid; new
// lookups rebuild their descriptors and hierarchy walks.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := c.size
	c.entries = make(map[uint64][]weak.Pointer[Type])
	c.size = 0
	c.collected.Store(0)
	if c.logger != nil {
		c.logger.Debug("cleared descriptor cache", "dropped", dropped)
	}
}

// Len returns the number of entries, including entries collected since the last sweep
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:   c.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
