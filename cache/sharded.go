// Package cache provides a small generic LRU cache, sharded to keep lock
// contention off the render path. The engine uses it for rasterized glyph
// masks; anything keyed by a comparable value with a bounded working set
// fits.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount must stay a power of two so shard selection is a mask.
	ShardCount = 16
	shardMask  = ShardCount - 1

	// DefaultCapacity is the per-shard entry limit when none is given.
	DefaultCapacity = 256
)

// Hasher maps a key to the hash used for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher hashes a string key with FNV-1a.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// IntHasher hashes an int key with FNV-1a over its little-endian bytes.
func IntHasher(i int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for b := 0; b < 8; b++ {
		buf[b] = byte(i >> (8 * b))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Uint64Hasher uses the key itself as the hash. Suitable when the key is
// already well mixed, like a content hash.
func Uint64Hasher(u uint64) uint64 { return u }

// Stats is a snapshot of cache behavior since the last reset.
type Stats struct {
	Len           int
	Capacity      int // per shard
	TotalCapacity int
	Hits          uint64
	Misses        uint64
	HitRate       float64
	Evictions     uint64
}

// ShardedCache is a fixed-capacity LRU cache split into independently
// locked shards. Safe for concurrent use; hits stay allocation-free.
type ShardedCache[K comparable, V any] struct {
	shards   [ShardCount]shard[K, V]
	hasher   Hasher[K]
	capacity int // per shard

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	lru     lruList[K]
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// NewSharded creates a cache holding up to capacity entries per shard
// (total roughly capacity*16). capacity <= 0 selects DefaultCapacity.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &ShardedCache[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*entry[K, V])
	}
	return c
}

func (c *ShardedCache[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[c.hasher(key)&shardMask]
}

// Get returns the cached value for key and refreshes its LRU position.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.moveToFront(e.node)
	v := e.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Set stores value under key, evicting least-recently-used entries if the
// shard is full. The value is not copied; do not mutate it after caching.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = value
		s.lru.moveToFront(e.node)
		return
	}
	c.evictLocked(s)
	s.entries[key] = &entry[K, V]{value: value, node: s.lru.pushFront(key)}
}

// GetOrCreate returns the cached value, calling create under the shard
// lock on a miss so concurrent lookups of the same key compute it once.
// Keep create cheap; it blocks the shard.
func (c *ShardedCache[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.lru.moveToFront(e.node)
		c.hits.Add(1)
		return e.value
	}
	c.misses.Add(1)
	v := create()
	c.evictLocked(s)
	s.entries[key] = &entry[K, V]{value: v, node: s.lru.pushFront(key)}
	return v
}

// evictLocked makes room for one insertion. Caller holds the shard lock.
func (c *ShardedCache[K, V]) evictLocked(s *shard[K, V]) {
	for s.lru.len >= c.capacity {
		oldest, ok := s.lru.removeOldest()
		if !ok {
			return
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
}

// Delete removes key, reporting whether it was present.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear drops every entry in every shard.
func (c *ShardedCache[K, V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.lru = lruList[K]{}
		s.mu.Unlock()
	}
}

// Len returns the entry count across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Capacity returns the per-shard entry limit.
func (c *ShardedCache[K, V]) Capacity() int { return c.capacity }

// TotalCapacity returns the whole-cache entry limit.
func (c *ShardedCache[K, V]) TotalCapacity() int { return c.capacity * ShardCount }

// Stats snapshots the hit/miss/eviction counters.
func (c *ShardedCache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:           c.Len(),
		Capacity:      c.capacity,
		TotalCapacity: c.TotalCapacity(),
		Hits:          hits,
		Misses:        misses,
		HitRate:       hitRate,
		Evictions:     c.evictions.Load(),
	}
}

// ResetStats zeroes the counters without touching cached entries.
func (c *ShardedCache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
