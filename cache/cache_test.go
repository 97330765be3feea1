package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	c := NewSharded[string, int](4, StringHasher)

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache returned a value")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	c := NewSharded[string, int](4, StringHasher)

	calls := 0
	create := func() int { calls++; return 42 }

	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate = %d, want 42", v)
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate hit = %d, want 42", v)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestEviction(t *testing.T) {
	// A constant hasher forces every key into one shard so the capacity
	// math is exact.
	c := NewSharded[int, int](2, func(int) uint64 { return 0 })

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3) // evicts key 1, the oldest

	if _, ok := c.Get(1); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("entry 2 evicted prematurely")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("entry 3 missing")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRUOrderOnAccess(t *testing.T) {
	c := NewSharded[int, int](2, func(int) uint64 { return 0 })

	c.Set(1, 1)
	c.Set(2, 2)
	c.Get(1)    // 2 becomes oldest
	c.Set(3, 3) // evicts 2

	if _, ok := c.Get(2); ok {
		t.Error("recently-unused entry survived; LRU order not updated on Get")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("recently-used entry evicted")
	}
}

func TestDelete(t *testing.T) {
	c := NewSharded[string, int](4, StringHasher)
	c.Set("a", 1)

	if !c.Delete("a") {
		t.Error("Delete(a) = false for present key")
	}
	if c.Delete("a") {
		t.Error("Delete(a) = true for absent key")
	}
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still readable")
	}
}

func TestClear(t *testing.T) {
	c := NewSharded[int, int](8, IntHasher)
	for i := 0; i < 20; i++ {
		c.Set(i, i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	// Cache stays usable after clear.
	c.Set(1, 1)
	if _, ok := c.Get(1); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestStats(t *testing.T) {
	c := NewSharded[string, int](4, StringHasher)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("b")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("HitRate = %f, want ~2/3", s.HitRate)
	}

	c.ResetStats()
	s = c.Stats()
	if s.Hits != 0 || s.Misses != 0 || s.Evictions != 0 {
		t.Errorf("stats not reset: %+v", s)
	}
}

func TestCapacity(t *testing.T) {
	c := NewSharded[string, int](0, StringHasher)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), DefaultCapacity)
	}
	if c.TotalCapacity() != DefaultCapacity*ShardCount {
		t.Errorf("TotalCapacity = %d", c.TotalCapacity())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewSharded[string, int](64, StringHasher)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%50)
				c.Set(key, g*1000+i)
				c.Get(key)
				c.GetOrCreate(key, func() int { return -1 })
			}
		}(g)
	}
	wg.Wait()

	if c.Len() == 0 || c.Len() > 50 {
		t.Errorf("Len = %d, want 1..50", c.Len())
	}
}

func TestLRUListUnlink(t *testing.T) {
	var l lruList[int]
	a := l.pushFront(1)
	b := l.pushFront(2)
	l.pushFront(3)

	l.remove(b) // middle
	if l.len != 2 {
		t.Fatalf("len = %d, want 2", l.len)
	}
	l.remove(a) // tail
	k, ok := l.removeOldest()
	if !ok || k != 3 {
		t.Errorf("removeOldest = %d, %v; want 3, true", k, ok)
	}
	if _, ok := l.removeOldest(); ok {
		t.Error("removeOldest on empty list returned a key")
	}
}

func BenchmarkGetHit(b *testing.B) {
	c := NewSharded[string, int](256, StringHasher)
	c.Set("key", 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
