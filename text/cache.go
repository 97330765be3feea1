package text

import (
	"github.com/emgfx/emgfx/cache"
)

// defaultGlyphCacheSize bounds the number of rasterized masks kept per
// GlyphCache. Small displays rarely show more than a few hundred distinct
// glyph/size pairs at once.
const defaultGlyphCacheSize = 512

// glyphKey identifies a rasterized mask: which face, which rune, what size.
type glyphKey struct {
	face uint64
	r    rune
	size int
}

func glyphKeyHasher(k glyphKey) uint64 {
	h := k.face
	h ^= uint64(k.r) * 0x9E3779B97F4A7C15
	h ^= uint64(k.size) * 0xFF51AFD7ED558CCD
	return h
}

// GlyphCache memoizes rasterized glyph masks across frames. It is sharded
// and safe for concurrent use, though the engine typically drives it from
// a single goroutine.
type GlyphCache struct {
	masks *cache.ShardedCache[glyphKey, *Mask]
}

// NewGlyphCache creates a cache holding up to capacity masks; capacity
// zero or below uses a default sized for small-display workloads.
func NewGlyphCache(capacity int) *GlyphCache {
	if capacity <= 0 {
		capacity = defaultGlyphCacheSize
	}
	perShard := (capacity + cache.ShardCount - 1) / cache.ShardCount
	return &GlyphCache{
		masks: cache.NewSharded[glyphKey, *Mask](perShard, glyphKeyHasher),
	}
}

// Glyph returns the mask for r on face at size pixels, rasterizing on
// first use. Rasterization errors are not cached.
func (c *GlyphCache) Glyph(face *Face, r rune, size int) (*Mask, error) {
	key := glyphKey{face: face.hash, r: r, size: size}
	if m, ok := c.masks.Get(key); ok {
		return m, nil
	}
	m, err := face.Rasterize(r, size)
	if err != nil {
		return nil, err
	}
	c.masks.Set(key, m)
	return m, nil
}

// Len reports how many masks are currently cached.
func (c *GlyphCache) Len() int { return c.masks.Len() }

// Clear drops all cached masks, e.g. after reloading fonts.
func (c *GlyphCache) Clear() { c.masks.Clear() }

// Stats exposes hit/miss/eviction counters for diagnostics.
func (c *GlyphCache) Stats() cache.Stats { return c.masks.Stats() }
