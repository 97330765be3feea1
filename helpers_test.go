package emgfx

import (
	"testing"

	"github.com/emgfx/emgfx/aaf"
)

// newTestEngine builds a headless 200x100 engine for object tests.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	all := append([]Option{WithResolution(200, 100), WithBuffers(20)}, opts...)
	e, err := NewEngine(all...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// solidFrame returns an 8x8 8-bit split-bitmap frame where every pixel is
// palette index 1.
func solidFrame(index byte) aaf.SplitBitmap {
	palette := make([]byte, 256*4)
	// entry 1 = white (B, G, R, padding)
	palette[4], palette[5], palette[6] = 0xFF, 0xFF, 0xFF
	// entry 2 = pure red
	palette[2*4+2] = 0xFF

	pixels := make([]byte, 8*8)
	for i := range pixels {
		pixels[i] = index
	}
	return aaf.SplitBitmap{
		Width:       8,
		Height:      8,
		BitDepth:    8,
		BlockHeight: 4,
		Palette:     palette,
		Pixels:      pixels,
		Encoding:    aaf.EncodingRLE,
	}
}

// buildTestAsset packs n solid frames into an AAF container.
func buildTestAsset(t *testing.T, n int) []byte {
	t.Helper()
	var b aaf.Builder
	for i := 0; i < n; i++ {
		if err := b.AddSplitBitmap(solidFrame(1)); err != nil {
			t.Fatalf("AddSplitBitmap: %v", err)
		}
	}
	return b.Bytes()
}
