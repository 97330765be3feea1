// Package damage tracks which horizontal stripes of the screen need
// redrawing. The refresh loop renders stripe by stripe; marking only the
// stripes a dirty object touches lets clean stripes skip their clear, draw
// and flush entirely.
package damage

import "math/bits"

// Tracker is a one-bit-per-stripe bitmap. Stripe 0 covers screen rows
// [0, stripeH); the last stripe may be short. The zero value is unusable;
// use New. Tracker is not safe for concurrent use: the engine lock
// serializes marking and draining.
type Tracker struct {
	words   []uint64
	stripes int
	stripeH int
}

// New creates a tracker for a screen of height pixels split into stripes of
// stripeH rows. All stripes start clean.
func New(height, stripeH int) *Tracker {
	if height <= 0 || stripeH <= 0 {
		return nil
	}
	stripes := (height + stripeH - 1) / stripeH
	return &Tracker{
		words:   make([]uint64, (stripes+63)/64),
		stripes: stripes,
		stripeH: stripeH,
	}
}

// Stripes returns the stripe count.
func (t *Tracker) Stripes() int { return t.stripes }

// MarkRows marks every stripe intersecting screen rows [y1, y2) as dirty.
// Rows outside the screen are clamped away.
func (t *Tracker) MarkRows(y1, y2 int) {
	if y2 <= y1 {
		return
	}
	s1 := y1 / t.stripeH
	s2 := (y2 - 1) / t.stripeH
	if s1 < 0 {
		s1 = 0
	}
	if s2 >= t.stripes {
		s2 = t.stripes - 1
	}
	for s := s1; s <= s2; s++ {
		t.words[s/64] |= 1 << (s % 64)
	}
}

// MarkAll marks every stripe dirty, the full-redraw case.
func (t *Tracker) MarkAll() {
	for i := range t.words {
		t.words[i] = ^uint64(0)
	}
	// Clear bits past the last stripe so Count stays exact.
	if rem := t.stripes % 64; rem != 0 {
		t.words[len(t.words)-1] &= (1 << rem) - 1
	}
}

// Dirty reports whether stripe s needs redrawing.
func (t *Tracker) Dirty(s int) bool {
	if s < 0 || s >= t.stripes {
		return false
	}
	return t.words[s/64]&(1<<(s%64)) != 0
}

// Any reports whether any stripe is dirty.
func (t *Tracker) Any() bool {
	for _, w := range t.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// Count returns the number of dirty stripes.
func (t *Tracker) Count() int {
	n := 0
	for _, w := range t.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear marks every stripe clean, called after a refresh drains the bitmap.
func (t *Tracker) Clear() {
	for i := range t.words {
		t.words[i] = 0
	}
}
