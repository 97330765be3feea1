package emgfx

import (
	"errors"
	"testing"
)

// capture assembles flushed stripes back into a full screen for assertions.
type capture struct {
	pix     []uint16
	w       int
	flushes int
}

func newCapture(w, h int) *capture {
	return &capture{pix: make([]uint16, w*h), w: w}
}

func (c *capture) flush(x1, y1, x2, y2 int, pix []uint16) {
	c.flushes++
	for y := y1; y < y2; y++ {
		copy(c.pix[y*c.w+x1:y*c.w+x2], pix[(y-y1)*(x2-x1):(y-y1+1)*(x2-x1)])
	}
}

func (c *capture) at(x, y int) Color { return Color(c.pix[y*c.w+x]) }

// captureEngine builds a 200x100 engine flushing into a capture buffer.
func captureEngine(t *testing.T, opts ...Option) (*Engine, *capture) {
	t.Helper()
	scr := newCapture(200, 100)
	var e *Engine
	all := append([]Option{
		WithResolution(200, 100),
		WithBuffers(20),
		WithFlush(func(x1, y1, x2, y2 int, pix []uint16) {
			scr.flush(x1, y1, x2, y2, pix)
			e.FlushReady()
		}),
	}, opts...)
	e, err := NewEngine(all...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e, scr
}

func TestNewEngineDefaults(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if w, h := e.Size(); w != 320 || h != 240 {
		t.Errorf("default size = %dx%d", w, h)
	}
	if e.fonts.Len() == 0 {
		t.Error("no built-in font registered")
	}
}

func TestNewEngineInvalidResolution(t *testing.T) {
	_, err := NewEngine(WithResolution(0, 100))
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ResourceError", err)
	}
}

func TestRefreshRendersScene(t *testing.T) {
	e, scr := captureEngine(t)
	a := NewAnimation(e)
	if err := a.SetSource(buildTestAsset(t, 1)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	a.SetPos(10, 10)

	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// First refresh is forced: every stripe flushed.
	if scr.flushes != 5 {
		t.Errorf("flushes = %d, want 5", scr.flushes)
	}
	if got := scr.at(10, 10); got != ColorWhite {
		t.Errorf("at(10,10) = %v, want white", got)
	}
	if got := scr.at(50, 50); got != ColorBlack {
		t.Errorf("at(50,50) = %v, want background", got)
	}
}

func TestRefreshSkipsCleanStripes(t *testing.T) {
	e, scr := captureEngine(t)
	a := NewAnimation(e)
	if err := a.SetSource(buildTestAsset(t, 1)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	a.SetPos(10, 10)

	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	scr.flushes = 0

	// Nothing changed: no work at all.
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if scr.flushes != 0 {
		t.Errorf("clean refresh flushed %d stripes", scr.flushes)
	}

	// The object sits in rows 10..17, all inside stripe 0; only that
	// stripe repaints.
	a.markDirty()
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if scr.flushes != 1 {
		t.Errorf("flushes = %d, want 1", scr.flushes)
	}
}

func TestInvalidateForcesFullRedraw(t *testing.T) {
	e, scr := captureEngine(t)
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	scr.flushes = 0

	e.Invalidate()
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if scr.flushes != 5 {
		t.Errorf("flushes = %d, want 5", scr.flushes)
	}
}

func TestSetBackground(t *testing.T) {
	e, scr := captureEngine(t)
	e.SetBackground(RGB(0xFF, 0, 0))
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := scr.at(100, 50); got != RGB(0xFF, 0, 0) {
		t.Errorf("background = %v, want red", got)
	}
}

func TestSwapBytes(t *testing.T) {
	e, scr := captureEngine(t, WithSwapBytes(true), WithBackground(RGB(0xFF, 0, 0)))
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// Red 0xF800 arrives byte-swapped for a big-endian panel.
	if got := scr.at(0, 0); got != 0x00F8 {
		t.Errorf("at(0,0) = %v, want Color(0x00F8)", got)
	}
}

func TestZOrder(t *testing.T) {
	e, scr := captureEngine(t)

	under := NewImage(e)
	if err := under.SetSource(buildDescriptor(4, 4, RGB(0xFF, 0, 0), 0xFF)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	under.SetPos(0, 0)

	over := NewImage(e)
	if err := over.SetSource(buildDescriptor(4, 4, ColorWhite, 0xFF)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	over.SetPos(0, 0)

	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// Creation order is z-order; the later object draws on top.
	if got := scr.at(0, 0); got != ColorWhite {
		t.Errorf("at(0,0) = %v, want white on top", got)
	}
}

func TestHiddenObjectSkipped(t *testing.T) {
	e, scr := captureEngine(t)
	img := NewImage(e)
	if err := img.SetSource(buildDescriptor(4, 4, ColorWhite, 0xFF)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	img.SetPos(0, 0)
	img.SetVisible(false)

	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := scr.at(0, 0); got != ColorBlack {
		t.Errorf("hidden object drew %v", got)
	}

	img.SetVisible(true)
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := scr.at(0, 0); got != ColorWhite {
		t.Errorf("shown object = %v, want white", got)
	}
}

func TestDeleteRepaintsFootprint(t *testing.T) {
	e, scr := captureEngine(t)
	img := NewImage(e)
	if err := img.SetSource(buildDescriptor(4, 4, ColorWhite, 0xFF)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	img.SetPos(0, 0)
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	img.Delete()
	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := scr.at(0, 0); got != ColorBlack {
		t.Errorf("deleted object's pixels = %v, want background", got)
	}
}

func TestSetSizeKindCheck(t *testing.T) {
	e := newTestEngine(t)
	a := NewAnimation(e)
	err := a.SetSize(10, 10)
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("SetSize on animation = %v, want StateError", err)
	}

	img := NewImage(e)
	if err := img.SetSize(10, 10); !errors.As(err, &se) {
		t.Fatalf("SetSize on image = %v, want StateError", err)
	}
}

func TestAlignedObjectOnScreen(t *testing.T) {
	e, scr := captureEngine(t)
	img := NewImage(e)
	if err := img.SetSource(buildDescriptor(4, 4, ColorWhite, 0xFF)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	img.Align(AlignBottomRight, 0, 0)

	if err := e.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := scr.at(199, 99); got != ColorWhite {
		t.Errorf("at(199,99) = %v, want white", got)
	}
	if got := scr.at(195, 95); got != ColorBlack {
		t.Errorf("at(195,95) = %v, want background", got)
	}
}
