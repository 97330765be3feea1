package emgfx

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/emgfx/emgfx/aaf"
	"github.com/emgfx/emgfx/internal/blend"
	"github.com/emgfx/emgfx/internal/damage"
	"github.com/emgfx/emgfx/text"
)

const (
	defaultScreenWidth  = 320
	defaultScreenHeight = 240
	defaultEngineFPS    = 30
)

// FlushFunc pushes a finished stripe to the display. Coordinates are
// half-open: pix holds (x2-x1)*(y2-y1) RGB565 values, row-major last row
// y2-1. The engine does not touch pix again until FlushReady is called, so
// implementations may return before the transfer completes.
type FlushFunc func(x1, y1, x2, y2 int, pix []uint16)

// Engine owns a scene of objects and renders it to a display in
// horizontal stripes through two alternating pixel buffers.
//
// All scene mutation and rendering must happen with the engine lock held.
// Run takes it around every tick and refresh; code driving the engine
// manually brackets calls with Lock/Unlock.
type Engine struct {
	mu sync.Mutex

	width, height int
	swap          bool
	bg            Color

	flush     FlushFunc
	flushDone chan struct{}

	bufLines int
	bufs     [2][]uint16
	bufIdx   int

	children []*Object // append order = z-order
	timers   *TimerManager
	damage   *damage.Tracker
	forced   bool

	fonts    *text.Registry
	shaper   *text.Shaper
	glyphs   *text.GlyphCache
	decoders decoderRegistry
	jpeg     aaf.JPEGDecoder
}

// NewEngine creates an engine. Defaults: 320x240, 30 fps target, stripe
// height a tenth of the screen, black background, no flush callback
// (headless), a registry holding the built-in font.
func NewEngine(opts ...Option) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 || o.height <= 0 {
		return nil, &ResourceError{Op: "NewEngine", Err: errors.New("invalid resolution")}
	}
	if o.bufferLines <= 0 {
		o.bufferLines = o.height / 10
		if o.bufferLines < 1 {
			o.bufferLines = 1
		}
	}
	if o.bufferLines > o.height {
		o.bufferLines = o.height
	}
	if o.fps <= 0 {
		o.fps = defaultEngineFPS
	}

	fonts := o.fonts
	if fonts == nil {
		fonts = text.NewRegistry()
		if _, err := text.RegisterBuiltin(fonts); err != nil {
			return nil, &ResourceError{Op: "NewEngine", Err: err}
		}
	}

	e := &Engine{
		width:     o.width,
		height:    o.height,
		swap:      o.swap,
		bg:        o.bg,
		flush:     o.flush,
		flushDone: make(chan struct{}, 1),
		bufLines:  o.bufferLines,
		timers:    newTimerManager(o.fps, time.Now()),
		damage:    damage.New(o.height, o.bufferLines),
		forced:    true,
		fonts:     fonts,
		shaper:    text.NewShaper(),
		glyphs:    text.NewGlyphCache(0),
		jpeg:      o.jpeg,
	}
	e.bufs[0] = make([]uint16, o.width*o.bufferLines)
	e.bufs[1] = make([]uint16, o.width*o.bufferLines)

	if err := e.decoders.register(rawDecoder{}); err != nil {
		return nil, err
	}
	if err := e.decoders.register(aafImageDecoder{jpeg: o.jpeg}); err != nil {
		return nil, err
	}
	return e, nil
}

// Lock serializes scene access for callers mutating objects outside Run.
func (e *Engine) Lock() { e.mu.Lock() }

// Unlock releases the engine lock.
func (e *Engine) Unlock() { e.mu.Unlock() }

// Size returns the display resolution.
func (e *Engine) Size() (w, h int) { return e.width, e.height }

// Timers returns the engine's timer manager.
func (e *Engine) Timers() *TimerManager { return e.timers }

// Fonts returns the engine's font registry.
func (e *Engine) Fonts() *text.Registry { return e.fonts }

// RegisterDecoder adds a still-image decoder behind the built-ins. The
// registry holds at most eight decoders and rejects duplicate names.
func (e *Engine) RegisterDecoder(d Decoder) error {
	return e.decoders.register(d)
}

// SetBackground changes the stripe clear color and forces a full redraw.
func (e *Engine) SetBackground(c Color) {
	e.bg = c
	e.Invalidate()
}

// Invalidate forces the next Refresh to redraw every stripe.
func (e *Engine) Invalidate() {
	e.forced = true
	e.damage.MarkAll()
}

// FlushReady signals that the display has consumed the last flushed
// stripe. Flush callbacks must call it exactly once per flush, possibly
// from another goroutine (a DMA-complete interrupt handler equivalent).
func (e *Engine) FlushReady() {
	select {
	case e.flushDone <- struct{}{}:
	default:
	}
}

// ActualFPS reports the measured refresh rate.
func (e *Engine) ActualFPS() int { return e.timers.ActualFPS() }

// addChild links a new object at the top of the z-order.
func (e *Engine) addChild(o *Object) {
	e.children = append(e.children, o)
	e.invalidate(o)
}

// removeChild unlinks a deleted object and damages the area it covered.
func (e *Engine) removeChild(o *Object) {
	for i, c := range e.children {
		if c == o {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	e.invalidate(o)
}

// invalidate marks the stripes an object covers as needing redraw.
func (e *Engine) invalidate(o *Object) {
	if o.width <= 0 || o.height <= 0 {
		e.damage.MarkAll()
		return
	}
	_, y := o.screenPosition(e.width, e.height)
	e.damage.MarkRows(y, y+o.height)
}

// Tick runs due timers (animation frame advance, label scrolling) and
// returns the delay until the next timer is due.
func (e *Engine) Tick(now time.Time) time.Duration {
	return e.timers.RunDue(now)
}

// Refresh renders all damaged stripes and flushes them to the display.
// Clean stripes are skipped entirely. Objects whose frame fails to decode
// are logged and skipped for this pass; the first structural draw error is
// returned after the pass completes.
func (e *Engine) Refresh() error {
	if !e.anyDirty() {
		return nil
	}

	skip := e.prepareAnimations()
	var firstErr error

	stripes := (e.height + e.bufLines - 1) / e.bufLines
	for s := 0; s < stripes; s++ {
		if !e.forced && !e.damage.Dirty(s) {
			continue
		}
		y1 := s * e.bufLines
		y2 := y1 + e.bufLines
		if y2 > e.height {
			y2 = e.height
		}

		fb := &Framebuffer{
			Pix:    e.bufs[e.bufIdx][:e.width*(y2-y1)],
			Stride: e.width,
			Rect:   Area{X1: 0, Y1: y1, X2: e.width, Y2: y2},
		}
		bg := uint16(e.bg)
		if e.swap {
			bg = bg<<8 | bg>>8
		}
		blend.Fill(fb.Pix, fb.Stride, bg, e.width, y2-y1)

		for _, child := range e.children {
			if !child.visible || skip[child] {
				continue
			}
			err := child.Draw(fb.Rect, fb, e.swap)
			switch {
			case err == nil:
			case errors.Is(err, ErrPartialDraw):
				Logger().Debug("partial draw", slog.String("kind", child.kind.String()))
			default:
				Logger().Warn("draw failed",
					slog.String("kind", child.kind.String()),
					slog.String("err", err.Error()))
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		if e.flush != nil {
			e.flush(0, y1, e.width, y2, fb.Pix)
			<-e.flushDone
		}
		e.bufIdx ^= 1
	}

	for _, child := range e.children {
		child.dirty = false
	}
	e.damage.Clear()
	e.forced = false
	return firstErr
}

// anyDirty reports whether this pass has anything to draw.
func (e *Engine) anyDirty() bool {
	if e.forced || e.damage.Any() {
		return true
	}
	for _, child := range e.children {
		if child.dirty {
			return true
		}
	}
	return false
}

// prepareAnimations decodes the current frame of every playing animation
// once per refresh, before any stripe renders. A failed decode keeps the
// object out of this pass but leaves it playing; the next tick retries.
func (e *Engine) prepareAnimations() map[*Object]bool {
	var skip map[*Object]bool
	for _, child := range e.children {
		a, ok := child.variant.(*Animation)
		if !ok || !child.visible {
			continue
		}
		if !a.needsPrepare() {
			continue
		}
		if err := a.prepare(); err != nil {
			Logger().Warn("frame decode failed", slog.String("err", err.Error()))
			if skip == nil {
				skip = make(map[*Object]bool)
			}
			skip[child] = true
		}
	}
	return skip
}

// Run drives the engine until ctx is done: run timers, refresh, sleep
// until the next timer or frame is due. It takes the engine lock around
// each iteration, so other goroutines may mutate the scene between frames
// using Lock/Unlock.
func (e *Engine) Run(ctx context.Context) error {
	period := time.Second / time.Duration(e.timers.fps)
	for {
		e.mu.Lock()
		delay := e.Tick(time.Now())
		err := e.Refresh()
		e.mu.Unlock()
		if err != nil {
			Logger().Warn("refresh", slog.String("err", err.Error()))
		}

		if delay > period {
			delay = period
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
