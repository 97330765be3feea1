package emgfx

import (
	"fmt"
	"time"

	"github.com/emgfx/emgfx/aaf"
)

// defaultAnimFPS is the frame rate a new animation advances at until
// SetSegment changes it.
const defaultAnimFPS = 30

// paletteSentinel marks a palette-cache slot whose RGB565 value has not been
// resolved yet.
const paletteSentinel = 0xFFFFFFFF

// frameState is the per-animation decode state, reused across the frames of
// one source. Buffers are strictly per-object and never pooled: the
// single-entry block cache would corrupt across objects otherwise.
type frameState struct {
	payload []byte      // current frame's bytes, aliasing the container
	header  *aaf.Header // parsed header of the current frame
	offsets []uint32    // absolute byte offset of each block

	pixels  []byte   // one decoded block, worst case sized
	palette []uint32 // index -> RGB565, paletteSentinel when unresolved

	lastBlock int // single-entry decode cache, -1 = nothing decoded

	// geometry the buffers were sized for; a change forces reallocation
	bufDepth  int
	bufWidth  int
	bufBlockH int
}

// reset releases the per-frame state while keeping allocated buffers for
// reuse when the next frame has the same geometry.
func (f *frameState) reset() {
	f.payload = nil
	f.header = nil
	f.offsets = nil
	f.lastBlock = -1
}

// drop additionally discards the decode buffers, used when the source
// changes or the object is deleted.
func (f *frameState) drop() {
	f.reset()
	f.pixels = nil
	f.palette = nil
	f.bufDepth = 0
	f.bufWidth = 0
	f.bufBlockH = 0
}

// Animation is a scene object playing an AAF container: a frame segment
// advanced by an engine timer, decoded block by block on each refresh.
type Animation struct {
	*Object

	asset *aaf.Asset

	startFrame   int
	endFrame     int
	currentFrame int
	fps          int
	repeat       bool
	playing      bool

	mirror       bool
	mirrorOffset int

	timer *Timer
	frame frameState
	dec   aaf.BlockDecoder
}

// NewAnimation creates an animation object attached to e. The object is
// visible but empty until SetSource loads a container.
func NewAnimation(e *Engine) *Animation {
	a := &Animation{
		fps:    defaultAnimFPS,
		repeat: true,
	}
	a.frame.lastBlock = -1
	a.Object = newObject(e, KindAnimation)
	a.Object.variant = a
	a.dec.JPEG = e.jpeg
	a.timer = e.Timers().Create(time.Second/defaultAnimFPS, a.tick, nil)
	return a
}

// tick is the timer callback advancing playback. Wrap and stop decisions
// happen only here, never synchronously from setters.
func (a *Animation) tick(any) {
	if !a.playing {
		return
	}
	a.currentFrame++
	if a.currentFrame > a.endFrame {
		if a.repeat {
			a.currentFrame = a.startFrame
		} else {
			a.playing = false
			return
		}
	}
	a.markDirty()
}

// SetSource attaches an AAF container. Active playback is stopped, all prior
// decode state released, and the segment reset to the whole container.
// On a parse failure the previous source is already gone: the animation is
// left empty, never half-attached.
func (a *Animation) SetSource(data []byte) error {
	if a.playing {
		a.stop()
	}
	a.frame.drop()
	a.asset = nil

	asset, err := aaf.Parse(data)
	if err != nil {
		return err
	}
	a.asset = asset
	a.startFrame = 0
	a.currentFrame = 0
	a.endFrame = asset.Frames() - 1
	a.markDirty()
	Logger().Debug("animation source set", "frames", asset.Frames())
	return nil
}

// SetSegment restricts playback to frames [start, end] inclusive at the
// given rate. end is clamped to the last frame; the current frame jumps to
// start. A changed fps reconfigures the timer period to 1000/fps ms.
func (a *Animation) SetSegment(start, end, fps int, repeat bool) error {
	if a.asset == nil {
		return ErrNoSource
	}
	total := a.asset.Frames()
	if start < 0 {
		start = 0
	}
	if end > total-1 {
		end = total - 1
	}
	a.startFrame = start
	a.endFrame = end
	a.currentFrame = start
	a.repeat = repeat

	if a.fps != fps && fps > 0 {
		a.fps = fps
		a.timer.SetPeriod(time.Second / time.Duration(fps))
		Logger().Debug("animation fps changed", "fps", fps)
	}
	a.markDirty()
	return nil
}

// Segment returns the active playback bounds.
func (a *Animation) Segment() (start, end int) { return a.startFrame, a.endFrame }

// CurrentFrame returns the frame playback is on.
func (a *Animation) CurrentFrame() int { return a.currentFrame }

// Start begins playback from the segment start. Starting an already playing
// animation is a no-op; starting without a source is a StateError-free
// explicit failure.
func (a *Animation) Start() error {
	if a.asset == nil {
		return ErrNoSource
	}
	if a.playing {
		return nil
	}
	a.playing = true
	a.currentFrame = a.startFrame
	a.markDirty()
	return nil
}

// Stop halts playback. The current frame stays on screen.
func (a *Animation) Stop() {
	a.stop()
}

func (a *Animation) stop() {
	if !a.playing {
		return
	}
	a.playing = false
}

// Playing reports whether the frame-advance timer is driving this object.
func (a *Animation) Playing() bool { return a.playing }

// SetMirror enables the flip-and-juxtapose effect: every rendered pixel is
// duplicated at a horizontally mirrored position offset pixels past the
// frame's right edge, for symmetric dual-element displays.
func (a *Animation) SetMirror(enabled bool, offset int) {
	a.mirror = enabled
	a.mirrorOffset = offset
	a.markDirty()
}

// needsPrepare reports whether the current frame must be (re)entered before
// the next refresh: playing animations re-enter every pass, stopped ones
// only when no frame has been decoded yet.
func (a *Animation) needsPrepare() bool {
	if a.asset == nil {
		return false
	}
	return a.playing || a.frame.header == nil
}

// prepare enters the current frame: parses its header and sizes the decode
// buffers. Called once per refresh before the stripe loop, so the block
// cache stays valid across stripes of one frame.
//
// Buffer allocation is skipped when the new frame's geometry and depth match
// the previous one; the palette cache is always re-cleared to its sentinel
// because the palette may differ per frame.
func (a *Animation) prepare() error {
	if a.asset == nil {
		return ErrNoSource
	}
	a.frame.reset()

	payload, err := a.asset.Frame(a.currentFrame)
	if err != nil {
		return err
	}
	h, err := aaf.ParseHeader(payload)
	if err != nil {
		return err
	}
	if h.Format != aaf.FormatSplitBitmap {
		// Redirect frames carry only a filename; resolving it is the
		// caller's job. Render nothing for this frame.
		Logger().Warn("redirect frame skipped", "frame", a.currentFrame, "target", h.Filename)
		return fmt.Errorf("emgfx: frame %d: redirect to %q not resolvable here", a.currentFrame, h.Filename)
	}

	a.frame.payload = payload
	a.frame.header = h
	a.frame.offsets = h.BlockOffsets()

	if a.frame.bufDepth != h.BitDepth || a.frame.bufWidth != h.Width || a.frame.bufBlockH != h.BlockHeight {
		a.frame.pixels = make([]byte, h.BlockBufferSize())
		if n := h.NumColors(); n > 0 {
			a.frame.palette = make([]uint32, n)
		} else {
			a.frame.palette = nil
		}
		a.frame.bufDepth = h.BitDepth
		a.frame.bufWidth = h.Width
		a.frame.bufBlockH = h.BlockHeight
	}
	for i := range a.frame.palette {
		a.frame.palette[i] = paletteSentinel
	}

	a.width = h.Width
	a.height = h.Height
	return nil
}

// release implements payload. It deletes the frame-advance timer and drops
// every decode buffer; the asset reference goes with them.
func (a *Animation) release() {
	a.stop()
	if a.timer != nil {
		a.engine.Timers().Delete(a.timer)
		a.timer = nil
	}
	a.frame.drop()
	a.asset = nil
}
