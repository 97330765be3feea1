package emgfx

import "errors"

// Kind discriminates the three object variants.
type Kind uint8

const (
	KindImage Kind = iota
	KindLabel
	KindAnimation
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindLabel:
		return "label"
	case KindAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

// ErrPartialDraw is returned by Object.Draw when at least one block or glyph
// was skipped because it failed to decode. The rest of the object was drawn;
// the caller may present the frame with a visible hole instead of failing.
var ErrPartialDraw = errors.New("emgfx: partial draw")

var (
	_ payload = (*Image)(nil)
	_ payload = (*Label)(nil)
	_ payload = (*Animation)(nil)
)

// payload is the kind-specific half of an object. Exactly one variant owns
// each Object.
type payload interface {
	// draw renders the object into the stripe buffer. clip is already
	// intersected with the stripe's screen region.
	draw(clip Area, fb *Framebuffer, swap bool) error

	// release frees everything the variant owns: timers, decode buffers,
	// caches. Called exactly once, from Object.Delete.
	release()
}

// Object is one node of the scene: a position or alignment, a size, and
// visibility/dirty bookkeeping shared by all three variants. The variant
// structs (Image, Label, Animation) embed *Object, so their values carry
// these methods.
//
// All Object methods must be called with the engine lock held (Engine.Run
// does this; manual callers use Engine.Lock).
type Object struct {
	engine  *Engine
	kind    Kind
	variant payload

	x, y          int
	width, height int

	alignType    Align
	alignX       int
	alignY       int
	useAlign     bool

	visible bool
	dirty   bool
	deleted bool
}

// newObject builds the common half and links it into the engine's child
// list. Objects start visible and dirty so the first refresh draws them.
func newObject(e *Engine, kind Kind) *Object {
	obj := &Object{
		engine:  e,
		kind:    kind,
		visible: true,
		dirty:   true,
	}
	e.addChild(obj)
	return obj
}

// Kind returns the object's variant tag.
func (o *Object) Kind() Kind { return o.kind }

// SetPos places the object at an absolute position and clears any active
// alignment: absolute position and alignment are mutually exclusive, and the
// latest setter wins.
func (o *Object) SetPos(x, y int) {
	o.markDirty() // old footprint needs a repaint too
	o.x = x
	o.y = y
	o.useAlign = false
	o.markDirty()
}

// Pos returns the object's absolute position. For an aligned object this is
// the stored position, not the computed anchor position.
func (o *Object) Pos() (x, y int) { return o.x, o.y }

// Align anchors the object to its parent screen and clears any absolute
// position. The offsets are added after the anchor formula.
func (o *Object) Align(a Align, xOfs, yOfs int) {
	o.markDirty()
	o.alignType = a
	o.alignX = xOfs
	o.alignY = yOfs
	o.useAlign = true
	o.markDirty()
}

// SetSize resizes the object. Only labels have a caller-defined size; image
// and animation sizes are derived from their decoded sources, and resizing
// them returns a StateError with no side effects.
func (o *Object) SetSize(w, h int) error {
	if o.kind != KindLabel {
		return stateErr("SetSize", KindLabel, o.kind)
	}
	o.markDirty()
	o.width = w
	o.height = h
	if l, ok := o.variant.(*Label); ok {
		l.invalidateLayout() // wrap and truncation depend on the box width
	}
	o.markDirty()
	return nil
}

// Size returns the object's current size. For image and animation objects
// this is the size of the decoded source, zero before a source is set.
func (o *Object) Size() (w, h int) { return o.width, o.height }

// SetVisible shows or hides the object. Hidden objects keep their state and
// timers but are skipped by the compositor.
func (o *Object) SetVisible(v bool) {
	if o.visible != v {
		o.visible = v
		o.markDirty()
	}
}

// Visible reports whether the object is drawn.
func (o *Object) Visible() bool { return o.visible }

// screenPosition resolves the object's on-screen origin: the anchor formula
// when alignment is active, the absolute position otherwise.
func (o *Object) screenPosition(parentW, parentH int) (x, y int) {
	if !o.useAlign {
		return o.x, o.y
	}
	return alignPosition(o.alignType, o.width, o.height, parentW, parentH, o.alignX, o.alignY)
}

// markDirty flags the object and its screen stripes for redraw.
func (o *Object) markDirty() {
	o.dirty = true
	if o.engine != nil {
		o.engine.invalidate(o)
	}
}

// Draw renders the object into fb wherever it intersects clip. It is the
// compositor entry point, called once per stripe per refresh, and is also
// usable directly against a caller-owned buffer.
//
// A nil return means every intersecting pixel was written. ErrPartialDraw
// means one or more blocks were skipped (degraded but presentable output).
// Other errors mean nothing was drawn.
func (o *Object) Draw(clip Area, fb *Framebuffer, swap bool) error {
	if o.deleted {
		return ErrDeleted
	}
	return o.variant.draw(clip, fb, swap)
}

// Delete removes the object from the scene and releases everything it owns:
// its timer, decode buffers, caches and payload. Safe to call on a playing,
// visible object; playback is stopped first. A second Delete is a no-op.
func (o *Object) Delete() {
	if o.deleted {
		return
	}
	o.deleted = true
	if o.engine != nil {
		o.engine.removeChild(o)
	}
	o.variant.release()
	Logger().Debug("object deleted", "kind", o.kind.String())
}
