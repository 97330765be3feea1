package text

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face is a parsed font ready for rasterization at any pixel size.
// A Face is identified by the FNV-1a hash of its source bytes, so the same
// font loaded twice is shared rather than duplicated.
type Face struct {
	name string
	hash uint64
	data []byte
	font *opentype.Font

	mu    sync.Mutex
	sized map[int]font.Face
}

// Mask is a rasterized glyph: an 8-bit coverage plane plus the placement
// needed to composite it relative to the pen position on the baseline.
type Mask struct {
	Pix    []byte // coverage, row-major, W*H bytes
	Stride int
	W, H   int

	// Left and Top offset the mask's top-left corner from the pen.
	// Top is negative for glyphs that rise above the baseline.
	Left, Top int

	// Advance is the horizontal pen movement after this glyph, in pixels.
	Advance int
}

// Metrics holds vertical font metrics at a given pixel size.
type Metrics struct {
	Ascent     int // pixels above the baseline
	Descent    int // pixels below the baseline, positive
	LineHeight int // recommended baseline-to-baseline distance
}

func newFace(name string, hash uint64, data []byte) (*Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font %q: %w", name, err)
	}
	return &Face{
		name:  name,
		hash:  hash,
		data:  data,
		font:  f,
		sized: make(map[int]font.Face),
	}, nil
}

// Name returns the name the face was registered under.
func (f *Face) Name() string { return f.name }

// Hash returns the content identity of the face.
func (f *Face) Hash() uint64 { return f.hash }

// FamilyName reports the family name recorded in the font's name table,
// empty if the table has none.
func (f *Face) FamilyName() string {
	if s, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil {
		return s
	}
	return ""
}

// sizedFace returns a cached rendering face for the given pixel size.
func (f *Face) sizedFace(size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("text: invalid font size %d", size)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.sized[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to size font %q to %dpx: %w", f.name, size, err)
	}
	f.sized[size] = face
	return face, nil
}

// Metrics returns the face's vertical metrics at size pixels.
func (f *Face) Metrics(size int) (Metrics, error) {
	face, err := f.sizedFace(size)
	if err != nil {
		return Metrics{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := face.Metrics()
	return Metrics{
		Ascent:     m.Ascent.Ceil(),
		Descent:    m.Descent.Ceil(),
		LineHeight: m.Height.Ceil(),
	}, nil
}

// Advance returns the horizontal advance of r at size pixels. Runes the
// face has no glyph for advance by the notdef glyph's width.
func (f *Face) Advance(r rune, size int) (int, error) {
	face, err := f.sizedFace(size)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, _ := face.GlyphAdvance(r)
	return adv.Ceil(), nil
}

// Rasterize renders r at size pixels to a coverage mask. Whitespace and
// other ink-free glyphs return a mask with W and H zero but a real Advance.
func (f *Face) Rasterize(r rune, size int) (*Mask, error) {
	face, err := f.sizedFace(size)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	bounds, advance, ok := face.GlyphBounds(r)
	if !ok {
		// Fall back to the replacement character so missing glyphs
		// stay visible instead of vanishing.
		bounds, advance, ok = face.GlyphBounds('�')
		if !ok {
			return &Mask{Advance: advance.Ceil()}, nil
		}
		r = '�'
	}

	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return &Mask{Advance: advance.Ceil()}, nil
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	drawer.DrawString(string(r))

	return &Mask{
		Pix:     dst.Pix,
		Stride:  dst.Stride,
		W:       w,
		H:       h,
		Left:    minX,
		Top:     minY,
		Advance: advance.Ceil(),
	}, nil
}
