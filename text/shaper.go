package text

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is one positioned glyph of a shaped run: the source rune to
// rasterize and the pen offset it draws at, in pixels, relative to the run
// origin on the baseline. Glyphs arrive in visual (left-to-right) order
// even for right-to-left runs.
type ShapedGlyph struct {
	Rune    rune
	X, Y    int
	Advance int
}

// ShapedRun is the shaper's output for one direction run.
type ShapedRun struct {
	Glyphs []ShapedGlyph
	Width  int // total horizontal advance in pixels
}

// Shaper turns text runs into positioned glyphs using HarfBuzz shaping,
// so kerning, ligature clustering and right-to-left reordering match what
// a desktop renderer would produce. When a face's bytes cannot be loaded
// by the shaping backend, it falls back to plain advance summation.
//
// Shaper is safe for concurrent use. Parsed shaping fonts are cached per
// face identity; HarfbuzzShaper instances are pooled because they carry
// mutable buffers.
type Shaper struct {
	pool sync.Pool

	mu    sync.RWMutex
	fonts map[uint64]*gtfont.Font
}

// NewShaper creates a Shaper with an empty font cache.
func NewShaper() *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		fonts: make(map[uint64]*gtfont.Font),
	}
}

// ShapeRun shapes one direction run of text on face at size pixels.
func (s *Shaper) ShapeRun(face *Face, size int, run RunInfo) (ShapedRun, error) {
	runes := []rune(run.Text)
	if len(runes) == 0 {
		return ShapedRun{}, nil
	}

	gf, err := s.shapingFont(face)
	if err != nil {
		return s.shapeFallback(face, size, runes)
	}

	dir := di.DirectionLTR
	if run.RTL {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      gtfont.NewFace(gf),
		Size:      fixed.Int26_6(size * 64),
		Script:    runScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	out := ShapedRun{Glyphs: make([]ShapedGlyph, 0, len(output.Glyphs))}
	var pen fixed.Int26_6
	for _, g := range output.Glyphs {
		idx := g.TextIndex()
		if idx < 0 || idx >= len(runes) {
			continue
		}
		out.Glyphs = append(out.Glyphs, ShapedGlyph{
			Rune:    runes[idx],
			X:       (pen + g.XOffset).Round(),
			Y:       (-g.YOffset).Round(),
			Advance: g.Advance.Round(),
		})
		pen += g.Advance
	}
	out.Width = pen.Ceil()
	return out, nil
}

// shapeFallback positions runes by their bare advances, no kerning and no
// reordering. Used when the shaping backend rejects the font bytes.
func (s *Shaper) shapeFallback(face *Face, size int, runes []rune) (ShapedRun, error) {
	out := ShapedRun{Glyphs: make([]ShapedGlyph, 0, len(runes))}
	pen := 0
	for _, r := range runes {
		adv, err := face.Advance(r, size)
		if err != nil {
			return ShapedRun{}, err
		}
		out.Glyphs = append(out.Glyphs, ShapedGlyph{Rune: r, X: pen, Advance: adv})
		pen += adv
	}
	out.Width = pen
	return out, nil
}

// shapingFont returns the cached go-text font for face, parsing on first
// use. The parsed *Font is read-only and shared; per-call Faces wrap it.
func (s *Shaper) shapingFont(face *Face) (*gtfont.Font, error) {
	s.mu.RLock()
	f, ok := s.fonts[face.hash]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fonts[face.hash]; ok {
		return f, nil
	}
	gtFace, err := gtfont.ParseTTF(bytes.NewReader(face.data))
	if err != nil {
		return nil, err
	}
	s.fonts[face.hash] = gtFace.Font
	return gtFace.Font, nil
}

// runScript picks the script of the first non-space rune.
func runScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
