package emgfx

import (
	"fmt"

	"github.com/emgfx/emgfx/internal/blend"
	"github.com/emgfx/emgfx/text"
)

const ellipsis = "..."

// draw renders the label into fb, clipped to clip. The text is rasterized
// into a cached object-sized coverage mask first; the mask survives across
// refreshes and is rebuilt only when the layout or scroll position moved.
func (l *Label) draw(clip Area, fb *Framebuffer, swap bool) error {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}
	objX, objY := l.screenPosition(l.engine.width, l.engine.height)
	c := clip.Intersect(AreaXYWH(objX, objY, l.width, l.height))
	if c.Empty() {
		return nil
	}

	if l.bgEnable {
		bg := uint16(l.bgColor)
		if swap {
			bg = bg<<8 | bg>>8
		}
		dst := fb.Pix[(c.Y1-fb.Rect.Y1)*fb.Stride+(c.X1-fb.Rect.X1):]
		blend.Fill(dst, fb.Stride, bg, c.Width(), c.Height())
	}

	if l.text == "" {
		return nil
	}
	if err := l.ensureMask(); err != nil {
		return err
	}

	dst := fb.Pix[(c.Y1-fb.Rect.Y1)*fb.Stride+(c.X1-fb.Rect.X1):]
	mask := l.mask[(c.Y1-objY)*l.width+(c.X1-objX):]
	blend.DrawMask(dst, fb.Stride, uint16(l.color), l.opacity,
		mask, l.width, c.Width(), c.Height(), swap)
	return nil
}

// ensureMask rebuilds the coverage mask if the layout changed or the
// scroll position advanced since the last build.
func (l *Label) ensureMask() error {
	if l.maskValid && !l.scrollDirty {
		return nil
	}

	face, err := l.engine.fonts.Lookup(l.fontName)
	if err != nil {
		return &ResourceError{Op: "Label.draw", Err: err}
	}
	if l.lines == nil {
		if err := l.layout(face); err != nil {
			return err
		}
	}

	if len(l.mask) != l.width*l.height {
		l.mask = make([]byte, l.width*l.height)
	} else {
		clear(l.mask)
	}

	totalLineH := l.lineHeight + l.lineSpacing
	y := 0
	for _, line := range l.lines {
		if y+l.lineHeight > l.height {
			break
		}
		startX := l.lineStartX(line.width)
		if l.scrollActive {
			startX -= l.scrollOffset
		}
		if err := l.renderLine(face, line, startX, y); err != nil {
			return err
		}
		if l.longMode == LongScrollCircular && l.scrollActive {
			// second copy so the tail is chased by the next head
			if err := l.renderLine(face, line, startX+l.textWidth+l.circularGap(), y); err != nil {
				return err
			}
		}
		y += totalLineH
	}

	l.maskValid = true
	l.scrollDirty = false
	l.autoScroll()
	return nil
}

// lineStartX resolves per-line alignment, clamped so overlong lines stay
// anchored at the left edge.
func (l *Label) lineStartX(lineWidth int) int {
	switch l.textAlign {
	case TextAlignCenter:
		if x := (l.width - lineWidth) / 2; x > 0 {
			return x
		}
	case TextAlignRight:
		if x := l.width - lineWidth; x > 0 {
			return x
		}
	}
	return 0
}

// renderLine composites one shaped line's glyph masks into the label mask
// with the baseline at y+lineHeight-descent.
func (l *Label) renderLine(face *text.Face, line shapedLine, startX, y int) error {
	baseY := y + l.baseline
	for _, g := range line.glyphs {
		gm, err := l.engine.glyphs.Glyph(face, g.r, l.fontSize)
		if err != nil {
			return &ResourceError{Op: "Label.draw", Err: err}
		}
		if gm.W == 0 {
			continue
		}
		gx := startX + g.x + gm.Left
		gy := baseY + gm.Top
		if gx >= l.width || gx+gm.W <= 0 {
			continue
		}
		for iy := 0; iy < gm.H; iy++ {
			ry := gy + iy
			if ry < 0 || ry >= l.height {
				continue
			}
			row := gm.Pix[iy*gm.Stride:]
			for ix := 0; ix < gm.W; ix++ {
				rx := gx + ix
				if rx < 0 || rx >= l.width {
					continue
				}
				l.mask[ry*l.width+rx] = row[ix]
			}
		}
	}
	return nil
}

// layout shapes the text into cached lines according to the long mode and
// records the metrics the mask build needs.
func (l *Label) layout(face *text.Face) error {
	m, err := face.Metrics(l.fontSize)
	if err != nil {
		return &ResourceError{Op: "Label.layout", Err: err}
	}
	l.lineHeight = m.LineHeight
	l.baseline = m.LineHeight - m.Descent

	raw := text.SplitLines(l.text)
	var lines []string
	switch l.longMode {
	case LongWrap:
		for _, r := range raw {
			wrapped, err := l.wrapLine(face, r)
			if err != nil {
				return err
			}
			lines = append(lines, wrapped...)
		}
	case LongDot:
		for _, r := range raw {
			dotted, err := l.dotLine(face, r)
			if err != nil {
				return err
			}
			lines = append(lines, dotted)
		}
	default:
		lines = raw
	}

	l.lines = l.lines[:0]
	l.textWidth = 0
	for _, s := range lines {
		shaped, err := l.engine.shaper.ShapeLine(face, l.fontSize, s)
		if err != nil {
			return &ResourceError{Op: "Label.layout", Err: fmt.Errorf("shaping %q: %w", s, err)}
		}
		line := shapedLine{width: shaped.Width}
		for _, g := range shaped.Glyphs {
			line.glyphs = append(line.glyphs, positionedGlyph{r: g.Rune, x: g.X, advance: g.Advance})
		}
		l.lines = append(l.lines, line)
		if shaped.Width > l.textWidth {
			l.textWidth = shaped.Width
		}
	}
	return nil
}

// wrapLine breaks one logical line at breakable runes so every piece fits
// the label width. A single word wider than the label is cut mid-word.
func (l *Label) wrapLine(face *text.Face, line string) ([]string, error) {
	if line == "" {
		return []string{""}, nil
	}
	var out []string
	runes := []rune(line)
	start := 0
	width := 0
	lastBreak := -1
	for i := 0; i < len(runes); i++ {
		adv, err := face.Advance(runes[i], l.fontSize)
		if err != nil {
			return nil, &ResourceError{Op: "Label.layout", Err: err}
		}
		if width+adv > l.width && i > start {
			end := i
			if lastBreak > start {
				end = lastBreak
			}
			out = append(out, string(runes[start:end]))
			start = end
			if start < len(runes) && runes[start] == ' ' {
				start++
			}
			i = start - 1
			width = 0
			lastBreak = -1
			continue
		}
		width += adv
		if text.IsBreakable(runes[i]) {
			lastBreak = i
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out, nil
}

// dotLine truncates one logical line with a trailing ellipsis if it would
// overflow the label width.
func (l *Label) dotLine(face *text.Face, line string) (string, error) {
	runes := []rune(line)
	width := 0
	for _, r := range runes {
		adv, err := face.Advance(r, l.fontSize)
		if err != nil {
			return "", &ResourceError{Op: "Label.layout", Err: err}
		}
		width += adv
	}
	if width <= l.width {
		return line, nil
	}

	dotsWidth := 0
	for _, r := range ellipsis {
		adv, err := face.Advance(r, l.fontSize)
		if err != nil {
			return "", &ResourceError{Op: "Label.layout", Err: err}
		}
		dotsWidth += adv
	}

	width = 0
	for i, r := range runes {
		adv, err := face.Advance(r, l.fontSize)
		if err != nil {
			return "", &ResourceError{Op: "Label.layout", Err: err}
		}
		if width+adv+dotsWidth > l.width {
			return string(runes[:i]) + ellipsis, nil
		}
		width += adv
	}
	return line, nil
}

// autoScroll starts scrolling when the text is wider than the label and a
// scroll mode is active, and stops it once the text fits again.
func (l *Label) autoScroll() {
	overflowing := l.longMode.scrolling() && l.textWidth > l.width
	switch {
	case overflowing && !l.scrollActive:
		l.scrollActive = true
		if l.scrollTimer != nil {
			now := l.engine.Timers().Now()
			l.scrollTimer.Reset(now)
			l.scrollTimer.Resume(now)
		}
	case !overflowing && l.scrollActive:
		l.stopScroll()
		l.scrollOffset = 0
	}
}
