package emgfx

import (
	"fmt"
	"time"
)

// TextAlign positions each text line horizontally inside the label box.
type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// LongMode selects what happens when a line is wider than the label.
type LongMode uint8

const (
	// LongClip cuts the text off at the label edge.
	LongClip LongMode = iota
	// LongWrap breaks lines at spaces to fit the label width.
	LongWrap
	// LongScroll slides the text across once (or repeats when looping),
	// driven by the scroll timer.
	LongScroll
	// LongScrollCircular slides the text continuously with a seamless gap
	// between the tail and the next head.
	LongScrollCircular
	// LongDot truncates overlong lines and ends them with "...".
	LongDot
)

const (
	defaultFontSize     = 20
	defaultLineSpacing  = 2
	defaultScrollSpeed  = 50 * time.Millisecond // per pixel
	circularScrollGapEm = 2                     // gap between copies, in em widths
)

// Label is a text object: one or more shaped lines rendered through a
// coverage mask into RGB565. Labels are the only kind whose size is set by
// the caller rather than derived from a source.
type Label struct {
	*Object

	text     string
	fontName string
	fontSize int
	color    Color
	opacity  uint8

	bgColor  Color
	bgEnable bool

	textAlign   TextAlign
	longMode    LongMode
	lineSpacing int

	scrollOffset int
	scrollSpeed  time.Duration
	scrollLoop   bool
	scrollActive bool
	scrollTimer  *Timer
	scrollDirty  bool

	// layout cache, rebuilt on any text/font/size/width change
	lines      []shapedLine
	textWidth  int
	lineHeight int
	baseline   int
	mask       []byte // width*height coverage plane
	maskValid  bool
}

type shapedLine struct {
	glyphs []positionedGlyph
	width  int
}

type positionedGlyph struct {
	r       rune
	x       int
	advance int
}

// NewLabel creates an empty label using the engine's default font. The
// label starts at 0,0 with zero size; give it a size before drawing.
func NewLabel(e *Engine) *Label {
	l := &Label{
		color:       ColorWhite,
		opacity:     0xFF,
		fontSize:    defaultFontSize,
		lineSpacing: defaultLineSpacing,
		scrollSpeed: defaultScrollSpeed,
		scrollLoop:  true,
		longMode:    LongClip,
	}
	l.Object = newObject(e, KindLabel)
	l.Object.variant = l
	return l
}

// SetText replaces the label text, dropping the cached layout and any
// scroll progress.
func (l *Label) SetText(text string) {
	if l.text == text {
		return
	}
	l.text = text
	l.invalidateLayout()
}

// SetTextFmt formats into the label like fmt.Sprintf.
func (l *Label) SetTextFmt(format string, args ...any) {
	l.SetText(fmt.Sprintf(format, args...))
}

// Text returns the current text.
func (l *Label) Text() string { return l.text }

// SetFont switches the label to the named registered font. An empty name
// selects the registry default.
func (l *Label) SetFont(name string) {
	if l.fontName == name {
		return
	}
	l.fontName = name
	l.invalidateLayout()
}

// SetFontSize sets the glyph size in pixels.
func (l *Label) SetFontSize(px int) error {
	if px <= 0 {
		return &ResourceError{Op: "SetFontSize", Err: fmt.Errorf("invalid font size %d", px)}
	}
	if l.fontSize == px {
		return nil
	}
	l.fontSize = px
	l.invalidateLayout()
	return nil
}

// SetColor sets the text color.
func (l *Label) SetColor(c Color) {
	l.color = c
	l.markDirty()
}

// SetOpacity sets the text opacity, 0 transparent to 255 opaque.
func (l *Label) SetOpacity(opa uint8) {
	l.opacity = opa
	l.markDirty()
}

// SetBackground fills the label box with c behind the text. Passing
// enable=false leaves the box transparent.
func (l *Label) SetBackground(c Color, enable bool) {
	l.bgColor = c
	l.bgEnable = enable
	l.markDirty()
}

// SetTextAlign sets per-line horizontal alignment.
func (l *Label) SetTextAlign(a TextAlign) {
	l.textAlign = a
	l.markDirty()
	l.maskValid = false
}

// SetLongMode changes overflow handling. Entering a scroll mode creates
// the scroll timer; leaving one deletes it and resets scroll progress.
func (l *Label) SetLongMode(mode LongMode) {
	if l.longMode == mode {
		return
	}
	l.longMode = mode

	l.stopScroll()
	l.scrollOffset = 0
	if mode.scrolling() {
		if l.scrollTimer == nil {
			l.scrollTimer = l.engine.Timers().Create(l.scrollSpeed, l.scrollTick, nil)
			l.scrollTimer.Pause()
		}
	} else if l.scrollTimer != nil {
		l.engine.Timers().Delete(l.scrollTimer)
		l.scrollTimer = nil
	}
	l.invalidateLayout()
}

// SetLineSpacing sets extra pixels between lines.
func (l *Label) SetLineSpacing(px int) {
	l.lineSpacing = px
	l.markDirty()
	l.maskValid = false
}

// SetScrollSpeed sets how long the scroll dwells on each pixel.
func (l *Label) SetScrollSpeed(perPixel time.Duration) error {
	if perPixel <= 0 {
		return &ResourceError{Op: "SetScrollSpeed", Err: fmt.Errorf("invalid scroll speed %v", perPixel)}
	}
	l.scrollSpeed = perPixel
	if l.scrollTimer != nil {
		l.scrollTimer.SetPeriod(perPixel)
	}
	return nil
}

// SetScrollLoop controls whether LongScroll restarts after the text has
// fully passed, or stops.
func (l *Label) SetScrollLoop(loop bool) { l.scrollLoop = loop }

func (m LongMode) scrolling() bool {
	return m == LongScroll || m == LongScrollCircular
}

// invalidateLayout drops the cached lines and mask and rewinds scrolling.
func (l *Label) invalidateLayout() {
	l.lines = nil
	l.textWidth = 0
	l.maskValid = false
	l.scrollDirty = false
	if l.scrollActive {
		l.stopScroll()
	}
	l.scrollOffset = 0
	l.markDirty()
}

func (l *Label) stopScroll() {
	l.scrollActive = false
	if l.scrollTimer != nil {
		l.scrollTimer.Pause()
	}
}

// scrollTick advances the scroll one pixel. Wrap and stop decisions only
// ever happen here, never during draw.
func (l *Label) scrollTick(any) {
	if !l.scrollActive {
		return
	}
	l.scrollOffset++
	switch l.longMode {
	case LongScroll:
		if l.scrollLoop {
			if l.scrollOffset > l.textWidth+l.width {
				l.scrollOffset = -l.width
			}
		} else if l.scrollOffset > l.textWidth {
			l.stopScroll()
			return
		}
	case LongScrollCircular:
		if l.scrollOffset >= l.textWidth+l.circularGap() {
			l.scrollOffset = 0
		}
	default:
		return
	}
	l.scrollDirty = true
	l.markDirty()
}

// circularGap is the blank run between the tail and the next head in
// circular scrolling.
func (l *Label) circularGap() int {
	gap := l.fontSize * circularScrollGapEm
	if gap <= 0 {
		gap = 1
	}
	return gap
}

func (l *Label) release() {
	if l.scrollTimer != nil {
		l.engine.Timers().Delete(l.scrollTimer)
		l.scrollTimer = nil
	}
	l.lines = nil
	l.mask = nil
	l.maskValid = false
}
