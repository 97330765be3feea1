package emgfx

// Align selects how an object is positioned relative to its parent screen.
// The nine inside anchors place the object within the parent; the twelve
// outside anchors place it fully beyond one parent edge, useful for slide-in
// effects. Offsets passed to Object.Align are added after the anchor formula.
type Align uint8

const (
	AlignTopLeft Align = iota
	AlignTopMid
	AlignTopRight
	AlignLeftMid
	AlignCenter
	AlignRightMid
	AlignBottomLeft
	AlignBottomMid
	AlignBottomRight
	AlignOutTopLeft
	AlignOutTopMid
	AlignOutTopRight
	AlignOutLeftTop
	AlignOutLeftMid
	AlignOutLeftBottom
	AlignOutRightTop
	AlignOutRightMid
	AlignOutRightBottom
	AlignOutBottomLeft
	AlignOutBottomMid
	AlignOutBottomRight
)

func (a Align) String() string {
	names := [...]string{
		"top-left", "top-mid", "top-right",
		"left-mid", "center", "right-mid",
		"bottom-left", "bottom-mid", "bottom-right",
		"out-top-left", "out-top-mid", "out-top-right",
		"out-left-top", "out-left-mid", "out-left-bottom",
		"out-right-top", "out-right-mid", "out-right-bottom",
		"out-bottom-left", "out-bottom-mid", "out-bottom-right",
	}
	if int(a) < len(names) {
		return names[a]
	}
	return "unknown"
}

// alignPosition computes an object's origin for one anchor. It is pure:
// given the object and parent sizes, each anchor has a fixed formula, and
// the offsets are added last.
func alignPosition(a Align, objW, objH, parentW, parentH, xOfs, yOfs int) (x, y int) {
	switch a {
	case AlignTopLeft:
		x, y = 0, 0
	case AlignTopMid:
		x, y = (parentW-objW)/2, 0
	case AlignTopRight:
		x, y = parentW-objW, 0
	case AlignLeftMid:
		x, y = 0, (parentH-objH)/2
	case AlignCenter:
		x, y = (parentW-objW)/2, (parentH-objH)/2
	case AlignRightMid:
		x, y = parentW-objW, (parentH-objH)/2
	case AlignBottomLeft:
		x, y = 0, parentH-objH
	case AlignBottomMid:
		x, y = (parentW-objW)/2, parentH-objH
	case AlignBottomRight:
		x, y = parentW-objW, parentH-objH
	case AlignOutTopLeft:
		x, y = 0, -objH
	case AlignOutTopMid:
		x, y = (parentW-objW)/2, -objH
	case AlignOutTopRight:
		x, y = parentW, -objH
	case AlignOutLeftTop:
		x, y = -objW, 0
	case AlignOutLeftMid:
		x, y = -objW, (parentH-objH)/2
	case AlignOutLeftBottom:
		x, y = -objW, parentH
	case AlignOutRightTop:
		x, y = parentW, 0
	case AlignOutRightMid:
		x, y = parentW, (parentH-objH)/2
	case AlignOutRightBottom:
		x, y = parentW, parentH
	case AlignOutBottomLeft:
		x, y = 0, parentH
	case AlignOutBottomMid:
		x, y = (parentW-objW)/2, parentH
	case AlignOutBottomRight:
		x, y = parentW, parentH
	}
	return x + xOfs, y + yOfs
}
