package emgfx

import "fmt"

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Area is a half-open pixel rectangle: x in [X1,X2), y in [Y1,Y2).
// The zero value is empty.
type Area struct {
	X1, Y1, X2, Y2 int
}

// AreaXYWH builds an Area from an origin and a size.
func AreaXYWH(x, y, w, h int) Area {
	return Area{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// Width returns the horizontal extent. Negative extents count as zero.
func (a Area) Width() int {
	if a.X2 <= a.X1 {
		return 0
	}
	return a.X2 - a.X1
}

// Height returns the vertical extent. Negative extents count as zero.
func (a Area) Height() int {
	if a.Y2 <= a.Y1 {
		return 0
	}
	return a.Y2 - a.Y1
}

// Empty reports whether the area contains no pixels.
func (a Area) Empty() bool {
	return a.X1 >= a.X2 || a.Y1 >= a.Y2
}

// Intersect returns the overlap of two areas. The result is Empty when the
// areas do not overlap.
func (a Area) Intersect(b Area) Area {
	if b.X1 > a.X1 {
		a.X1 = b.X1
	}
	if b.Y1 > a.Y1 {
		a.Y1 = b.Y1
	}
	if b.X2 < a.X2 {
		a.X2 = b.X2
	}
	if b.Y2 < a.Y2 {
		a.Y2 = b.Y2
	}
	return a
}

func (a Area) String() string {
	return fmt.Sprintf("Area(%d,%d)-(%d,%d)", a.X1, a.Y1, a.X2, a.Y2)
}
