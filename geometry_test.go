package emgfx

import "testing"

func TestAreaXYWH(t *testing.T) {
	a := AreaXYWH(10, 20, 30, 40)
	if a.X1 != 10 || a.Y1 != 20 || a.X2 != 40 || a.Y2 != 60 {
		t.Errorf("AreaXYWH = %v", a)
	}
	if a.Width() != 30 || a.Height() != 40 {
		t.Errorf("size = %dx%d, want 30x40", a.Width(), a.Height())
	}
}

func TestAreaEmpty(t *testing.T) {
	if !(Area{}).Empty() {
		t.Error("zero Area should be empty")
	}
	if (Area{0, 0, 1, 1}).Empty() {
		t.Error("1x1 Area should not be empty")
	}
	inverted := Area{X1: 10, Y1: 0, X2: 5, Y2: 5}
	if !inverted.Empty() {
		t.Error("inverted Area should be empty")
	}
	if inverted.Width() != 0 {
		t.Errorf("inverted Width = %d, want 0", inverted.Width())
	}
}

func TestAreaIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Area
		want Area
	}{
		{"overlap", Area{0, 0, 10, 10}, Area{5, 5, 20, 20}, Area{5, 5, 10, 10}},
		{"contained", Area{0, 0, 100, 100}, Area{10, 10, 20, 20}, Area{10, 10, 20, 20}},
		{"identical", Area{3, 4, 5, 6}, Area{3, 4, 5, 6}, Area{3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (Area{0, 0, 10, 10}).Intersect(Area{20, 20, 30, 30}); !got.Empty() {
		t.Errorf("disjoint Intersect = %v, want empty", got)
	}
}
