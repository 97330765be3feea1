package damage

import "testing"

func TestMarkRows(t *testing.T) {
	tests := []struct {
		name       string
		height     int
		stripeH    int
		y1, y2     int
		wantDirty  []int
		wantStripe int
	}{
		{"single stripe", 240, 40, 0, 10, []int{0}, 6},
		{"spanning two stripes", 240, 40, 35, 45, []int{0, 1}, 6},
		{"exact stripe boundary", 240, 40, 40, 80, []int{1}, 6},
		{"last short stripe", 250, 40, 245, 250, []int{6}, 7},
		{"clamped below zero", 240, 40, -20, 5, []int{0}, 6},
		{"clamped past bottom", 240, 40, 230, 400, []int{5}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.height, tt.stripeH)
			if tr.Stripes() != tt.wantStripe {
				t.Fatalf("Stripes() = %d, want %d", tr.Stripes(), tt.wantStripe)
			}
			tr.MarkRows(tt.y1, tt.y2)
			if tr.Count() != len(tt.wantDirty) {
				t.Errorf("Count() = %d, want %d", tr.Count(), len(tt.wantDirty))
			}
			for _, s := range tt.wantDirty {
				if !tr.Dirty(s) {
					t.Errorf("stripe %d not dirty", s)
				}
			}
		})
	}
}

func TestEmptyRangeIsNoop(t *testing.T) {
	tr := New(240, 40)
	tr.MarkRows(50, 50)
	tr.MarkRows(60, 40)
	if tr.Any() {
		t.Error("empty ranges marked stripes dirty")
	}
}

func TestMarkAllAndClear(t *testing.T) {
	tr := New(250, 40) // 7 stripes, exercises the partial-word mask
	tr.MarkAll()
	if tr.Count() != 7 {
		t.Errorf("Count() after MarkAll = %d, want 7", tr.Count())
	}
	tr.Clear()
	if tr.Any() {
		t.Error("Clear left dirty stripes")
	}
}

func TestOutOfRangeDirty(t *testing.T) {
	tr := New(240, 40)
	tr.MarkAll()
	if tr.Dirty(-1) || tr.Dirty(6) {
		t.Error("out-of-range stripes reported dirty")
	}
}
