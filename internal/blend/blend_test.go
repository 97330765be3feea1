package blend

import "testing"

func TestMixEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		fg, bg uint16
		opa    uint8
		want   uint16
	}{
		{"fully opaque returns fg", 0xFFFF, 0x0000, 0xFF, 0xFFFF},
		{"opa at cover threshold returns fg", 0xF800, 0x001F, 0xFC, 0xF800},
		{"fully transparent returns bg", 0xFFFF, 0x07E0, 0x00, 0x07E0},
		{"opa at transparent threshold returns bg", 0xFFFF, 0x07E0, 0x03, 0x07E0},
		{"equal colors are unchanged", 0x1234, 0x1234, 0x80, 0x1234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mix(tt.fg, tt.bg, tt.opa); got != tt.want {
				t.Errorf("Mix(0x%04X, 0x%04X, %d) = 0x%04X, want 0x%04X",
					tt.fg, tt.bg, tt.opa, got, tt.want)
			}
		})
	}
}

func TestMixHalf(t *testing.T) {
	// White over black at half opacity lands mid-range in every channel.
	got := Mix(0xFFFF, 0x0000, 0x80)
	r := got >> 11
	g := (got >> 5) & 0x3F
	b := got & 0x1F
	if r < 14 || r > 17 || g < 28 || g > 35 || b < 14 || b > 17 {
		t.Errorf("Mix(white, black, 128) = 0x%04X (r=%d g=%d b=%d), want mid-range channels", got, r, g, b)
	}
}

func TestMixSwapRoundTrip(t *testing.T) {
	fg, bg := uint16(0xF800), uint16(0x001F)
	plain := Mix(fg, bg, 0x60)
	swapped := MixSwap(fg<<8|fg>>8, bg<<8|bg>>8, 0x60, true)
	if swapped != plain<<8|plain>>8 {
		t.Errorf("MixSwap = 0x%04X, want byte-swapped 0x%04X", swapped, plain)
	}
}

func TestDrawMask(t *testing.T) {
	dst := make([]uint16, 4*2)
	mask := []byte{
		0xFF, 0x00, 0x80, 0xFF,
		0x00, 0xFF, 0x00, 0x00,
	}
	DrawMask(dst, 4, 0xFFFF, 0xFF, mask, 4, 4, 2, false)

	if dst[0] != 0xFFFF || dst[3] != 0xFFFF || dst[5] != 0xFFFF {
		t.Errorf("full-coverage pixels not set: %04X %04X %04X", dst[0], dst[3], dst[5])
	}
	if dst[1] != 0 || dst[4] != 0 || dst[6] != 0 || dst[7] != 0 {
		t.Errorf("zero-coverage pixels written: %v", dst)
	}
	if dst[2] == 0 || dst[2] == 0xFFFF {
		t.Errorf("half-coverage pixel = 0x%04X, want a blend", dst[2])
	}
}

func TestBlitRGB565A8(t *testing.T) {
	dst := make([]uint16, 3)
	src := []uint16{0xF800, 0x07E0, 0x001F}
	alpha := []byte{0xFF, 0x00, 0xFF}
	BlitRGB565A8(dst, 3, src, 3, alpha, 3, 3, 1, 0xFF, false)

	if dst[0] != 0xF800 || dst[2] != 0x001F {
		t.Errorf("opaque pixels = %04X %04X, want F800 001F", dst[0], dst[2])
	}
	if dst[1] != 0 {
		t.Errorf("transparent pixel written: 0x%04X", dst[1])
	}
}

func TestBlitNilAlpha(t *testing.T) {
	dst := make([]uint16, 2)
	src := []uint16{0x1234, 0x5678}
	BlitRGB565A8(dst, 2, src, 2, nil, 0, 2, 1, 0xFF, false)
	if dst[0] != 0x1234 || dst[1] != 0x5678 {
		t.Errorf("nil-alpha blit = %04X %04X, want straight copy", dst[0], dst[1])
	}
}

func TestFill(t *testing.T) {
	dst := make([]uint16, 4*3)
	Fill(dst[1:], 4, 0xBEEF, 2, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := dst[y*4+x]
			inside := x >= 1 && x < 3
			if inside && got != 0xBEEF {
				t.Errorf("pixel (%d,%d) = 0x%04X, want 0xBEEF", x, y, got)
			}
			if !inside && got != 0 {
				t.Errorf("pixel (%d,%d) = 0x%04X, want untouched", x, y, got)
			}
		}
	}
}

func BenchmarkMix(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Mix(0xF800, 0x001F, uint8(i))
	}
}

func BenchmarkBlitRGB565A8(b *testing.B) {
	dst := make([]uint16, 240*16)
	src := make([]uint16, 240*16)
	alpha := make([]byte, 240*16)
	for i := range alpha {
		alpha[i] = uint8(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BlitRGB565A8(dst, 240, src, 240, alpha, 240, 240, 16, 0xFF, false)
	}
}
