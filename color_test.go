package emgfx

import "testing"

func TestRGBPacking(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{"white", 0xFF, 0xFF, 0xFF, 0xFFFF},
		{"black", 0x00, 0x00, 0x00, 0x0000},
		{"red", 0xFF, 0x00, 0x00, 0xF800},
		{"green", 0x00, 0xFF, 0x00, 0x07E0},
		{"blue", 0x00, 0x00, 0xFF, 0x001F},
		{"low bits dropped", 0x07, 0x03, 0x07, 0x0000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGB(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("RGB(%#x,%#x,%#x) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestColorSwap(t *testing.T) {
	if got := Color(0xF800).Swap(); got != 0x00F8 {
		t.Errorf("Swap = %v, want Color(0x00F8)", got)
	}
	if got := Color(0x1234).Swap().Swap(); got != 0x1234 {
		t.Errorf("double Swap = %v, want Color(0x1234)", got)
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := ColorWhite.RGBA()
	if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF || a != 0xFFFF {
		t.Errorf("white RGBA = %x %x %x %x", r, g, b, a)
	}
	r, g, b, a = ColorBlack.RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xFFFF {
		t.Errorf("black RGBA = %x %x %x %x", r, g, b, a)
	}
}

func TestColorString(t *testing.T) {
	if got := Color(0xF800).String(); got != "Color(0xF800)" {
		t.Errorf("String = %q", got)
	}
}
