package emgfx

import "fmt"

// Color is a 16-bit RGB565 pixel value, the only color format the renderer
// writes. The high five bits are red, the middle six green, the low five blue.
type Color uint16

// Common colors.
const (
	ColorBlack Color = 0x0000
	ColorWhite Color = 0xFFFF
)

// RGB packs 8-bit channel values into RGB565, dropping the low bits of each
// channel the way the display expects.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b&0xF8)>>3)
}

// Swap exchanges the two bytes of the color, for big-endian framebuffers.
func (c Color) Swap() Color {
	return c<<8 | c>>8
}

// RGBA implements the color.Color interface for debugging and test export,
// expanding each 565 channel to its full 8-bit range.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8 := uint32(c>>11) & 0x1F
	g8 := uint32(c>>5) & 0x3F
	b8 := uint32(c) & 0x1F
	r8 = r8<<3 | r8>>2
	g8 = g8<<2 | g8>>4
	b8 = b8<<3 | b8>>2
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xFFFF
}

func (c Color) String() string {
	return fmt.Sprintf("Color(0x%04X)", uint16(c))
}
