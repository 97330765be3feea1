package emgfx

import "image"

// Framebuffer is a caller-visible window of RGB565 pixels: either a full
// screen or one horizontal stripe of it during a refresh. Rect gives the
// screen region the buffer maps; Stride is pixels per row and may exceed
// Rect.Width for sub-windows of a wider buffer.
type Framebuffer struct {
	Pix    []uint16
	Stride int
	Rect   Area
}

// NewFramebuffer allocates a buffer covering rect with a tight stride.
func NewFramebuffer(rect Area) *Framebuffer {
	return &Framebuffer{
		Pix:    make([]uint16, rect.Width()*rect.Height()),
		Stride: rect.Width(),
		Rect:   rect,
	}
}

// Fill sets every pixel to c.
func (f *Framebuffer) Fill(c Color) {
	v := uint16(c)
	for i := range f.Pix {
		f.Pix[i] = v
	}
}

// At returns the pixel at screen coordinates (x, y). Coordinates outside
// Rect return zero; convenient in tests.
func (f *Framebuffer) At(x, y int) Color {
	if x < f.Rect.X1 || x >= f.Rect.X2 || y < f.Rect.Y1 || y >= f.Rect.Y2 {
		return 0
	}
	return Color(f.Pix[(y-f.Rect.Y1)*f.Stride+(x-f.Rect.X1)])
}

// ToImage expands the buffer to a standard RGBA image for debugging and
// golden-file tests.
func (f *Framebuffer) ToImage() *image.RGBA {
	w, h := f.Rect.Width(), f.Rect.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := Color(f.Pix[y*f.Stride+x])
			r, g, b, _ := c.RGBA()
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(r >> 8)
			img.Pix[i+1] = uint8(g >> 8)
			img.Pix[i+2] = uint8(b >> 8)
			img.Pix[i+3] = 0xFF
		}
	}
	return img
}
