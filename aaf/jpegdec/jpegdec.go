// Package jpegdec provides the default JPEG block decoder for AAF assets,
// backed by github.com/gen2brain/jpegn. It converts decoded truecolor
// pixels straight to RGB565 in the byte order the framebuffer wants.
package jpegdec

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/jpegn"

	"github.com/emgfx/emgfx/aaf"
)

// Decoder implements aaf.JPEGDecoder.
type Decoder struct{}

var _ aaf.JPEGDecoder = (*Decoder)(nil)

// New returns a ready-to-use decoder. Decoder is stateless, so one value
// can serve any number of engines.
func New() *Decoder { return &Decoder{} }

// Decode decodes a baseline JPEG blob into dst as row-major RGB565 and
// returns its dimensions. With swap set, each pixel is written high byte
// first. Decode fails before writing anything if dst is too small.
func (*Decoder) Decode(data []byte, dst []byte, swap bool) (width, height int, err error) {
	img, err := jpegn.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("jpegdec: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if need := w * h * 2; len(dst) < need {
		return 0, 0, fmt.Errorf("jpegdec: buffer too small: %d < %d", len(dst), need)
	}

	// jpegn returns *image.RGBA (or *image.NRGBA for CMYK sources); the
	// generic At path covers both without an extra conversion pass.
	if rgba, ok := img.(*image.RGBA); ok {
		writeRGBA(rgba, dst, swap)
		return w, h, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			put(dst[i:], pack565(uint8(r>>8), uint8(g>>8), uint8(bl>>8)), swap)
			i += 2
		}
	}
	return w, h, nil
}

func writeRGBA(img *image.RGBA, dst []byte, swap bool) {
	b := img.Bounds()
	i := 0
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4:]
			put(dst[i:], pack565(p[0], p[1], p[2]), swap)
			i += 2
		}
	}
}

func pack565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

func put(dst []byte, v uint16, swap bool) {
	if swap {
		dst[0] = byte(v >> 8)
		dst[1] = byte(v)
	} else {
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
	}
}
