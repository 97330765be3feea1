package emgfx

import (
	"encoding/binary"
	"fmt"

	"github.com/emgfx/emgfx/internal/blend"
)

// Unified image descriptor constants.
const (
	descriptorMagic  = 0x19
	descriptorHeader = 10

	// ColorRGB565A8 is the one descriptor pixel format the blitter
	// supports: an RGB565 plane followed by an A8 alpha plane.
	ColorRGB565A8 = 0x0A
)

// ImageDescriptor is the unified still-image container: a 10-byte header
// followed by the pixel planes. All integers little-endian:
//
//	Offset  Size  Description
//	0       1     Magic (0x19)
//	1       1     Color format (0x0A = RGB565+A8)
//	2       2     Flags (reserved)
//	4       2     Width
//	6       2     Height
//	8       2     Stride in pixels (0 = width)
//	10      N     RGB565 plane (stride*height*2), then A8 plane (stride*height)
type ImageDescriptor struct {
	ColorFormat uint8
	Flags       uint16
	Width       int
	Height      int
	Stride      int
	Data        []byte
}

// ParseImageDescriptor validates the header and plane sizes of src.
func ParseImageDescriptor(src []byte) (*ImageDescriptor, error) {
	if len(src) < descriptorHeader {
		return nil, fmt.Errorf("emgfx: descriptor shorter than header")
	}
	if src[0] != descriptorMagic {
		return nil, fmt.Errorf("emgfx: bad descriptor magic 0x%02X", src[0])
	}
	d := &ImageDescriptor{
		ColorFormat: src[1],
		Flags:       binary.LittleEndian.Uint16(src[2:]),
		Width:       int(binary.LittleEndian.Uint16(src[4:])),
		Height:      int(binary.LittleEndian.Uint16(src[6:])),
		Stride:      int(binary.LittleEndian.Uint16(src[8:])),
		Data:        src[descriptorHeader:],
	}
	if d.Stride == 0 {
		d.Stride = d.Width
	}
	if d.ColorFormat != ColorRGB565A8 {
		return nil, fmt.Errorf("emgfx: unsupported descriptor color format 0x%02X", d.ColorFormat)
	}
	if want := d.Stride * d.Height * 3; len(d.Data) < want {
		return nil, fmt.Errorf("emgfx: descriptor pixel data %d bytes, want %d", len(d.Data), want)
	}
	return d, nil
}

// Decode unpacks the descriptor's planes into a DecodedImage. Rows wider
// than the image (stride > width) are tightened.
func (d *ImageDescriptor) Decode() (*DecodedImage, error) {
	planeLen := d.Stride * d.Height
	pix := make([]uint16, d.Width*d.Height)
	alpha := make([]byte, d.Width*d.Height)
	alphaPlane := d.Data[planeLen*2:]

	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			off := (y*d.Stride + x) * 2
			pix[y*d.Width+x] = binary.LittleEndian.Uint16(d.Data[off:])
			alpha[y*d.Width+x] = alphaPlane[y*d.Stride+x]
		}
	}
	return &DecodedImage{Width: d.Width, Height: d.Height, Pix: pix, Alpha: alpha}, nil
}

// Image is a still-picture scene object. Its source goes through the
// engine's decoder registry, so it accepts raw descriptors, single-frame
// AAF containers, and anything a registered custom decoder understands.
type Image struct {
	*Object

	src     []byte
	decoded *DecodedImage
	opacity uint8
}

// NewImage creates an image object attached to e, empty until SetSource.
func NewImage(e *Engine) *Image {
	img := &Image{opacity: 0xFF}
	img.Object = newObject(e, KindImage)
	img.Object.variant = img
	return img
}

// SetSource attaches and decodes an image source. The object resizes to the
// decoded dimensions. On failure the previous source stays in place.
func (img *Image) SetSource(src []byte) error {
	decoded, err := img.engine.decoders.open(src)
	if err != nil {
		return err
	}
	if img.decoded != nil {
		img.decoded.Close()
	}
	img.src = src
	img.decoded = decoded
	img.width = decoded.Width
	img.height = decoded.Height
	img.markDirty()
	return nil
}

// SetOpacity scales the whole image's alpha; 0xFF is fully opaque.
func (img *Image) SetOpacity(opa uint8) {
	img.opacity = opa
	img.markDirty()
}

// draw implements payload: clip against the object bounds and blend the
// RGB565+A8 planes into the stripe.
func (img *Image) draw(clip Area, fb *Framebuffer, swap bool) error {
	if img.decoded == nil {
		return ErrNoSource
	}
	d := img.decoded

	objX, objY := img.screenPosition(img.engine.width, img.engine.height)
	c := clip.Intersect(Area{objX, objY, objX + d.Width, objY + d.Height})
	if c.Empty() {
		return nil
	}

	srcX := c.X1 - objX
	srcY := c.Y1 - objY
	dstOff := (c.Y1-fb.Rect.Y1)*fb.Stride + (c.X1 - fb.Rect.X1)
	srcOff := srcY*d.Width + srcX

	var alpha []byte
	if d.Alpha != nil {
		alpha = d.Alpha[srcOff:]
	}
	blend.BlitRGB565A8(fb.Pix[dstOff:], fb.Stride, d.Pix[srcOff:], d.Width,
		alpha, d.Width, c.Width(), c.Height(), img.opacity, swap)

	img.dirty = false
	return nil
}

// release implements payload, closing the decoded planes exactly once.
func (img *Image) release() {
	if img.decoded != nil {
		img.decoded.Close()
		img.decoded = nil
	}
	img.src = nil
}
