package emgfx

import (
	"errors"
	"fmt"

	"github.com/emgfx/emgfx/aaf"
)

// maxDecoders caps the registry; registrations past it fail with a
// ResourceError rather than growing without bound.
const maxDecoders = 8

// DecodedImage is an opened image ready to blend: an RGB565 plane, an
// optional A8 alpha plane (nil means fully opaque), and the dimensions.
// Close releases decoder-owned resources; closing twice is harmless.
type DecodedImage struct {
	Width  int
	Height int
	Pix    []uint16
	Alpha  []byte

	closeFn func()
}

// Close releases the decode. The planes must not be used afterwards.
func (d *DecodedImage) Close() {
	if d.closeFn != nil {
		d.closeFn()
		d.closeFn = nil
	}
}

// Decoder turns one source format into blendable pixels. Implementations
// report "not mine" from Info with any error; the registry then tries the
// next decoder in registration order.
type Decoder interface {
	// Name identifies the decoder; names are unique within a registry.
	Name() string

	// Info reads only the source header and returns the image size.
	Info(src []byte) (w, h int, err error)

	// Open fully decodes the source.
	Open(src []byte) (*DecodedImage, error)
}

// errUnknownFormat is the registry's "no decoder claimed this source".
var errUnknownFormat = errors.New("emgfx: unknown image format")

// decoderRegistry holds an engine's image decoders in registration order.
// The built-in raw-descriptor and AAF decoders occupy the first two slots.
type decoderRegistry struct {
	decoders []Decoder
}

// register appends a decoder. Duplicate names and over-capacity are
// ResourceErrors and leave the registry untouched.
func (r *decoderRegistry) register(d Decoder) error {
	if len(r.decoders) >= maxDecoders {
		return &ResourceError{Op: "RegisterDecoder", Err: fmt.Errorf("registry full (%d decoders)", maxDecoders)}
	}
	for _, cur := range r.decoders {
		if cur.Name() == d.Name() {
			return &ResourceError{Op: "RegisterDecoder", Err: fmt.Errorf("decoder %q already registered", d.Name())}
		}
	}
	r.decoders = append(r.decoders, d)
	return nil
}

// info asks each decoder in order until one recognizes the source.
func (r *decoderRegistry) info(src []byte) (w, h int, err error) {
	for _, d := range r.decoders {
		if w, h, err = d.Info(src); err == nil {
			return w, h, nil
		}
	}
	return 0, 0, errUnknownFormat
}

// open decodes through the first decoder that recognizes the source.
func (r *decoderRegistry) open(src []byte) (*DecodedImage, error) {
	for _, d := range r.decoders {
		if _, _, err := d.Info(src); err == nil {
			return d.Open(src)
		}
	}
	return nil, errUnknownFormat
}

var (
	_ Decoder = rawDecoder{}
	_ Decoder = aafImageDecoder{}
)

// rawDecoder handles the unified image descriptor format (see
// ImageDescriptor). It is registered first in every engine.
type rawDecoder struct{}

func (rawDecoder) Name() string { return "RAW" }

func (rawDecoder) Info(src []byte) (w, h int, err error) {
	desc, err := ParseImageDescriptor(src)
	if err != nil {
		return 0, 0, err
	}
	return desc.Width, desc.Height, nil
}

func (rawDecoder) Open(src []byte) (*DecodedImage, error) {
	desc, err := ParseImageDescriptor(src)
	if err != nil {
		return nil, err
	}
	return desc.Decode()
}

// aafImageDecoder renders frame 0 of an AAF container as a still image,
// letting image objects display animation assets without playback.
type aafImageDecoder struct {
	jpeg aaf.JPEGDecoder
}

func (aafImageDecoder) Name() string { return "AAF" }

func (aafImageDecoder) Info(src []byte) (w, h int, err error) {
	asset, err := aaf.Parse(src)
	if err != nil {
		return 0, 0, err
	}
	frame, err := asset.Frame(0)
	if err != nil {
		return 0, 0, err
	}
	hdr, err := aaf.ParseHeader(frame)
	if err != nil {
		return 0, 0, err
	}
	return hdr.Width, hdr.Height, nil
}

func (d aafImageDecoder) Open(src []byte) (*DecodedImage, error) {
	asset, err := aaf.Parse(src)
	if err != nil {
		return nil, err
	}
	frame, err := asset.Frame(0)
	if err != nil {
		return nil, err
	}
	hdr, err := aaf.ParseHeader(frame)
	if err != nil {
		return nil, err
	}
	if hdr.Format != aaf.FormatSplitBitmap {
		return nil, fmt.Errorf("emgfx: cannot open %s frame as image", hdr.Format)
	}

	pix := make([]uint16, hdr.Width*hdr.Height)
	offsets := hdr.BlockOffsets()
	dec := aaf.BlockDecoder{JPEG: d.jpeg}
	buf := make([]byte, hdr.BlockBufferSize())

	for block := 0; block < hdr.Blocks; block++ {
		if err := dec.Decode(frame, hdr, offsets, block, buf, false); err != nil {
			return nil, err
		}
		y0, y1 := hdr.BlockRows(block)
		for y := y0; y < y1; y++ {
			row := pix[y*hdr.Width:]
			src := buf[(y-y0)*rowBytes(hdr):]
			for x := 0; x < hdr.Width; x++ {
				switch hdr.BitDepth {
				case 4:
					packed := src[x/2]
					idx := int(packed >> 4)
					if x%2 == 1 {
						idx = int(packed & 0x0F)
					}
					row[x] = hdr.PaletteRGB565(idx, false)
				case 8:
					row[x] = hdr.PaletteRGB565(int(src[x]), false)
				case 24:
					row[x] = uint16(src[x*2]) | uint16(src[x*2+1])<<8
				}
			}
		}
	}
	return &DecodedImage{Width: hdr.Width, Height: hdr.Height, Pix: pix}, nil
}

// rowBytes is the byte width of one decoded row at the header's depth.
func rowBytes(h *aaf.Header) int {
	switch h.BitDepth {
	case 4:
		return h.Width / 2
	case 24:
		return h.Width * 2
	default:
		return h.Width
	}
}
