// Command aafgif decodes every frame of an AAF container through the real
// block pipeline and writes the result as an animated GIF, for previewing
// device assets on a desktop.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/magical/gif"

	"github.com/emgfx/emgfx/aaf"
	"github.com/emgfx/emgfx/aaf/jpegdec"
)

func main() {
	var (
		output = flag.String("o", "out.gif", "output GIF file")
		fps    = flag.Int("fps", 30, "playback rate")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: aafgif [-o out.gif] [-fps n] file.aaf\n")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	asset, err := aaf.Parse(data)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	delay := 100 / *fps // GIF delays are in centiseconds
	if delay < 2 {
		delay = 2
	}

	anim := &gif.GIF{LoopCount: 0}
	dec := aaf.BlockDecoder{JPEG: jpegdec.New()}

	for i := 0; i < asset.Frames(); i++ {
		frame, err := renderFrame(asset, &dec, i)
		if err != nil {
			log.Printf("frame %d skipped: %v", i, err)
			continue
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	if len(anim.Image) == 0 {
		log.Fatal("no decodable frames")
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, anim); err != nil {
		log.Fatalf("encode: %v", err)
	}
	log.Printf("%s: %d frames -> %s", path, len(anim.Image), *output)
}

// renderFrame decodes one frame to RGB565 and quantizes it to a paletted
// GIF frame. Indexed frames reuse the asset's own palette; truecolor
// frames go through a web-safe cube.
func renderFrame(asset *aaf.Asset, dec *aaf.BlockDecoder, index int) (*image.Paletted, error) {
	payload, err := asset.Frame(index)
	if err != nil {
		return nil, err
	}
	h, err := aaf.ParseHeader(payload)
	if err != nil {
		return nil, err
	}
	if h.Format != aaf.FormatSplitBitmap {
		return nil, fmt.Errorf("%s frame", h.Format)
	}

	offsets := h.BlockOffsets()
	buf := make([]byte, h.BlockBufferSize())

	if h.BitDepth == 24 {
		return renderTruecolor(payload, h, dec, offsets, buf)
	}
	return renderIndexed(payload, h, dec, offsets, buf)
}

// renderIndexed maps the frame's palette straight onto a GIF palette so no
// color information is lost.
func renderIndexed(payload []byte, h *aaf.Header, dec *aaf.BlockDecoder, offsets []uint32, buf []byte) (*image.Paletted, error) {
	pal := make(color.Palette, h.NumColors())
	for i := range pal {
		pal[i] = rgb565Color(h.PaletteRGB565(i, false))
	}
	img := image.NewPaletted(image.Rect(0, 0, h.Width, h.Height), pal)

	for block := 0; block < h.Blocks; block++ {
		if err := dec.Decode(payload, h, offsets, block, buf, false); err != nil {
			return nil, err
		}
		y0, y1 := h.BlockRows(block)
		for y := y0; y < y1; y++ {
			dst := img.Pix[y*img.Stride:]
			if h.BitDepth == 4 {
				src := buf[(y-y0)*(h.Width/2):]
				for x := 0; x < h.Width; x++ {
					packed := src[x/2]
					if x%2 == 0 {
						dst[x] = packed >> 4
					} else {
						dst[x] = packed & 0x0F
					}
				}
			} else {
				copy(dst[:h.Width], buf[(y-y0)*h.Width:])
			}
		}
	}
	return img, nil
}

// renderTruecolor quantizes decoded RGB565 to a 216-entry color cube.
func renderTruecolor(payload []byte, h *aaf.Header, dec *aaf.BlockDecoder, offsets []uint32, buf []byte) (*image.Paletted, error) {
	pal := webSafePalette()
	img := image.NewPaletted(image.Rect(0, 0, h.Width, h.Height), pal)

	for block := 0; block < h.Blocks; block++ {
		if err := dec.Decode(payload, h, offsets, block, buf, false); err != nil {
			return nil, err
		}
		y0, y1 := h.BlockRows(block)
		for y := y0; y < y1; y++ {
			src := buf[(y-y0)*h.Width*2:]
			for x := 0; x < h.Width; x++ {
				v := uint16(src[x*2]) | uint16(src[x*2+1])<<8
				img.Set(x, y, rgb565Color(v))
			}
		}
	}
	return img, nil
}

func rgb565Color(v uint16) color.RGBA {
	r := uint8(v >> 11)
	g := uint8(v >> 5 & 0x3F)
	b := uint8(v & 0x1F)
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

func webSafePalette() color.Palette {
	pal := make(color.Palette, 0, 216)
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				pal = append(pal, color.RGBA{
					R: uint8(r * 51),
					G: uint8(g * 51),
					B: uint8(b * 51),
					A: 0xFF,
				})
			}
		}
	}
	return pal
}
