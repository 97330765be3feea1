// Command aafgen packs a directory of PNG frames into an AAF animation
// container. Frames are indexed to an 8-bit palette per frame; colors
// beyond 256 are matched to their nearest palette entry.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emgfx/emgfx/aaf"
)

func main() {
	var (
		output  = flag.String("o", "out.aaf", "output AAF file")
		blockH  = flag.Int("blockh", 16, "block height in rows")
		encName = flag.String("enc", "huffman", "block encoding: rle, huffman or direct")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: aafgen [-o out.aaf] [-blockh n] [-enc mode] framedir\n")
		os.Exit(2)
	}

	enc, err := parseEncoding(*encName)
	if err != nil {
		log.Fatal(err)
	}

	frames, err := listPNGs(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if len(frames) == 0 {
		log.Fatalf("no PNG files in %s", flag.Arg(0))
	}

	var b aaf.Builder
	for _, path := range frames {
		img, err := loadPNG(path)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		palette, pixels := indexFrame(img)
		bounds := img.Bounds()
		err = b.AddSplitBitmap(aaf.SplitBitmap{
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			BitDepth:    8,
			BlockHeight: *blockH,
			Palette:     palette,
			Pixels:      pixels,
			Encoding:    enc,
		})
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
	}

	out := b.Bytes()
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		log.Fatalf("write %s: %v", *output, err)
	}
	log.Printf("%d frames, %d bytes -> %s", len(frames), len(out), *output)
}

func parseEncoding(name string) (aaf.Encoding, error) {
	switch strings.ToLower(name) {
	case "rle":
		return aaf.EncodingRLE, nil
	case "huffman":
		return aaf.EncodingHuffman, nil
	case "direct":
		return aaf.EncodingHuffmanDirect, nil
	}
	return 0, fmt.Errorf("unknown encoding %q", name)
}

func listPNGs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

type rgb struct{ r, g, b uint8 }

// indexFrame reduces an image to an 8-bit indexed plane plus a palette in
// container order (4 bytes per entry: B, G, R, padding). The first 256
// distinct colors become palette entries; later colors snap to the nearest
// existing entry.
func indexFrame(img image.Image) (palette []byte, pixels []byte) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels = make([]byte, w*h)

	index := make(map[rgb]byte)
	var colors []rgb

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			c := rgb{uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)}
			idx, ok := index[c]
			if !ok {
				if len(colors) < 256 {
					idx = byte(len(colors))
					index[c] = idx
					colors = append(colors, c)
				} else {
					idx = nearest(colors, c)
					index[c] = idx
				}
			}
			pixels[i] = idx
			i++
		}
	}

	palette = make([]byte, 256*4)
	for j, c := range colors {
		palette[j*4+0] = c.b
		palette[j*4+1] = c.g
		palette[j*4+2] = c.r
	}
	return palette, pixels
}

func nearest(colors []rgb, c rgb) byte {
	best, bestDist := 0, 1<<31-1
	for i, p := range colors {
		dr, dg, db := int(p.r)-int(c.r), int(p.g)-int(c.g), int(p.b)-int(c.b)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return byte(best)
}
