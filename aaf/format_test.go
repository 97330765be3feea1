package aaf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// grayPalette returns a 1<<depth entry palette with entry i holding
// B=G=R=i*step, where step spreads the gray ramp over the index range.
func grayPalette(depth int) []byte {
	n := 1 << depth
	step := 256 / n
	pal := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := byte(i * step)
		pal[i*4+0] = v
		pal[i*4+1] = v
		pal[i*4+2] = v
	}
	return pal
}

// buildTestAsset assembles a small 8-bit two-frame container: 8x6 pixels,
// block height 4 (one full block plus a 2-row remainder block).
func buildTestAsset(t *testing.T, enc Encoding) ([]byte, [][]byte) {
	t.Helper()

	const w, h, bh = 8, 6, 4
	frames := make([][]byte, 2)
	var b Builder
	for f := range frames {
		pix := make([]byte, w*h)
		for i := range pix {
			pix[i] = byte((i + f*7) % 4)
		}
		frames[f] = pix
		err := b.AddSplitBitmap(SplitBitmap{
			Width: w, Height: h, BitDepth: 8, BlockHeight: bh,
			Palette:  grayPalette(8),
			Pixels:   pix,
			Encoding: enc,
		})
		if err != nil {
			t.Fatalf("AddSplitBitmap: %v", err)
		}
	}
	return b.Bytes(), frames
}

func TestParseRoundTrip(t *testing.T) {
	data, _ := buildTestAsset(t, EncodingRLE)

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Frames() != 2 {
		t.Fatalf("Frames = %d, want 2", a.Frames())
	}

	for i := 0; i < a.Frames(); i++ {
		payload, err := a.Frame(i)
		if err != nil {
			t.Fatalf("Frame(%d): %v", i, err)
		}
		if len(payload) == 0 || payload[0] != '_' || payload[1] != 'S' {
			t.Errorf("frame %d payload does not start with split-bitmap tag", i)
		}
	}

	if _, err := a.Frame(2); err == nil {
		t.Error("Frame(2) succeeded, want out-of-range error")
	}
	if _, err := a.Frame(-1); err == nil {
		t.Error("Frame(-1) succeeded, want out-of-range error")
	}
}

func TestParseFailsClosed(t *testing.T) {
	data, _ := buildTestAsset(t, EncodingRLE)

	blobBase := tableOffset + 2*tableEntrySize
	tests := []struct {
		name    string
		corrupt func([]byte)
	}{
		{"container magic", func(d []byte) { d[0] = 0x00 }},
		{"format string", func(d []byte) { d[2] = 'X' }},
		{"checksum", func(d []byte) { binary.LittleEndian.PutUint32(d[checksumOffset:], 0xDEADBEEF) }},
		{"first frame magic", func(d []byte) { d[blobBase] = 0x00 }},
		{"second frame magic", func(d []byte) {
			off := blobBase + int(binary.LittleEndian.Uint32(d[tableOffset+tableEntrySize+4:]))
			d[off] ^= 0xFF
			// Keep the checksum valid so the frame magic is what fails.
			binary.LittleEndian.PutUint32(d[checksumOffset:], byteSum(d[tableOffset:]))
		}},
		{"truncated header", func(d []byte) {}}, // handled below via slicing
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := bytes.Clone(data)
			if tt.name == "truncated header" {
				d = d[:8]
			} else {
				tt.corrupt(d)
			}

			a, err := Parse(d)
			if err == nil {
				t.Fatal("Parse succeeded on corrupted container")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("err = %v, want *FormatError", err)
			}
			if a != nil {
				t.Error("Parse returned a partial Asset alongside the error")
			}
		})
	}
}

func TestParseRejectsOversizedFrameCount(t *testing.T) {
	data, _ := buildTestAsset(t, EncodingRLE)
	d := bytes.Clone(data)
	binary.LittleEndian.PutUint32(d[numOffset:], 1<<30)

	if _, err := Parse(d); err == nil {
		t.Fatal("Parse accepted a frame count larger than the container")
	}
}

func TestBuilderRedirect(t *testing.T) {
	var b Builder
	if err := b.AddRedirect("eyes_closed.aaf"); err != nil {
		t.Fatalf("AddRedirect: %v", err)
	}

	a, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	payload, err := a.Frame(0)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	h, err := ParseHeader(payload)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Format != FormatRedirect {
		t.Fatalf("Format = %v, want FormatRedirect", h.Format)
	}
	if h.Filename != "eyes_closed.aaf" {
		t.Errorf("Filename = %q, want %q", h.Filename, "eyes_closed.aaf")
	}
}
