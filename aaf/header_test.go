package aaf

import (
	"errors"
	"testing"
)

func TestParseHeaderSplitBitmap(t *testing.T) {
	data, _ := buildTestAsset(t, EncodingRLE)
	a, err := Parse(data)
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

	if h.Format != FormatSplitBitmap {
		t.Errorf("Format = %v, want FormatSplitBitmap", h.Format)
	}
	if h.Version != headerVersion {
		t.Errorf("Version = %q, want %q", h.Version, headerVersion)
	}
	if h.BitDepth != 8 || h.Width != 8 || h.Height != 6 {
		t.Errorf("geometry = %d-bit %dx%d, want 8-bit 8x6", h.BitDepth, h.Width, h.Height)
	}
	if h.Blocks != 2 || h.BlockHeight != 4 {
		t.Errorf("blocks = %d x %d rows, want 2 x 4", h.Blocks, h.BlockHeight)
	}
	if got, want := len(h.Palette), 256*4; got != want {
		t.Errorf("palette = %d bytes, want %d", got, want)
	}
	if h.NumColors() != 256 {
		t.Errorf("NumColors = %d, want 256", h.NumColors())
	}
	if want := headerBlockLenOffset + h.Blocks*4 + 256*4; h.DataOffset != want {
		t.Errorf("DataOffset = %d, want %d", h.DataOffset, want)
	}
}

func TestBlockOffsets(t *testing.T) {
	h := &Header{
		Format:      FormatSplitBitmap,
		Blocks:      3,
		BlockLen:    []uint32{10, 20, 5},
		DataOffset:  100,
		BlockHeight: 4,
		Height:      10,
	}

	got := h.BlockOffsets()
	want := []uint32{100, 110, 130}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offsets[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBlockRows(t *testing.T) {
	h := &Header{Blocks: 3, BlockHeight: 4, Height: 10}

	tests := []struct {
		block  int
		y0, y1 int
	}{
		{0, 0, 4},
		{1, 4, 8},
		{2, 8, 10}, // remainder block
	}
	for _, tt := range tests {
		y0, y1 := h.BlockRows(tt.block)
		if y0 != tt.y0 || y1 != tt.y1 {
			t.Errorf("BlockRows(%d) = [%d,%d), want [%d,%d)", tt.block, y0, y1, tt.y0, tt.y1)
		}
	}
}

func TestPaletteRGB565(t *testing.T) {
	h := &Header{
		BitDepth: 8,
		Palette: []byte{
			0xF8, 0xFC, 0xF8, 0x00, // white
			0x00, 0x00, 0xF8, 0x00, // red
			0x00, 0xFC, 0x00, 0x00, // green
			0xF8, 0x00, 0x00, 0x00, // blue
		},
	}

	tests := []struct {
		name  string
		index int
		swap  bool
		want  uint16
	}{
		{"white", 0, false, 0xFFFF},
		{"white swapped", 0, true, 0xFFFF},
		{"red", 1, false, 0xF800},
		{"red swapped", 1, true, 0x00F8},
		{"green", 2, false, 0x07E0},
		{"green swapped", 2, true, 0xE007},
		{"blue", 3, false, 0x001F},
		{"blue swapped", 3, true, 0x1F00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.PaletteRGB565(tt.index, tt.swap); got != tt.want {
				t.Errorf("PaletteRGB565(%d, %v) = 0x%04X, want 0x%04X", tt.index, tt.swap, got, tt.want)
			}
		})
	}
}

func TestBlockBufferSize(t *testing.T) {
	tests := []struct {
		depth, w, bh int
		want         int
	}{
		{4, 10, 5, 30},  // odd row count rounds up to even
		{4, 10, 4, 20},
		{8, 10, 5, 50},
		{24, 10, 5, 100},
	}
	for _, tt := range tests {
		h := &Header{BitDepth: tt.depth, Width: tt.w, BlockHeight: tt.bh}
		if got := h.BlockBufferSize(); got != tt.want {
			t.Errorf("%d-bit %dx%d: BlockBufferSize = %d, want %d", tt.depth, tt.w, tt.bh, got, tt.want)
		}
	}
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown tag", []byte("_Zrest")},
		{"bad bit depth", func() []byte {
			d := make([]byte, 32)
			d[0], d[1] = '_', 'S'
			d[headerDepthOffset] = 16
			return d
		}()},
		{"truncated split bitmap", []byte("_S")},
		{"block table truncated", func() []byte {
			d := make([]byte, headerBlockLenOffset)
			d[0], d[1] = '_', 'S'
			d[headerDepthOffset] = 8
			d[headerBlocksOffset] = 200 // table alone would need 800 bytes
			return d
		}()},
		{"height beyond block grid", func() []byte {
			d := make([]byte, headerBlockLenOffset)
			d[0], d[1] = '_', 'S'
			d[headerDepthOffset] = 8
			d[headerHeightOffset] = 8
			d[headerBlocksOffset] = 1
			d[headerBlockHOffset] = 4 // one block of 4 rows cannot cover 8
			return d
		}()},
		{"redirect name truncated", []byte{'_', 'R', 200, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("err = %v, want *FormatError", err)
			}
		})
	}
}
