package aaf

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Format identifies a frame's payload layout.
type Format uint8

const (
	// FormatSplitBitmap is the common case: a bitmap split into
	// independently compressed horizontal blocks.
	FormatSplitBitmap Format = iota

	// FormatRedirect is a symbolic reference to another file. The payload
	// carries only a filename; resolving it is the caller's job.
	FormatRedirect
)

func (f Format) String() string {
	switch f {
	case FormatSplitBitmap:
		return "split-bitmap"
	case FormatRedirect:
		return "redirect"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Split-bitmap frame layout constants. The two tag bytes sit at offset 0;
// offset 2 is unused.
const (
	headerVersionOffset  = 3
	headerDepthOffset    = 9
	headerWidthOffset    = 10
	headerHeightOffset   = 12
	headerBlocksOffset   = 14
	headerBlockHOffset   = 16
	headerBlockLenOffset = 18

	paletteEntrySize = 4
)

// Header is one frame's parsed header.
//
// For FormatSplitBitmap all geometry fields are set and Palette is non-nil
// unless BitDepth is 24. For FormatRedirect only Filename is meaningful.
type Header struct {
	Format      Format
	Version     string // 6-byte version string, NUL padding stripped
	BitDepth    int    // 4, 8 or 24
	Width       int
	Height      int
	Blocks      int
	BlockHeight int
	BlockLen    []uint32 // per-block compressed length
	Palette     []byte   // 1<<BitDepth entries of 4 bytes (B,G,R,X); nil for 24-bit
	DataOffset  int      // byte offset of block 0 within the frame payload
	Filename    string   // redirect target, FormatRedirect only
}

// ParseHeader parses one frame payload's header. The payload is the slice
// returned by Asset.Frame (per-frame magic already stripped).
//
// A bit depth other than 4, 8 or 24, an unknown tag, or a payload too short
// for its own block table and palette are all *FormatError: the frame is
// unusable and no Header is returned.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 2 {
		return nil, formatErr(0, "frame shorter than format tag")
	}

	switch tag := string(data[:2]); tag {
	case "_S":
		return parseSplitBitmap(data)
	case "_R":
		return parseRedirect(data)
	default:
		return nil, formatErr(0, fmt.Sprintf("unknown frame tag %q", tag))
	}
}

func parseSplitBitmap(data []byte) (*Header, error) {
	if len(data) < headerBlockLenOffset {
		return nil, formatErr(0, "split-bitmap header truncated")
	}

	h := &Header{
		Format:      FormatSplitBitmap,
		Version:     strings.TrimRight(string(data[headerVersionOffset:headerVersionOffset+6]), "\x00"),
		BitDepth:    int(data[headerDepthOffset]),
		Width:       int(binary.LittleEndian.Uint16(data[headerWidthOffset:])),
		Height:      int(binary.LittleEndian.Uint16(data[headerHeightOffset:])),
		Blocks:      int(binary.LittleEndian.Uint16(data[headerBlocksOffset:])),
		BlockHeight: int(binary.LittleEndian.Uint16(data[headerBlockHOffset:])),
	}

	if h.BitDepth != 4 && h.BitDepth != 8 && h.BitDepth != 24 {
		return nil, formatErr(headerDepthOffset, fmt.Sprintf("invalid bit depth %d", h.BitDepth))
	}

	// Decode buffers hold BlockHeight rows, so every row must fall inside
	// some block; a height the block grid cannot cover would send the
	// renderer past the buffer.
	if h.Height > h.Blocks*h.BlockHeight {
		return nil, formatErr(headerBlocksOffset,
			fmt.Sprintf("%d blocks of %d rows cannot cover height %d", h.Blocks, h.BlockHeight, h.Height))
	}

	numColors := 0
	if h.BitDepth != 24 {
		numColors = 1 << h.BitDepth
	}
	h.DataOffset = headerBlockLenOffset + h.Blocks*4 + numColors*paletteEntrySize
	if len(data) < h.DataOffset {
		return nil, formatErr(headerBlockLenOffset, "block table or palette truncated")
	}

	h.BlockLen = make([]uint32, h.Blocks)
	for i := range h.BlockLen {
		h.BlockLen[i] = binary.LittleEndian.Uint32(data[headerBlockLenOffset+i*4:])
	}

	if numColors > 0 {
		palStart := headerBlockLenOffset + h.Blocks*4
		h.Palette = make([]byte, numColors*paletteEntrySize)
		copy(h.Palette, data[palStart:palStart+numColors*paletteEntrySize])
	}

	return h, nil
}

func parseRedirect(data []byte) (*Header, error) {
	if len(data) < 3 {
		return nil, formatErr(0, "redirect header truncated")
	}
	nameLen := int(data[2])
	if len(data) < 3+nameLen {
		return nil, formatErr(3, "redirect filename truncated")
	}
	return &Header{
		Format:   FormatRedirect,
		Filename: string(data[3 : 3+nameLen]),
	}, nil
}

// NumColors returns the palette entry count: 1<<BitDepth for the indexed
// depths, 0 for 24-bit.
func (h *Header) NumColors() int {
	if h.BitDepth == 24 || h.BitDepth == 0 {
		return 0
	}
	return 1 << h.BitDepth
}

// PaletteRGB565 resolves palette entry index to an RGB565 color.
// Each 4-byte entry stores B,G,R in its first three bytes:
//
//	R: (entry[2] & 0xF8) << 8
//	G: (entry[1] & 0xFC) << 3
//	B: (entry[0] & 0xF8) >> 3
//
// With swap set, the two result bytes are exchanged for big-endian targets.
func (h *Header) PaletteRGB565(index int, swap bool) uint16 {
	c := h.Palette[index*paletteEntrySize:]
	v := uint16(c[2]&0xF8)<<8 | uint16(c[1]&0xFC)<<3 | uint16(c[0]&0xF8)>>3
	if swap {
		v = v<<8 | v>>8
	}
	return v
}

// BlockOffsets returns every block's byte offset within the frame payload:
// block 0 starts at DataOffset, each following block starts where the
// previous one's compressed bytes end.
func (h *Header) BlockOffsets() []uint32 {
	offsets := make([]uint32, h.Blocks)
	if h.Blocks == 0 {
		return offsets
	}
	offsets[0] = uint32(h.DataOffset)
	for i := 1; i < h.Blocks; i++ {
		offsets[i] = offsets[i-1] + h.BlockLen[i-1]
	}
	return offsets
}

// BlockRows returns the half-open row range [y0, y1) covered by block i.
// The last block ends at the frame height instead of a full BlockHeight;
// ParseHeader guarantees that never exceeds BlockHeight rows.
func (h *Header) BlockRows(i int) (y0, y1 int) {
	y0 = i * h.BlockHeight
	if i == h.Blocks-1 {
		return y0, h.Height
	}
	return y0, y0 + h.BlockHeight
}

// BlockBufferSize returns the byte size of a decode buffer holding one
// full-height block in this frame's pixel format. 4-bit blocks pack two
// pixels per byte with the row count rounded up to even; 24-bit blocks hold
// RGB565 output, two bytes per pixel.
func (h *Header) BlockBufferSize() int {
	switch h.BitDepth {
	case 4:
		return h.Width * (h.BlockHeight + h.BlockHeight%2) / 2
	case 24:
		return h.Width * h.BlockHeight * 2
	default:
		return h.Width * h.BlockHeight
	}
}
