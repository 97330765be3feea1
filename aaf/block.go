package aaf

import "fmt"

// Encoding identifies how one block's pixel data is compressed. It is stored
// as the block's first byte.
type Encoding uint8

const (
	// EncodingRLE is a flat stream of (count, value) run-length pairs.
	EncodingRLE Encoding = iota

	// EncodingHuffman is a canonical-Huffman-compressed run-length stream:
	// the Huffman output must be piped through the RLE decoder.
	EncodingHuffman

	// EncodingJPEG is a baseline JPEG blob, used by 24-bit frames.
	EncodingJPEG

	// EncodingHuffmanDirect is a canonical-Huffman stream whose output is
	// the final pixel data, with no RLE stage.
	EncodingHuffmanDirect
)

func (e Encoding) String() string {
	switch e {
	case EncodingRLE:
		return "rle"
	case EncodingHuffman:
		return "huffman"
	case EncodingJPEG:
		return "jpeg"
	case EncodingHuffmanDirect:
		return "huffman-direct"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// BlockDecoder decodes single blocks of a split-bitmap frame, dispatching on
// each block's encoding byte. The zero value is ready to use; set JPEG to
// enable EncodingJPEG blocks.
//
// A BlockDecoder reuses an internal scratch buffer across calls and is not
// safe for concurrent use.
type BlockDecoder struct {
	// JPEG decodes baseline JPEG blocks. When nil, JPEG-encoded blocks
	// fail with ErrNoJPEGDecoder.
	JPEG JPEGDecoder

	scratch []byte
}

// Decode decodes block index block of the frame payload into dst, whose
// length must be the frame's BlockBufferSize. offsets is the table returned
// by Header.BlockOffsets.
//
// All failures return a *DecodeError carrying the block index; callers skip
// the block and keep rendering. dst contents are unspecified after an error.
func (d *BlockDecoder) Decode(frame []byte, h *Header, offsets []uint32, block int, dst []byte, swap bool) error {
	if block < 0 || block >= len(offsets) || block >= len(h.BlockLen) {
		return decodeErr(block, fmt.Errorf("block index out of range [0,%d)", len(offsets)))
	}
	start := int(offsets[block])
	end := start + int(h.BlockLen[block])
	if start >= end || end > len(frame) {
		return decodeErr(block, ErrTruncated)
	}
	data := frame[start:end]
	want := h.Width * h.BlockHeight

	switch enc := Encoding(data[0]); enc {
	case EncodingRLE:
		if _, err := DecodeRLE(data[1:], dst); err != nil {
			return decodeErr(block, err)
		}

	case EncodingHuffman:
		scratch := d.growScratch(want)
		n, err := DecodeHuffman(data, scratch)
		if err != nil {
			return decodeErr(block, err)
		}
		if _, err := DecodeRLE(scratch[:n], dst); err != nil {
			return decodeErr(block, err)
		}

	case EncodingHuffmanDirect:
		n, err := DecodeHuffman(data, dst)
		if err != nil {
			return decodeErr(block, err)
		}
		if n != want {
			return decodeErr(block, fmt.Errorf("direct huffman output %d bytes, want %d", n, want))
		}

	case EncodingJPEG:
		if d.JPEG == nil {
			return decodeErr(block, ErrNoJPEGDecoder)
		}
		if _, _, err := d.JPEG.Decode(data[1:], dst, swap); err != nil {
			return decodeErr(block, err)
		}

	default:
		return decodeErr(block, fmt.Errorf("unknown encoding 0x%02X", uint8(enc)))
	}
	return nil
}

func (d *BlockDecoder) growScratch(n int) []byte {
	if cap(d.scratch) < n {
		d.scratch = make([]byte, n)
	}
	return d.scratch[:n]
}
