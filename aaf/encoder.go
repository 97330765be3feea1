package aaf

import (
	"container/heap"
	"encoding/binary"
	"fmt"
	"sort"
)

// headerVersion is the 6-byte version string written into frame headers.
const headerVersion = "1.0.0"

// SplitBitmap describes one indexed frame handed to a Builder.
//
// Pixels holds packed palette indices for the whole frame, row-major: two
// per byte for 4-bit (high nibble first, width must be even), one per byte
// for 8-bit. Palette holds 1<<BitDepth four-byte B,G,R,X entries.
type SplitBitmap struct {
	Width, Height int
	BitDepth      int // 4 or 8
	BlockHeight   int
	Palette       []byte
	Pixels        []byte
	Encoding      Encoding // EncodingRLE, EncodingHuffman or EncodingHuffmanDirect
}

// Builder assembles byte-exact AAF containers. Frames are encoded as they
// are added; Bytes emits the final container.
//
// The zero value is ready to use.
type Builder struct {
	frames [][]byte
}

// AddFrame appends an already-encoded frame payload (without the per-frame
// magic). Useful for round-trip tests and transcoding.
func (b *Builder) AddFrame(payload []byte) {
	b.frames = append(b.frames, payload)
}

// AddRedirect appends a redirect frame pointing at filename.
func (b *Builder) AddRedirect(filename string) error {
	if len(filename) > 0xFF {
		return fmt.Errorf("aaf: redirect filename %d bytes, limit 255", len(filename))
	}
	payload := make([]byte, 0, 3+len(filename))
	payload = append(payload, '_', 'R', byte(len(filename)))
	payload = append(payload, filename...)
	b.frames = append(b.frames, payload)
	return nil
}

// AddSplitBitmap encodes an indexed frame and appends it.
//
// The frame is cut into blocks of BlockHeight rows; a short last block is
// zero-padded to full height so every block decodes to the same size. Each
// block is compressed with f.Encoding, except that a block whose run-length
// form would not fit the decoder's intermediate budget is stored
// Huffman-direct instead of Huffman.
func (b *Builder) AddSplitBitmap(f SplitBitmap) error {
	if f.BitDepth != 4 && f.BitDepth != 8 {
		return fmt.Errorf("aaf: split bitmap bit depth %d, want 4 or 8", f.BitDepth)
	}
	if f.BitDepth == 4 && f.Width%2 != 0 {
		return fmt.Errorf("aaf: 4-bit frame width %d must be even", f.Width)
	}
	if f.Width <= 0 || f.Height <= 0 || f.BlockHeight <= 0 {
		return fmt.Errorf("aaf: invalid frame geometry %dx%d block height %d", f.Width, f.Height, f.BlockHeight)
	}
	numColors := 1 << f.BitDepth
	if len(f.Palette) != numColors*paletteEntrySize {
		return fmt.Errorf("aaf: palette %d bytes, want %d", len(f.Palette), numColors*paletteEntrySize)
	}

	rowBytes := f.Width
	if f.BitDepth == 4 {
		rowBytes = f.Width / 2
	}
	if len(f.Pixels) != rowBytes*f.Height {
		return fmt.Errorf("aaf: pixel data %d bytes, want %d", len(f.Pixels), rowBytes*f.Height)
	}

	blocks := (f.Height + f.BlockHeight - 1) / f.BlockHeight
	budget := f.Width * f.BlockHeight

	encoded := make([][]byte, blocks)
	for i := 0; i < blocks; i++ {
		y0 := i * f.BlockHeight
		y1 := y0 + f.BlockHeight
		if y1 > f.Height {
			y1 = f.Height
		}
		pixels := make([]byte, f.BlockHeight*rowBytes)
		copy(pixels, f.Pixels[y0*rowBytes:y1*rowBytes])

		enc := f.Encoding
		if enc == EncodingHuffman {
			if rle := AppendRLE(nil, pixels); len(rle) <= budget {
				encoded[i] = encodeHuffmanBlock(EncodingHuffman, rle)
				continue
			}
			enc = EncodingHuffmanDirect
		}
		switch enc {
		case EncodingRLE:
			encoded[i] = AppendRLE([]byte{byte(EncodingRLE)}, pixels)
		case EncodingHuffmanDirect:
			encoded[i] = encodeHuffmanBlock(EncodingHuffmanDirect, pixels)
		default:
			return fmt.Errorf("aaf: encoding %v not valid for indexed frames", f.Encoding)
		}
	}

	b.frames = append(b.frames, buildSplitBitmapFrame(f.Width, f.Height, blocks, f.BlockHeight, f.BitDepth, f.Palette, encoded))
	return nil
}

// AddJPEG appends a 24-bit frame whose blocks are pre-encoded baseline JPEG
// blobs, one per block of blockHeight rows.
func (b *Builder) AddJPEG(width, height, blockHeight int, jpegBlocks [][]byte) error {
	if width <= 0 || height <= 0 || blockHeight <= 0 {
		return fmt.Errorf("aaf: invalid frame geometry %dx%d block height %d", width, height, blockHeight)
	}
	blocks := (height + blockHeight - 1) / blockHeight
	if len(jpegBlocks) != blocks {
		return fmt.Errorf("aaf: %d JPEG blocks, want %d", len(jpegBlocks), blocks)
	}
	encoded := make([][]byte, blocks)
	for i, blob := range jpegBlocks {
		encoded[i] = append([]byte{byte(EncodingJPEG)}, blob...)
	}
	b.frames = append(b.frames, buildSplitBitmapFrame(width, height, blocks, blockHeight, 24, nil, encoded))
	return nil
}

// Bytes assembles the container: fixed header, asset table, frame blobs,
// with the checksum computed over the table and data region.
func (b *Builder) Bytes() []byte {
	table := make([]byte, len(b.frames)*tableEntrySize)
	var blobs []byte
	for i, frame := range b.frames {
		size := uint32(len(frame) + frameMagicLen)
		binary.LittleEndian.PutUint32(table[i*tableEntrySize:], size)
		binary.LittleEndian.PutUint32(table[i*tableEntrySize+4:], uint32(len(blobs)))
		blobs = binary.LittleEndian.AppendUint16(blobs, frameMagic)
		blobs = append(blobs, frame...)
	}

	out := make([]byte, tableOffset, tableOffset+len(table)+len(blobs))
	out[0] = formatMagic
	copy(out[1:], formatString)
	binary.LittleEndian.PutUint32(out[numOffset:], uint32(len(b.frames)))
	binary.LittleEndian.PutUint32(out[tableLenOffset:], uint32(len(table)+len(blobs)))
	out = append(out, table...)
	out = append(out, blobs...)
	binary.LittleEndian.PutUint32(out[checksumOffset:], byteSum(out[tableOffset:]))
	return out
}

func buildSplitBitmapFrame(width, height, blocks, blockHeight, depth int, palette []byte, encoded [][]byte) []byte {
	size := headerBlockLenOffset + blocks*4 + len(palette)
	for _, blk := range encoded {
		size += len(blk)
	}

	frame := make([]byte, headerBlockLenOffset, size)
	frame[0] = '_'
	frame[1] = 'S'
	copy(frame[headerVersionOffset:], headerVersion)
	frame[headerDepthOffset] = byte(depth)
	binary.LittleEndian.PutUint16(frame[headerWidthOffset:], uint16(width))
	binary.LittleEndian.PutUint16(frame[headerHeightOffset:], uint16(height))
	binary.LittleEndian.PutUint16(frame[headerBlocksOffset:], uint16(blocks))
	binary.LittleEndian.PutUint16(frame[headerBlockHOffset:], uint16(blockHeight))
	for _, blk := range encoded {
		frame = binary.LittleEndian.AppendUint32(frame, uint32(len(blk)))
	}
	frame = append(frame, palette...)
	for _, blk := range encoded {
		frame = append(frame, blk...)
	}
	return frame
}

// encodeHuffmanBlock produces a complete Huffman block: encoding byte,
// dictionary length, serialized canonical dictionary, bit-packed payload.
func encodeHuffmanBlock(enc Encoding, data []byte) []byte {
	codes := buildCanonicalCodes(data)

	var bits bitWriter
	for _, sym := range data {
		c := codes[sym]
		bits.write(c.code, c.length)
	}
	payload, padding := bits.finish()

	dict := []byte{padding}
	syms := make([]int, 0, len(codes))
	for sym := range codes {
		syms = append(syms, int(sym))
	}
	sort.Ints(syms)
	for _, sym := range syms {
		c := codes[byte(sym)]
		dict = append(dict, byte(sym), byte(c.length))
		for i := (c.length + 7) / 8; i > 0; i-- {
			dict = append(dict, byte(c.code>>uint(8*(i-1))))
		}
	}

	out := make([]byte, 0, 3+len(dict)+len(payload))
	out = append(out, byte(enc), byte(len(dict)), byte(len(dict)>>8))
	out = append(out, dict...)
	out = append(out, payload...)
	return out
}

type huffCode struct {
	code   uint64
	length int
}

// buildCanonicalCodes derives canonical prefix codes from the symbol
// frequencies of data. A single-symbol input gets the one-bit code 0.
func buildCanonicalCodes(data []byte) map[byte]huffCode {
	var freq [256]int
	for _, b := range data {
		freq[b]++
	}

	h := &huffTreeHeap{}
	for sym, n := range freq {
		if n > 0 {
			heap.Push(h, &huffTreeNode{symbol: sym, count: n})
		}
	}
	if h.Len() == 0 {
		return map[byte]huffCode{}
	}

	lengths := make(map[byte]int)
	if h.Len() == 1 {
		lengths[byte((*h)[0].symbol)] = 1
	} else {
		for h.Len() > 1 {
			a := heap.Pop(h).(*huffTreeNode)
			b := heap.Pop(h).(*huffTreeNode)
			heap.Push(h, &huffTreeNode{count: a.count + b.count, left: a, right: b})
		}
		collectLengths(heap.Pop(h).(*huffTreeNode), 0, lengths)
	}

	// Canonical assignment: sort by (length, symbol), codes count upward.
	type symLen struct {
		sym byte
		len int
	}
	order := make([]symLen, 0, len(lengths))
	for sym, n := range lengths {
		order = append(order, symLen{sym, n})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].len != order[j].len {
			return order[i].len < order[j].len
		}
		return order[i].sym < order[j].sym
	})

	codes := make(map[byte]huffCode, len(order))
	code := uint64(0)
	prev := 0
	for _, e := range order {
		code <<= uint(e.len - prev)
		codes[e.sym] = huffCode{code: code, length: e.len}
		code++
		prev = e.len
	}
	return codes
}

func collectLengths(n *huffTreeNode, depth int, out map[byte]int) {
	if n.left == nil && n.right == nil {
		out[byte(n.symbol)] = depth
		return
	}
	collectLengths(n.left, depth+1, out)
	collectLengths(n.right, depth+1, out)
}

type huffTreeNode struct {
	symbol      int
	count       int
	left, right *huffTreeNode
}

type huffTreeHeap []*huffTreeNode

func (h huffTreeHeap) Len() int      { return len(h) }
func (h huffTreeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h huffTreeHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].symbol < h[j].symbol
}

func (h *huffTreeHeap) Push(x any) { *h = append(*h, x.(*huffTreeNode)) }

func (h *huffTreeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// bitWriter packs code bits most significant bit first.
type bitWriter struct {
	out  []byte
	cur  byte
	used int
}

func (w *bitWriter) write(code uint64, length int) {
	for bit := length - 1; bit >= 0; bit-- {
		w.cur <<= 1
		w.cur |= byte(code >> uint(bit) & 1)
		w.used++
		if w.used == 8 {
			w.out = append(w.out, w.cur)
			w.cur, w.used = 0, 0
		}
	}
}

// finish flushes the final partial byte and returns the payload along with
// the count of padding bits appended to it.
func (w *bitWriter) finish() ([]byte, byte) {
	if w.used == 0 {
		return w.out, 0
	}
	padding := byte(8 - w.used)
	w.out = append(w.out, w.cur<<uint(padding))
	return w.out, padding
}
