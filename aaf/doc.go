// Package aaf implements the AAF animation container format: a block-based
// compressed bitmap format for small RGB565 displays.
//
// # Container layout
//
// An AAF container is a flat byte buffer:
//
//	Offset  Size  Description
//	0       1     Magic number (0x89)
//	1       3     Format string ("AAF")
//	4       4     Total number of frames (little-endian)
//	8       4     Checksum of table + data (flat byte sum)
//	12      4     Length of table + data
//	16      N     Asset table (N = frames * 8, {size u32, offset u32} each)
//	16+N    M     Frame blobs, each prefixed with a 2-byte magic (0x5A5A)
//
// Parse validates the container magic, the format string, the checksum and
// every frame's 2-byte magic before returning an Asset. A single failed check
// invalidates the whole container; there is no partial result.
//
// # Frame layout
//
// Each frame payload starts with a 2-byte ASCII tag: "_S" for a split bitmap
// or "_R" for a redirect (a filename reference resolved by the caller).
// A split-bitmap frame carries a version string, bit depth (4, 8 or 24),
// dimensions, a block table with per-block compressed lengths, and, for the
// indexed depths, a palette of 1<<depth four-byte entries. The pixel rows are
// divided into horizontal blocks of BlockHeight rows each (the last block
// takes the remainder), and every block is compressed independently so a
// renderer can decode only the strips it needs.
//
// # Block encodings
//
// A block's first byte selects its encoding: run-length pairs (EncodingRLE),
// canonical-Huffman-compressed run-length pairs (EncodingHuffman), a
// canonical-Huffman stream of raw pixel indices (EncodingHuffmanDirect), or a
// baseline JPEG blob (EncodingJPEG, 24-bit frames only). JPEG decoding is
// delegated to a JPEGDecoder capability; see the jpegdec subpackage for the
// default implementation.
//
// The package also contains a Builder that produces byte-exact containers,
// used by the cmd tools and the tests.
package aaf
