package aaf

import (
	"encoding/binary"
	"fmt"
)

// Container layout constants.
const (
	formatMagic  = 0x89
	formatString = "AAF"

	numOffset      = 4
	checksumOffset = 8
	tableLenOffset = 12
	tableOffset    = 16

	tableEntrySize = 8

	frameMagic    = 0x5A5A
	frameMagicLen = 2
)

// assetEntry is one asset-table record: the stored blob size (including the
// 2-byte frame magic) and its offset relative to the start of the blob region.
type assetEntry struct {
	size   uint32
	offset uint32
}

// Asset is a validated AAF container. It keeps a reference to the backing
// buffer and an index of per-frame byte ranges; frame payloads are returned
// as sub-slices of that buffer, so the buffer must not be mutated while the
// Asset is in use.
type Asset struct {
	data    []byte
	entries []assetEntry
}

// Parse validates an AAF container and builds its frame index.
//
// Validation order: container magic, format string, byte-sum checksum over
// the stored table+data length, then the 2-byte magic of every frame blob.
// Any failure returns a *FormatError and no Asset.
func Parse(data []byte) (*Asset, error) {
	if len(data) < tableOffset {
		return nil, formatErr(0, "container shorter than fixed header")
	}
	if data[0] != formatMagic {
		return nil, formatErr(0, fmt.Sprintf("bad container magic 0x%02X", data[0]))
	}
	if string(data[1:4]) != formatString {
		return nil, formatErr(1, "bad format string")
	}

	frames := int(binary.LittleEndian.Uint32(data[numOffset:]))
	storedChk := binary.LittleEndian.Uint32(data[checksumOffset:])
	storedLen := binary.LittleEndian.Uint32(data[tableLenOffset:])

	if frames < 0 || frames > (len(data)-tableOffset)/tableEntrySize {
		return nil, formatErr(numOffset, fmt.Sprintf("frame count %d exceeds container size", frames))
	}
	if int64(storedLen) > int64(len(data)-tableOffset) {
		return nil, formatErr(tableLenOffset, "stored length exceeds container size")
	}
	if chk := byteSum(data[tableOffset : tableOffset+int(storedLen)]); chk != storedChk {
		return nil, formatErr(checksumOffset, fmt.Sprintf("checksum mismatch: stored 0x%08X, computed 0x%08X", storedChk, chk))
	}

	blobBase := tableOffset + frames*tableEntrySize
	entries := make([]assetEntry, frames)
	for i := range entries {
		off := tableOffset + i*tableEntrySize
		entries[i].size = binary.LittleEndian.Uint32(data[off:])
		entries[i].offset = binary.LittleEndian.Uint32(data[off+4:])

		start := blobBase + int(entries[i].offset)
		end := start + int(entries[i].size)
		if entries[i].size < frameMagicLen || end > len(data) || end < start {
			return nil, formatErr(off, fmt.Sprintf("frame %d range out of bounds", i))
		}
		if binary.LittleEndian.Uint16(data[start:]) != frameMagic {
			return nil, formatErr(start, fmt.Sprintf("frame %d: bad frame magic", i))
		}
	}

	logger().Debug("aaf container parsed", "frames", frames, "bytes", len(data))
	return &Asset{data: data, entries: entries}, nil
}

// Frames returns the number of frames in the container.
func (a *Asset) Frames() int { return len(a.entries) }

// Frame returns the payload of frame i with the 2-byte frame magic stripped.
// The returned slice aliases the container's backing buffer.
func (a *Asset) Frame(i int) ([]byte, error) {
	if i < 0 || i >= len(a.entries) {
		return nil, fmt.Errorf("aaf: frame index %d out of range [0,%d)", i, len(a.entries))
	}
	e := a.entries[i]
	start := tableOffset + len(a.entries)*tableEntrySize + int(e.offset) + frameMagicLen
	return a.data[start : start+int(e.size)-frameMagicLen], nil
}

// byteSum is the container checksum: a flat sum of byte values, not a CRC.
func byteSum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}
