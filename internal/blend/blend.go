// Package blend implements the RGB565 software blend core: opacity mixing,
// coverage-mask fills for glyphs, and RGB565+A8 image blits.
//
// All routines write straight into caller-supplied uint16 pixel rows. The
// swap flag handles big-endian framebuffers: source and destination bytes
// are exchanged around the mix and the result swapped back, so swapped
// buffers blend correctly without a separate pass.
package blend

// Opacity bounds. Values at or above OpaMax fully cover; values at or below
// opaMin leave the destination untouched.
const (
	OpaTransp = 0x00
	OpaCover  = 0xFF

	opaMax = 0xFC
	opaMin = 0x03
)

// Mix blends fg over bg at the given opacity. The two 565 colors are spread
// into a 32-bit lattice (0b0000011111100000_1111100000011111) so all three
// channels interpolate in one multiply.
func Mix(fg, bg uint16, opa uint8) uint16 {
	if opa >= opaMax {
		return fg
	}
	if opa <= opaMin {
		return bg
	}
	mix := (uint32(opa) + 4) >> 3
	b := (uint32(bg) | uint32(bg)<<16) & 0x7E0F81F
	f := (uint32(fg) | uint32(fg)<<16) & 0x7E0F81F
	result := ((((f - b) * mix) >> 5) + b) & 0x7E0F81F
	return uint16(result>>16) | uint16(result)
}

// MixSwap is Mix for byte-swapped buffers: both inputs are un-swapped, mixed,
// and the result re-swapped.
func MixSwap(fg, bg uint16, opa uint8, swap bool) uint16 {
	if !swap {
		return Mix(fg, bg, opa)
	}
	fg = fg<<8 | fg>>8
	bg = bg<<8 | bg>>8
	v := Mix(fg, bg, opa)
	return v<<8 | v>>8
}

// DrawMask fills a solid color through an 8-bit coverage mask, the glyph
// path. dst points at the top-left destination pixel of a w×h region; mask
// is coverage for the same region. opa scales every coverage value. color is
// native-order RGB565 and is converted once when swap is set.
//
// The last resolved color is memoized so runs of equal coverage over equal
// background cost one mix.
func DrawMask(dst []uint16, dstStride int, color uint16, opa uint8,
	mask []byte, maskStride, w, h int, swap bool) {

	if w <= 0 || h <= 0 {
		return
	}
	if swap {
		color = color<<8 | color>>8
	}

	var lastMask uint8
	var lastDest, lastRes uint16
	var opaTmp uint8
	haveLast := false

	for y := 0; y < h; y++ {
		row := dst[y*dstStride:]
		mrow := mask[y*maskStride:]
		for x := 0; x < w; x++ {
			m := mrow[x]
			if m == 0 {
				continue
			}
			if !haveLast || m != lastMask {
				if m == OpaCover {
					opaTmp = opa
				} else {
					opaTmp = uint8(uint32(m) * uint32(opa) >> 8)
				}
			}
			if !haveLast || m != lastMask || row[x] != lastDest {
				if opaTmp >= opaMax {
					lastRes = color
				} else {
					lastRes = MixSwap(color, row[x], opaTmp, swap)
				}
				lastMask = m
				lastDest = row[x]
				haveLast = true
			}
			row[x] = lastRes
		}
	}
}

// BlitRGB565A8 blends an RGB565 source plane through its A8 alpha plane, the
// image path. A nil alpha plane blits at the flat opacity. Source pixels are
// native-order RGB565; with swap set they are converted to the framebuffer's
// swapped byte order as they are written.
func BlitRGB565A8(dst []uint16, dstStride int, src []uint16, srcStride int,
	alpha []byte, alphaStride, w, h int, opa uint8, swap bool) {

	if w <= 0 || h <= 0 {
		return
	}

	var lastMask uint8
	var lastDest, lastSrc, lastRes uint16
	var opaTmp uint8
	haveLast := false

	for y := 0; y < h; y++ {
		drow := dst[y*dstStride:]
		srow := src[y*srcStride:]
		var arow []byte
		if alpha != nil {
			arow = alpha[y*alphaStride:]
		}
		for x := 0; x < w; x++ {
			m := uint8(OpaCover)
			if arow != nil {
				m = arow[x]
				if m == 0 {
					continue
				}
			}
			sv := srow[x]
			if swap {
				sv = sv<<8 | sv>>8
			}
			if !haveLast || m != lastMask {
				if m == OpaCover {
					opaTmp = opa
				} else {
					opaTmp = uint8(uint32(m) * uint32(opa) >> 8)
				}
			}
			if !haveLast || m != lastMask || drow[x] != lastDest || sv != lastSrc {
				if opaTmp >= opaMax {
					lastRes = sv
				} else {
					lastRes = MixSwap(sv, drow[x], opaTmp, swap)
				}
				lastMask = m
				lastDest = drow[x]
				lastSrc = sv
				haveLast = true
			}
			drow[x] = lastRes
		}
	}
}

// Fill sets a w×h region to a flat color at full opacity.
func Fill(dst []uint16, dstStride int, color uint16, w, h int) {
	for y := 0; y < h; y++ {
		row := dst[y*dstStride : y*dstStride+w]
		for x := range row {
			row[x] = color
		}
	}
}
