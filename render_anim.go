package emgfx

// draw implements payload for animations: for every block whose rows
// intersect the clip, decode it (unless it is the cached last block) and
// write its pixels into the stripe buffer, with palette resolution, optional
// byte swap and optional mirroring.
//
// A block that fails to decode is skipped and the rest of the frame still
// renders; the caller sees ErrPartialDraw.
func (a *Animation) draw(clip Area, fb *Framebuffer, swap bool) error {
	if a.asset == nil {
		return ErrNoSource
	}
	h := a.frame.header
	if h == nil {
		// prepare failed or has not run for this frame; nothing to show.
		return nil
	}

	objX, objY := a.screenPosition(a.engine.width, a.engine.height)

	clipObj := clip.Intersect(Area{objX, objY, objX + h.Width, objY + h.Height})
	if clipObj.Empty() {
		return nil
	}

	partial := false
	for block := 0; block < h.Blocks; block++ {
		rowStart, rowEnd := h.BlockRows(block)
		blockArea := Area{objX, objY + rowStart, objX + h.Width, objY + rowEnd}

		clipBlock := clipObj.Intersect(blockArea)
		if clipBlock.Empty() {
			continue
		}

		if block != a.frame.lastBlock {
			err := a.dec.Decode(a.frame.payload, h, a.frame.offsets, block, a.frame.pixels, swap)
			if err != nil {
				Logger().Warn("block decode failed", "frame", a.currentFrame, "block", block, "err", err)
				partial = true
				continue
			}
			a.frame.lastBlock = block
		}

		// Source coordinates of the clip within the decoded block.
		srcX := clipBlock.X1 - objX
		srcY := clipBlock.Y1 - blockArea.Y1

		switch h.BitDepth {
		case 4:
			a.render4bit(fb, clipBlock, srcX, srcY, objX, swap)
		case 8:
			a.render8bit(fb, clipBlock, srcX, srcY, objX, swap)
		case 24:
			a.render16bpp(fb, clipBlock, srcX, srcY, objX)
		}
	}

	a.dirty = false
	if partial {
		return ErrPartialDraw
	}
	return nil
}

// paletteColor resolves a palette index through the per-frame cache,
// computing and caching the RGB565 value on first use.
func (a *Animation) paletteColor(index int, swap bool) uint16 {
	if a.frame.palette[index] == paletteSentinel {
		a.frame.palette[index] = uint32(a.frame.header.PaletteRGB565(index, swap))
	}
	return uint16(a.frame.palette[index])
}

// mirrorWrite duplicates a pixel at the flipped position past the frame's
// right edge: srcX is object-relative, and the mirrored column is
// width + mirrorOffset + width - 1 - srcX, again object-relative. Writes
// outside the stripe buffer's horizontal span are silently dropped.
func (a *Animation) mirrorWrite(fb *Framebuffer, objX, srcX, screenY int, v uint16) {
	w := a.frame.header.Width
	mx := objX + w + a.mirrorOffset + w - 1 - srcX
	if mx < fb.Rect.X1 || mx >= fb.Rect.X2 {
		return
	}
	fb.Pix[(screenY-fb.Rect.Y1)*fb.Stride+(mx-fb.Rect.X1)] = v
}

// render4bit writes a 4-bit indexed block region: two palette indices per
// source byte, high nibble first.
func (a *Animation) render4bit(fb *Framebuffer, clip Area, srcX, srcY, objX int, swap bool) {
	h := a.frame.header
	srcStride := h.Width / 2
	w := clip.Width()

	for y := 0; y < clip.Height(); y++ {
		row := a.frame.pixels[(srcY+y)*srcStride:]
		screenY := clip.Y1 + y
		dst := fb.Pix[(screenY-fb.Rect.Y1)*fb.Stride+(clip.X1-fb.Rect.X1):]

		for x := 0; x < w; x++ {
			sx := srcX + x
			packed := row[sx/2]
			var index int
			if sx%2 == 0 {
				index = int(packed >> 4)
			} else {
				index = int(packed & 0x0F)
			}
			v := a.paletteColor(index, swap)
			dst[x] = v
			if a.mirror {
				a.mirrorWrite(fb, objX, sx, screenY, v)
			}
		}
	}
}

// render8bit writes an 8-bit indexed block region, one palette index per
// source byte.
func (a *Animation) render8bit(fb *Framebuffer, clip Area, srcX, srcY, objX int, swap bool) {
	h := a.frame.header
	srcStride := h.Width
	w := clip.Width()

	for y := 0; y < clip.Height(); y++ {
		row := a.frame.pixels[(srcY+y)*srcStride:]
		screenY := clip.Y1 + y
		dst := fb.Pix[(screenY-fb.Rect.Y1)*fb.Stride+(clip.X1-fb.Rect.X1):]

		for x := 0; x < w; x++ {
			sx := srcX + x
			v := a.paletteColor(int(row[sx]), swap)
			dst[x] = v
			if a.mirror {
				a.mirrorWrite(fb, objX, sx, screenY, v)
			}
		}
	}
}

// render16bpp writes a 24-bit frame's block region. The decode buffer
// already holds RGB565 in destination byte order (the JPEG decoder applied
// the swap), so this is a straight copy.
func (a *Animation) render16bpp(fb *Framebuffer, clip Area, srcX, srcY, objX int) {
	h := a.frame.header
	srcStride := h.Width * 2
	w := clip.Width()

	for y := 0; y < clip.Height(); y++ {
		row := a.frame.pixels[(srcY+y)*srcStride:]
		screenY := clip.Y1 + y
		dst := fb.Pix[(screenY-fb.Rect.Y1)*fb.Stride+(clip.X1-fb.Rect.X1):]

		for x := 0; x < w; x++ {
			sx := srcX + x
			v := uint16(row[sx*2]) | uint16(row[sx*2+1])<<8
			dst[x] = v
			if a.mirror {
				a.mirrorWrite(fb, objX, sx, screenY, v)
			}
		}
	}
}
