// Package text supplies the font stack for label rendering: a font
// registry, parsed faces, glyph rasterization to 8-bit coverage masks, a
// sharded glyph cache, bidirectional run segmentation and HarfBuzz shaping.
//
// A Registry owns the faces of one composition context; there is no global
// registry and no global default font. The first face registered becomes
// the registry default. Faces are deduplicated by content identity (a hash
// of the font bytes), so loading the same font file twice yields the same
// *Face.
//
// Rasterization goes through golang.org/x/image/font/opentype; shaping
// (kerning, ligature-aware advances, RTL) goes through
// github.com/go-text/typesetting with a plain advance-sum fallback for
// faces the shaper cannot load.
package text
