package text

// Line is a fully shaped line: glyphs in visual order with pen offsets
// relative to the line origin, plus the total width in pixels.
type Line struct {
	Glyphs []ShapedGlyph
	Width  int
}

// ShapeLine shapes one line of text, splitting it into direction runs and
// concatenating the shaped output. The returned glyphs draw left to right.
func (s *Shaper) ShapeLine(face *Face, size int, line string) (Line, error) {
	var out Line
	for _, run := range SplitRuns(line) {
		shaped, err := s.ShapeRun(face, size, run)
		if err != nil {
			return Line{}, err
		}
		for _, g := range shaped.Glyphs {
			g.X += out.Width
			out.Glyphs = append(out.Glyphs, g)
		}
		out.Width += shaped.Width
	}
	return out, nil
}
