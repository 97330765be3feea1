package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// RunInfo is a maximal substring with a single resolved bidi direction.
// Mixed-direction text is split into runs before shaping so each run can go
// through the shaper whole and come back in visual order.
type RunInfo struct {
	Text  string
	Start int // byte offset into the source line
	End   int
	RTL   bool
}

// SplitRuns splits one line of text into direction runs in logical order.
// Text with no right-to-left content comes back as a single LTR run.
func SplitRuns(line string) []RunInfo {
	if line == "" {
		return nil
	}

	var p bidi.Paragraph
	if _, err := p.SetString(line); err != nil {
		return []RunInfo{{Text: line, End: len(line)}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []RunInfo{{Text: line, End: len(line)}}
	}

	n := ordering.NumRuns()
	if n <= 1 {
		rtl := false
		if n == 1 {
			run := ordering.Run(0)
			rtl = run.Direction() == bidi.RightToLeft
		}
		return []RunInfo{{Text: line, End: len(line), RTL: rtl}}
	}

	// Run.Pos reports rune indices; map them back to byte offsets.
	runes := []rune(line)
	byteAt := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteAt[i] = off
		off += len(string(r))
	}
	byteAt[len(runes)] = len(line)

	runs := make([]RunInfo, 0, n)
	for i := 0; i < n; i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		runs = append(runs, RunInfo{
			Text:  line[byteAt[start]:byteAt[end+1]],
			Start: byteAt[start],
			End:   byteAt[end+1],
			RTL:   run.Direction() == bidi.RightToLeft,
		})
	}
	return runs
}

// SplitLines splits text at newlines. A trailing newline does not produce
// an empty final line; "\r\n" counts as one break.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}

// IsBreakable reports whether a line may wrap after r.
func IsBreakable(r rune) bool {
	return unicode.IsSpace(r) || r == '-'
}
