package detectors

import (
	"sort"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
)

// LineIndex maps code point offsets of one text snapshot to 1-based positions
type LineIndex struct {
	starts []int // code point offset of each line start, starts[0] == 0
	length int   // text length in code points
}

// NewLineIndex builds the line start table for text. "\n", "\r\n" and a lone
// "\r" each terminate a line.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	pos := 0
	prevCR := false

	for _, r := range text {
		pos++
		switch r {
		case '\r':
			starts = append(starts, pos)
		case '\n':
			if prevCR {
				// \r\n is one terminator: move the start past the \n
				starts[len(starts)-1] = pos
			} else {
				starts = append(starts, pos)
			}
		}
		prevCR = r == '\r'
	}

	return &LineIndex{starts: starts, length: pos}
}

// Lines returns the number of lines in the snapshot
func (li *LineIndex) Lines() int {
	return len(li.starts)
}

// Position resolves offset to a 1-based line and column. Offsets outside the
// text are clamped to its bounds.
func (li *LineIndex) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > li.length {
		offset = li.length
	}

	i := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	return i + 1, offset - li.starts[i] + 1
}

// Locate converts offsets produced by FindOffsets into findings
func Locate(text string, offsets []int) []models.Finding {
	if len(offsets) == 0 {
		return nil
	}

	li := NewLineIndex(text)
	findings := make([]models.Finding, 0, len(offsets))
	for _, off := range offsets {
		line, col := li.Position(off)
		findings = append(findings, models.Finding{Offset: off, Line: line, Column: col})
	}
	return findings
}
