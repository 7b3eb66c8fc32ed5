package detectors

import (
	"strings"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
)

// FindOffsets returns the code point offset of every replacement character in
// text, in ascending order. Invalid UTF-8 bytes still present in text decode to
// the replacement character and are reported one per byte.
func FindOffsets(text string) []int {
	// IndexRune also matches invalid byte sequences when asked for RuneError
	if strings.IndexRune(text, models.Sentinel) < 0 {
		return nil
	}

	var offsets []int
	pos := 0
	for _, r := range text {
		if r == models.Sentinel {
			offsets = append(offsets, pos)
		}
		pos++
	}
	return offsets
}

// CountSentinels returns the number of replacement characters in text
func CountSentinels(text string) int {
	return len(FindOffsets(text))
}
