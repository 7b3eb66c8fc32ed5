package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndex_Position(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		line   int
		column int
	}{
		{"First character", "abc", 0, 1, 1},
		{"Second line", "ab\ncd�", 5, 2, 3},
		{"CRLF terminator", "ab\r\ncd", 4, 2, 1},
		{"Lone CR terminator", "ab\rcd", 4, 2, 2},
		{"Empty lines", "\n\n\nx", 3, 4, 1},
		{"Multibyte columns", "日本\n語�", 4, 2, 2},
		{"Past the end clamps", "ab\ncd", 99, 2, 3},
		{"Negative clamps", "abc", -1, 1, 1},
		{"Empty text", "", 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column := NewLineIndex(tt.text).Position(tt.offset)
			assert.Equal(t, tt.line, line, "line of offset %d", tt.offset)
			assert.Equal(t, tt.column, column, "column of offset %d", tt.offset)
		})
	}
}

func TestLineIndex_Lines(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"", 1},
		{"one", 1},
		{"one\ntwo", 2},
		{"one\r\ntwo\r\n", 3},
		{"a\rb\nc", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NewLineIndex(tt.text).Lines(), "Lines(%q)", tt.text)
	}
}

func TestLocate_NoOffsets(t *testing.T) {
	assert.Nil(t, Locate("anything", nil))
}
