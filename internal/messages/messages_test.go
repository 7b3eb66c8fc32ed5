package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		locale   string
		expected language.Tag
	}{
		{"en", language.English},
		{"en-US", language.English},
		{"ja", language.Japanese},
		{"ja-JP", language.Japanese},
		{"", language.English},
		{"not a locale", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.locale))
		})
	}
}

func TestPrinter_Result(t *testing.T) {
	tests := []struct {
		name      string
		locale    string
		count     int
		showEmpty bool
		expected  string
		show      bool
	}{
		{"Found English", "en", 3, false, "3 mojibake characters found.", true},
		{"Empty silent", "en", 0, false, "No mojibake characters found.", false},
		{"Empty shown", "en", 0, true, "No mojibake characters found.", true},
		{"Found Japanese", "ja", 2, false, "2個の文字化けが見つかりました", true},
		{"Empty Japanese", "ja", 0, true, "文字化けは見つかりませんでした", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, show := NewPrinter(tt.locale).Result(tt.count, tt.showEmpty)
			assert.Equal(t, tt.expected, msg)
			assert.Equal(t, tt.show, show)
		})
	}
}

func TestPrinter_Timestamp(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, "3/5/2024, 2:07:09 PM", NewPrinter("en").Timestamp(ts))
	assert.Equal(t, "2024/3/5 14:07:09", NewPrinter("ja").Timestamp(ts))
}

func TestPrinter_Messages(t *testing.T) {
	p := NewPrinter("en")

	assert.Equal(t, "No active editor", p.NoActiveBuffer())
	assert.Equal(t, "Scan cancelled after 4 files.", p.Cancelled(4))
}
