// Package messages renders user-facing result messages in the configured
// language.
package messages

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys
const (
	keyNoResults    = "No mojibake characters found."
	keyFound        = "%d mojibake characters found."
	keyNoEditor     = "No active editor"
	keyScanCanceled = "Scan cancelled after %d files."
)

var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

func init() {
	set := func(tag language.Tag, key, msg string) {
		if err := message.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, keyNoResults, keyNoResults)
	set(language.English, keyFound, keyFound)
	set(language.English, keyNoEditor, keyNoEditor)
	set(language.English, keyScanCanceled, keyScanCanceled)

	set(language.Japanese, keyNoResults, "文字化けは見つかりませんでした")
	set(language.Japanese, keyFound, "%d個の文字化けが見つかりました")
	set(language.Japanese, keyNoEditor, "アクティブなエディタがありません")
	set(language.Japanese, keyScanCanceled, "%d個のファイルを処理した後にスキャンを中止しました")
}

// Printer formats messages for one locale
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewPrinter returns a printer for locale, falling back to English
func NewPrinter(locale string) *Printer {
	tag := Match(locale)
	return &Printer{tag: tag, printer: message.NewPrinter(tag)}
}

// Match resolves a locale string to a supported language
func Match(locale string) language.Tag {
	requested, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, i, confidence := matcher.Match(requested)
	if confidence == language.No {
		return language.English
	}
	return supported[i]
}

// Tag returns the resolved language
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Result returns the summary for a scan that found count characters. The
// second value is false when nothing was found and the empty outcome should
// stay silent.
func (p *Printer) Result(count int, showEmpty bool) (string, bool) {
	if count == 0 {
		return p.printer.Sprintf(keyNoResults), showEmpty
	}
	return p.printer.Sprintf(keyFound, count), true
}

// NoActiveBuffer returns the message shown when there is nothing to inspect
func (p *Printer) NoActiveBuffer() string {
	return p.printer.Sprintf(keyNoEditor)
}

// Cancelled returns the message for a scan stopped after files files
func (p *Printer) Cancelled(files int) string {
	return p.printer.Sprintf(keyScanCanceled, files)
}

// Timestamp formats t the way the locale writes dates
func (p *Printer) Timestamp(t time.Time) string {
	if p.tag == language.Japanese {
		return t.Format("2006/1/2 15:04:05")
	}
	return t.Format("1/2/2006, 3:04:05 PM")
}
