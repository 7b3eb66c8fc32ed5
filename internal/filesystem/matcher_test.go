package filesystem

import (
	"testing"

	"github.com/IvanShishkin/mojibake-inspector/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMatcher_Excluded(t *testing.T) {
	matcher := NewMatcher(config.DefaultExclude)

	tests := []struct {
		path     string
		expected bool
	}{
		{".git", true},
		{".git/config", true},
		{"node_modules/pkg/index.js", true},
		{".venv/lib/site.py", true},
		{"__pycache__/mod.pyc", true},
		{"bin", true},
		{"bin/tool", true},
		{"dist/app.js", true},
		{"src/node_modules/pkg/index.js", false},
		{"src/bin/main.c", false},
		{"lib/out/gen.txt", false},
		{"pkg/dist/x.txt", false},
		{"docs/bin", false},
		{"src/main.go", false},
		{"README.md", false},
		{"binary.txt", false},
		{"output/log.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, matcher.Excluded(tt.path), "Excluded(%q)", tt.path)
		})
	}
}

func TestMatcher_Anchoring(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		expected bool
	}{
		{"top-level glob", "*.log", "app.log", true},
		{"top-level glob skips nested", "*.log", "logs/app.log", false},
		{"any-depth glob", "**/*.log", "logs/app.log", true},
		{"directory glob at root", "docs/**", "docs/a.md", true},
		{"directory glob skips nested", "docs/**", "sub/docs/a.md", false},
		{"file glob skips nested", "docs/*.md", "sub/docs/a.md", false},
		{"any-depth directory", "**/bin/**", "src/bin/main.c", true},
		{"explicit root", "/out/**", "out/x.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewMatcher([]string{tt.pattern}).Excluded(tt.path),
				"%q vs %q", tt.pattern, tt.path)
		})
	}
}

func TestMatcher_PatternsUnchanged(t *testing.T) {
	matcher := NewMatcher([]string{"bin/**", "**/x"})
	assert.Equal(t, []string{"bin/**", "**/x"}, matcher.Patterns())
}

func TestMatcher_Empty(t *testing.T) {
	var nilMatcher *Matcher
	assert.False(t, nilMatcher.Excluded("anything"), "nil matcher excluded a path")
	assert.False(t, NewMatcher(nil).Excluded(".git/config"), "empty matcher excluded a path")
}
