package filesystem

import (
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Matcher decides whether a root-relative path is excluded. Patterns are
// globs relative to the scan root: "bin/**" excludes the top-level bin
// directory only, "**/bin/**" excludes it at any depth.
type Matcher struct {
	patterns []string
	ignore   *ignore.GitIgnore
}

// NewMatcher compiles exclude patterns
func NewMatcher(patterns []string) *Matcher {
	anchored := make([]string, 0, len(patterns))
	for _, p := range patterns {
		anchored = append(anchored, anchor(p))
	}
	return &Matcher{
		patterns: slices.Clone(patterns),
		ignore:   ignore.CompileIgnoreLines(anchored...),
	}
}

// anchor pins a glob to the root. gitignore treats a pattern without a
// leading slash as matching at any depth.
func anchor(pattern string) string {
	negate := strings.HasPrefix(pattern, "!")
	p := strings.TrimPrefix(pattern, "!")

	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "**/") {
		return pattern
	}

	p = "/" + p
	if negate {
		p = "!" + p
	}
	return p
}

// Patterns returns the patterns as given
func (m *Matcher) Patterns() []string {
	return slices.Clone(m.patterns)
}

// Excluded reports whether relPath matches any pattern
func (m *Matcher) Excluded(relPath string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}
	return m.ignore.MatchesPath(filepath.ToSlash(relPath))
}
