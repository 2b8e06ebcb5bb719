package workspace

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// defaultIgnorePatterns are always excluded from scans. The upstream generator
// leaves VCS metadata and dependency caches behind that must never reach the
// inventory or the preview server.
var defaultIgnorePatterns = []string{
	".git",
	"**/.git/**",
	"node_modules/**",
	"__pycache__/**",
}

// IgnoreMatcher decides which relative paths are excluded from project scans.
type IgnoreMatcher struct {
	patterns []glob.Glob
}

// NewIgnoreMatcher compiles the default ignore patterns plus any extras.
func NewIgnoreMatcher(extra []string) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}

	for _, pattern := range append(append([]string{}, defaultIgnorePatterns...), extra...) {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern '%s': %w", pattern, err)
		}
		m.patterns = append(m.patterns, g)
	}

	return m, nil
}

// ShouldIgnore returns true when the slash-separated relative path should be
// excluded. Any path component beginning with a dot is hidden and always
// excluded, .git included, even when nested.
func (m *IgnoreMatcher) ShouldIgnore(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, component := range strings.Split(relPath, "/") {
		if strings.HasPrefix(component, ".") {
			return true
		}
	}

	for _, pattern := range m.patterns {
		if pattern.Match(relPath) {
			return true
		}
	}

	return false
}
