// Package workspace provides security mechanisms for enforcing project-root
// boundaries on file system operations. It prevents path traversal and ensures
// everything the pipeline reads or writes stays within the generated project
// directory.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Guard enforces project-root boundary restrictions on file paths.
// It validates that all file operations remain within the project directory,
// preventing path traversal and unauthorized file access.
type Guard struct {
	rootDir string         // Absolute path to the project root
	ignore  *IgnoreMatcher // Pattern matcher for ignore rules
}

// NewGuard creates a new guard for the given project root.
// The directory path is converted to an absolute path and cleaned, and the
// ignore matcher is initialized with the default patterns.
func NewGuard(rootDir string) (*Guard, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("project root cannot be empty")
	}

	absPath, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	ignore, err := NewIgnoreMatcher(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ignore matcher: %w", err)
	}

	return &Guard{
		rootDir: filepath.Clean(absPath),
		ignore:  ignore,
	}, nil
}

// ValidateRelPath checks that a relative path (as produced by the synthesis
// parser) is usable beneath the project root.
//
// Returns an error if:
// - The path is empty
// - The path is absolute
// - The path escapes the root through .. traversal
func (g *Guard) ValidateRelPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if filepath.IsAbs(path) {
		return fmt.Errorf("path '%s' must be relative", path)
	}

	resolved, err := g.ResolvePath(path)
	if err != nil {
		return err
	}

	if !g.IsWithinRoot(resolved) {
		return fmt.Errorf("path '%s' is outside the project root", path)
	}

	return nil
}

// ResolvePath converts a relative or absolute path to a cleaned absolute path
// within the project-root context.
func (g *Guard) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	if filepath.IsAbs(cleanPath) {
		return cleanPath, nil
	}

	return filepath.Clean(filepath.Join(g.rootDir, cleanPath)), nil
}

// IsWithinRoot checks if an absolute path is the project root itself or a
// descendant of it. This is the core security check.
func (g *Guard) IsWithinRoot(absPath string) bool {
	absPath = filepath.Clean(absPath)
	if absPath == g.rootDir {
		return true
	}
	return strings.HasPrefix(absPath+string(filepath.Separator), g.rootDir+string(filepath.Separator))
}

// RootDir returns the absolute path of the project root.
func (g *Guard) RootDir() string {
	return g.rootDir
}

// MakeRelative converts an absolute path to a slash-separated path relative to
// the project root. Returns an error if the path is not within the root.
func (g *Guard) MakeRelative(absPath string) (string, error) {
	if !g.IsWithinRoot(absPath) {
		return "", fmt.Errorf("path '%s' is not within the project root", absPath)
	}

	relPath, err := filepath.Rel(g.rootDir, absPath)
	if err != nil {
		return "", fmt.Errorf("failed to make path relative: %w", err)
	}

	return filepath.ToSlash(relPath), nil
}

// ShouldIgnore checks if a relative path should be skipped during scanning.
// Hidden path components (leading dot) and anything matching the ignore
// patterns are excluded.
func (g *Guard) ShouldIgnore(relPath string) bool {
	return g.ignore.ShouldIgnore(filepath.ToSlash(relPath))
}
