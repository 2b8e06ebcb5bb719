// Package scanner walks a generated project tree, classifies what kind of
// project it is, and locates the HTML entry point to preview. Scanning is
// read-only; the inventory it produces feeds the synthesis and preview steps.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/entrhq/stagehand/pkg/workspace"
)

// ProjectKind classifies the shape of a generated project.
type ProjectKind string

const (
	KindWebStatic ProjectKind = "web-static" // KindWebStatic is a browsable HTML/CSS/JS site.
	KindNode      ProjectKind = "node"       // KindNode is a Node.js project (package.json present).
	KindPython    ProjectKind = "python"     // KindPython is a Python project.
	KindUnknown   ProjectKind = "unknown"    // KindUnknown is anything the scanner cannot classify.
)

// EntryPoint identifies the HTML file selected as the root of a local preview.
type EntryPoint struct {
	// Dir is the absolute directory the preview server should serve from.
	Dir string

	// File is the entry point's filename within Dir.
	File string
}

// Path returns the entry point's absolute file path.
func (e *EntryPoint) Path() string {
	return filepath.Join(e.Dir, e.File)
}

// Inventory is the result of scanning a project root: an ordered sequence of
// relative, slash-separated file paths plus the classification and the
// optional entry point. Entry is nil when the project has no HTML file
// anywhere; that is a valid terminal state, not a failure.
type Inventory struct {
	// Root is the absolute project root that was scanned.
	Root string

	// Files are relative slash-separated paths, in walk order.
	Files []string

	// Kind is the detected project classification.
	Kind ProjectKind

	// Entry is the selected HTML entry point, or nil if none exists.
	Entry *EntryPoint
}

// Listing renders the inventory as a newline-delimited file listing, the form
// consumed by the synthesis prompt.
func (inv *Inventory) Listing() string {
	return strings.Join(inv.Files, "\n")
}

// Scanner produces an Inventory from a project root directory.
type Scanner struct {
	guard *workspace.Guard
}

// New creates a scanner for the given project root.
func New(root string) (*Scanner, error) {
	guard, err := workspace.NewGuard(root)
	if err != nil {
		return nil, err
	}
	return &Scanner{guard: guard}, nil
}

// Scan walks the project tree and returns its inventory. The only fatal
// condition is a missing or unreadable root; a project with no HTML entry
// point scans successfully with a nil Entry.
func (s *Scanner) Scan() (*Inventory, error) {
	root := s.guard.RootDir()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root is not readable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root '%s' is not a directory", root)
	}

	inv := &Inventory{Root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // Skip entries we can't read
		}
		if path == root {
			return nil
		}

		rel, relErr := s.guard.MakeRelative(path)
		if relErr != nil {
			return nil
		}

		if s.guard.ShouldIgnore(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			inv.Files = append(inv.Files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk project tree: %w", err)
	}

	inv.Kind = classify(inv.Files)
	inv.Entry = s.selectEntryPoint(inv)
	return inv, nil
}

// classify infers the project kind from the file inventory.
func classify(files []string) ProjectKind {
	var hasHTML, hasPython bool

	for _, f := range files {
		switch {
		case filepath.Base(f) == "package.json":
			return KindNode
		case strings.EqualFold(filepath.Ext(f), ".html"):
			hasHTML = true
		case filepath.Ext(f) == ".py":
			hasPython = true
		}
	}

	switch {
	case hasHTML:
		return KindWebStatic
	case hasPython:
		return KindPython
	default:
		return KindUnknown
	}
}

// selectEntryPoint applies the entry point priority rules.
//
// The project-name convention is checked first: generators commonly nest the
// site under a subdirectory named after the project itself, and when that
// subdirectory holds an index.html it becomes the serving root. Otherwise a
// root-level index.html wins, and otherwise the whole inventory is searched
// with priority index.html > main.html > first discovered *.html.
func (s *Scanner) selectEntryPoint(inv *Inventory) *EntryPoint {
	projectName := filepath.Base(inv.Root)

	conventionIndex := filepath.Join(inv.Root, projectName, "index.html")
	if fileExists(conventionIndex) {
		return &EntryPoint{Dir: filepath.Join(inv.Root, projectName), File: "index.html"}
	}

	if fileExists(filepath.Join(inv.Root, "index.html")) {
		return &EntryPoint{Dir: inv.Root, File: "index.html"}
	}

	var htmlFiles []string
	for _, f := range inv.Files {
		if strings.EqualFold(filepath.Ext(f), ".html") {
			htmlFiles = append(htmlFiles, f)
		}
	}
	if len(htmlFiles) == 0 {
		return nil
	}

	for _, name := range []string{"index.html", "main.html"} {
		for _, f := range htmlFiles {
			if strings.EqualFold(filepath.Base(f), name) {
				return s.entryFor(f)
			}
		}
	}
	return s.entryFor(htmlFiles[0])
}

// entryFor builds an EntryPoint for a relative inventory path.
func (s *Scanner) entryFor(rel string) *EntryPoint {
	abs := filepath.Join(s.guard.RootDir(), filepath.FromSlash(rel))
	return &EntryPoint{Dir: filepath.Dir(abs), File: filepath.Base(abs)}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
