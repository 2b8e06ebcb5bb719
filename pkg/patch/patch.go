// Package patch fixes script loading semantics in generated HTML entry
// points. Generators routinely emit `<script src="app.js">` with ES module
// syntax inside, which browsers refuse to load without type="module".
package patch

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// targetScript is the script source the patcher rewrites.
const targetScript = "app.js"

// canonicalTag is the replacement emitted for an unpatched target script tag.
const canonicalTag = `<script src="app.js" type="module">`

// scriptOpenTagRegex locates opening <script ...> tags for rewriting. Each
// candidate is re-inspected with the HTML tokenizer before being touched, so
// the pattern itself only needs to find tag boundaries.
var scriptOpenTagRegex = regexp.MustCompile(`(?i)<script\b[^>]*>`)

// EnsureModuleType rewrites every script tag whose src is exactly "app.js"
// and which lacks type="module" into the canonical module form. Tag name and
// attributes are matched case-insensitively, single and double quotes are
// accepted, and extra attributes are tolerated.
//
// The rewrite is idempotent: a tag that already carries type="module" fails
// the state check and is left untouched, so re-applying the patch to patched
// content is byte-identical.
func EnsureModuleType(content string) (string, bool) {
	patched := scriptOpenTagRegex.ReplaceAllStringFunc(content, func(tag string) string {
		if tagNeedsPatch(tag) {
			return canonicalTag
		}
		return tag
	})
	return patched, patched != content
}

// tagNeedsPatch inspects a single opening script tag and reports whether it
// loads the target script without module semantics.
func tagNeedsPatch(tag string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(tag))
	tokenType := tokenizer.Next()
	if tokenType != html.StartTagToken && tokenType != html.SelfClosingTagToken {
		return false
	}

	token := tokenizer.Token()
	if token.Data != "script" {
		return false
	}

	var isTarget, isModule bool
	for _, attr := range token.Attr {
		switch strings.ToLower(attr.Key) {
		case "src":
			isTarget = attr.Val == targetScript
		case "type":
			isModule = strings.EqualFold(attr.Val, "module")
		}
	}

	return isTarget && !isModule
}

// Apply patches the HTML file at path on disk. The file is rewritten only
// when its content actually changed; the returned bool reports whether a
// patch occurred.
func Apply(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read entry point: %w", err)
	}

	patched, changed := EnsureModuleType(string(content))
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(patched), 0644); err != nil {
		return false, fmt.Errorf("failed to write patched entry point: %w", err)
	}

	return true, nil
}
