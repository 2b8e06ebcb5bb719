package synth

import (
	"regexp"
	"strings"
)

var (
	// fileHeadingRegex matches a "## File: <name>" heading; the remainder of
	// the line, trimmed, is the file name.
	fileHeadingRegex = regexp.MustCompile(`(?m)^## File:(.*)$`)

	// fencedBlockRegex matches a triple-backtick fence with an optional
	// language tag, spanning to the next fence, dot-matches-newline.
	fencedBlockRegex = regexp.MustCompile("(?s)```[a-zA-Z0-9_+.-]*\r?\n?(.*?)```")
)

// FileBlock is one (relativePath, content) pair parsed from the generation
// collaborator's structured response.
type FileBlock struct {
	Path    string
	Content string
}

// ParseFileBlocks parses the collaborator's response into an ordered sequence
// of file blocks.
//
// The grammar is a best-effort contract: the response is split on
// "## File: <name>" headings, then each body is scanned for an optional
// fenced block. A fenced body yields the fence interior, trimmed; an unfenced
// body is used verbatim, trimmed (the collaborator's output is not guaranteed
// to follow the template). A response with no headings yields an empty slice,
// never an error.
func ParseFileBlocks(response string) []FileBlock {
	headings := fileHeadingRegex.FindAllStringSubmatchIndex(response, -1)
	if len(headings) == 0 {
		return nil
	}

	blocks := make([]FileBlock, 0, len(headings))
	for i, heading := range headings {
		name := strings.TrimSpace(response[heading[2]:heading[3]])
		if name == "" {
			continue
		}

		bodyStart := heading[1]
		bodyEnd := len(response)
		if i+1 < len(headings) {
			bodyEnd = headings[i+1][0]
		}

		blocks = append(blocks, FileBlock{
			Path:    name,
			Content: extractContent(response[bodyStart:bodyEnd]),
		})
	}

	return blocks
}

// extractContent pulls the file content out of one heading body: the interior
// of the first fenced block if present, otherwise the whole body.
func extractContent(body string) string {
	if match := fencedBlockRegex.FindStringSubmatch(body); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(body)
}
