// Package wrap re-flows edited target text to the per-line character budget.
package wrap

import (
	"strings"
	"unicode/utf8"

	"tableflip.dev/buttercsv/pkg/colortag"
)

const tabSize = 8

// Wrapper word-wraps text to Limit columns. Width is counted in runes after
// color tags are removed, so tags never push a line over the limit.
type Wrapper struct {
	Limit    int
	MaxLines int
	Tags     colortag.Syntax
}

// Wrap splits text on explicit newlines and wraps each paragraph on its own.
// Long words are never broken, hyphens are not break points and an empty
// paragraph still yields one empty line. The bool reports whether the result
// has more than MaxLines lines.
func (w Wrapper) Wrap(text string) ([]string, bool) {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		wrapped := w.paragraph(paragraph)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		lines = append(lines, wrapped...)
	}
	return lines, len(lines) > w.MaxLines
}

// String wraps text and joins the lines with newlines.
func (w Wrapper) String(text string) (string, bool) {
	lines, over := w.Wrap(text)
	return strings.Join(lines, "\n"), over
}

func (w Wrapper) paragraph(text string) []string {
	limit := w.Limit
	if limit < 1 {
		limit = 1
	}

	chunks := split(normalize(text))
	var lines []string

	for len(chunks) > 0 {
		var cur []string
		width := 0

		// Whitespace at the start of a continuation line is dropped.
		if len(lines) > 0 && isSpace(chunks[0]) {
			chunks = chunks[1:]
		}

		for len(chunks) > 0 {
			n := w.width(chunks[0])
			if width+n > limit {
				break
			}
			cur = append(cur, chunks[0])
			width += n
			chunks = chunks[1:]
		}

		// An oversized word goes on a line of its own.
		if len(chunks) > 0 && len(cur) == 0 && w.width(chunks[0]) > limit {
			cur = append(cur, chunks[0])
			chunks = chunks[1:]
		}

		if len(cur) > 0 && isSpace(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, ""))
		}
	}
	return lines
}

func (w Wrapper) width(chunk string) int {
	return utf8.RuneCountInString(w.Tags.Strip(chunk))
}

// normalize expands tabs and turns the remaining ASCII whitespace into spaces.
func normalize(text string) string {
	var b strings.Builder
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			pad := tabSize - col%tabSize
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n', '\r', '\v', '\f':
			b.WriteByte(' ')
			col++
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// split cuts text into alternating word and space runs. Only the ASCII space
// separates words, so unspaced Japanese runs stay whole.
func split(text string) []string {
	var chunks []string
	start := 0
	for i := 1; i <= len(text); i++ {
		if i == len(text) || (text[i] == ' ') != (text[start] == ' ') {
			if i > start {
				chunks = append(chunks, text[start:i])
			}
			start = i
		}
	}
	return chunks
}

// isSpace reports a chunk made only of whitespace, ideographic space included.
func isSpace(chunk string) bool {
	return strings.TrimSpace(chunk) == ""
}
