// Package check validates edited target text against the display budget of
// the game: characters per line, lines per entry and balanced color tags.
// Issues are advisory and never block an edit or a save.
package check

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tableflip.dev/buttercsv/pkg/colortag"
)

// Kind identifies the rule an Issue violates.
type Kind string

const (
	LineTooLong       Kind = "line_too_long"
	TooManyLines      Kind = "too_many_lines"
	UnmatchedColorTag Kind = "unmatched_color_tag"
)

// Issue is one diagnostic about a block of text.
type Issue struct {
	Kind Kind `json:"kind"`
	// Line is the 1-based offending line for LineTooLong.
	Line int `json:"line,omitempty"`
	// Count is the number of lines for TooManyLines.
	Count int `json:"count,omitempty"`
	Limit int `json:"limit,omitempty"`
	// Codes are the unmatched opening tags, rendered with the marker.
	Codes []string `json:"codes,omitempty"`
}

func (i Issue) String() string {
	switch i.Kind {
	case LineTooLong:
		return fmt.Sprintf("line %d > %d chars", i.Line, i.Limit)
	case TooManyLines:
		return fmt.Sprintf("%d lines > %d", i.Count, i.Limit)
	case UnmatchedColorTag:
		return "unmatched color tag(s): " + strings.Join(i.Codes, ", ")
	default:
		return string(i.Kind)
	}
}

// Checker holds the active limits.
type Checker struct {
	WrapLimit int
	MaxLines  int
	Tags      colortag.Syntax
}

// Check returns every issue found in text, LineTooLong first, in line order.
func (c Checker) Check(text string) []Issue {
	var issues []Issue

	lines := SplitLines(text)
	for n, line := range lines {
		visible := c.Tags.Strip(strings.TrimSpace(line))
		if utf8.RuneCountInString(visible) > c.WrapLimit {
			issues = append(issues, Issue{Kind: LineTooLong, Line: n + 1, Limit: c.WrapLimit})
		}
	}

	if len(lines) > c.MaxLines {
		issues = append(issues, Issue{Kind: TooManyLines, Count: len(lines), Limit: c.MaxLines})
	}

	if codes := c.Tags.Unmatched(text); len(codes) > 0 {
		tags := make([]string, len(codes))
		for i, code := range codes {
			tags[i] = c.Tags.Tag(code)
		}
		issues = append(issues, Issue{Kind: UnmatchedColorTag, Codes: tags})
	}

	return issues
}

// Summary joins issues the way entry labels show them.
func Summary(issues []Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

// SplitLines breaks text on \n, \r\n and \r. A trailing line break does not
// start another line and empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
