// Package colortag understands the inline color markup embedded in target
// text: a marker rune, the letter C and two upper-case hex digits, for
// example "‾C03". The reset code closes any open color.
package colortag

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

// Defaults used by the game text this tool edits.
const (
	DefaultMarker = '‾'
	DefaultReset  = "00"
)

// Syntax is a compiled color tag grammar.
type Syntax struct {
	marker rune
	reset  string
	re     *regexp.Regexp
}

// New compiles a Syntax for marker. A zero marker or a reset code that is not
// two upper-case hex digits falls back to the defaults.
func New(marker rune, reset string) Syntax {
	if marker == 0 || marker == utf8.RuneError {
		marker = DefaultMarker
	}
	if !validCode(reset) {
		reset = DefaultReset
	}
	return Syntax{
		marker: marker,
		reset:  reset,
		re:     regexp.MustCompile(regexp.QuoteMeta(string(marker)) + `C([0-9A-F]{2})`),
	}
}

// Default returns the Syntax for the default marker and reset code.
func Default() Syntax {
	return New(DefaultMarker, DefaultReset)
}

func (s Syntax) compiled() Syntax {
	if s.re == nil {
		return Default()
	}
	return s
}

// Marker returns the marker rune.
func (s Syntax) Marker() rune { return s.compiled().marker }

// Reset returns the reset code.
func (s Syntax) Reset() string { return s.compiled().reset }

// Tag renders the tag for code.
func (s Syntax) Tag(code string) string {
	return string(s.Marker()) + "C" + code
}

// Strip removes every tag from text.
func (s Syntax) Strip(text string) string {
	return s.compiled().re.ReplaceAllString(text, "")
}

// Codes lists the hex payload of every tag in text, in order.
func (s Syntax) Codes(text string) []string {
	matches := s.compiled().re.FindAllStringSubmatch(text, -1)
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, m[1])
	}
	return codes
}

// Unmatched reports the distinct opening codes, sorted, when text has fewer
// reset tags than opening tags. It returns nil when the tags balance.
func (s Syntax) Unmatched(text string) []string {
	s = s.compiled()
	closed := 0
	var opened []string
	for _, code := range s.Codes(text) {
		if code == s.reset {
			closed++
			continue
		}
		opened = append(opened, code)
	}
	if closed >= len(opened) {
		return nil
	}

	seen := make(map[string]struct{}, len(opened))
	distinct := make([]string, 0, len(opened))
	for _, code := range opened {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		distinct = append(distinct, code)
	}
	sort.Strings(distinct)
	return distinct
}

func validCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, c := range code {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
