// Package dedupe collapses rows that share the same trimmed target text into a
// single editable entry, and keeps the reverse index used to fan edits back out.
package dedupe

import (
	"strings"

	"tableflip.dev/buttercsv/pkg/table"
)

// DefaultDummyKeywords are placeholder targets that are never offered for editing.
func DefaultDummyKeywords() []string {
	return []string{"dummy", "ダミー", "ダミー。", "※開発用"}
}

// Filter decides which trimmed targets become entries.
type Filter struct {
	DummyKeywords []string
}

// Editable reports whether a trimmed target is worth editing: it is not empty,
// not a dummy keyword and has at least one Japanese or ASCII alphanumeric rune.
func (f Filter) Editable(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	for _, kw := range f.DummyKeywords {
		if trimmed == kw {
			return false
		}
	}
	return Translatable(trimmed)
}

// Translatable reports whether s has a hiragana, katakana, CJK ideograph,
// half-width katakana or ASCII letter/digit.
func Translatable(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x3040 && r <= 0x30FF,
			r >= 0x4E00 && r <= 0x9FAF,
			r >= 0xFF66 && r <= 0xFF9F,
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			return true
		}
	}
	return false
}

// Key is the dedup key for a target: the target with surrounding whitespace removed.
func Key(target string) string {
	return strings.TrimSpace(target)
}

// Index is the result of deduplicating one load of rows.
type Index struct {
	Entries *Entries
	// Reverse maps each key to the ascending indices of the rows that carried it.
	Reverse map[string][]int
}

// Build walks rows in order and indexes every editable target.
func Build(rows []table.Row, f Filter) *Index {
	idx := &Index{
		Entries: NewEntries(),
		Reverse: make(map[string][]int),
	}
	for i, row := range rows {
		key := Key(row.Target)
		if !f.Editable(key) {
			continue
		}
		if !idx.Entries.Has(key) {
			idx.Entries.Set(key, key)
		}
		idx.Reverse[key] = append(idx.Reverse[key], i)
	}
	return idx
}

// Count is the number of rows sharing key.
func (idx *Index) Count(key string) int {
	return len(idx.Reverse[key])
}

// Number is the 1-based row number of the first row carrying key, or 0 when
// key is not indexed.
func (idx *Index) Number(key string) int {
	rows := idx.Reverse[key]
	if len(rows) == 0 {
		return 0
	}
	return rows[0] + 1
}
