// Package order derives the display order of entries and pages through it.
package order

import (
	"sort"

	"tableflip.dev/buttercsv/pkg/dedupe"
)

// DefaultPageSize is the number of entries shown per page.
const DefaultPageSize = 50

// Compute returns the keys whose duplicate count is at least minDuplicates,
// sorted by that count. Equal counts keep their first-seen order.
func Compute(idx *dedupe.Index, minDuplicates int, descending bool) []string {
	if idx == nil || idx.Entries == nil {
		return nil
	}
	if minDuplicates < 0 {
		minDuplicates = 0
	}

	keys := make([]string, 0, idx.Entries.Len())
	for _, key := range idx.Entries.Keys() {
		if idx.Count(key) >= minDuplicates {
			keys = append(keys, key)
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if descending {
			return idx.Count(keys[i]) > idx.Count(keys[j])
		}
		return idx.Count(keys[i]) < idx.Count(keys[j])
	})
	return keys
}

// Page returns the keys on 0-based page p. Out of range pages are empty.
func Page(keys []string, p, size int) []string {
	if size < 1 {
		size = DefaultPageSize
	}
	start := p * size
	if p < 0 || start >= len(keys) {
		return nil
	}
	end := start + size
	if end > len(keys) {
		end = len(keys)
	}
	return keys[start:end]
}

// PageCount is the number of pages needed for n keys.
func PageCount(n, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n-1)/size + 1
}
