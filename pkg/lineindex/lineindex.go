// Package lineindex maps byte offsets in a text buffer to 1-based line numbers.
//
// The index is a strictly increasing slice of line-start offsets built once per
// parse and never mutated. Lookups are O(log n) binary searches, which matters
// for multi-thousand-line configuration files resolved entry by entry.
package lineindex

import "sort"

// avgLineLen is the capacity heuristic used when building an index: one slot
// per assumed ~30-byte line, so large inputs don't grow the slice repeatedly.
const avgLineLen = 30

// Build scans text for line terminators and returns the byte offset at which
// each line starts. Index 0 is always 0 (line 1 starts at the first byte).
// A start is recorded only when a '\n' is actually observed, so text without
// terminators yields exactly []int{0} and a trailing newline contributes the
// offset just past it.
func Build(text string) []int {
	starts := make([]int, 0, len(text)/avgLineLen+1)
	starts = append(starts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Resolve returns the 1-based line number containing the byte at offset.
//
// An offset equal to a recorded line start is the first byte of that line. An
// offset strictly between two starts belongs to the line whose start is the
// nearest one not exceeding it. Offsets past the last start resolve to the
// last line.
func Resolve(starts []int, offset int) int {
	if len(starts) == 0 {
		return 1
	}
	i := sort.SearchInts(starts, offset)
	if i < len(starts) && starts[i] == offset {
		return i + 1
	}
	// Insertion point: offset falls inside the line starting at starts[i-1].
	if i == 0 {
		return 1
	}
	return i
}
