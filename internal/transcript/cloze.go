// Package transcript holds the text side of the chopper core: splitting
// a pasted transcript into card stubs and the cloze markup transform
// used by flashcard import formats.
package transcript

import (
	"regexp"
	"strconv"
)

// markerRe matches the opening of an existing cloze marker, {{cN::.
var markerRe = regexp.MustCompile(`\{\{c(\d+)::`)

// Cloze wraps the selection [selStart, selEnd) of text in a cloze
// marker {{cN::...}}, where N is the smallest index >= 1 not already
// used anywhere in the text. It never fails: out-of-order offsets are
// swapped, offsets are clamped to the text, and a zero-length selection
// inserts a marker with an empty body. Overlapping an existing marker
// is not prevented; callers that allow it get what they asked for.
func Cloze(text string, selStart, selEnd int) string {
	if selStart > selEnd {
		selStart, selEnd = selEnd, selStart
	}
	if selStart < 0 {
		selStart = 0
	}
	if selEnd < 0 {
		selEnd = 0
	}
	if selEnd > len(text) {
		selEnd = len(text)
	}
	if selStart > len(text) {
		selStart = len(text)
	}

	n := nextClozeIndex(text)
	return text[:selStart] + "{{c" + strconv.Itoa(n) + "::" + text[selStart:selEnd] + "}}" + text[selEnd:]
}

// nextClozeIndex returns the smallest marker index >= 1 not present in
// the text, including indices the user typed in by hand.
func nextClozeIndex(text string) int {
	used := make(map[int]bool)
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			used[idx] = true
		}
	}
	for n := 1; ; n++ {
		if !used[n] {
			return n
		}
	}
}
