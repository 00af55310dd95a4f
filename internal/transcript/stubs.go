package transcript

import "strings"

// Stubs splits a transcript into candidate card texts. Paragraphs
// separated by one or more blank lines become one stub each; if the
// text has no blank lines, every non-empty line is its own stub.
// Leading and trailing whitespace is trimmed and empty stubs dropped,
// so the result pairs positionally with sliced audio clips.
func Stubs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	blocks := splitBlocks(normalized)
	if len(blocks) <= 1 {
		blocks = strings.Split(normalized, "\n")
	}

	stubs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := strings.TrimSpace(b); s != "" {
			stubs = append(stubs, s)
		}
	}
	return stubs
}

// splitBlocks splits on runs of blank lines.
func splitBlocks(text string) []string {
	var blocks []string
	current := make([]string, 0, 8)

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}
