package domain

import "strings"

// DefaultStripChars are removed from both edges of buffered answers.
const DefaultStripChars = "«»„““”\"❝❞„⹂〝〞〟＂‹›❮❯‚‘‘‛’❛❜❟`'., "

func TrimEdges(text, chars string) string {
	if chars == "" {
		return text
	}
	return strings.Trim(text, chars)
}
