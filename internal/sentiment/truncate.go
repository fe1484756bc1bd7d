package sentiment

import (
	"strings"
	"unicode"
)

// DefaultMaxTokens is the input budget of both classifiers.
const DefaultMaxTokens = 512

// Truncate keeps at most maxTokens whitespace-separated tokens of text.
// The original spacing of the kept prefix is preserved.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}

	tokens := 0
	inToken := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inToken = false
			continue
		}
		if !inToken {
			if tokens == maxTokens {
				return strings.TrimRightFunc(text[:i], unicode.IsSpace)
			}
			tokens++
			inToken = true
		}
	}
	return text
}
