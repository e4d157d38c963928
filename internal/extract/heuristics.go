package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// headingLikeRe matches short title-case/alnum-leading lines such as
// "Chapter 3 - Cell Biology". The length cap keeps long sentences that
// happen to start with a capital from being mistaken for headings.
var headingLikeRe = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9 \-]{0,80}$`)

// terminalRe matches text whose last meaningful character is sentence-ending
// punctuation, optionally followed by closing quotes or brackets.
var terminalRe = regexp.MustCompile(`[.!?…]['"”’»)\]]*\s*$`)

// IsHeadingLike reports whether a line looks like a standalone heading:
// 1-8 words and either fully uppercase or matching the title-case pattern.
func IsHeadingLike(line string) bool {
	line = strings.TrimSpace(line)
	words := strings.Fields(line)
	if len(words) < 1 || len(words) > 8 {
		return false
	}
	return isAllUpper(line) || headingLikeRe.MatchString(line)
}

// EndsWithTerminal reports whether text ends with terminal punctuation.
// This is the shared boundary test used by both reflow and chunk
// post-processing.
func EndsWithTerminal(text string) bool {
	return terminalRe.MatchString(strings.TrimSpace(text))
}

// isAllUpper reports whether s contains at least one letter and no
// lowercase letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
