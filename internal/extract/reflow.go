package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reflow reconstructs paragraph structure from newline-only text, such as a
// downloaded transcript. Blank lines always break paragraphs; heading-like
// lines stand alone; a line ending in terminal punctuation closes its
// paragraph; otherwise soft-wrapped lines are joined using lookahead at the
// next line. This is a heuristic, not a sentence splitter: abbreviations
// will occasionally break a paragraph early.
func Reflow(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	var paragraphs []string
	var cur []string

	flush := func() {
		if len(cur) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(cur, " ")); p != "" {
			paragraphs = append(paragraphs, p)
		}
		cur = cur[:0]
	}

	for i, line := range lines {
		ln := strings.TrimSpace(line)
		if ln == "" {
			flush()
			continue
		}

		if IsHeadingLike(ln) {
			flush()
			paragraphs = append(paragraphs, ln)
			continue
		}

		// Terminal punctuation wins over lowercase-continuation lookahead:
		// a complete sentence closes the paragraph regardless of what
		// follows.
		if EndsWithTerminal(ln) {
			cur = append(cur, ln)
			flush()
			continue
		}

		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}

		// Next line blank: this line is a trailing fragment.
		if next == "" {
			cur = append(cur, ln)
			flush()
			continue
		}

		// Next line starts lowercase: soft-wrap continuation.
		if startsLower(next) {
			cur = append(cur, ln)
			continue
		}

		// Ambiguous: short lines are treated as soft-wrapped, long lines as
		// complete.
		if utf8.RuneCountInString(ln) < 80 {
			cur = append(cur, ln)
			continue
		}
		cur = append(cur, ln)
		flush()
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
