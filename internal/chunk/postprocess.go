package chunk

import (
	"strings"
	"unicode/utf8"

	"github.com/gracetownland/OER-AI/internal/extract"
)

// fingerprintLen is the prefix length used to detect near-duplicate chunks.
const fingerprintLen = 200

// Postprocess refines splitter output before embedding:
//
//   - a chunk shorter than minChars, or one that ends mid-sentence, is
//     merged forward into its successor (text joined with a single space);
//   - a merged chunk keeps the metadata of its first contributor only —
//     metadata is never combined across chunk boundaries;
//   - after merging, chunks whose first 200 characters match an earlier
//     chunk are dropped (first occurrence wins).
//
// The merge is a greedy single pass with one-chunk lookahead: a chunk
// produced by a merge is not re-examined against minChars, so a merged
// chunk may still be short. That bounded behavior is intentional.
func Postprocess(chunks []Chunk, minChars int) []Chunk {
	var cleaned []Chunk
	for i := 0; i < len(chunks); {
		cur := strings.TrimSpace(chunks[i].Text)

		tooSmall := utf8.RuneCountInString(cur) < minChars
		midSentence := !extract.EndsWithTerminal(cur)
		if (tooSmall || midSentence) && i+1 < len(chunks) {
			next := strings.TrimSpace(chunks[i+1].Text)
			cleaned = append(cleaned, Chunk{
				Text:     strings.TrimSpace(cur + " " + next),
				Metadata: copyMetadata(chunks[i].Metadata),
			})
			i += 2
			continue
		}

		cleaned = append(cleaned, Chunk{
			Text:     cur,
			Metadata: copyMetadata(chunks[i].Metadata),
		})
		i++
	}

	seen := make(map[string]bool, len(cleaned))
	var unique []Chunk
	for _, c := range cleaned {
		key := runePrefix(c.Text, fingerprintLen)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

func copyMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
