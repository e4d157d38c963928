// Package chunk splits extracted chapter text into sized, metadata-carrying
// chunks and post-processes them before embedding.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Chunk is the unit handed to the embedding stage: a text span plus a flat
// metadata map. One concrete type everywhere; no duck typing.
type Chunk struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Splitter is a recursive character splitter: it breaks text on the
// coarsest separator available, recursing to finer separators for pieces
// that are still oversized, then merges pieces back into chunks of at most
// ChunkSize characters with Overlap characters carried between consecutive
// chunks.
type Splitter struct {
	Separators []string
	ChunkSize  int
	Overlap    int
}

// NewSplitter returns a splitter tuned for paragraph-structured chapter
// text (roughly 200-350 tokens per chunk).
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1200
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 200
	}
	return &Splitter{
		Separators: []string{"\n\n", "\n", ". ", " ", ""},
		ChunkSize:  chunkSize,
		Overlap:    overlap,
	}
}

// Split breaks text into chunks of at most ChunkSize characters.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.merge(s.fragment(text, s.Separators))
}

// fragment recursively splits text until every piece fits in ChunkSize.
// Separators stay attached to the piece they terminate so merging is plain
// concatenation.
func (s *Splitter) fragment(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.ChunkSize {
		return []string{text}
	}

	for i, sep := range seps {
		if sep == "" {
			return chopRunes(text, s.ChunkSize)
		}
		if !strings.Contains(text, sep) {
			continue
		}
		var out []string
		for _, part := range strings.SplitAfter(text, sep) {
			if part == "" {
				continue
			}
			out = append(out, s.fragment(part, seps[i+1:])...)
		}
		return out
	}
	return chopRunes(text, s.ChunkSize)
}

// merge concatenates fragments into chunks of at most ChunkSize characters,
// seeding each new chunk with an overlap suffix from the previous one.
func (s *Splitter) merge(fragments []string) []string {
	var chunks []string
	var b strings.Builder
	count := 0

	flush := func() string {
		c := strings.TrimSpace(b.String())
		if c != "" {
			chunks = append(chunks, c)
		}
		b.Reset()
		count = 0
		return c
	}

	for _, frag := range fragments {
		fl := utf8.RuneCountInString(frag)
		if count+fl > s.ChunkSize && count > 0 {
			prev := flush()
			if ov := overlapSuffix(prev, s.Overlap); ov != "" {
				b.WriteString(ov)
				b.WriteString(" ")
				count = utf8.RuneCountInString(ov) + 1
			}
		}
		b.WriteString(frag)
		count += fl
	}
	flush()

	return chunks
}

// overlapSuffix returns the last n characters of text, extended left to the
// nearest word boundary so the overlap never starts mid-word.
func overlapSuffix(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return ""
	}
	start := len(runes) - n
	for start < len(runes) && runes[start] != ' ' {
		start++
	}
	return strings.TrimSpace(string(runes[start:]))
}

// chopRunes is the last-resort fallback for text with no separators at all.
func chopRunes(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		out = append(out, string(runes[i:end]))
	}
	return out
}
