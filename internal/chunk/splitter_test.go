package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_FitsInOneChunk(t *testing.T) {
	s := NewSplitter(1200, 200)
	chunks := s.Split("  A short chapter body.  ")
	if len(chunks) != 1 {
		t.Fatalf("chunks = %v, want 1", chunks)
	}
	if chunks[0] != "A short chapter body." {
		t.Fatalf("chunk = %q", chunks[0])
	}
}

func TestSplit_ParagraphBoundaryWithOverlap(t *testing.T) {
	p1 := strings.TrimSpace(strings.Repeat("one two three four five. ", 28))
	p2 := strings.TrimSpace(strings.Repeat("six seven eight nine ten. ", 28))
	s := NewSplitter(1000, 100)

	chunks := s.Split(p1 + "\n\n" + p2)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0] != p1 {
		t.Errorf("first chunk = %q, want first paragraph", chunks[0])
	}
	if !strings.HasSuffix(chunks[1], p2) {
		t.Errorf("second chunk does not end with second paragraph: %q", chunks[1])
	}

	// The second chunk is seeded with a word-aligned suffix of the first.
	prefix := strings.TrimSuffix(chunks[1], " "+p2)
	if prefix == chunks[1] || prefix == "" {
		t.Fatalf("no overlap prefix in %q", chunks[1])
	}
	if !strings.HasSuffix(p1, prefix) {
		t.Errorf("overlap %q is not a suffix of the first paragraph", prefix)
	}
	if utf8.RuneCountInString(prefix) > s.Overlap {
		t.Errorf("overlap length %d exceeds %d", utf8.RuneCountInString(prefix), s.Overlap)
	}
}

func TestSplit_ChunksNeverExceedSize(t *testing.T) {
	text := strings.Repeat("Sentence number one here. Sentence number two here. ", 60)
	s := NewSplitter(300, 50)
	for i, c := range s.Split(text) {
		if n := utf8.RuneCountInString(c); n > s.ChunkSize+s.Overlap+1 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
	}
}

func TestSplit_ChopRunesFallback(t *testing.T) {
	s := NewSplitter(10, 0)
	chunks := s.Split(strings.Repeat("x", 25))
	want := []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}
	if len(chunks) != len(want) {
		t.Fatalf("chunks = %v, want %v", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := NewSplitter(1200, 200)
	if got := s.Split("   \n\n  "); got != nil {
		t.Fatalf("Split(whitespace) = %v, want nil", got)
	}
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.ChunkSize != 1200 || s.Overlap != 200 {
		t.Fatalf("defaults = %d/%d, want 1200/200", s.ChunkSize, s.Overlap)
	}
}

func TestOverlapSuffix(t *testing.T) {
	if got := overlapSuffix("the quick brown fox", 7); got != "fox" {
		t.Errorf("overlapSuffix = %q, want %q", got, "fox")
	}
	if got := overlapSuffix("short", 10); got != "" {
		t.Errorf("overlapSuffix on short text = %q, want empty", got)
	}
	if got := overlapSuffix("anything", 0); got != "" {
		t.Errorf("overlapSuffix with n=0 = %q, want empty", got)
	}
}
