package chunk

import (
	"strings"
	"testing"
)

func TestPostprocess_MergesShortChunkForward(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("A full sentence goes here. ", 25))
	chunks := []Chunk{
		{Text: "Tiny.", Metadata: map[string]any{"chapter_number": 1}},
		{Text: long, Metadata: map[string]any{"chapter_number": 2}},
	}

	out := Postprocess(chunks, 600)
	if len(out) != 1 {
		t.Fatalf("got %d chunks, want 1", len(out))
	}
	if out[0].Text != "Tiny. "+long {
		t.Errorf("merged text = %q", out[0].Text)
	}
	if out[0].Metadata["chapter_number"] != 1 {
		t.Errorf("metadata = %+v, want first contributor's", out[0].Metadata)
	}
}

func TestPostprocess_MergesMidSentenceChunk(t *testing.T) {
	chunks := []Chunk{
		{Text: "this ends without punctuation and", Metadata: map[string]any{}},
		{Text: "so it continues here.", Metadata: map[string]any{}},
	}
	out := Postprocess(chunks, 10)
	if len(out) != 1 {
		t.Fatalf("got %d chunks, want 1", len(out))
	}
	want := "this ends without punctuation and so it continues here."
	if out[0].Text != want {
		t.Errorf("merged text = %q, want %q", out[0].Text, want)
	}
}

func TestPostprocess_SinglePassMerge(t *testing.T) {
	chunks := []Chunk{
		{Text: "a.", Metadata: map[string]any{}},
		{Text: "b.", Metadata: map[string]any{}},
		{Text: "c.", Metadata: map[string]any{}},
	}
	out := Postprocess(chunks, 600)
	if len(out) != 2 {
		t.Fatalf("got %d chunks, want 2 (merged pair plus trailing chunk)", len(out))
	}
	if out[0].Text != "a. b." {
		t.Errorf("first chunk = %q, want %q", out[0].Text, "a. b.")
	}
	if out[1].Text != "c." {
		t.Errorf("last chunk = %q, want %q", out[1].Text, "c.")
	}
}

func TestPostprocess_DropsDuplicatePrefixes(t *testing.T) {
	base := strings.Repeat("z", 200)
	chunks := []Chunk{
		{Text: base + " the first version.", Metadata: map[string]any{"n": 1}},
		{Text: base + " the second version.", Metadata: map[string]any{"n": 2}},
	}
	out := Postprocess(chunks, 1)
	if len(out) != 1 {
		t.Fatalf("got %d chunks, want 1 after prefix dedup", len(out))
	}
	if !strings.Contains(out[0].Text, "the first version.") {
		t.Errorf("kept chunk = %q, want first occurrence", out[0].Text)
	}
}

func TestPostprocess_MetadataIsCopied(t *testing.T) {
	meta := map[string]any{"source": "x"}
	out := Postprocess([]Chunk{{Text: "Complete sentence.", Metadata: meta}}, 1)
	if len(out) != 1 {
		t.Fatalf("got %d chunks, want 1", len(out))
	}
	out[0].Metadata["source"] = "mutated"
	if meta["source"] != "x" {
		t.Errorf("input metadata mutated: %+v", meta)
	}
}

func TestPostprocess_Empty(t *testing.T) {
	if out := Postprocess(nil, 600); out != nil {
		t.Fatalf("Postprocess(nil) = %v, want nil", out)
	}
}
