package practice

import (
	"strings"
	"testing"
)

func TestOptionIDs(t *testing.T) {
	got := optionIDs(4)
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("optionIDs = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("optionIDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTrimSnippets_CapsCountAndLength(t *testing.T) {
	long := strings.Repeat("word ", 100)
	in := []string{long, "short one", long, "another", "fifth snippet"}

	out := trimSnippets(in)
	if len(out) != maxPromptSnippets {
		t.Fatalf("got %d snippets, want %d", len(out), maxPromptSnippets)
	}
	if len(out[0]) > snippetCharCap+3 {
		t.Errorf("snippet length %d exceeds cap", len(out[0]))
	}
	if !strings.HasSuffix(out[0], "...") {
		t.Errorf("truncated snippet missing ellipsis: %q", out[0])
	}
	if strings.HasSuffix(strings.TrimSuffix(out[0], "..."), " ") {
		t.Errorf("cut not at word boundary: %q", out[0])
	}
	if out[1] != "short one" {
		t.Errorf("short snippet altered: %q", out[1])
	}
}

func TestBuildMCQPrompt(t *testing.T) {
	p := BuildMCQPrompt("Cell Division", "intermediate", 5, 4, []string{"mitosis has phases."})
	for _, want := range []string{
		"Generate 5 multiple choice questions",
		`Topic: "Cell Division"`,
		"Options: a, b, c, d",
		"- mitosis has phases.",
		"Exactly 5 questions with 4 options each",
		`"correctAnswer": "a"`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildFlashcardPrompt_CardTypeGuidance(t *testing.T) {
	p := BuildFlashcardPrompt("Osmosis", "beginner", 10, "definition", []string{"water moves."})
	if !strings.Contains(p, "Type: definition (key terms and definitions)") {
		t.Errorf("missing guidance for definition type:\n%s", p)
	}

	p = BuildFlashcardPrompt("Osmosis", "beginner", 10, "weird", nil)
	if !strings.Contains(p, "(key information)") {
		t.Errorf("unknown card type should fall back to generic guidance")
	}
}

func TestBuildShortAnswerPrompt_ChunkLabels(t *testing.T) {
	p := BuildShortAnswerPrompt("Genetics", "advanced", 3, []string{"first snippet.", "second snippet."})
	if !strings.Contains(p, "[Chunk 1]\nfirst snippet.") {
		t.Errorf("missing first chunk label:\n%s", p)
	}
	if !strings.Contains(p, "[Chunk 2]\nsecond snippet.") {
		t.Errorf("missing second chunk label:\n%s", p)
	}
	if !strings.Contains(p, "Generate 3 short answer questions") {
		t.Errorf("missing question count")
	}
}
