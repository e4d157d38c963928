package mediaproc

import (
	"strings"
	"testing"
)

func TestExtractMarkdown(t *testing.T) {
	src := "# Title\n\nSome text.\n\n- one\n- two"
	got, err := extractMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("extractMarkdown: %v", err)
	}
	want := "Title\n\nSome text.\n\n- one\n- two"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractMarkdown_Blockquote(t *testing.T) {
	src := "intro paragraph.\n\n> quoted wisdom."
	got, err := extractMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("extractMarkdown: %v", err)
	}
	want := "intro paragraph.\n\nquoted wisdom."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
