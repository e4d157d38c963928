package extract

import (
	"strings"
	"testing"
)

func TestReflow_TerminalPunctuationBreaks(t *testing.T) {
	got := Reflow("Hello world.\nThis continues")
	want := "Hello world.\n\nThis continues"
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_BlankLineBreaks(t *testing.T) {
	got := Reflow("First part.\n\nSecond part.")
	want := "First part.\n\nSecond part."
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_HeadingStandsAlone(t *testing.T) {
	got := Reflow("INTRODUCTION\nThe topic covers cells.")
	want := "INTRODUCTION\n\nThe topic covers cells."
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_SoftWrapJoinsOnLowercase(t *testing.T) {
	got := Reflow("when mixed, the solution\nturns blue over time.")
	want := "when mixed, the solution turns blue over time."
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_TrailingFragmentBeforeBlank(t *testing.T) {
	got := Reflow("a fragment without punctuation, still\n\nNext one.")
	want := "a fragment without punctuation, still\n\nNext one."
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_AmbiguousShortLineContinues(t *testing.T) {
	got := Reflow("results were mixed, and\nSmith disagreed strongly, though\nlater all agreed.")
	want := "results were mixed, and Smith disagreed strongly, though later all agreed."
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_AmbiguousLongLineFlushes(t *testing.T) {
	long := strings.Repeat("alpha beta gamma, ", 5) + "delta epsilon zeta"
	got := Reflow(long + "\nAnother line entirely, left open")
	want := long + "\n\nAnother line entirely, left open"
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_CRLFNormalized(t *testing.T) {
	got := Reflow("One sentence here.\r\nanother follows, joined\r\nwith the first part.")
	want := "One sentence here.\n\nanother follows, joined with the first part."
	if got != want {
		t.Fatalf("Reflow = %q, want %q", got, want)
	}
}

func TestReflow_EmptyInput(t *testing.T) {
	if got := Reflow(""); got != "" {
		t.Fatalf("Reflow(\"\") = %q, want empty", got)
	}
	if got := Reflow("\n\n\n"); got != "" {
		t.Fatalf("Reflow(blank lines) = %q, want empty", got)
	}
}
