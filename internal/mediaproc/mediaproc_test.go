package mediaproc

import (
	"strings"
	"testing"
)

func TestIsSupported(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://press.example.org/files/notes.pdf", true},
		{"https://press.example.org/files/slides.PDF", true},
		{"https://press.example.org/files/doc.docx?version=2", true},
		{"/local/readme.md", true},
		{"/local/captions.vtt", true},
		{"https://press.example.org/files/photo.png", false},
		{"https://press.example.org/files/archive.zip", false},
		{"https://press.example.org/page/", false},
	}
	for _, tc := range cases {
		if got := IsSupported(tc.url); got != tc.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestExtensionOf_IgnoresQuery(t *testing.T) {
	if got := extensionOf("https://e.org/a/b/file.docx?dl=1#frag"); got != ".docx" {
		t.Fatalf("extensionOf = %q, want .docx", got)
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	if _, err := ExtractText(strings.NewReader("data"), "image.png"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
