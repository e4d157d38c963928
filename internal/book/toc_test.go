package book

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractTOC(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<ol class="toc">
<li><a href="/chapter/intro/">Introduction</a></li>
<li><a href="/chapter/cells/">  Cells  and   Tissues </a></li>
<li><span>no link here</span></li>
</ol>
</body></html>`)

	entries := ExtractTOC(doc)
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want 2", entries)
	}
	if entries[0].Title != "Introduction" || entries[0].Href != "/chapter/intro/" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Title != "Cells and Tissues" {
		t.Errorf("whitespace not collapsed: %+v", entries[1])
	}
}

func TestExtractTOC_Missing(t *testing.T) {
	doc := parseDoc(t, `<html><body><ol><li><a href="/x">X</a></li></ol></body></html>`)
	if entries := ExtractTOC(doc); entries != nil {
		t.Fatalf("entries = %+v, want nil without ol.toc", entries)
	}
}

func TestExtractInfo(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<section id="block-info">
<div class="block-info__description">
<h2>Book Description</h2>
<p>An open biology text.</p>
<ol><li>Covers cells</li><li>Covers genetics</li></ol>
</div>
<div class="block-info__license">
<a rel="license" href="https://creativecommons.org/licenses/by/4.0/">CC BY</a>
</div>
</section>
<dl class="block-meta__list">
<div class="block-meta__subsection"><dt>Book Title</dt><dd>Biology</dd></div>
<div class="block-meta__subsection"><dt>Author</dt><dd>J. Doe</dd></div>
</dl>
</body></html>`)

	info := ExtractInfo(doc)
	wantDesc := "An open biology text.\n1. Covers cells\n2. Covers genetics"
	if info.Description != wantDesc {
		t.Errorf("Description = %q, want %q", info.Description, wantDesc)
	}
	if info.LicenseURL != "https://creativecommons.org/licenses/by/4.0/" {
		t.Errorf("LicenseURL = %q", info.LicenseURL)
	}
	if info.Fields["Book Title"] != "Biology" || info.Fields["Author"] != "J. Doe" {
		t.Errorf("Fields = %+v", info.Fields)
	}
}

func TestExtractInfo_NoDescriptionHeading(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<div class="block-info__description"><p>Plain description.</p><ul><li>one</li></ul></div>
</body></html>`)
	info := ExtractInfo(doc)
	want := "Plain description.\n- one"
	if info.Description != want {
		t.Errorf("Description = %q, want %q", info.Description, want)
	}
}

func TestExtractInfo_Empty(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>nothing relevant</p></body></html>`)
	info := ExtractInfo(doc)
	if info.Description != "" || info.LicenseURL != "" || len(info.Fields) != 0 {
		t.Errorf("info = %+v, want empty", info)
	}
}

func TestExtractLicenseURL_HrefFallback(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<div class="block-info__license">
<a href="https://example.org/about">About</a>
<a href="https://creativecommons.org/licenses/by-sa/4.0/">license text</a>
</div>
</body></html>`)
	if got := extractLicenseURL(doc); got != "https://creativecommons.org/licenses/by-sa/4.0/" {
		t.Errorf("extractLicenseURL = %q", got)
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		base, href, want string
	}{
		{"https://press.example.org/book/", "chapter/intro/", "https://press.example.org/book/chapter/intro/"},
		{"https://press.example.org/book/", "/chapter/intro/", "https://press.example.org/chapter/intro/"},
		{"https://press.example.org/book/", "https://other.org/x", "https://other.org/x"},
	}
	for _, tc := range cases {
		if got := ResolveURL(tc.base, tc.href); got != tc.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tc.base, tc.href, got, tc.want)
		}
	}
}
