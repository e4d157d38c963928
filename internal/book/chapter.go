package book

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/gracetownland/OER-AI/internal/extract"
)

const fallbackChapterTitle = "Untitled Chapter"

// Chapter is the immutable result of processing one chapter page. Ownership
// passes to the storage/embedding stage after construction.
type Chapter struct {
	URL         string              `json:"url"`
	Title       string              `json:"title"`
	Text        string              `json:"-"`
	Media       extract.MediaRecord `json:"media"`
	Number      int                 `json:"chapter_number"`
	MediaCounts map[string]int      `json:"media_count"`
}

// Pipeline fetches chapter pages and runs the extraction core over them.
type Pipeline struct {
	fetcher *Fetcher
}

func NewPipeline(f *Fetcher) *Pipeline {
	return &Pipeline{fetcher: f}
}

// ProcessChapter resolves the chapter URL against the book URL, fetches and
// parses the page, and extracts its text and media. It returns (nil, nil)
// when the page has no extractable content; fetch/parse errors fail the
// chapter, which the caller logs and skips without failing the book.
func (p *Pipeline) ProcessChapter(ctx context.Context, chapterURL, baseURL string) (*Chapter, error) {
	fullURL := ResolveURL(baseURL, chapterURL)

	doc, err := p.fetcher.FetchDocument(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("chapter %s: %w", fullURL, err)
	}

	return ChapterFromDocument(doc, fullURL), nil
}

// ChapterFromDocument extracts a chapter from an already-parsed page.
// Returns nil when the page holds no content.
func ChapterFromDocument(doc *goquery.Document, pageURL string) *Chapter {
	section := extract.FindContentSection(doc.Get(0))
	text, media := extract.ExtractBlocks(section)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	return &Chapter{
		URL:         pageURL,
		Title:       chapterTitle(doc),
		Text:        text,
		Media:       media,
		MediaCounts: media.Counts(),
	}
}

// chapterTitle prefers the page's first <h1> when it is a plausible title,
// falling back to <title>, then to a fixed placeholder.
func chapterTitle(doc *goquery.Document) string {
	if h1 := cleanText(doc.Find("h1").First()); h1 != "" && utf8.RuneCountInString(h1) < 200 {
		return h1
	}
	if title := cleanText(doc.Find("title").First()); title != "" {
		return title
	}
	return fallbackChapterTitle
}
