// Package mediaproc turns downloadable media items attached to chapters
// (PDFs, Word documents, markdown, transcripts) into plain text for the
// same chunking and embedding path chapter text takes.
package mediaproc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	fetchTimeout = 60 * time.Second
	maxItemBytes = 64 << 20
)

// Processor downloads media items and extracts their text.
type Processor struct {
	client *http.Client
}

func NewProcessor() *Processor {
	return &Processor{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// SupportedExtensions lists media item types the processor can extract
// text from. Binary formats without a text layer (images, archives) are
// recorded as media but never processed here.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".md":   true,
	".txt":  true,
	".vtt":  true,
}

// IsSupported reports whether a media URL points at an extractable item.
func IsSupported(itemURL string) bool {
	return SupportedExtensions[extensionOf(itemURL)]
}

func extensionOf(itemURL string) string {
	u, err := url.Parse(itemURL)
	if err != nil {
		return strings.ToLower(path.Ext(itemURL))
	}
	return strings.ToLower(path.Ext(u.Path))
}

// ProcessItem downloads a media item and returns its extracted text.
// Unsupported extensions return an error without fetching.
func (p *Processor) ProcessItem(ctx context.Context, itemURL string) (string, error) {
	ext := extensionOf(itemURL)
	if !SupportedExtensions[ext] {
		return "", fmt.Errorf("unsupported media type %q", ext)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch media item: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch media item %s: status %d", itemURL, resp.StatusCode)
	}

	return ExtractText(io.LimitReader(resp.Body, maxItemBytes), path.Base(itemURL))
}

// ExtractText dispatches on the filename extension and returns cleaned
// plain text.
func ExtractText(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDF(r)
	case ".docx":
		return extractDOCX(r)
	case ".md":
		return extractMarkdown(r)
	case ".txt", ".vtt":
		return extractTranscript(r, ext)
	default:
		return "", fmt.Errorf("unsupported media type %q", ext)
	}
}
