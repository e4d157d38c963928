package mediaproc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/gracetownland/OER-AI/internal/extract"
)

// extractMarkdown renders markdown to HTML and runs it through the block
// extractor, so markdown tables and lists come out in the same shape as
// chapter content.
func extractMarkdown(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert(src, &rendered); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	doc, err := html.Parse(&rendered)
	if err != nil {
		return "", fmt.Errorf("parse rendered markdown: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}
	text, _ := extract.ExtractBlocks(body)
	return text, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}
