// Package extract turns messy chapter HTML into a linear, embedding-ready
// text representation plus a structured media record. The walk preserves
// document order, deduplicates nested content, and linearizes tables, lists
// and figures into stable text blocks.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are the elements considered for direct rendering, in document
// order. Containers (div/section/article/aside) are lowest priority: they
// are rendered only when they hold no identifiable block children.
var blockTags = map[string]bool{
	"table": true, "figure": true, "figcaption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "li": true,
	"dl": true, "dt": true, "dd": true,
	"blockquote": true, "pre": true,
	"caption": true, "iframe": true, "img": true,
	"div": true, "section": true, "article": true, "aside": true,
}

// highPriorityChildren make a container defer to its descendants.
var highPriorityChildren = map[string]bool{
	"table": true, "figure": true, "figcaption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "li": true, "dl": true,
	"blockquote": true, "pre": true, "iframe": true, "img": true,
}

var containerTags = map[string]bool{
	"div": true, "section": true, "article": true, "aside": true,
}

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	trailWSRe    = regexp.MustCompile(`[ \t]+\n`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// ExtractBlocks walks the content section in document order and returns a
// single text body (double-newline-separated blocks) together with the
// media collected from the same subtree. A nil section yields empty
// results: structural absence is "nothing to extract", not an error.
// The function is pure: running it twice on the same tree gives identical
// output.
func ExtractBlocks(section *html.Node) (string, MediaRecord) {
	if section == nil {
		return "", MediaRecord{}
	}

	media := CollectMedia(section)

	var candidates []*html.Node
	forEachElement(section, func(n *html.Node) {
		if blockTags[n.Data] {
			candidates = append(candidates, n)
		}
	})

	processed := make(map[*html.Node]bool)
	var blocks []string

	for _, tag := range candidates {
		// Skip anything under an already-rendered ancestor so nested
		// content is emitted exactly once.
		if ancestorProcessed(tag, processed) {
			continue
		}

		// A container with identifiable block children is left for those
		// children; only genuinely unstructured containers render directly.
		if containerTags[tag.Data] && containsHighPriority(tag) {
			continue
		}

		if b := renderBlock(tag); b != "" {
			blocks = append(blocks, b)
		}

		// Mark processed whether or not the tag produced output, so its
		// descendants are never re-emitted.
		processed[tag] = true
	}

	if stray := collectStrayText(section, processed); stray != "" {
		blocks = append(blocks, stray)
	}

	var cleaned []string
	for _, b := range blocks {
		if c := cleanBlock(b); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	text := strings.Join(cleaned, "\n\n")
	text = strings.TrimSpace(newlineRunRe.ReplaceAllString(text, "\n\n"))
	return text, media
}

// renderBlock applies the per-tag rendering rule and returns the rendered
// text, or "" when the tag has nothing to contribute.
func renderBlock(tag *html.Node) string {
	switch tag.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p":
		return nodeText(tag, " ")

	case "ul", "ol":
		// Direct list items only, so nested lists stay with their parents.
		var items []string
		for c := tag.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				if t := nodeText(c, " "); t != "" {
					items = append(items, "- "+t)
				}
			}
		}
		return strings.Join(items, "\n")

	case "li":
		// Stray list items not captured through a parent list.
		if t := nodeText(tag, " "); t != "" {
			return "- " + t
		}
		return ""

	case "dl":
		var parts []string
		curTerm := ""
		for c := tag.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "dt":
				curTerm = nodeText(c, " ")
			case "dd":
				def := nodeText(c, " ")
				if curTerm != "" {
					parts = append(parts, curTerm+": "+def)
					curTerm = ""
				} else {
					parts = append(parts, def)
				}
			}
		}
		return strings.Join(parts, "\n\n")

	case "blockquote", "pre":
		return nodeText(tag, "\n")

	case "figure":
		var parts []string
		if cap := findFirst(tag, "figcaption"); cap != nil {
			if t := nodeText(cap, " "); t != "" {
				parts = append(parts, t)
			}
		}
		for _, img := range elementsByTag(tag, "img") {
			alt := attr(img, "alt")
			if alt == "" {
				alt = attr(img, "title")
			}
			if alt != "" {
				parts = append(parts, alt)
			} else if src := attr(img, "src"); src != "" {
				parts = append(parts, src)
			}
		}
		return strings.Join(parts, "\n")

	case "figcaption", "caption":
		return nodeText(tag, " ")

	case "table":
		return renderTableSafe(tag)

	case "iframe":
		src := attr(tag, "src")
		if src == "" {
			src = attr(tag, "data-src")
		}
		info := "Embedded content"
		if title := attr(tag, "title"); title != "" {
			info += ": " + title
		}
		if src != "" {
			info += " (" + src + ")"
		}
		return info

	case "img":
		alt := attr(tag, "alt")
		if alt == "" {
			alt = attr(tag, "title")
		}
		if alt != "" {
			return alt
		}
		return imageSrc(tag)

	default:
		// Unstructured containers fall through to plain text.
		return nodeText(tag, " ")
	}
}

// collectStrayText gathers bare text nodes not covered by any processed
// ancestor and not inside script/style, deduplicated by exact content in
// first-seen order, joined as one trailing block.
func collectStrayText(section *html.Node, processed map[*html.Node]bool) string {
	var strays []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parent := n.Parent
			if parent == nil || parent.Data == "script" || parent.Data == "style" {
				return
			}
			text := strings.TrimSpace(n.Data)
			if text == "" || ancestorProcessed(n, processed) {
				return
			}
			if !seen[text] {
				seen[text] = true
				strays = append(strays, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(section)

	return strings.TrimSpace(strings.Join(strays, " "))
}

// ancestorProcessed walks the parent chain checking set membership by node
// identity.
func ancestorProcessed(n *html.Node, processed map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if processed[p] {
			return true
		}
	}
	return false
}

func containsHighPriority(tag *html.Node) bool {
	found := false
	forEachElement(tag, func(n *html.Node) {
		if n != tag && highPriorityChildren[n.Data] {
			found = true
		}
	})
	return found
}

// cleanBlock normalizes whitespace inside one block: runs of spaces/tabs
// collapse to a single space, newlines are kept, and 3+ newlines collapse
// to exactly two.
func cleanBlock(b string) string {
	b = spaceRunRe.ReplaceAllString(b, " ")
	b = trailWSRe.ReplaceAllString(b, "\n")
	b = newlineRunRe.ReplaceAllString(b, "\n\n")
	return strings.TrimSpace(b)
}
