package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// nodeText collects every text segment in the subtree, trims each, drops
// whitespace-only segments, and joins the rest with sep.
func nodeText(n *html.Node, sep string) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

// attr returns the value of the named attribute, or "" if absent.
func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasAttr reports whether the named attribute is present, even if empty
// (e.g. a bare "controls" on a video element).
func hasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// hasClass reports whether the node's class attribute contains the given
// class token.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findFirst returns the first element with the given tag in document order,
// searching the subtree rooted at n (including n itself).
func findFirst(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// forEachElement visits every element in the subtree in document order,
// including the root itself.
func forEachElement(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		forEachElement(c, fn)
	}
}

// elementsByTag returns all elements with the given tag, in document order.
func elementsByTag(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	forEachElement(root, func(n *html.Node) {
		if n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

// FindContentSection locates the chapter content container: the first
// <section> element, falling back to the first element carrying a "chapter"
// class. Returns nil when the page has no recognizable content section.
func FindContentSection(doc *html.Node) *html.Node {
	if s := findFirst(doc, "section"); s != nil {
		return s
	}
	var found *html.Node
	forEachElement(doc, func(n *html.Node) {
		if found == nil && hasClass(n, "chapter") {
			found = n
		}
	})
	return found
}
