package book

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TOCEntry is one chapter link from a book's table of contents.
type TOCEntry struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Info is the book-level metadata scraped from the landing page.
type Info struct {
	Description string            `json:"description,omitempty"`
	LicenseURL  string            `json:"license_url,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

var wsRunRe = regexp.MustCompile(`\s+`)

func cleanText(sel *goquery.Selection) string {
	return strings.TrimSpace(wsRunRe.ReplaceAllString(sel.Text(), " "))
}

// ExtractTOC pulls chapter links out of the table-of-contents list.
func ExtractTOC(doc *goquery.Document) []TOCEntry {
	toc := doc.Find("ol.toc").First()
	if toc.Length() == 0 {
		return nil
	}
	var entries []TOCEntry
	toc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		entries = append(entries, TOCEntry{
			Title: cleanText(a),
			Href:  href,
		})
	})
	return entries
}

// ExtractInfo gathers the description, license URL, and the dt/dd metadata
// pairs from a book landing page. Missing sections yield empty fields, not
// errors.
func ExtractInfo(doc *goquery.Document) Info {
	info := Info{
		Fields: extractMetaFields(doc),
	}

	container := doc.Find("#block-info").First()
	if container.Length() == 0 {
		container = doc.Find("section.block-info").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}

	desc := findByClassPart(container, "div", "block-info__description")
	if desc != nil {
		// The description content usually follows a "Book Description"
		// subheading; gather its following siblings when present.
		subtitle := desc.Find("h1,h2,h3,h4,h5,h6").FilterFunction(func(_ int, h *goquery.Selection) bool {
			return strings.Contains(h.Text(), "Book Description")
		}).First()
		if subtitle.Length() > 0 {
			var parts []string
			subtitle.NextAll().Each(func(_ int, sib *goquery.Selection) {
				if t := renderWithLists(sib); t != "" {
					parts = append(parts, t)
				}
			})
			info.Description = strings.Join(parts, "\n")
		} else {
			info.Description = textWithLists(desc)
		}
	}

	info.LicenseURL = extractLicenseURL(doc)
	return info
}

// extractMetaFields reads the dt/dd metadata block (author, publisher,
// ISBNs and so on) into a flat map.
func extractMetaFields(doc *goquery.Document) map[string]string {
	fields := make(map[string]string)
	doc.Find("dl.block-meta__list div.block-meta__subsection").Each(func(_ int, sub *goquery.Selection) {
		dt := sub.Find("dt").First()
		dd := sub.Find("dd").First()
		if dt.Length() == 0 || dd.Length() == 0 {
			return
		}
		title := cleanText(dt)
		if title != "" {
			fields[title] = cleanText(dd)
		}
	})
	return fields
}

// extractLicenseURL finds the Creative Commons (or similar) license link.
func extractLicenseURL(doc *goquery.Document) string {
	block := findByClassPart(doc.Selection, "div", "block-info__license")
	if block == nil {
		return ""
	}

	// rel="license" is the most reliable marker.
	licURL := ""
	block.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if rel, _ := a.Attr("rel"); strings.Contains(rel, "license") {
			licURL, _ = a.Attr("href")
			return false
		}
		return true
	})
	if licURL != "" {
		return licURL
	}

	block.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "creativecommons.org") || strings.Contains(href, "/licenses/") {
			licURL = href
			return false
		}
		return true
	})
	return licURL
}

// findByClassPart returns the first element of the given tag whose class
// attribute contains the fragment, tolerating partially-split class names.
func findByClassPart(root *goquery.Selection, tag, fragment string) *goquery.Selection {
	var found *goquery.Selection
	root.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if class, _ := s.Attr("class"); strings.Contains(class, fragment) {
			found = s
			return false
		}
		return true
	})
	return found
}

// textWithLists renders a block's children as readable plain text,
// preserving paragraphs and numbering ordered-list items.
func textWithLists(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		node := c.Get(0)
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		if node.Type != html.ElementNode {
			return
		}
		if t := renderWithLists(c); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// renderWithLists renders a single element: paragraph-like elements as
// their text, lists item-by-item ("1." for ordered, "-" for unordered),
// anything else as flattened text.
func renderWithLists(c *goquery.Selection) string {
	switch goquery.NodeName(c) {
	case "ol", "ul":
		ordered := goquery.NodeName(c) == "ol"
		var items []string
		c.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
			t := cleanText(li)
			if ordered {
				items = append(items, fmt.Sprintf("%d. %s", i+1, t))
			} else {
				items = append(items, "- "+t)
			}
		})
		return strings.Join(items, "\n")
	default:
		return cleanText(c)
	}
}
