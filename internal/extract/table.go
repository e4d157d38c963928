package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// RenderTable converts a <table> element into its pipe-delimited text form:
//
//	[Table: <caption>]
//	| h1 | h2 |
//	| --- | --- |
//	| c1 | c2 |
//
// The caption line is omitted when there is no <caption>, and the header
// lines are omitted when no header cells can be found. Downstream consumers
// rely on this exact layout, so it must stay byte-stable.
func RenderTable(table *html.Node) string {
	caption := ""
	if cap := findFirst(table, "caption"); cap != nil {
		caption = nodeText(cap, " ")
	}

	// Headers: prefer the cells of a <thead>, else the <th> cells of the
	// table's first row.
	var headers []string
	if thead := findFirst(table, "thead"); thead != nil {
		forEachElement(thead, func(n *html.Node) {
			if n.Data == "th" || n.Data == "td" {
				headers = append(headers, nodeText(n, " "))
			}
		})
	} else if firstTR := findFirst(table, "tr"); firstTR != nil {
		forEachElement(firstTR, func(n *html.Node) {
			if n.Data == "th" {
				headers = append(headers, nodeText(n, " "))
			}
		})
	}

	// Body rows: every <tr>'s cells (both td and th) in document order.
	var rows [][]string
	for _, tr := range elementsByTag(table, "tr") {
		var cells []string
		forEachElement(tr, func(n *html.Node) {
			if n.Data == "td" || n.Data == "th" {
				cells = append(cells, nodeText(n, " "))
			}
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}

	// The first row is often the same <tr> the headers came from; drop it
	// when it matches the header cells exactly.
	if len(headers) > 0 && len(rows) > 0 && equalCells(headers, rows[0]) {
		rows = rows[1:]
	}

	var lines []string
	if caption != "" {
		lines = append(lines, "[Table: "+caption+"]")
	}
	if len(headers) > 0 {
		lines = append(lines, "| "+strings.Join(headers, " | ")+" |")
		seps := make([]string, len(headers))
		for i := range seps {
			seps[i] = "---"
		}
		lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
	}
	for _, r := range rows {
		lines = append(lines, "| "+strings.Join(r, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func equalCells(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// renderTableSafe isolates a malformed table: any panic during rendering
// falls back to raw tab-joined text so one bad table cannot abort the
// whole chapter extraction.
func renderTableSafe(table *html.Node) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = nodeText(table, "\t")
		}
	}()
	return RenderTable(table)
}
