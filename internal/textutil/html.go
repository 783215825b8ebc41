package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML extracts the visible text of any HTML remnants in a cleaned
// sentence or caption, skipping script/style subtrees. Plain text passes
// through untouched.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return NormalizeWhitespace(buf.String())
}
