package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// looksLikeHTML applies a cheap heuristic to decide whether article
// content is markup rather than plain text
func looksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	if !strings.Contains(trimmed, "<") || !strings.Contains(trimmed, ">") {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range []string{"<html", "<body", "<p>", "<p ", "<div", "<article", "<h1", "<br"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// stripHTML extracts visible text from HTML content, skipping
// script/style blocks. On a parse failure the original content is
// returned unchanged.
func stripHTML(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
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
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}
