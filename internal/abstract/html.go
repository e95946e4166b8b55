package abstract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// abstractSelectors are tried in order against the article page. The first
// matching container wins.
var abstractSelectors = []string{
	"div.abstract",
	"div.abstract-content",
	"section#abstract",
}

// extractFromHTML scrapes the abstract out of a public article page. Text
// nodes inside the matched container become lines; a leading "Abstract"
// heading line is dropped. Unparseable HTML or no matching container yields
// an empty string.
func extractFromHTML(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	for _, selector := range abstractSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		var lines []string
		for _, node := range sel.Nodes {
			collectTextLines(node, &lines)
		}
		if len(lines) > 0 && strings.HasPrefix(strings.ToLower(lines[0]), "abstract") {
			lines = lines[1:]
		}
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return ""
}

// collectTextLines appends each non-empty text node under n as its own line.
func collectTextLines(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			*lines = append(*lines, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTextLines(c, lines)
	}
}
