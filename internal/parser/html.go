package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser renders a web page as plain text. Link targets are dropped and
// only the anchor text is kept.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	breakLine := func() {
		s := buf.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			buf.WriteString("\n")
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			// Inline spacing is kept as-is; the chunker collapses whitespace.
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "noscript", "template", "head", "svg", "iframe":
				return
			case "br":
				breakLine()
				return
			}
		}

		block := n.Type == html.ElementNode && isBlock(n.Data)
		if block {
			breakLine()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			breakLine()
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return strings.TrimSpace(buf.String()), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "main", "aside", "header", "footer", "nav",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "table", "tr", "td", "th",
		"blockquote", "pre", "hr", "dl", "dt", "dd", "figure", "figcaption", "form":
		return true
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
