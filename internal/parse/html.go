package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/raglab/docqa/internal/index"
)

// HTML extracts the visible text of an HTML document as one section.
// Invalid UTF-8 byte sequences are dropped.
func HTML(name string, data []byte) ([]Section, error) {
	text, err := htmlToText(strings.NewReader(strings.ToValidUTF8(string(data), "")))
	if err != nil {
		return nil, err
	}
	return []Section{{
		Text: text,
		Meta: index.DocMeta{Source: name, Type: index.KindHTML},
	}}, nil
}

// htmlToText parses an HTML document, strips non-content elements and
// returns the remaining text nodes joined with single spaces.
func htmlToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, iframe, object, embed").Remove()

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(parts, " "), nil
}
