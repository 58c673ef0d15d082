// Package extract turns an HTML page into the plain text a lesson is built
// from.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is the readable content of a page.
type Document struct {
	Title string
	Text  string
}

// Extractor converts a page body into a Document.
type Extractor interface {
	Extract(input []byte) Document
}

// HTML is the default Extractor.
type HTML struct{}

// Extract implements Extractor.
func (HTML) Extract(input []byte) Document { return FromHTML(input) }

// skipped elements never contribute text.
var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"nav": true, "header": true, "footer": true, "aside": true,
	"iframe": true, "form": true, "button": true, "svg": true,
}

// block elements are separated from their neighbours by a blank line.
var block = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "pre": true, "dd": true, "dt": true,
	"figcaption": true, "td": true, "th": true, "div": true, "section": true,
}

// FromHTML extracts readable text from HTML, preferring <main>, then
// <article>, then <body>. Paragraph-level elements become paragraphs
// separated by blank lines. The title is taken from <title>, falling back to
// the first <h1>.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}

	title := ""
	if head := findFirst(node, "head"); head != nil {
		title = textOf(findFirst(head, "title"))
	}
	var content *html.Node
	for _, tag := range []string{"main", "article", "body"} {
		if content = findFirst(node, tag); content != nil {
			break
		}
	}
	if title == "" && content != nil {
		title = textOf(findFirst(content, "h1"))
	}

	var b strings.Builder
	if content != nil {
		collectText(&b, content)
	}
	return Document{Title: title, Text: paragraphs(b.String())}
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(b *strings.Builder, n *html.Node) {
	var name string
	if n.Type == html.ElementNode {
		if isBoilerplateContainer(n) {
			return
		}
		name = strings.ToLower(n.Data)
		if skipped[name] {
			return
		}
		switch {
		case name == "br":
			b.WriteString("\n")
		case block[name]:
			b.WriteString("\n\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if block[name] {
		b.WriteString("\n\n")
	}
}

// isBoilerplateContainer reports whether the element looks like a cookie or
// consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" && !strings.HasPrefix(key, "data-") {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

// paragraphs collapses whitespace inside paragraphs and joins them with a
// single blank line.
func paragraphs(s string) string {
	var out []string
	for _, chunk := range strings.Split(s, "\n\n") {
		if p := strings.Join(strings.Fields(chunk), " "); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
