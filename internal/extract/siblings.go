// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/bookmeta/internal/normalize"
)

// Metadata labels in the #info block of a detail page.
const (
	LabelAuthor    = "作者"
	LabelSubtitle  = "副标题"
	LabelPublisher = "出版社"
	LabelPubDate   = "出版年"
	LabelPages     = "页数"
	LabelISBN      = "ISBN"
)

const maxAuthorRunes = 100

// findLabel returns the first label element whose text starts with name.
func findLabel(d *Document, name string) *html.Node {
	for _, selector := range []string{"#info span.pl", "span.pl"} {
		for _, n := range d.Find(selector).Nodes {
			if strings.HasPrefix(labelText(n), name) {
				return n
			}
		}
	}
	return nil
}

func labelText(n *html.Node) string {
	return strings.TrimSpace(normalize.CleanText(htmlquery.InnerText(n)))
}

func isLabel(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Span {
		return false
	}
	for _, c := range strings.Fields(htmlquery.SelectAttr(n, "class")) {
		if c == "pl" {
			return true
		}
	}
	return false
}

// segment returns the siblings that follow label up to the next <br> or
// the next label.
func segment(label *html.Node) []*html.Node {
	var nodes []*html.Node
	for n := label.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Br || isLabel(n)) {
			break
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// trailingText returns the first non-empty value after label: a text node
// directly, or otherwise the text of a following element. Whitespace,
// colons and bare "|" separators are skipped.
func trailingText(label *html.Node) string {
	for _, n := range segment(label) {
		var t string
		switch n.Type {
		case html.TextNode:
			t = trimSeparators(n.Data)
		case html.ElementNode:
			t = trimSeparators(htmlquery.InnerText(n))
		}
		if t != "" {
			return t
		}
	}
	return ""
}

// trimSeparators drops the colons and "|" marks that sit between a label
// and its value, whether they form a node of their own or lead the value
// text.
func trimSeparators(s string) string {
	s = normalize.CleanText(s)
	return strings.TrimLeft(s, separatorRunes)
}

const separatorRunes = ":：| "

// LabelValue returns the trailing text of the label starting with name.
func LabelValue(d *Document, name string) (string, bool) {
	label := findLabel(d, name)
	if label == nil {
		return "", false
	}
	v := trailingText(label)
	return v, v != ""
}

// Authors returns the author links next to the author label. Only links
// pointing at an author or search page are accepted, and names longer
// than a plausible maximum are dropped. Without such links the first
// plain text value after the label is split on "/".
func Authors(d *Document) []string {
	label := findLabel(d, LabelAuthor)
	if label == nil {
		return nil
	}

	var names []string
	for _, n := range segment(label) {
		for _, a := range anchors(n) {
			href := htmlquery.SelectAttr(a, "href")
			if !strings.Contains(href, "/author/") && !strings.Contains(href, "/search") {
				continue
			}
			if name, ok := authorName(htmlquery.InnerText(a)); ok {
				names = append(names, name)
			}
		}
	}
	if len(names) > 0 {
		return names
	}

	for _, n := range segment(label) {
		if n.Type != html.TextNode {
			continue
		}
		for _, part := range strings.Split(n.Data, "/") {
			if name, ok := authorName(trimSeparators(part)); ok {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			break
		}
	}
	return names
}

func authorName(s string) (string, bool) {
	s = normalize.CleanText(s)
	n := len([]rune(s))
	return s, n > 0 && n <= maxAuthorRunes
}

// anchors returns n and its descendants that are <a> elements.
func anchors(n *html.Node) []*html.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	if n.DataAtom == atom.A {
		return []*html.Node{n}
	}
	return htmlquery.Find(n, ".//a")
}
