// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls raw book fields out of catalog pages. Each field is
// read through an ordered chain of strategies; the first strategy that
// yields a non-empty value wins. A missing field is never an error.
package extract

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed page reachable through CSS selectors (goquery) and
// XPath (htmlquery). Both views share one node tree.
type Document struct {
	sel  *goquery.Document
	root *html.Node
}

// Load parses body as HTML. Bodies that are not valid UTF-8 are converted
// using the charset the page declares or, when it declares none, the one
// detected from the bytes.
func Load(body []byte) (*Document, error) {
	root, err := htmlquery.Parse(utf8Reader(body))
	if err != nil {
		return nil, &ParseError{Source: "html", Err: err}
	}
	return &Document{sel: goquery.NewDocumentFromNode(root), root: root}, nil
}

func utf8Reader(body []byte) io.Reader {
	if utf8.Valid(body) {
		return bytes.NewReader(body)
	}
	contentType := "text/html"
	// windows-1252 is what DetermineEncoding falls back to when the page
	// declares nothing.
	if _, name, _ := charset.DetermineEncoding(body, contentType); name == "windows-1252" {
		if detected := detectCharset(body); detected != "" {
			contentType += "; charset=" + detected
		}
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return bytes.NewReader(body)
	}
	return r
}

// chardet reports some charsets under names the WHATWG index does not know.
var charsetAliases = map[string]string{
	"GB-18030": "gb18030",
}

func detectCharset(body []byte) string {
	res, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || res == nil {
		return ""
	}
	if alias, ok := charsetAliases[res.Charset]; ok {
		return alias
	}
	return res.Charset
}

// Find runs a CSS selector over the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.sel.Find(selector)
}

// XPath returns the first node matching expr, or nil.
func (d *Document) XPath(expr string) *html.Node {
	n, err := htmlquery.Query(d.root, expr)
	if err != nil {
		return nil
	}
	return n
}
