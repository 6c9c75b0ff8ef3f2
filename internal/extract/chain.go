// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/antchfx/htmlquery"

	"github.com/pdiddy/bookmeta/internal/normalize"
)

// Strategy reads one field from a document. The boolean is false when the
// strategy found nothing usable.
type Strategy[T any] func(*Document) (T, bool)

// First returns the value of the first strategy that succeeds.
func First[T any](doc *Document, strategies ...Strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(doc); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// selectText reads the cleaned text of the first match of selector.
func selectText(selector string) Strategy[string] {
	return func(d *Document) (string, bool) {
		t := normalize.CleanText(d.Find(selector).First().Text())
		return t, t != ""
	}
}

// selectAttr reads attr of the first match of selector.
func selectAttr(selector, attr string) Strategy[string] {
	return func(d *Document) (string, bool) {
		v, _ := d.Find(selector).First().Attr(attr)
		v = strings.TrimSpace(v)
		return v, v != ""
	}
}

// xpathAttr reads attr of the first node matching expr.
func xpathAttr(expr, attr string) Strategy[string] {
	return func(d *Document) (string, bool) {
		n := d.XPath(expr)
		if n == nil {
			return "", false
		}
		v := normalize.CleanText(htmlquery.SelectAttr(n, attr))
		return v, v != ""
	}
}

func metaProperty(property string) Strategy[string] {
	return xpathAttr("//meta[@property='"+property+"']", "content")
}

// mapped applies fn to the result of s; fn may reject the value.
func mapped[T, U any](s Strategy[T], fn func(T) (U, bool)) Strategy[U] {
	return func(d *Document) (U, bool) {
		v, ok := s(d)
		if !ok {
			var zero U
			return zero, false
		}
		return fn(v)
	}
}
