// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/bookmeta/internal/normalize"
	"github.com/pdiddy/bookmeta/pkg/types"
)

const minSummaryRunes = 10

// Title reads the book title, with the subtitle appended after ": " when
// the page lists one.
func Title(d *Document) (string, bool) {
	title, ok := First(d,
		selectText("span[property='v:itemreviewed']"),
		selectText("h1 span"),
		metaProperty("og:title"),
	)
	if !ok {
		return "", false
	}
	if sub, ok := LabelValue(d, LabelSubtitle); ok && !strings.Contains(title, sub) {
		title += ": " + sub
	}
	return title, true
}

// Image reads the cover image URL.
func Image(d *Document) (string, bool) {
	return First(d,
		selectAttr("#mainpic a.nbg img", "src"),
		selectAttr("a.nbg img", "src"),
		metaProperty("og:image"),
	)
}

// Summary reads the last description block. Earlier blocks on the page
// are truncated teasers of the last one.
func Summary(d *Document) (string, bool) {
	return First(d,
		lastIntro("#link-report .intro"),
		lastIntro(".intro"),
	)
}

func lastIntro(selector string) Strategy[string] {
	return func(d *Document) (string, bool) {
		intro := d.Find(selector).Last()
		if intro.Length() == 0 {
			return "", false
		}
		var text string
		if paras := intro.Find("p"); paras.Length() > 0 {
			lines := paras.Map(func(_ int, p *goquery.Selection) string { return p.Text() })
			text = strings.Join(lines, "\n")
		} else {
			text = intro.Text()
		}
		return normalize.Summary(text, minSummaryRunes)
	}
}

// Tags reads the user tag names.
func Tags(d *Document) []string {
	tags, _ := First(d,
		selectAll("#db-tags-section a.tag"),
		selectAll("#db-tags-section .indent a"),
	)
	return tags
}

func selectAll(selector string) Strategy[[]string] {
	return func(d *Document) ([]string, bool) {
		var out []string
		d.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if t := normalize.CleanText(s.Text()); t != "" {
				out = append(out, t)
			}
		})
		return out, len(out) > 0
	}
}

// Detail extracts a raw record from a detail page. requestedID is used when
// the page does not declare its own identifier. Fields the page lacks are
// left empty.
func Detail(d *Document, requestedID string) types.RawRecord {
	var rec types.RawRecord

	rec.ID, _ = pageIdentifier(d)
	if rec.ID == "" {
		rec.ID = requestedID
	}
	rec.Title, _ = Title(d)
	rec.Image, _ = Image(d)
	rec.Authors = Authors(d)
	rec.Publisher, _ = LabelValue(d, LabelPublisher)
	rec.PubDate, _ = LabelValue(d, LabelPubDate)
	if v, ok := LabelValue(d, LabelPages); ok {
		if n, ok := normalize.Pages(v); ok {
			rec.Pages = &n
		}
	}
	if v, ok := LabelValue(d, LabelISBN); ok {
		rec.ISBN, _ = normalize.ISBN(v)
	}
	rec.Summary, _ = Summary(d)
	rec.Tags = Tags(d)
	return rec
}
