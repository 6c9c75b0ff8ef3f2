// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/bookmeta/internal/normalize"
)

const dataMarker = "window.__DATA__"

// Candidate is one search result before mapping. ID and Title are always
// set; PubDate is source-native and may be empty.
type Candidate struct {
	ID      string
	Title   string
	Image   string
	PubDate string
}

// Listing is the extracted content of a search page.
type Listing struct {
	Candidates []Candidate

	// Total is the number of results the source reports across all pages.
	// It is only meaningful when TotalKnown is set.
	Total      int
	TotalKnown bool

	// Dropped counts result entries discarded for lacking an identifier
	// or a title.
	Dropped int
}

func (l *Listing) add(c Candidate) {
	if c.ID == "" || c.Title == "" {
		l.Dropped++
		return
	}
	l.Candidates = append(l.Candidates, c)
}

// ParseListing extracts search candidates from body, which may be the JSON
// search payload or an HTML page. HTML pages are read through an ordered
// chain: the embedded window.__DATA__ payload, then cover anchors, then
// the page itself when the search redirected to a detail page. A page with
// no results gives an empty Listing. A malformed payload is a *ParseError
// unless the HTML yields candidates some other way.
func ParseListing(body []byte) (*Listing, error) {
	if isJSON(body) {
		l, err := decodePayload(bytes.NewReader(body))
		if err != nil {
			return nil, &ParseError{Source: "search payload", Err: err}
		}
		return l, nil
	}

	doc, err := Load(body)
	if err != nil {
		return nil, err
	}

	var dataErr error
	if raw, ok := embeddedData(doc); ok {
		l, err := decodePayload(strings.NewReader(raw))
		if err == nil {
			return l, nil
		}
		dataErr = err
	}

	if l, ok := First[*Listing](doc, coverAnchors, detailCandidate); ok {
		return l, nil
	}
	if dataErr != nil {
		return nil, &ParseError{Source: dataMarker, Err: dataErr}
	}
	return &Listing{}, nil
}

func isJSON(body []byte) bool {
	if mimetype.Detect(body).Is("application/json") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// embeddedData returns the script text following "window.__DATA__ =".
func embeddedData(d *Document) (string, bool) {
	var raw string
	d.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		i := strings.Index(text, dataMarker)
		if i < 0 {
			return true
		}
		rest := text[i+len(dataMarker):]
		if j := strings.IndexByte(rest, '='); j >= 0 {
			raw = strings.TrimSpace(rest[j+1:])
		}
		return false
	})
	return raw, raw != ""
}

type payload struct {
	Total     *int          `json:"total"`
	ErrorInfo string        `json:"error_info"`
	Items     []payloadItem `json:"items"`
}

type payloadItem struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	CoverURL string     `json:"cover_url"`
	Abstract string     `json:"abstract"`
	PubDate  string     `json:"pubdate"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// decodePayload reads one JSON object from r. Trailing script text after
// the object is ignored.
func decodePayload(r io.Reader) (*Listing, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	if p.ErrorInfo != "" && len(p.Items) == 0 {
		return nil, fmt.Errorf("source error: %s", p.ErrorInfo)
	}

	l := &Listing{}
	if p.Total != nil {
		l.Total, l.TotalKnown = *p.Total, true
	}
	for _, item := range p.Items {
		id := strings.TrimSpace(string(item.ID))
		if id == "" {
			id, _ = IDFromPath(item.URL)
		}
		pubDate := item.PubDate
		if pubDate == "" {
			pubDate = yearSegment(item.Abstract)
		}
		l.add(Candidate{
			ID:      id,
			Title:   normalize.StripTags(item.Title),
			Image:   strings.TrimSpace(item.CoverURL),
			PubDate: pubDate,
		})
	}
	return l, nil
}

// yearSegment returns the first "/"-separated segment of an abstract such
// as "刘慈欣 / 重庆出版社 / 2008-1 / 23.00元" that parses as a year.
func yearSegment(abstract string) string {
	for _, part := range strings.Split(normalize.StripTags(abstract), "/") {
		part = strings.TrimSpace(part)
		if _, ok := normalize.ParseYear(part); ok {
			return part
		}
	}
	return ""
}

// coverAnchors reads results from a.nbg cover links.
func coverAnchors(d *Document) (*Listing, bool) {
	anchors := d.Find("a.nbg")
	if anchors.Length() == 0 {
		return nil, false
	}
	l := &Listing{}
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id, _ := IDFromPath(href)
		img := a.Find("img").First()

		title := normalize.CleanText(img.AttrOr("alt", ""))
		if title == "" {
			title = normalize.CleanText(a.AttrOr("title", ""))
		}

		var pubDate string
		if pub := a.Closest("li, .subject-item, .item-root").Find(".pub, .subject-abstract").First(); pub.Length() > 0 {
			pubDate = yearSegment(pub.Text())
		}

		l.add(Candidate{
			ID:      id,
			Title:   title,
			Image:   strings.TrimSpace(img.AttrOr("src", "")),
			PubDate: pubDate,
		})
	})
	if n, ok := resultCount(d); ok {
		l.Total, l.TotalKnown = n, true
	}
	// A detail page carries a cover anchor too; let the next strategy
	// handle pages whose anchors give nothing.
	return l, len(l.Candidates) > 0
}

var resultCountRe = regexp.MustCompile(`共\s*([0-9][0-9,]*)\s*(?:个|条|本)?`)

// resultCount reads a result count such as "(共 1,234 个结果)" from the
// paging or summary line of an HTML listing.
func resultCount(d *Document) (int, bool) {
	text := d.Find(".paginator .count, .result-count, .subject-num, span.count").First().Text()
	m := resultCountRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// detailCandidate turns a detail page served for a query (as happens for
// an exact ISBN match) into a single result.
func detailCandidate(d *Document) (*Listing, bool) {
	id, ok := pageIdentifier(d)
	if !ok {
		return nil, false
	}
	title, ok := Title(d)
	if !ok {
		return nil, false
	}
	c := Candidate{ID: id, Title: title}
	c.Image, _ = Image(d)
	c.PubDate, _ = LabelValue(d, LabelPubDate)
	return &Listing{Candidates: []Candidate{c}, Total: 1, TotalKnown: true}, true
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
