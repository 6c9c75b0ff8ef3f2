// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var strict = bluemonday.StrictPolicy()

// CleanText applies NFC and collapses all runs of whitespace into single
// spaces. Entities are left alone: text read from a parsed document is
// already decoded.
func CleanText(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// DecodeText is CleanText for strings that still carry HTML entities.
func DecodeText(s string) string {
	return CleanText(html.UnescapeString(s))
}

// CleanMultiline is CleanText applied per line; blank lines are dropped.
func CleanMultiline(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if c := CleanText(line); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, "\n")
}

// StripTags removes markup from text that arrives as an HTML fragment, as
// in the abstracts of the JSON search payload. The sanitizer re-escapes
// the text it keeps, so its output is decoded exactly once.
func StripTags(s string) string {
	return DecodeText(strict.Sanitize(s))
}

// Summary returns the cleaned text of s, or false when it is shorter than
// minRunes and so more likely a placeholder than a description.
func Summary(s string, minRunes int) (string, bool) {
	s = CleanMultiline(s)
	if len([]rune(s)) < minRunes {
		return "", false
	}
	return s, true
}

var imageSizeRe = regexp.MustCompile(`/view/subject/[sml]/`)

// ImageSize rewrites a catalog cover URL to the requested size variant
// ("s", "m" or "l"). Other sizes and URLs without a size segment are
// returned unchanged.
func ImageSize(url, size string) string {
	switch size {
	case "s", "m", "l":
		return imageSizeRe.ReplaceAllLiteralString(url, "/view/subject/"+size+"/")
	default:
		return url
	}
}
