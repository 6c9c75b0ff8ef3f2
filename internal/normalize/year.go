// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw strings scraped from catalog pages into
// canonical values. Every function is pure and reports absence through a
// boolean rather than an error.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// yearLayouts are tried when the value does not begin with four digits.
var yearLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"1/2/2006",
	"01/02/2006",
	"2.1.2006",
}

// ParseYear extracts a publish year. The first four characters must be
// digits ("2008-1", "2008年3月", "2008"); otherwise a small set of English
// and numeric date layouts is tried. Short or unparsable input yields false.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) >= 4 && allDigits(runes[:4]) {
		y, err := strconv.Atoi(string(runes[:4]))
		if err == nil && y > 0 {
			return y, true
		}
		return 0, false
	}

	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Pages returns the first run of ASCII digits in s, so "406页" and
// "406 pages" both give 406.
func Pages(s string) (int, bool) {
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return 0, false
	}
	end := strings.IndexFunc(s[start:], func(r rune) bool { return r < '0' || r > '9' })
	digits := s[start:]
	if end >= 0 {
		digits = s[start : start+end]
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ISBN keeps the digits and a trailing X of s, accepting only 10 or 13
// character results.
func ISBN(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r) && r < 0x80:
			b.WriteRune(r)
		case r == 'X' || r == 'x':
			b.WriteRune('X')
		}
	}
	out := b.String()
	if len(out) != 10 && len(out) != 13 {
		return "", false
	}
	if i := strings.IndexByte(out, 'X'); i >= 0 && i != len(out)-1 {
		return "", false
	}
	return out, true
}
