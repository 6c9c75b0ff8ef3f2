// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/bookmeta/pkg/types"
)

var separators = strings.NewReplacer("_", " ", "-", " ")

// Genres title-cases tag names and removes case-insensitive duplicates,
// keeping the first spelling seen.
func Genres(tags []string) []string {
	// Casers keep state and cannot be shared between goroutines.
	titleCaser := cases.Title(language.Und)
	folder := cases.Fold()

	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		name := CleanText(separators.Replace(tag))
		if name == "" {
			continue
		}
		name = titleCaser.String(name)
		key := folder.String(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// Creators lists every author with the Author role followed by the
// publisher, if any, with the Publisher role.
func Creators(authors []string, publisher string) []types.Creator {
	var out []types.Creator
	for _, a := range authors {
		if a = CleanText(a); a != "" {
			out = append(out, types.Creator{Name: a, Role: types.RoleAuthor})
		}
	}
	if p := CleanText(publisher); p != "" {
		out = append(out, types.Creator{Name: p, Role: types.RolePublisher})
	}
	return out
}
