// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"net/url"
	"strings"

	"github.com/pdiddy/bookmeta/internal/extract"
	"github.com/pdiddy/bookmeta/internal/normalize"
	"github.com/pdiddy/bookmeta/pkg/types"
)

// SourceURL returns the detail page URL of id on the catalog at baseURL.
func SourceURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/subject/" + url.PathEscape(id) + "/"
}

// ToCanonical maps an extracted record onto the canonical shape.
func ToCanonical(raw types.RawRecord, baseURL, imageSize string) types.CanonicalRecord {
	rec := types.CanonicalRecord{
		Identifier:   raw.ID,
		Title:        normalize.CleanText(raw.Title),
		Creators:     normalize.Creators(raw.Authors, raw.Publisher),
		Genres:       normalize.Genres(raw.Tags),
		Description:  raw.Summary,
		RemoteImages: []string{},
		Pages:        raw.Pages,
		ISBN:         raw.ISBN,
		SourceURL:    SourceURL(baseURL, raw.ID),
	}
	if rec.Creators == nil {
		rec.Creators = []types.Creator{}
	}
	if rec.Genres == nil {
		rec.Genres = []string{}
	}
	if y, ok := normalize.ParseYear(raw.PubDate); ok {
		rec.PublishYear = &y
	}
	if raw.Image != "" {
		rec.RemoteImages = append(rec.RemoteImages, normalize.ImageSize(raw.Image, imageSize))
	}
	return rec
}

// ToSearchItem maps a search candidate onto the list projection.
func ToSearchItem(c extract.Candidate, imageSize string) types.SearchResultItem {
	item := types.SearchResultItem{
		Identifier: c.ID,
		Title:      normalize.CleanText(c.Title),
	}
	if c.Image != "" {
		item.Image = normalize.ImageSize(c.Image, imageSize)
	}
	if y, ok := normalize.ParseYear(c.PubDate); ok {
		item.PublishYear = &y
	}
	return item
}

// ComputeNextPage returns page+1 when results remain beyond page, and nil
// otherwise.
func ComputeNextPage(page, pageSize, total int) *int {
	if page*pageSize < total {
		next := page + 1
		return &next
	}
	return nil
}
