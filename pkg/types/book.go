// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bookmeta pipeline:
// the intermediate record built during extraction, the canonical record
// returned to callers, and the search result projections.
package types

// Creator roles attached to CanonicalRecord.Creators.
const (
	RoleAuthor    = "Author"
	RolePublisher = "Publisher"
)

// RawRecord is the partially-populated representation of one catalog entry
// as it comes out of extraction. Fields are filled one at a time and any of
// them except ID may be empty. A RawRecord belongs to a single extraction
// call and is never shared between requests.
type RawRecord struct {
	// ID is the catalog identifier (e.g. "1007241").
	ID string `json:"id" yaml:"id"`

	// Title may already carry an appended subtitle ("Title: Subtitle").
	Title string `json:"title" yaml:"title"`

	// Image is the cover URL as found on the page.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`

	// Authors lists author names in page order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// PubDate is the publish date exactly as the source prints it
	// (e.g. "2008-1", "2010年11月").
	PubDate string `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`

	Pages *int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Summary is the entity-decoded description text.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Tags are the raw genre/tag names, not yet normalized.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
}

// Creator is a person or organisation credited on a record.
type Creator struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// CanonicalRecord is the stable, normalized metadata record returned by a
// details lookup. It is built once by the mapper and not modified after.
type CanonicalRecord struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Title      string `json:"title" yaml:"title"`

	// PublishYear is the 4-digit year, nil when it could not be parsed.
	PublishYear *int `json:"publish_year,omitempty" yaml:"publish_year,omitempty"`

	// Creators lists authors first, then the publisher when known.
	Creators []Creator `json:"creators" yaml:"creators"`

	// Genres are title-cased and deduplicated case-insensitively.
	Genres []string `json:"genres" yaml:"genres"`

	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	RemoteImages []string `json:"remote_images" yaml:"remote_images"`
	Pages        *int     `json:"pages,omitempty" yaml:"pages,omitempty"`
	ISBN         string   `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	// SourceURL is the catalog page for Identifier.
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// SearchResultItem is the list projection of a catalog entry. Only the
// fields available on a search page are populated.
type SearchResultItem struct {
	Identifier  string `json:"identifier" yaml:"identifier"`
	Title       string `json:"title" yaml:"title"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	PublishYear *int   `json:"publish_year,omitempty" yaml:"publish_year,omitempty"`
}

// SearchDetails carries paging information for a search response.
// NextPage is set iff page*pageSize < TotalItems.
type SearchDetails struct {
	TotalItems int  `json:"total_items" yaml:"total_items"`
	NextPage   *int `json:"next_page,omitempty" yaml:"next_page,omitempty"`
}

// SearchResults is one page of search output.
type SearchResults struct {
	Items   []SearchResultItem `json:"items" yaml:"items"`
	Details SearchDetails      `json:"details" yaml:"details"`
}
