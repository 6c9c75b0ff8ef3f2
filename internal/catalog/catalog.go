// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog exposes book lookups against the catalog site: details
// by identifier, paged search, and ISBN resolution. Each operation fetches
// one page, extracts raw fields and maps them to canonical output.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/bookmeta/internal/extract"
	"github.com/pdiddy/bookmeta/internal/fetch"
	"github.com/pdiddy/bookmeta/internal/metrics"
	"github.com/pdiddy/bookmeta/internal/normalize"
	"github.com/pdiddy/bookmeta/pkg/types"
)

// bookCategory restricts catalog search to books.
const bookCategory = "1001"

var (
	// ErrNotFound means the catalog has no usable record for the request.
	ErrNotFound = errors.New("book not found")

	// ErrEmptyQuery is returned for blank identifiers and queries.
	ErrEmptyQuery = errors.New("empty query")
)

// Fetcher retrieves a page body. *fetch.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics records dropped search candidates on m.
func WithMetrics(m *metrics.Metrics) Option { return func(p *Provider) { p.metrics = m } }

// Provider is safe for concurrent use; all shared state lives in the
// Fetcher.
type Provider struct {
	cfg     types.CatalogConfig
	fetcher Fetcher
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Provider. Empty fields of cfg take their default values.
func New(cfg types.CatalogConfig, f Fetcher, opts ...Option) *Provider {
	def := types.Default().Catalog
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.SearchURL == "" {
		cfg.SearchURL = def.SearchURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = types.DefaultPageSize
	}
	p := &Provider{cfg: cfg, fetcher: f, log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PageSize is the number of items requested per search page.
func (p *Provider) PageSize() int { return p.cfg.PageSize }

func (p *Provider) opLogger(op string) *zap.Logger {
	return p.log.With(zap.String("op", op), zap.String("op_id", uuid.NewString()))
}

// MetadataDetails fetches the detail page of id and returns its canonical
// record. Missing fields are left empty. A page without a resolvable title
// or a 404 yields an error matching ErrNotFound.
func (p *Provider) MetadataDetails(ctx context.Context, id string) (*types.CanonicalRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyQuery
	}
	log := p.opLogger("details").With(zap.String("id", id))

	body, err := p.fetcher.Fetch(ctx, SourceURL(p.cfg.BaseURL, id))
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching book %s: %w", id, err)
	}

	doc, err := extract.Load(body)
	if err != nil {
		return nil, fmt.Errorf("parsing book %s: %w", id, err)
	}
	raw := extract.Detail(doc, id)
	if raw.Title == "" {
		log.Debug("detail page has no title")
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}

	rec := ToCanonical(raw, p.cfg.BaseURL, p.cfg.ImageSize)
	log.Info("details resolved",
		zap.String("identifier", rec.Identifier),
		zap.String("title", rec.Title),
		zap.Int("creators", len(rec.Creators)),
	)
	return &rec, nil
}

// MetadataSearch returns one page of results for query. Pages start at 1;
// smaller values are treated as 1. A page with no valid candidates gives
// an empty result with a total of zero.
func (p *Provider) MetadataSearch(ctx context.Context, page int, query string) (*types.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * p.cfg.PageSize
	log := p.opLogger("search").With(zap.String("query", query), zap.Int("page", page))

	body, err := p.fetcher.Fetch(ctx, p.searchURL(query, offset))
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	listing, err := extract.ParseListing(body)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	p.metrics.Dropped(listing.Dropped)

	seen := make(map[string]bool, len(listing.Candidates))
	items := make([]types.SearchResultItem, 0, len(listing.Candidates))
	for _, c := range listing.Candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		items = append(items, ToSearchItem(c, p.cfg.ImageSize))
	}

	total := searchTotal(listing, offset, len(items))
	log.Info("search complete",
		zap.Int("items", len(items)),
		zap.Int("dropped", listing.Dropped),
		zap.Int("total", total),
	)
	return &types.SearchResults{
		Items: items,
		Details: types.SearchDetails{
			TotalItems: total,
			NextPage:   ComputeNextPage(page, p.cfg.PageSize, total),
		},
	}, nil
}

// searchTotal uses the reported total when there is one. HTML listings do
// not report it, so the items seen so far stand in.
func searchTotal(l *extract.Listing, offset, n int) int {
	if n == 0 {
		return 0
	}
	if l.TotalKnown {
		return max(l.Total, offset+n)
	}
	return offset + n
}

// IDFromISBN searches for isbn and returns the identifier of the first
// result. Every failure, including an unreachable catalog, is reported as
// not found.
func (p *Provider) IDFromISBN(ctx context.Context, isbn string) (string, bool) {
	query := strings.TrimSpace(isbn)
	if normalized, ok := normalize.ISBN(query); ok {
		query = normalized
	}
	log := p.opLogger("isbn").With(zap.String("isbn", query))

	res, err := p.MetadataSearch(ctx, 1, query)
	if err != nil {
		if extract.IsParseError(err) {
			log.Warn("isbn lookup got an unreadable search page", zap.Error(err))
		} else {
			log.Debug("isbn lookup failed", zap.Error(err))
		}
		return "", false
	}
	if len(res.Items) == 0 {
		log.Debug("isbn not found")
		return "", false
	}
	return res.Items[0].Identifier, true
}

func (p *Provider) searchURL(query string, offset int) string {
	params := url.Values{
		"search_text": {query},
		"start":       {strconv.Itoa(offset)},
		"count":       {strconv.Itoa(p.cfg.PageSize)},
		"cat":         {bookCategory},
	}
	sep := "?"
	if strings.Contains(p.cfg.SearchURL, "?") {
		sep = "&"
	}
	return p.cfg.SearchURL + sep + params.Encode()
}
