package types

import "time"

// HTTPConfig holds the per-request HTTP settings of the fetcher.
type HTTPConfig struct {
	// Timeout bounds a single network attempt (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgents is the pool a User-Agent is drawn from for each request.
	// An empty pool falls back to the built-in browser pool.
	UserAgents []string `json:"user_agents,omitempty" yaml:"user_agents,omitempty" mapstructure:"user_agents"`

	// Referer is sent with every request (default: the catalog base URL).
	Referer string `json:"referer,omitempty" yaml:"referer,omitempty" mapstructure:"referer"`

	// AcceptLanguage is sent as the Accept-Language header.
	AcceptLanguage string `json:"accept_language,omitempty" yaml:"accept_language,omitempty" mapstructure:"accept_language"`

	// Cookie is an optional static Cookie header value.
	Cookie string `json:"-" yaml:"-" mapstructure:"cookie"`
}

// FetchConfig holds the rate-limit and retry policy of the fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MinDelay is the page floor delay: the minimum spacing between a
	// completed request and the start of the next one (default 2s).
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay" mapstructure:"min_delay"`

	// MaxDelay is the exclusive upper bound of the randomized delay
	// (default 3s). Values below MinDelay are raised to MinDelay.
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`

	// MaxAttempts is the total number of attempts per fetch (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// BackoffUnit scales retry backoff: soft blocks wait 2^(n+1) units,
	// failures wait (1+n) units, where n is the failed attempt index
	// (default 1s).
	BackoffUnit time.Duration `json:"backoff_unit" yaml:"backoff_unit" mapstructure:"backoff_unit"`

	// BlockSignatures are body substrings that mark a soft block.
	BlockSignatures []string `json:"block_signatures,omitempty" yaml:"block_signatures,omitempty" mapstructure:"block_signatures"`

	// HourlyBudget caps requests per hour; 0 means unlimited.
	HourlyBudget int `json:"hourly_budget" yaml:"hourly_budget" mapstructure:"hourly_budget"`
}

// CatalogConfig describes the catalog site the pipeline talks to.
type CatalogConfig struct {
	// BaseURL is the catalog host; detail pages live at
	// {BaseURL}/subject/{id}/ (default "https://book.douban.com").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// SearchURL is the search endpoint, HTML or JSON
	// (default "https://search.douban.com/book/subject_search").
	SearchURL string `json:"search_url" yaml:"search_url" mapstructure:"search_url"`

	// ImageSize selects the cover variant: "s", "m", "l", or "" to keep
	// the URL as found.
	ImageSize string `json:"image_size" yaml:"image_size" mapstructure:"image_size"`

	// PageSize is the number of items requested per search page (default 20).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// CacheConfig configures the optional raw page cache.
type CacheConfig struct {
	// Path is the SQLite database file. Empty disables the cache.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached page stays fresh (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to the colored console encoder.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups every configurable part of bookmeta.
type Config struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultPageSize is the number of items per search page.
const DefaultPageSize = 20

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:        15 * time.Second,
				Referer:        "https://book.douban.com/",
				AcceptLanguage: "zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7",
			},
			MinDelay:    2 * time.Second,
			MaxDelay:    3 * time.Second,
			MaxAttempts: 3,
			BackoffUnit: time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL:   "https://book.douban.com",
			SearchURL: "https://search.douban.com/book/subject_search",
			PageSize:  DefaultPageSize,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
