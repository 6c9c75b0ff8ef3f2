// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/bookmeta/internal/cache"
	"github.com/pdiddy/bookmeta/internal/catalog"
	"github.com/pdiddy/bookmeta/internal/fetch"
	"github.com/pdiddy/bookmeta/internal/logging"
	"github.com/pdiddy/bookmeta/internal/metrics"
	"github.com/pdiddy/bookmeta/internal/secrets"
	"github.com/pdiddy/bookmeta/pkg/types"
)

// setDefaults registers every config key so that environment variables
// such as BOOKMETA_FETCH_MIN_DELAY reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := types.Default()
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agents", d.Fetch.UserAgents)
	v.SetDefault("fetch.referer", d.Fetch.Referer)
	v.SetDefault("fetch.accept_language", d.Fetch.AcceptLanguage)
	v.SetDefault("fetch.cookie", "")
	v.SetDefault("fetch.min_delay", d.Fetch.MinDelay)
	v.SetDefault("fetch.max_delay", d.Fetch.MaxDelay)
	v.SetDefault("fetch.max_attempts", d.Fetch.MaxAttempts)
	v.SetDefault("fetch.backoff_unit", d.Fetch.BackoffUnit)
	v.SetDefault("fetch.block_signatures", d.Fetch.BlockSignatures)
	v.SetDefault("fetch.hourly_budget", d.Fetch.HourlyBudget)
	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	v.SetDefault("catalog.search_url", d.Catalog.SearchURL)
	v.SetDefault("catalog.image_size", d.Catalog.ImageSize)
	v.SetDefault("catalog.page_size", d.Catalog.PageSize)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

// loadConfig decodes the merged flag, env, file and default settings.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// app bundles the wired components of one command run.
type app struct {
	provider *catalog.Provider
	registry *prometheus.Registry
	log      *zap.Logger
	store    *cache.Store
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	a.log.Sync()
}

// newApp wires logger, metrics, secrets, cache, fetcher and provider from
// the command's configuration.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(secretsDir, log)
	if err != nil {
		return nil, err
	}
	if cookie, ok := s[secrets.CatalogCookie]; ok && cfg.Fetch.Cookie == "" {
		cfg.Fetch.Cookie = cookie
		log.Debug("using catalog cookie from secrets")
	}

	a := &app{registry: prometheus.NewRegistry(), log: log}
	m := metrics.New(a.registry)

	opts := []fetch.Option{fetch.WithLogger(log.Named("fetch")), fetch.WithMetrics(m)}
	if cfg.Cache.Path != "" {
		a.store, err = cache.Open(cfg.Cache)
		if err != nil {
			return nil, err
		}
		if n, err := a.store.Prune(cmd.Context()); err != nil {
			log.Warn("pruning page cache", zap.Error(err))
		} else if n > 0 {
			log.Debug("pruned page cache", zap.Int64("removed", n))
		}
		opts = append(opts, fetch.WithCache(a.store))
	}

	f := fetch.New(cfg.Fetch, opts...)
	a.provider = catalog.New(cfg.Catalog, f,
		catalog.WithLogger(log.Named("catalog")),
		catalog.WithMetrics(m),
	)
	return a, nil
}

// finish prints metrics when requested and releases resources.
func (a *app) finish(cmd *cobra.Command) {
	if show, _ := cmd.Flags().GetBool("metrics"); show {
		if err := printMetrics(cmd.ErrOrStderr(), a.registry); err != nil {
			a.log.Warn("gathering metrics", zap.Error(err))
		}
	}
	a.Close()
}
