// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch issues rate-limited, retrying GET requests against the
// catalog. One Fetcher admits a single attempt at a time and spaces the
// start of each attempt from the completion of the previous one by the
// configured floor delay plus jitter. Soft blocks back off exponentially,
// transport failures linearly.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/bookmeta/internal/metrics"
	"github.com/pdiddy/bookmeta/pkg/types"
)

const maxBodySize = 10 << 20

// Cache is consulted before the network. Only successful bodies are stored.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Put(ctx context.Context, url string, body []byte) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock replaces the wall clock used for delays and backoff.
func WithClock(c Clock) Option { return func(f *Fetcher) { f.clock = c } }

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// WithMetrics records attempt outcomes on m.
func WithMetrics(m *metrics.Metrics) Option { return func(f *Fetcher) { f.metrics = m } }

// WithCache enables the page cache.
func WithCache(c Cache) Option { return func(f *Fetcher) { f.cache = c } }

// WithHTTPClient replaces the HTTP client. Per-attempt timeouts are applied
// through the request context, so the client needs no Timeout of its own.
func WithHTTPClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

// WithRand seeds the source used for jitter and User-Agent selection.
func WithRand(r *rand.Rand) Option { return func(f *Fetcher) { f.rng = r } }

// Fetcher is safe for concurrent use.
type Fetcher struct {
	cfg     types.FetchConfig
	client  *http.Client
	clock   Clock
	log     *zap.Logger
	metrics *metrics.Metrics
	cache   Cache
	budget  *rate.Limiter

	// gate admits one attempt at a time. It is held from the delay check
	// until the attempt completes, even when the caller has gone away.
	gate chan struct{}

	mu            sync.Mutex
	lastCompleted time.Time
	rng           *rand.Rand
}

type result struct {
	resp *http.Response
	body []byte
	err  error
}

// New creates a Fetcher. Zero fields of cfg take their default values.
func New(cfg types.FetchConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:    withDefaults(cfg),
		client: &http.Client{},
		clock:  realClock{},
		log:    zap.NewNop(),
		gate:   make(chan struct{}, 1),
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cfg.HourlyBudget > 0 {
		f.budget = rate.NewLimiter(rate.Every(time.Hour/time.Duration(f.cfg.HourlyBudget)), 1)
	}
	return f
}

func withDefaults(cfg types.FetchConfig) types.FetchConfig {
	def := types.Default().Fetch
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = def.AcceptLanguage
	}
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = DefaultUserAgents
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = def.MinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = def.BackoffUnit
	}
	if len(cfg.BlockSignatures) == 0 {
		cfg.BlockSignatures = DefaultBlockSignatures
	}
	return cfg
}

// Fetch returns the body of url. Transient failures and soft blocks are
// retried up to MaxAttempts; the returned error then matches
// ErrRetriesExhausted. A 404 returns an error matching ErrNotFound. Once
// ctx is done no further attempts are made and ctx.Err() is returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.cached(ctx, url); ok {
		return body, nil
	}

	log := f.log.With(zap.String("url", url))
	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := f.backoff(lastErr, attempt-1)
			log.Debug("backing off", zap.Int("attempt", attempt), zap.Duration("wait", wait))
			if err := f.clock.Sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := f.attempt(ctx, url, log.With(zap.Int("attempt", attempt+1)))
		if err != nil && ctx.Err() != nil {
			f.metrics.Attempt(metrics.OutcomeCancelled)
			return nil, ctx.Err()
		}
		f.metrics.Attempt(outcome(err))
		if err == nil {
			log.Debug("fetch complete", zap.Stringer("state", StateSuccess), zap.Int("bytes", len(body)))
			f.store(ctx, url, body)
			return body, nil
		}
		if !retryable(err) {
			return nil, err
		}

		lastErr = err
		state := StateFailedRetry
		if errors.Is(err, ErrSoftBlock) {
			state = StateBlockedRetry
		}
		log.Warn("fetch attempt failed", zap.Stringer("state", state), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	f.metrics.Exhausted()
	log.Warn("giving up", zap.Stringer("state", StateExhausted), zap.Int("attempts", f.cfg.MaxAttempts))
	return nil, &FetchError{Kind: KindExhausted, URL: url, Attempts: f.cfg.MaxAttempts, Err: lastErr}
}

// backoff returns the wait after failed attempt n (zero-based).
func (f *Fetcher) backoff(err error, n int) time.Duration {
	if errors.Is(err, ErrSoftBlock) {
		return time.Duration(1<<(n+1)) * f.cfg.BackoffUnit
	}
	return time.Duration(1+n) * f.cfg.BackoffUnit
}

// attempt performs one admitted request. The network call runs on a
// context detached from ctx so that an abandoned request still completes
// and is recorded before the next attempt is admitted.
func (f *Fetcher) attempt(ctx context.Context, url string, log *zap.Logger) ([]byte, error) {
	select {
	case f.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := f.admit(ctx, log); err != nil {
		<-f.gate
		return nil, err
	}

	ua := f.pickUserAgent()
	done := make(chan result, 1)
	go func() {
		defer func() { <-f.gate }()
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.Timeout)
		defer cancel()
		r := f.roundTrip(actx, url, ua)
		f.markCompleted()
		done <- r
	}()

	log.Debug("requesting", zap.Stringer("state", StateRequesting))
	select {
	case <-ctx.Done():
		log.Debug("caller gone, discarding in-flight attempt")
		return nil, ctx.Err()
	case r := <-done:
		return f.classify(ctx, url, r)
	}
}

// admit waits for the hourly budget and the floor delay.
func (f *Fetcher) admit(ctx context.Context, log *zap.Logger) error {
	if f.budget != nil {
		if err := f.budget.Wait(ctx); err != nil {
			return err
		}
	}

	f.mu.Lock()
	var wait time.Duration
	if !f.lastCompleted.IsZero() && f.clock.Now().Sub(f.lastCompleted) < f.cfg.MinDelay {
		wait = f.cfg.MinDelay
		if span := f.cfg.MaxDelay - f.cfg.MinDelay; span > 0 {
			wait += time.Duration(f.rng.Int64N(int64(span)))
		}
	}
	f.mu.Unlock()

	if wait == 0 {
		return nil
	}
	log.Debug("delaying", zap.Stringer("state", StateDelaying), zap.Duration("wait", wait))
	return f.clock.Sleep(ctx, wait)
}

func (f *Fetcher) pickUserAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.UserAgents[f.rng.IntN(len(f.cfg.UserAgents))]
}

func (f *Fetcher) markCompleted() {
	f.mu.Lock()
	f.lastCompleted = f.clock.Now()
	f.mu.Unlock()
}

func (f *Fetcher) lastCompletion() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCompleted
}

func (f *Fetcher) roundTrip(ctx context.Context, url, ua string) result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result{err: err}
	}
	f.setHeaders(req, ua)

	resp, err := f.client.Do(req)
	if err != nil {
		return result{err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return result{err: fmt.Errorf("reading body: %w", err)}
	}
	return result{resp: resp, body: body}
}

// readBody decodes gzip and deflate bodies. The transport leaves them
// encoded because Accept-Encoding is set explicitly.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = io.LimitReader(resp.Body, maxBodySize)
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return io.ReadAll(r)
}

func (f *Fetcher) classify(ctx context.Context, url string, r result) ([]byte, error) {
	if r.err != nil {
		if retry, _ := retryablehttp.DefaultRetryPolicy(ctx, nil, r.err); retry {
			return nil, &FetchError{Kind: KindNetwork, URL: url, Err: r.err}
		}
		return nil, &FetchError{Kind: KindRequest, URL: url, Err: r.err}
	}

	status := r.resp.StatusCode
	switch status {
	case http.StatusNotFound:
		return nil, &FetchError{Kind: KindStatus, URL: url, Status: status, Err: ErrNotFound}
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, &FetchError{Kind: KindBlocked, URL: url, Status: status}
	}
	if retry, _ := retryablehttp.DefaultRetryPolicy(ctx, r.resp, nil); retry {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Status: status, Err: fmt.Errorf("HTTP %d", status)}
	}
	if status < 200 || status >= 300 {
		return nil, &FetchError{Kind: KindStatus, URL: url, Status: status}
	}

	if sig := f.blockSignature(r.body); sig != "" {
		f.log.Debug("block signature matched", zap.String("url", url), zap.String("signature", sig))
		return nil, &FetchError{Kind: KindBlocked, URL: url, Status: status}
	}
	return r.body, nil
}

func (f *Fetcher) blockSignature(body []byte) string {
	text := string(body)
	for _, sig := range f.cfg.BlockSignatures {
		if sig != "" && strings.Contains(text, sig) {
			return sig
		}
	}
	return ""
}

func (f *Fetcher) cached(ctx context.Context, url string) ([]byte, bool) {
	if f.cache == nil {
		return nil, false
	}
	body, ok, err := f.cache.Get(ctx, url)
	if err != nil {
		f.log.Warn("page cache read failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	if ok {
		f.metrics.CacheHit()
		f.log.Debug("page cache hit", zap.String("url", url))
	}
	return body, ok
}

func (f *Fetcher) store(ctx context.Context, url string, body []byte) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Put(ctx, url, body); err != nil {
		f.log.Warn("page cache write failed", zap.String("url", url), zap.Error(err))
	}
}

func outcome(err error) string {
	var fe *FetchError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &fe) && fe.Kind == KindBlocked:
		return metrics.OutcomeBlocked
	case errors.As(err, &fe) && fe.Kind == KindNetwork:
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeError
	}
}
