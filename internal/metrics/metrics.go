// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus counters exported by the fetcher,
// the page cache, and the extractor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch attempt outcomes used as the "outcome" label value.
const (
	OutcomeSuccess  = "success"
	OutcomeBlocked  = "blocked"
	OutcomeFailed   = "failed"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"

	// OutcomeCancelled marks attempts abandoned because the caller's
	// context was done.
	OutcomeCancelled = "cancelled"
)

// Metrics holds the bookmeta counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	FetchAttempts     *prometheus.CounterVec
	FetchExhausted    prometheus.Counter
	CacheHits         prometheus.Counter
	CandidatesDropped prometheus.Counter
}

// New creates the counters and registers them on reg. Passing a fresh
// prometheus.NewRegistry() keeps independent instances apart (tests,
// multiple providers in one process).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmeta_fetch_attempts_total",
				Help: "Number of outbound fetch attempts by outcome",
			},
			[]string{"outcome"},
		),
		FetchExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookmeta_fetch_exhausted_total",
			Help: "Number of fetches that ran out of attempts",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookmeta_cache_hits_total",
			Help: "Number of fetches served from the page cache",
		}),
		CandidatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookmeta_extract_candidates_dropped_total",
			Help: "Number of search candidates dropped for lacking an identifier or title",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.FetchAttempts, m.FetchExhausted, m.CacheHits, m.CandidatesDropped)
	}
	return m
}

// Attempt counts one fetch attempt with the given outcome.
func (m *Metrics) Attempt(outcome string) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(outcome).Inc()
}

// Exhausted counts one fetch that gave up after its last attempt.
func (m *Metrics) Exhausted() {
	if m == nil {
		return
	}
	m.FetchExhausted.Inc()
}

// CacheHit counts one cache-served fetch.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// Dropped counts n discarded search candidates.
func (m *Metrics) Dropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CandidatesDropped.Add(float64(n))
}
