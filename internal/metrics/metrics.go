// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus collectors shared across the
// movie-tracker components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movietracker",
		Name:      "provider_requests_total",
		Help:      "Total requests to the movie provider by operation and result status.",
	}, []string{"operation", "status"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "movietracker",
		Name:      "provider_request_duration_seconds",
		Help:      "Movie provider request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "movietracker",
		Name:      "cache_hits_total",
		Help:      "Total number of provider response cache hits.",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "movietracker",
		Name:      "cache_misses_total",
		Help:      "Total number of provider response cache misses.",
	})

	SearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movietracker",
		Name:      "searches_total",
		Help:      "Search session actions started, by action.",
	}, []string{"action"})

	StaleResponsesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movietracker",
		Name:      "stale_responses_total",
		Help:      "Provider responses discarded because a newer action superseded them.",
	}, []string{"action"})

	PosterDownloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movietracker",
		Name:      "poster_downloads_total",
		Help:      "Poster downloads by result: downloaded, skipped, or failed.",
	}, []string{"result"})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ProviderRequestsTotal,
		ProviderRequestDuration,
		CacheHitsTotal,
		CacheMissesTotal,
		SearchesTotal,
		StaleResponsesTotal,
		PosterDownloadsTotal,
	)
}

// WriteTextfile dumps the current values gathered from g to path in the
// Prometheus text format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
