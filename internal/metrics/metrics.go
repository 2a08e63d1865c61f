// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the resolution pipeline.
type Metrics struct {
	Resolutions  *prometheus.CounterVec // labels: outcome={success,validation_error,exhausted}
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	CacheEntries prometheus.Gauge

	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome={success,<failure kind>,skipped}
	ProviderDuration *prometheus.HistogramVec // labels: provider
	ActiveProviders  prometheus.Gauge
}

// New creates all service metrics and registers them with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revgeod",
			Name:      "resolutions_total",
			Help:      "Reverse geocode resolutions by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revgeod",
			Name:      "cache_lookups_total",
			Help:      "Address cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revgeod",
			Name:      "cache_entries",
			Help:      "Number of entries currently held in the address cache.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revgeod",
			Name:      "provider_requests_total",
			Help:      "Provider resolution attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "revgeod",
			Name:      "provider_duration_seconds",
			Help:      "Provider API call duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		ActiveProviders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revgeod",
			Name:      "active_providers",
			Help:      "Number of providers in the active resolution chain.",
		}),
	}

	reg.MustRegister(
		m.Resolutions,
		m.CacheLookups,
		m.CacheEntries,
		m.ProviderRequests,
		m.ProviderDuration,
		m.ActiveProviders,
	)

	return m
}
