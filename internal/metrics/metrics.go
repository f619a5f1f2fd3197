// Package metrics exposes prometheus counters for provider traffic and cache efficiency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every daybrief collector; it is separate from the global default registry.
var Registry = prometheus.NewRegistry()

var (
	// ProviderRequests counts provider attempts by outcome: ok, empty, error, auth, skipped.
	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daybrief",
		Name:      "provider_requests_total",
		Help:      "Provider attempts made by the fallback chain, by outcome.",
	}, []string{"provider", "outcome"})

	// CacheLookups counts time-windowed cache reads by result: hit, miss, error.
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daybrief",
		Name:      "cache_lookups_total",
		Help:      "Time-windowed cache lookups, by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(ProviderRequests, CacheLookups)
}

// Handler serves the registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
