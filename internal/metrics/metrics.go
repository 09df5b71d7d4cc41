package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hairswap"

// Metrics holds the collectors shared by the relay and the HTTP surface
type Metrics struct {
	registry *prometheus.Registry
	swaps    *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps_total",
			Help:      "Hairstyle swaps by outcome",
		}, []string{"outcome"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Duration of image synthesis calls",
			Buckets:   []float64{1, 5, 10, 20, 40, 60, 90, 120, 180},
		}, []string{"provider"}),
	}

	m.registry.MustRegister(m.swaps, m.upstream)

	return m
}

// ObserveSwap counts one finished swap. An empty outcome counts as "ok".
func (m *Metrics) ObserveSwap(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "ok"
	}
	m.swaps.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the time spent in a synthesis call
func (m *Metrics) ObserveUpstream(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(provider).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
