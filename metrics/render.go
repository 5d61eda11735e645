// Package metrics holds the prometheus instruments of the service.
// Every method is nil-safe so callers can run without metrics.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK        = "ok"
	OutcomeErrorPage = "error_page"
	OutcomeFailed    = "failed"
)

type Config struct {
	Namespace string
}

type Render struct {
	rendered  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cacheHits *prometheus.CounterVec
}

func NewRender(registerer prometheus.Registerer, cfg Config) *Render {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	ns := strings.TrimSpace(cfg.Namespace)

	rendered := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "documents_rendered_total",
			Help:      "Documents rendered by kind and outcome.",
		},
		[]string{"kind", "outcome"}, // ok | error_page | failed
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "document_render_seconds",
			Help:      "Time spent laying out and serializing one document.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)
	cacheHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "document_cache_requests_total",
			Help:      "Rendered document cache lookups by result.",
		},
		[]string{"kind", "result"}, // hit | miss
	)

	registerer.MustRegister(rendered, duration, cacheHits)

	return &Render{rendered: rendered, duration: duration, cacheHits: cacheHits}
}

func (m *Render) ObserveRender(kind string, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.rendered.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(took.Seconds())
}

func (m *Render) ObserveCache(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(kind, result).Inc()
}
