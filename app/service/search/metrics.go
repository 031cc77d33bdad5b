package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	outcomeOK        = "ok"
	outcomeEmpty     = "empty"
	outcomeMalformed = "malformed"
	outcomeDangling  = "dangling"
	outcomeTransport = "transport"
	outcomeStale     = "stale"
	outcomeCanceled  = "canceled"
	outcomeInvalid   = "invalid"
)

type Metrics struct {
	registry *prometheus.Registry
	searches *prometheus.CounterVec
	rows     prometheus.Histogram
	latency  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosearch",
			Name:      "graph_searches_total",
			Help:      "Graph searches by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "biosearch",
			Name:      "graph_search_rows",
			Help:      "Display rows produced per published search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "biosearch",
			Name:      "graph_search_backend_seconds",
			Help:      "Latency of graph/search backend calls.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.searches,
		m.rows,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) outcome(name string) {
	m.searches.WithLabelValues(name).Inc()
}
