// Package metrics owns the Prometheus collectors exposed on /metrics. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"wastewatch/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wastewatch"

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	writes          *prometheus.CounterVec
	entriesByType   *prometheus.GaugeVec
	entriesTotal    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time spent serving HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
	m.writes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Documents appended by collection",
	}, []string{"collection"})
	m.entriesByType = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "waste_entries",
		Help:      "Waste entries per type as of the last stats computation",
	}, []string{"type"})
	m.entriesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "waste_entries_total",
		Help:      "Waste entries as of the last stats computation",
	})

	m.registry.MustRegister(
		m.requests, m.requestDuration, m.writes, m.entriesByType, m.entriesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordWrite(collection string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(collection).Inc()
}

// RecordStats replaces the per-type gauges with the given summary.
func (m *Metrics) RecordStats(summary types.StatsSummary) {
	if m == nil {
		return
	}
	m.entriesByType.Reset()
	for wasteType, count := range summary.TotalsByType {
		m.entriesByType.WithLabelValues(wasteType).Set(float64(count))
	}
	m.entriesTotal.Set(float64(summary.TotalEntries))
}
