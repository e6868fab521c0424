package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gimvic/schedule-sync/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for update runs and
// the ops HTTP surface. A nil receiver is a no-op, so wiring stays optional
// in tests.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	documentOutcomes *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	runDocuments     *prometheus.HistogramVec
	downloadBytes    *prometheus.HistogramVec
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	documentOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_document_outcomes_total",
		Help: "Per-document update outcomes by source and document kind",
	}, []string{"source", "kind", "action"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_run_duration_seconds",
		Help:    "Duration of one source update run",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"source"})

	runDocuments := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_run_documents",
		Help:    "Number of documents enumerated per source update run",
		Buckets: prometheus.LinearBuckets(0, 10, 10),
	}, []string{"source"})

	downloadBytes := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_download_bytes",
		Help:    "Size of downloaded documents in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	}, []string{"source", "kind"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(documentOutcomes, runDuration, runDocuments, downloadBytes, requestDuration, requestTotal, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		documentOutcomes: documentOutcomes,
		runDuration:      runDuration,
		runDocuments:     runDocuments,
		downloadBytes:    downloadBytes,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveDocument counts one per-document outcome.
func (m *MetricsService) ObserveDocument(source string, kind models.DocumentKind, action models.DocumentAction) {
	if m == nil {
		return
	}
	m.documentOutcomes.WithLabelValues(source, string(kind), string(action)).Inc()
}

// ObserveRun records run-level statistics.
func (m *MetricsService) ObserveRun(source string, result *models.RunResult) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(source).Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
	m.runDocuments.WithLabelValues(source).Observe(float64(len(result.Documents)))
}

// ObserveDownload records one downloaded document size.
func (m *MetricsService) ObserveDownload(source string, kind models.DocumentKind, size int) {
	if m == nil {
		return
	}
	m.downloadBytes.WithLabelValues(source, string(kind)).Observe(float64(size))
}

// ObserveHTTPRequest records ops endpoint request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}
