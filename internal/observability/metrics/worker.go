package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the ingestion worker.
type WorkerMetrics struct {
	registry *prometheus.Registry

	processedTotal  *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sa",
			Subsystem: "worker",
			Name:      "documents_processed_total",
			Help:      "Documents processed by final status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sa",
			Subsystem: "worker",
			Name:      "process_duration_seconds",
			Help:      "Per-document processing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(processedTotal, processDuration)

	return &WorkerMetrics{
		registry:        registry,
		processedTotal:  processedTotal,
		processDuration: processDuration,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) ObserveProcessed(service, status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.processedTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service).Observe(duration.Seconds())
}
