package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics holds the API server's Prometheus registry: generic HTTP
// request metrics plus the retrieval pipeline's own counters.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	classificationTotal *prometheus.CounterVec
	retrievalHitTotal   *prometheus.CounterVec
	noContextTotal      *prometheus.CounterVec
	rerankPoolSize      *prometheus.HistogramVec
	queryDuration       *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sa",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	classificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sa",
			Subsystem: "retrieval",
			Name:      "classification_total",
			Help:      "Retrieval requests by resolved classification label.",
		},
		[]string{"service", "classification"},
	)
	retrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sa",
			Subsystem: "retrieval",
			Name:      "hit_total",
			Help:      "Retrieval requests that produced at least one grounding document.",
		},
		[]string{"service"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sa",
			Subsystem: "retrieval",
			Name:      "no_context_total",
			Help:      "Study-related retrieval requests without grounding documents.",
		},
		[]string{"service"},
	)
	rerankPoolSize := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sa",
			Subsystem: "retrieval",
			Name:      "rerank_pool_size",
			Help:      "Documents passed from the lexical stage to semantic re-ranking.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		},
		[]string{"service"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sa",
			Subsystem: "retrieval",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query processing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		classificationTotal,
		retrievalHitTotal,
		noContextTotal,
		rerankPoolSize,
		queryDuration,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		classificationTotal: classificationTotal,
		retrievalHitTotal:   retrievalHitTotal,
		noContextTotal:      noContextTotal,
		rerankPoolSize:      rerankPoolSize,
		queryDuration:       queryDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/profiles/"):
		return "/v1/profiles/{user_id}"
	default:
		return path
	}
}

type RetrievalRecorder struct {
	service string
	metrics *HTTPServerMetrics
}

// RetrievalRecorder adapts the registry to the query use case's observation
// hook.
func (m *HTTPServerMetrics) NewRetrievalRecorder(service string) *RetrievalRecorder {
	return &RetrievalRecorder{service: service, metrics: m}
}

func (r *RetrievalRecorder) ObserveRetrieval(classification string, documentCount, poolSize int) {
	if classification == "" {
		classification = "unknown"
	}
	r.metrics.classificationTotal.WithLabelValues(r.service, classification).Inc()
	r.metrics.rerankPoolSize.WithLabelValues(r.service).Observe(float64(poolSize))

	if documentCount > 0 {
		r.metrics.retrievalHitTotal.WithLabelValues(r.service).Inc()
		return
	}
	if classification == "study-related" {
		r.metrics.noContextTotal.WithLabelValues(r.service).Inc()
	}
}

func (m *HTTPServerMetrics) ObserveQueryDuration(service string, duration time.Duration) {
	m.queryDuration.WithLabelValues(service).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
