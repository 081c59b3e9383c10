package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysisScore    *prometheus.HistogramVec
	cacheHitsTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "a11y",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "a11y",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Total completed analyses by grade and cache outcome.",
		},
		[]string{"service", "grade", "cache"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "a11y",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end analysis duration for uncached runs.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"service"},
	)
	analysisScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "a11y",
			Subsystem: "analysis",
			Name:      "overall_score",
			Help:      "Distribution of overall scores across analysed pages.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service"},
	)
	cacheHitsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total analyses served from the result cache.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysesTotal,
		analysisDuration,
		analysisScore,
		cacheHitsTotal,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		analysesTotal:    analysesTotal,
		analysisDuration: analysisDuration,
		analysisScore:    analysisScore,
		cacheHitsTotal:   cacheHitsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

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

// normalizePath keeps the path label cardinality bounded if routes
// ever grow dynamic segments.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/v1/reports/") {
		return "/v1/reports/{format}"
	}
	return path
}

// AnalysisRecorder adapts the metrics to the usecase observer hook.
type AnalysisRecorder struct {
	metrics *HTTPServerMetrics
	service string
}

func (m *HTTPServerMetrics) AnalysisRecorder(service string) *AnalysisRecorder {
	return &AnalysisRecorder{metrics: m, service: service}
}

func (r *AnalysisRecorder) ObserveAnalysis(grade domain.Grade, duration time.Duration, cacheHit bool) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
		r.metrics.cacheHitsTotal.WithLabelValues(r.service).Inc()
	}
	r.metrics.analysesTotal.WithLabelValues(r.service, string(grade), cache).Inc()
	if !cacheHit {
		r.metrics.analysisDuration.WithLabelValues(r.service).Observe(duration.Seconds())
	}
}

// ObserveScore records the score distribution for freshly computed
// results.
func (r *AnalysisRecorder) ObserveScore(score float64) {
	r.metrics.analysisScore.WithLabelValues(r.service).Observe(score)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
