package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysisInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "worker",
			Name:      "analyses_total",
			Help:      "Total queued analyses processed by status.",
		},
		[]string{"service", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "a11y",
			Subsystem: "worker",
			Name:      "analysis_duration_seconds",
			Help:      "Queued analysis duration in seconds by status.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"service", "status"},
	)
	analysisInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "a11y",
			Subsystem: "worker",
			Name:      "analyses_in_flight",
			Help:      "Number of in-flight queued analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(analysisTotal, analysisDuration, analysisInFlight)

	return &WorkerMetrics{
		registry:         registry,
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
		analysisInFlight: analysisInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartAnalysis() {
	m.analysisInFlight.Inc()
}

func (m *WorkerMetrics) FinishAnalysis(service string, duration time.Duration, err error) {
	m.analysisInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.analysisTotal.WithLabelValues(service, status).Inc()
	m.analysisDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
