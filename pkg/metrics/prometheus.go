package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsSent       *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	stockLevel       *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
	forecastsTotal   *prometheus.CounterVec
	trainingDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		eventsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_events_sent_total",
				Help: "Total number of stock events sent to backend",
			},
			[]string{"backend", "product"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		stockLevel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_stock_level",
				Help: "Last observed stock level for a product",
			},
			[]string{"product"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_forecasts_generated_total",
				Help: "Total number of item forecasts generated by risk level",
			},
			[]string{"risk"},
		),
		trainingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockcast_training_duration_seconds",
				Help:    "Duration of demand model training runs in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
		),
	}
}

// RecordEventSent records a stock event sent to a backend.
func (r *Recorder) RecordEventSent(backend, productID string) {
	r.eventsSent.WithLabelValues(backend, productID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStockLevel records the last seen stock level for a product.
func (r *Recorder) RecordStockLevel(productID string, stock int) {
	r.stockLevel.WithLabelValues(productID).Set(float64(stock))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordForecast counts one generated forecast by risk level.
func (r *Recorder) RecordForecast(risk string) {
	r.forecastsTotal.WithLabelValues(risk).Inc()
}

// RecordTrainingDuration records one training run's duration.
func (r *Recorder) RecordTrainingDuration(seconds float64) {
	r.trainingDuration.Observe(seconds)
}
