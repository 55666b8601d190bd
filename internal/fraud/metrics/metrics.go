package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fraud module.
type Metrics struct {
	// Activity fetch latencies by source
	FetchLatency *prometheus.HistogramVec

	// Individual check hits by check name
	CheckHits *prometheus.CounterVec

	// Check panics recovered
	CheckPanics *prometheus.CounterVec

	// Aggregate fraud score distribution
	ScoreTotal prometheus.Histogram

	// Overall scoring latency
	ScoreLatency prometheus.Histogram
}

// New creates a new Metrics instance with all fraud module metrics registered.
func New() *Metrics {
	return &Metrics{
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "refguard_fraud_fetch_duration_seconds",
			Help:    "Duration of activity fetches by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}), // source: "posts", "messages", "interactions", "devices"

		CheckHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_fraud_check_hits_total",
			Help: "Total checks that contributed a non-zero score, by check",
		}, []string{"check"}),

		CheckPanics: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_fraud_check_panics_total",
			Help: "Total checks that panicked and were neutralized, by check",
		}, []string{"check"}),

		ScoreTotal: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "refguard_fraud_score_total",
			Help:    "Distribution of aggregate fraud scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		ScoreLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "refguard_fraud_score_duration_seconds",
			Help:    "Duration of a full scoring pass including activity fetches",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveFetchLatency records the duration of one activity fetch.
func (m *Metrics) ObserveFetchLatency(source string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementCheckHit records a check contributing a non-zero score.
func (m *Metrics) IncrementCheckHit(check string) {
	if m != nil {
		m.CheckHits.WithLabelValues(check).Inc()
	}
}

// IncrementCheckPanic records a recovered check panic.
func (m *Metrics) IncrementCheckPanic(check string) {
	if m != nil {
		m.CheckPanics.WithLabelValues(check).Inc()
	}
}

// ObserveScore records the aggregate score and total pass duration.
func (m *Metrics) ObserveScore(total int, d time.Duration) {
	if m != nil {
		m.ScoreTotal.Observe(float64(total))
		m.ScoreLatency.Observe(d.Seconds())
	}
}
