package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Finalization outcomes by decision
	Outcomes *prometheus.CounterVec

	// Admin overrides applied
	Overrides prometheus.Counter

	// Records created
	RecordsCreated prometheus.Counter
}

// New creates a new Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_verification_outcomes_total",
			Help: "Total finalization outcomes by decision",
		}, []string{"decision"}), // decision: "verify", "block", "flag"

		Overrides: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refguard_verification_overrides_total",
			Help: "Total admin overrides that reversed a block",
		}),

		RecordsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refguard_verification_records_created_total",
			Help: "Total verification records created at code redemption",
		}),
	}
}

// IncrementOutcome records a finalization outcome.
func (m *Metrics) IncrementOutcome(decision string) {
	if m != nil {
		m.Outcomes.WithLabelValues(decision).Inc()
	}
}

// IncrementOverride records an applied admin override.
func (m *Metrics) IncrementOverride() {
	if m != nil {
		m.Overrides.Inc()
	}
}

// IncrementRecordsCreated records a new verification record.
func (m *Metrics) IncrementRecordsCreated() {
	if m != nil {
		m.RecordsCreated.Inc()
	}
}
