package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the operation module.
type Metrics struct {
	// Eligibility outcomes by action (create/amend) and result
	EligibilityOutcome *prometheus.CounterVec

	// Disclosure outcomes by result
	DisclosureOutcome *prometheus.CounterVec

	// Full workflow latency by action
	WorkflowLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all operation module metrics registered.
func New() *Metrics {
	return &Metrics{
		EligibilityOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sgprep_eligibility_outcomes_total",
			Help: "Total eligibility submission outcomes by action and result",
		}, []string{"action", "result"}), // action: "create", "amend"; result: "ok", "validation_failed", "not_found", "invariant", "error"

		DisclosureOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sgprep_disclosure_outcomes_total",
			Help: "Total project profile disclosure outcomes by result",
		}, []string{"result"}),

		WorkflowLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sgprep_operation_workflow_duration_seconds",
			Help:    "Duration of operation workflows including store and collaborator calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"action"}),
	}
}

// IncrementEligibility records an eligibility workflow outcome.
func (m *Metrics) IncrementEligibility(action, result string) {
	if m != nil {
		m.EligibilityOutcome.WithLabelValues(action, result).Inc()
	}
}

// IncrementDisclosure records a disclosure outcome.
func (m *Metrics) IncrementDisclosure(result string) {
	if m != nil {
		m.DisclosureOutcome.WithLabelValues(result).Inc()
	}
}

// ObserveWorkflow records a workflow duration.
func (m *Metrics) ObserveWorkflow(action string, d time.Duration) {
	if m != nil {
		m.WorkflowLatency.WithLabelValues(action).Observe(d.Seconds())
	}
}
