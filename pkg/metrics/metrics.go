package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rail_roster"

// Registry holds every rail_roster metric. It is separate from the default registry
// so a CLI run can dump only its own metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Evaluation metrics
var (
	EvaluationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of fatigue and compliance evaluations",
		},
		[]string{"kind", "status"},
	)

	EvaluationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Evaluation time distribution",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"kind"},
	)
)

// Compliance metrics
var (
	ViolationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Total number of compliance violations found",
		},
		[]string{"type", "severity"},
	)

	AssignmentsExpanded = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_expanded_total",
			Help:      "Total number of assignments produced from roster rules",
		},
	)
)

// Fatigue metrics
var (
	ShiftsScored = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_scored_total",
			Help:      "Total number of shifts given a risk and fatigue score",
		},
	)

	RiskIndex = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_index",
			Help:      "Cumulative risk index distribution",
			Buckets:   []float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.4, 1.6, 2},
		},
	)

	FatigueIndex = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fatigue_index",
			Help:      "Fatigue index distribution",
			Buckets:   []float64{10, 20, 30, 35, 40, 50, 60, 80},
		},
	)
)

// WriteTextfile writes the current value of every metric in Registry in the
// Prometheus text format, for collection by a node exporter textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
