package metrics

import "time"

// EvaluationCompleted records a successful evaluation
func EvaluationCompleted(kind string, duration time.Duration) {
	EvaluationsTotal.WithLabelValues(kind, "completed").Inc()
	EvaluationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// EvaluationFailed records an evaluation that returned an error
func EvaluationFailed(kind string) {
	EvaluationsTotal.WithLabelValues(kind, "failed").Inc()
}

// ViolationDetected records one compliance violation
func ViolationDetected(violationType, severity string) {
	ViolationsTotal.WithLabelValues(violationType, severity).Inc()
}

// ShiftScored records the scores of one shift
func ShiftScored(riskIndex, fatigueIndex float64) {
	ShiftsScored.Inc()
	RiskIndex.Observe(riskIndex)
	FatigueIndex.Observe(fatigueIndex)
}
