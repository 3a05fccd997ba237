package compliance

import (
	"time"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
)

// ViolationType identifies the rule a violation was raised by.
// The string values are a stable vocabulary shared with report consumers.
type ViolationType string

const (
	ViolationMaxShiftLength           ViolationType = "MAX_SHIFT_LENGTH"
	ViolationInsufficientRest         ViolationType = "INSUFFICIENT_REST"
	ViolationMultipleShiftsSameDay    ViolationType = "MULTIPLE_SHIFTS_SAME_DAY"
	ViolationDayNightTransition       ViolationType = "DAY_NIGHT_TRANSITION"
	ViolationLevel1Exceedance         ViolationType = "LEVEL_1_EXCEEDANCE"
	ViolationLevel2Exceedance         ViolationType = "LEVEL_2_EXCEEDANCE"
	ViolationConsecutiveDaysWarning   ViolationType = "CONSECUTIVE_DAYS_WARNING"
	ViolationMaxConsecutiveDays       ViolationType = "MAX_CONSECUTIVE_DAYS"
	ViolationConsecutiveNightsWarning ViolationType = "CONSECUTIVE_NIGHTS_WARNING"
	ViolationMaxConsecutiveNights     ViolationType = "MAX_CONSECUTIVE_NIGHTS"
	ViolationHighRiskIndex            ViolationType = "HIGH_RISK_INDEX"
	ViolationHighFatigueIndex         ViolationType = "HIGH_FATIGUE_INDEX"
)

// AllViolationTypes lists every violation type in display order
func AllViolationTypes() []ViolationType {
	return []ViolationType{
		ViolationMaxShiftLength,
		ViolationInsufficientRest,
		ViolationMultipleShiftsSameDay,
		ViolationDayNightTransition,
		ViolationLevel1Exceedance,
		ViolationLevel2Exceedance,
		ViolationConsecutiveDaysWarning,
		ViolationMaxConsecutiveDays,
		ViolationConsecutiveNightsWarning,
		ViolationMaxConsecutiveNights,
		ViolationHighRiskIndex,
		ViolationHighFatigueIndex,
	}
}

// String returns the string representation of the violation type
func (t ViolationType) String() string {
	return string(t)
}

// IsValid returns true if the violation type is part of the vocabulary
func (t ViolationType) IsValid() bool {
	for _, known := range AllViolationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Severity ranks how serious a violation is
type Severity string

const (
	SeverityBreach  Severity = "breach"
	SeverityLevel2  Severity = "level2"
	SeverityLevel1  Severity = "level1"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// AllSeverities lists every severity from most to least severe
func AllSeverities() []Severity {
	return []Severity{SeverityBreach, SeverityLevel2, SeverityLevel1, SeverityWarning, SeverityInfo}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// Rank orders severities. Higher is more severe. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityBreach:
		return 5
	case SeverityLevel2:
		return 4
	case SeverityLevel1:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// IsValid returns true if the severity is a recognized value
func (s Severity) IsValid() bool {
	return s.Rank() > 0
}

// IsError returns true for severities that make a schedule non-compliant
func (s Severity) IsError() bool {
	return s == SeverityBreach || s == SeverityLevel2
}

// IsWarning returns true for severities that need mitigation but do not block a schedule
func (s Severity) IsWarning() bool {
	return s == SeverityLevel1 || s == SeverityWarning
}

// Detail is the rule-specific payload of a violation. The set of implementations is
// closed: consumers can switch over the concrete types without a default branch.
type Detail interface {
	detail()
}

// ShiftLengthDetail accompanies MAX_SHIFT_LENGTH
type ShiftLengthDetail struct {
	AssignmentID string  `json:"assignmentId" yaml:"assignmentId"`
	StartTime    string  `json:"startTime" yaml:"startTime"`
	EndTime      string  `json:"endTime" yaml:"endTime"`
	Hours        float64 `json:"hours" yaml:"hours"`
}

// RestDetail accompanies INSUFFICIENT_REST
type RestDetail struct {
	PreviousAssignmentID string    `json:"previousAssignmentId" yaml:"previousAssignmentId"`
	NextAssignmentID     string    `json:"nextAssignmentId" yaml:"nextAssignmentId"`
	PreviousEnd          time.Time `json:"previousEnd" yaml:"previousEnd"`
	NextStart            time.Time `json:"nextStart" yaml:"nextStart"`
	RestHours            float64   `json:"restHours" yaml:"restHours"`
}

// SameDayDetail accompanies MULTIPLE_SHIFTS_SAME_DAY and DAY_NIGHT_TRANSITION
type SameDayDetail struct {
	AssignmentIDs []string `json:"assignmentIds" yaml:"assignmentIds"`
	HasDayShift   bool     `json:"hasDayShift" yaml:"hasDayShift"`
	HasNightShift bool     `json:"hasNightShift" yaml:"hasNightShift"`
}

// WeeklyHoursDetail accompanies LEVEL_1_EXCEEDANCE and LEVEL_2_EXCEEDANCE.
// The window covers [WindowStart, WindowEnd).
type WeeklyHoursDetail struct {
	WindowStart string  `json:"windowStart" yaml:"windowStart"`
	WindowEnd   string  `json:"windowEnd" yaml:"windowEnd"`
	Hours       float64 `json:"hours" yaml:"hours"`
	ShiftCount  int     `json:"shiftCount" yaml:"shiftCount"`
}

// ConsecutiveDetail accompanies the consecutive days and consecutive nights types
type ConsecutiveDetail struct {
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
	Length    int    `json:"length" yaml:"length"`
	Nights    bool   `json:"nights" yaml:"nights"`
}

// FatigueDetail accompanies HIGH_RISK_INDEX and HIGH_FATIGUE_INDEX
type FatigueDetail struct {
	AssignmentID string            `json:"assignmentId" yaml:"assignmentId"`
	RiskIndex    float64           `json:"riskIndex" yaml:"riskIndex"`
	FatigueIndex float64           `json:"fatigueIndex" yaml:"fatigueIndex"`
	Level        fatigue.RiskLevel `json:"level" yaml:"level"`
	IsNight      bool              `json:"isNight" yaml:"isNight"`
}

func (ShiftLengthDetail) detail() {}
func (RestDetail) detail()        {}
func (SameDayDetail) detail()     {}
func (WeeklyHoursDetail) detail() {}
func (ConsecutiveDetail) detail() {}
func (FatigueDetail) detail()     {}

// ComplianceViolation is one rule breach for one employee on one date
type ComplianceViolation struct {
	Type       ViolationType `json:"type" yaml:"type"`
	Severity   Severity      `json:"severity" yaml:"severity"`
	EmployeeID string        `json:"employeeId" yaml:"employeeId"`
	Date       string        `json:"date" yaml:"date"`
	Message    string        `json:"message" yaml:"message"`
	Value      *float64      `json:"value,omitempty" yaml:"value,omitempty"`
	Limit      *float64      `json:"limit,omitempty" yaml:"limit,omitempty"`
	Detail     Detail        `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ComplianceResult is the outcome of checking one employee
type ComplianceResult struct {
	EmployeeID   string                `json:"employeeId" yaml:"employeeId"`
	Violations   []ComplianceViolation `json:"violations" yaml:"violations"`
	HasErrors    bool                  `json:"hasErrors" yaml:"hasErrors"`
	HasWarnings  bool                  `json:"hasWarnings" yaml:"hasWarnings"`
	ErrorCount   int                   `json:"errorCount" yaml:"errorCount"`
	WarningCount int                   `json:"warningCount" yaml:"warningCount"`
	Summary      Summary               `json:"summary" yaml:"summary"`
}

// IsCompliant returns true if no violations of any severity were found
func (r ComplianceResult) IsCompliant() bool {
	return len(r.Violations) == 0
}

// NewComplianceResult computes the error and warning counts for a set of violations
func NewComplianceResult(employeeID string, violations []ComplianceViolation) ComplianceResult {
	if violations == nil {
		violations = []ComplianceViolation{}
	}

	result := ComplianceResult{
		EmployeeID: employeeID,
		Violations: violations,
		Summary:    Summarize(violations),
	}

	for _, v := range violations {
		if v.Severity.IsError() {
			result.ErrorCount++
		}
		if v.Severity.IsWarning() {
			result.WarningCount++
		}
	}
	result.HasErrors = result.ErrorCount > 0
	result.HasWarnings = result.WarningCount > 0

	return result
}

func float64Ptr(v float64) *float64 {
	return &v
}
