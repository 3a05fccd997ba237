package compliance

import (
	"fmt"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

// FatigueScoreCheck runs the fatigue engine over the employee's resolved shifts and flags
// high scores.
//
//   - Shifts are ordered by start and numbered by days since the first shift
//   - Each pattern's fatigue overrides apply on top of the default parameters
//   - Elevated scores raise a warning, critical scores raise level2
//   - Risk Index and Fatigue Index are reported as separate violations
type FatigueScoreCheck struct {
	params fatigue.Parameters
}

// NewFatigueScoreCheck creates a FatigueScoreCheck using the given default parameters
func NewFatigueScoreCheck(params fatigue.Parameters) *FatigueScoreCheck {
	return &FatigueScoreCheck{params: params}
}

func (c *FatigueScoreCheck) Name() string {
	return "FatigueScores"
}

func (c *FatigueScoreCheck) Check(scope Scope) []ComplianceViolation {
	shifts := ResolveSchedule(scope.Assignments, scope.Patterns)
	if len(shifts) == 0 {
		return nil
	}

	results := fatigue.ComputeCombinedSequence(FatigueSequence(shifts), c.params)

	var violations []ComplianceViolation
	for i, result := range results {
		shift := shifts[i]
		detail := FatigueDetail{
			AssignmentID: shift.Assignment.ID,
			RiskIndex:    result.RiskIndex,
			FatigueIndex: result.FatigueIndex,
			IsNight:      result.IsNight,
		}

		if severity, ok := fatigueSeverity(result.RiskLevel); ok {
			limit := fatigue.RiskElevatedThreshold
			if result.RiskLevel == fatigue.RiskLevelCritical {
				limit = fatigue.RiskCriticalThreshold
			}
			riskDetail := detail
			riskDetail.Level = result.RiskLevel
			violations = append(violations, ComplianceViolation{
				Type:       ViolationHighRiskIndex,
				Severity:   severity,
				EmployeeID: scope.EmployeeID,
				Date:       shift.Assignment.Date,
				Message:    fmt.Sprintf("Risk Index %.3f is %s for shift %s-%s", result.RiskIndex, result.RiskLevel, shift.StartTime, shift.EndTime),
				Value:      float64Ptr(result.RiskIndex),
				Limit:      float64Ptr(limit),
				Detail:     riskDetail,
			})
		}

		if severity, ok := fatigueSeverity(result.FatigueLevel); ok {
			base := fatigue.FatigueDayBase
			if result.IsNight {
				base = fatigue.FatigueNightBase
			}
			limit := base * 0.75
			if result.FatigueLevel == fatigue.RiskLevelCritical {
				limit = base
			}
			fatigueDetail := detail
			fatigueDetail.Level = result.FatigueLevel
			violations = append(violations, ComplianceViolation{
				Type:       ViolationHighFatigueIndex,
				Severity:   severity,
				EmployeeID: scope.EmployeeID,
				Date:       shift.Assignment.Date,
				Message:    fmt.Sprintf("Fatigue Index %.1f is %s for shift %s-%s", result.FatigueIndex, result.FatigueLevel, shift.StartTime, shift.EndTime),
				Value:      float64Ptr(result.FatigueIndex),
				Limit:      float64Ptr(limit),
				Detail:     fatigueDetail,
			})
		}
	}

	return violations
}

func fatigueSeverity(level fatigue.RiskLevel) (Severity, bool) {
	switch level {
	case fatigue.RiskLevelCritical:
		return SeverityLevel2, true
	case fatigue.RiskLevelElevated:
		return SeverityWarning, true
	}
	return "", false
}

// FatigueSequence converts chronologically sorted shifts into a fatigue engine sequence.
// Day is the number of days since the first shift's date.
func FatigueSequence(shifts []ResolvedShift) []fatigue.ShiftDefinition {
	sequence := make([]fatigue.ShiftDefinition, 0, len(shifts))
	for _, shift := range shifts {
		day := timeutil.DaysBetween(shifts[0].Date, shift.Date)
		sequence = append(sequence, shift.Pattern.ShiftDefinition(day, shift.StartTime, shift.EndTime))
	}
	return sequence
}

// CheckFatigueScores flags shifts with an elevated or critical Risk Index or Fatigue Index
func CheckFatigueScores(employeeID string, assignments []model.Assignment, patterns model.PatternIndex, params fatigue.Parameters) []ComplianceViolation {
	return NewFatigueScoreCheck(params).Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}
