package compliance

import (
	"fmt"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// MaxShiftLengthCheck flags individual shifts longer than the maximum.
//
//   - One breach per resolved assignment over the limit, in assignment order
//   - A shift of exactly the limit is allowed
type MaxShiftLengthCheck struct {
	maxHours float64
}

// NewMaxShiftLengthCheck creates a MaxShiftLengthCheck with the given limit
func NewMaxShiftLengthCheck(maxHours float64) *MaxShiftLengthCheck {
	return &MaxShiftLengthCheck{maxHours: maxHours}
}

func (c *MaxShiftLengthCheck) Name() string {
	return "MaxShiftLength"
}

func (c *MaxShiftLengthCheck) Check(scope Scope) []ComplianceViolation {
	var violations []ComplianceViolation

	for _, shift := range resolveAll(scope.Assignments, scope.Patterns) {
		if shift.Hours <= c.maxHours {
			continue
		}

		violations = append(violations, ComplianceViolation{
			Type:       ViolationMaxShiftLength,
			Severity:   SeverityBreach,
			EmployeeID: scope.EmployeeID,
			Date:       shift.Assignment.Date,
			Message:    fmt.Sprintf("Shift %s-%s is %.1fh, exceeding the %gh maximum", shift.StartTime, shift.EndTime, shift.Hours, c.maxHours),
			Value:      float64Ptr(shift.Hours),
			Limit:      float64Ptr(c.maxHours),
			Detail: ShiftLengthDetail{
				AssignmentID: shift.Assignment.ID,
				StartTime:    shift.StartTime,
				EndTime:      shift.EndTime,
				Hours:        shift.Hours,
			},
		})
	}

	return violations
}

// CheckMaxShiftLength flags shifts longer than 12 hours
func CheckMaxShiftLength(employeeID string, assignments []model.Assignment, patterns model.PatternIndex) []ComplianceViolation {
	return NewMaxShiftLengthCheck(MaxShiftHours).Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}
