package compliance

import (
	"fmt"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// MinimumRestCheck flags insufficient rest between chronologically consecutive shifts.
//
//   - Shifts are ordered by absolute start time, so overnight shifts are handled
//   - Overlapping shifts give a negative gap and are always flagged
//   - The violation is dated on the later shift
type MinimumRestCheck struct {
	minHours float64
}

// NewMinimumRestCheck creates a MinimumRestCheck with the given minimum rest
func NewMinimumRestCheck(minHours float64) *MinimumRestCheck {
	return &MinimumRestCheck{minHours: minHours}
}

func (c *MinimumRestCheck) Name() string {
	return "MinimumRest"
}

func (c *MinimumRestCheck) Check(scope Scope) []ComplianceViolation {
	var violations []ComplianceViolation

	shifts := sortByStart(resolveAll(scope.Assignments, scope.Patterns))
	for i := 1; i < len(shifts); i++ {
		prev, next := shifts[i-1], shifts[i]

		rest := next.Start.Sub(prev.End).Hours()
		if rest >= c.minHours {
			continue
		}

		violations = append(violations, ComplianceViolation{
			Type:       ViolationInsufficientRest,
			Severity:   SeverityBreach,
			EmployeeID: scope.EmployeeID,
			Date:       next.Assignment.Date,
			Message:    fmt.Sprintf("Only %.1fh rest between the shift ending %s and the shift starting %s, minimum is %gh", rest, prev.End.Format("2006-01-02 15:04"), next.Start.Format("2006-01-02 15:04"), c.minHours),
			Value:      float64Ptr(rest),
			Limit:      float64Ptr(c.minHours),
			Detail: RestDetail{
				PreviousAssignmentID: prev.Assignment.ID,
				NextAssignmentID:     next.Assignment.ID,
				PreviousEnd:          prev.End,
				NextStart:            next.Start,
				RestHours:            rest,
			},
		})
	}

	return violations
}

// CheckMinimumRest flags consecutive shifts with less than 12 hours rest in between
func CheckMinimumRest(employeeID string, assignments []model.Assignment, patterns model.PatternIndex) []ComplianceViolation {
	return NewMinimumRestCheck(MinRestHours).Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}
