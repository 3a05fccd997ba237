package compliance

import (
	"fmt"
	"sort"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// SameDayCheck flags dates with more than one assignment.
//
//   - Every assignment counts, resolved or not
//   - Night classification only uses assignments that resolve; if a day and a night shift
//     share the date the violation is a DAY_NIGHT_TRANSITION
//   - When the scope carries Wider assignments they are checked instead, and only dates that
//     also appear in the evaluated assignments are reported. This catches double bookings
//     across projects.
type SameDayCheck struct{}

// NewSameDayCheck creates a SameDayCheck
func NewSameDayCheck() *SameDayCheck {
	return &SameDayCheck{}
}

func (c *SameDayCheck) Name() string {
	return "SameDay"
}

func (c *SameDayCheck) Check(scope Scope) []ComplianceViolation {
	candidates := scope.Assignments
	var reportable map[string]bool
	if scope.Wider != nil {
		candidates = scope.Wider
		reportable = make(map[string]bool, len(scope.Assignments))
		for _, a := range scope.Assignments {
			reportable[a.Date] = true
		}
	}

	byDate := make(map[string][]model.Assignment)
	for _, a := range candidates {
		byDate[a.Date] = append(byDate[a.Date], a)
	}

	dates := make([]string, 0, len(byDate))
	for date, onDate := range byDate {
		if len(onDate) < 2 {
			continue
		}
		if reportable != nil && !reportable[date] {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var violations []ComplianceViolation
	for _, date := range dates {
		onDate := byDate[date]

		detail := SameDayDetail{AssignmentIDs: make([]string, 0, len(onDate))}
		for _, a := range onDate {
			detail.AssignmentIDs = append(detail.AssignmentIDs, a.ID)
			shift, ok := ResolveShift(a, scope.Patterns)
			if !ok {
				continue
			}
			if shift.IsNight {
				detail.HasNightShift = true
			} else {
				detail.HasDayShift = true
			}
		}

		violation := ComplianceViolation{
			Type:       ViolationMultipleShiftsSameDay,
			Severity:   SeverityBreach,
			EmployeeID: scope.EmployeeID,
			Date:       date,
			Message:    fmt.Sprintf("%d shifts assigned on %s", len(onDate), date),
			Value:      float64Ptr(float64(len(onDate))),
			Limit:      float64Ptr(1),
			Detail:     detail,
		}
		if detail.HasDayShift && detail.HasNightShift {
			violation.Type = ViolationDayNightTransition
			violation.Message = fmt.Sprintf("Day and night shifts both assigned on %s", date)
		}

		violations = append(violations, violation)
	}

	return violations
}

// CheckSameDay flags dates on which the employee has two or more assignments
func CheckSameDay(employeeID string, assignments []model.Assignment, patterns model.PatternIndex) []ComplianceViolation {
	return NewSameDayCheck().Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}
