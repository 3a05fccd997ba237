package compliance

import (
	"fmt"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

// WeeklyHoursCheck flags rolling 7 day windows with excessive hours.
//
// A window [d, d+7) is evaluated for every distinct assignment date d. Dates with no
// assignment never start a window, so a sparse roster is only checked from the days
// actually worked. Hours are counted against the assignment date the shift starts on.
//
//   - level1 when level1Hours <= hours <= level2Hours
//   - level2 when hours > level2Hours
type WeeklyHoursCheck struct {
	level1Hours float64
	level2Hours float64
}

// NewWeeklyHoursCheck creates a WeeklyHoursCheck with the given tiers
func NewWeeklyHoursCheck(level1Hours, level2Hours float64) *WeeklyHoursCheck {
	return &WeeklyHoursCheck{level1Hours: level1Hours, level2Hours: level2Hours}
}

func (c *WeeklyHoursCheck) Name() string {
	return "WeeklyHours"
}

func (c *WeeklyHoursCheck) Check(scope Scope) []ComplianceViolation {
	var violations []ComplianceViolation

	shifts := resolveAll(scope.Assignments, scope.Patterns)

	for _, windowStart := range distinctDates(scope.Assignments) {
		windowEnd := timeutil.AddDays(windowStart, WeeklyWindowDays)

		hours := 0.0
		count := 0
		for _, shift := range shifts {
			if shift.Date.Before(windowStart) || !shift.Date.Before(windowEnd) {
				continue
			}
			hours += shift.Hours
			count++
		}

		var violationType ViolationType
		var severity Severity
		var limit float64
		// Exactly level2Hours is still level 1: [60, 72] is LEVEL_1, only > 72 is LEVEL_2
		switch {
		case hours > c.level2Hours:
			violationType, severity, limit = ViolationLevel2Exceedance, SeverityLevel2, c.level2Hours
		case hours >= c.level1Hours:
			violationType, severity, limit = ViolationLevel1Exceedance, SeverityLevel1, c.level1Hours
		default:
			continue
		}

		start := timeutil.FormatDate(windowStart)
		end := timeutil.FormatDate(windowEnd)
		violations = append(violations, ComplianceViolation{
			Type:       violationType,
			Severity:   severity,
			EmployeeID: scope.EmployeeID,
			Date:       start,
			Message:    fmt.Sprintf("%.1fh worked in the 7 days from %s, limit %gh", hours, start, limit),
			Value:      float64Ptr(hours),
			Limit:      float64Ptr(limit),
			Detail: WeeklyHoursDetail{
				WindowStart: start,
				WindowEnd:   end,
				Hours:       hours,
				ShiftCount:  count,
			},
		})
	}

	return violations
}

// CheckWeeklyHours flags rolling 7 day windows with 60 hours or more
func CheckWeeklyHours(employeeID string, assignments []model.Assignment, patterns model.PatternIndex) []ComplianceViolation {
	return NewWeeklyHoursCheck(WeeklyLevel1Hours, WeeklyLevel2Hours).Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}
