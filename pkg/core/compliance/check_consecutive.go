package compliance

import (
	"fmt"
	"time"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

// streak is a run of consecutive calendar dates
type streak struct {
	dates []time.Time
}

func (s streak) length() int {
	return len(s.dates)
}

// findStreaks splits sorted, distinct dates into runs where each date is exactly one day
// after the previous
func findStreaks(dates []time.Time) []streak {
	var streaks []streak
	var current streak

	for i, date := range dates {
		if i > 0 && timeutil.DaysBetween(dates[i-1], date) != 1 {
			streaks = append(streaks, current)
			current = streak{}
		}
		current.dates = append(current.dates, date)
	}
	if current.length() > 0 {
		streaks = append(streaks, current)
	}

	return streaks
}

// streakLimits describes the thresholds and vocabulary of one streak check
type streakLimits struct {
	warnAfter   int
	breachAfter int
	warnType    ViolationType
	breachType  ViolationType
	nights      bool
	noun        string
}

// streakViolations raises at most one violation per streak. A breach supersedes the
// warning and is dated on the first date beyond the breach limit; a warning is dated
// on the first date beyond the warning limit.
func streakViolations(employeeID string, dates []time.Time, limits streakLimits) []ComplianceViolation {
	var violations []ComplianceViolation

	for _, s := range findStreaks(dates) {
		var violationType ViolationType
		var severity Severity
		var limit int
		switch {
		case s.length() > limits.breachAfter:
			violationType, severity, limit = limits.breachType, SeverityBreach, limits.breachAfter
		case s.length() > limits.warnAfter:
			violationType, severity, limit = limits.warnType, SeverityWarning, limits.warnAfter
		default:
			continue
		}

		start := timeutil.FormatDate(s.dates[0])
		end := timeutil.FormatDate(s.dates[s.length()-1])
		violations = append(violations, ComplianceViolation{
			Type:       violationType,
			Severity:   severity,
			EmployeeID: employeeID,
			Date:       timeutil.FormatDate(s.dates[limit]),
			Message:    fmt.Sprintf("%d consecutive %s from %s to %s, limit %d", s.length(), limits.noun, start, end, limit),
			Value:      float64Ptr(float64(s.length())),
			Limit:      float64Ptr(float64(limit)),
			Detail: ConsecutiveDetail{
				StartDate: start,
				EndDate:   end,
				Length:    s.length(),
				Nights:    limits.nights,
			},
		})
	}

	return violations
}

// ConsecutiveDaysCheck flags long runs of worked calendar dates.
//
//   - Dates are deduplicated before counting, so two assignments on one date
//     neither lengthen nor reset a streak
//   - Any gap of more than one day resets the streak
//   - warning beyond warnAfter days, breach beyond breachAfter days
type ConsecutiveDaysCheck struct {
	limits streakLimits
}

// NewConsecutiveDaysCheck creates a ConsecutiveDaysCheck with the given thresholds
func NewConsecutiveDaysCheck(warnAfter, breachAfter int) *ConsecutiveDaysCheck {
	return &ConsecutiveDaysCheck{limits: streakLimits{
		warnAfter:   warnAfter,
		breachAfter: breachAfter,
		warnType:    ViolationConsecutiveDaysWarning,
		breachType:  ViolationMaxConsecutiveDays,
		noun:        "days",
	}}
}

func (c *ConsecutiveDaysCheck) Name() string {
	return "ConsecutiveDays"
}

func (c *ConsecutiveDaysCheck) Check(scope Scope) []ComplianceViolation {
	return streakViolations(scope.EmployeeID, distinctDates(scope.Assignments), c.limits)
}

// ConsecutiveNightsCheck flags long runs of night shifts on consecutive dates.
//
// Only assignments that resolve to a night shift contribute a date, so a day shift
// or a day off between two nights ends the run.
type ConsecutiveNightsCheck struct {
	limits streakLimits
}

// NewConsecutiveNightsCheck creates a ConsecutiveNightsCheck with the given thresholds
func NewConsecutiveNightsCheck(warnAfter, breachAfter int) *ConsecutiveNightsCheck {
	return &ConsecutiveNightsCheck{limits: streakLimits{
		warnAfter:   warnAfter,
		breachAfter: breachAfter,
		warnType:    ViolationConsecutiveNightsWarning,
		breachType:  ViolationMaxConsecutiveNights,
		nights:      true,
		noun:        "nights",
	}}
}

func (c *ConsecutiveNightsCheck) Name() string {
	return "ConsecutiveNights"
}

func (c *ConsecutiveNightsCheck) Check(scope Scope) []ComplianceViolation {
	var nights []model.Assignment
	for _, shift := range resolveAll(scope.Assignments, scope.Patterns) {
		if shift.IsNight {
			nights = append(nights, shift.Assignment)
		}
	}
	return streakViolations(scope.EmployeeID, distinctDates(nights), c.limits)
}

// CheckConsecutiveDays flags more than 6 (warning) or 13 (breach) consecutive worked days
func CheckConsecutiveDays(employeeID string, assignments []model.Assignment, patterns model.PatternIndex) []ComplianceViolation {
	return NewConsecutiveDaysCheck(ConsecutiveDaysWarning, ConsecutiveDaysMax).Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}

// CheckConsecutiveNights flags more than 4 (warning) or 7 (breach) consecutive night shifts
func CheckConsecutiveNights(employeeID string, assignments []model.Assignment, patterns model.PatternIndex) []ComplianceViolation {
	return NewConsecutiveNightsCheck(ConsecutiveNightsWarning, ConsecutiveNightsMax).Check(Scope{EmployeeID: employeeID, Assignments: assignments, Patterns: patterns})
}
