package compliance

import (
	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// Regulatory limits used by the default checks
const (
	MaxShiftHours            = 12.0
	MinRestHours             = 12.0
	WeeklyLevel1Hours        = 60.0
	WeeklyLevel2Hours        = 72.0
	WeeklyWindowDays         = 7
	ConsecutiveDaysWarning   = 6
	ConsecutiveDaysMax       = 13
	ConsecutiveNightsWarning = 4
	ConsecutiveNightsMax     = 7
)

// Scope is the input to a check for one employee.
//
// Assignments are the employee's assignments under evaluation. Wider optionally holds
// the employee's assignments across every project, for checks (same day) that must see
// double bookings outside the evaluated set. Patterns must cover both.
type Scope struct {
	EmployeeID  string
	Assignments []model.Assignment
	Wider       []model.Assignment
	Patterns    model.PatternIndex
}

// Check is a single compliance rule.
//
// Checks never fail: assignments that cannot be resolved against a pattern are
// skipped by rules that need shift times.
type Check interface {
	// Name identifies the check in logs and metrics
	Name() string

	// Check returns the violations found for the scope, in a deterministic order
	Check(scope Scope) []ComplianceViolation
}

// DefaultChecks returns the statutory checks with default limits, in reporting order
func DefaultChecks() []Check {
	return []Check{
		NewMaxShiftLengthCheck(MaxShiftHours),
		NewSameDayCheck(),
		NewMinimumRestCheck(MinRestHours),
		NewWeeklyHoursCheck(WeeklyLevel1Hours, WeeklyLevel2Hours),
		NewConsecutiveDaysCheck(ConsecutiveDaysWarning, ConsecutiveDaysMax),
		NewConsecutiveNightsCheck(ConsecutiveNightsWarning, ConsecutiveNightsMax),
	}
}
