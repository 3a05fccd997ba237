package compliance

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

func projectAssignment(id, employeeID, projectID, patternID, date string) model.Assignment {
	return model.Assignment{
		ID:             id,
		EmployeeID:     employeeID,
		ProjectID:      projectID,
		ShiftPatternID: patternID,
		Date:           date,
	}
}

func TestCheckEmployeeCompliance_Empty(t *testing.T) {
	result := CheckEmployeeCompliance(testEmployee, nil, testPatterns())

	assert.True(t, result.IsCompliant())
	assert.NotNil(t, result.Violations)
	assert.Empty(t, result.Violations)
	assert.False(t, result.HasErrors)
	assert.False(t, result.HasWarnings)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, 0, result.WarningCount)
	assert.Equal(t, 0, result.Summary.Total)
}

func TestCheckEmployeeCompliance_CompliantRoster(t *testing.T) {
	// Four days on, three off, for two weeks
	result := CheckEmployeeCompliance(testEmployee, run("days", 0, 1, 2, 3, 7, 8, 9, 10), testPatterns())
	assert.True(t, result.IsCompliant())
	assert.Equal(t, testEmployee, result.EmployeeID)
}

func TestCheckEmployeeCompliance_ViolationOrder(t *testing.T) {
	assignments := []model.Assignment{
		assignment("long", "over-long", dateAt(0)),
		assignment("first", "days", dateAt(1)),
		assignment("second", "days", dateAt(1)),
	}

	result := CheckEmployeeCompliance(testEmployee, assignments, testPatterns())

	assert.Equal(t, []ViolationType{
		ViolationMaxShiftLength,
		ViolationMultipleShiftsSameDay,
		ViolationInsufficientRest,
	}, typesOf(result.Violations))
	assert.True(t, result.HasErrors)
	assert.False(t, result.HasWarnings)
	assert.Equal(t, 3, result.ErrorCount)
	assert.Equal(t, 0, result.WarningCount)
}

func TestCheckEmployeeCompliance_CountsWarnings(t *testing.T) {
	// Five nights: level 1 hours are not reached, consecutive nights warns
	result := CheckEmployeeCompliance(testEmployee, run("nights", span(0, 4)...), testPatterns())

	assert.False(t, result.HasErrors)
	assert.True(t, result.HasWarnings)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, []ViolationType{ViolationConsecutiveNightsWarning}, typesOf(result.Violations))
	assert.Equal(t, 1, result.Summary.BySeverity[SeverityWarning])
}

func TestCheckEmployeeCompliance_IgnoresOtherEmployees(t *testing.T) {
	assignments := append(run("days", 0), projectAssignment("x", "emp-2", testProject, "days", dateAt(0)))
	result := CheckEmployeeCompliance(testEmployee, assignments, testPatterns())
	assert.True(t, result.IsCompliant())
}

func TestCheckEmployeeCompliance_DoesNotModifyInput(t *testing.T) {
	assignments := run("days", 3, 0, 2, 1)
	snapshot := append([]model.Assignment(nil), assignments...)

	CheckEmployeeCompliance(testEmployee, assignments, testPatterns())
	assert.Equal(t, snapshot, assignments)
}

func TestCheckProjectCompliance(t *testing.T) {
	patterns := append(testPatterns(),
		model.ShiftPattern{ID: "other-days", ProjectID: "proj-2", StartTime: "07:00", EndTime: "19:00"},
		model.ShiftPattern{ID: "other-nights", ProjectID: "proj-2", StartTime: "22:00", EndTime: "06:00"},
	)

	var assignments []model.Assignment
	// emp-b works seven straight days on the project
	for _, offset := range span(0, 6) {
		assignments = append(assignments, projectAssignment(fmt.Sprintf("b-%d", offset), "emp-b", testProject, "days", dateAt(offset)))
	}
	assignments = append(assignments,
		// emp-a works a day on this project and a night on another project on the same date
		projectAssignment("a-1", "emp-a", testProject, "days", dateAt(0)),
		projectAssignment("a-2", "emp-a", "proj-2", "other-nights", dateAt(0)),
		// emp-a is double booked on the other project only
		projectAssignment("a-3", "emp-a", "proj-2", "other-days", dateAt(5)),
		projectAssignment("a-4", "emp-a", "proj-2", "other-days", dateAt(5)),
		// emp-c never works on this project
		projectAssignment("c-1", "emp-c", "proj-2", "other-days", dateAt(1)),
		projectAssignment("c-2", "emp-c", "proj-2", "other-days", dateAt(1)),
	)

	result := CheckProjectCompliance(testProject, assignments, patterns)

	assert.Equal(t, testProject, result.ProjectID)
	require.Equal(t, 2, result.EmployeeCount)
	require.Len(t, result.Employees, 2)
	assert.Equal(t, "emp-a", result.Employees[0].EmployeeID)
	assert.Equal(t, "emp-b", result.Employees[1].EmployeeID)

	// Cross-project double booking is found, other-project rest and double bookings are not
	empA := result.Employees[0]
	require.Len(t, empA.Violations, 1)
	assert.Equal(t, ViolationDayNightTransition, empA.Violations[0].Type)
	assert.Equal(t, dateAt(0), empA.Violations[0].Date)

	empB := result.Employees[1]
	assert.NotEmpty(t, ofType(empB.Violations, ViolationLevel2Exceedance))
	assert.NotEmpty(t, ofType(empB.Violations, ViolationConsecutiveDaysWarning))

	assert.Equal(t, 2, result.NonCompliantEmployees)
	assert.Len(t, result.Violations, len(empA.Violations)+len(empB.Violations))
	assert.Equal(t, len(result.Violations), result.Summary.Total)
	assert.True(t, result.HasErrors)
	assert.True(t, result.HasWarnings)

	// Checking the employee directly sees everything
	direct := CheckEmployeeCompliance("emp-a", assignments, patterns)
	assert.NotEmpty(t, ofType(direct.Violations, ViolationInsufficientRest))
	assert.Len(t, ofType(direct.Violations, ViolationMultipleShiftsSameDay), 1)
}

func TestCheckProjectCompliance_NoAssignments(t *testing.T) {
	result := CheckProjectCompliance(testProject, run("days", 0), testPatterns()[:0])
	assert.Equal(t, 1, result.EmployeeCount)
	assert.True(t, result.IsCompliant())

	empty := CheckProjectCompliance("nobody", run("days", 0), testPatterns())
	assert.Equal(t, 0, empty.EmployeeCount)
	assert.NotNil(t, empty.Employees)
	assert.True(t, empty.IsCompliant())
}

func TestValidateNewAssignment(t *testing.T) {
	existing := run("days", span(0, 5)...)
	snapshot := append([]model.Assignment(nil), existing...)

	t.Run("seventh day", func(t *testing.T) {
		violations := ValidateNewAssignment(testEmployee, testProject, "days", dateAt(6), existing, testPatterns())

		assert.NotEmpty(t, ofType(violations, ViolationConsecutiveDaysWarning))
		assert.NotEmpty(t, ofType(violations, ViolationLevel2Exceedance))
		assert.Equal(t, snapshot, existing)
	})

	t.Run("same day", func(t *testing.T) {
		violations := ValidateNewAssignment(testEmployee, testProject, "nights", dateAt(2), existing, testPatterns())
		sameDay := ofType(violations, ViolationDayNightTransition)
		require.Len(t, sameDay, 1)
		assert.Equal(t, dateAt(2), sameDay[0].Date)
	})

	t.Run("introduced violations", func(t *testing.T) {
		before := CheckEmployeeCompliance(testEmployee, existing, testPatterns()).Violations
		after := ValidateNewAssignment(testEmployee, testProject, "days", dateAt(6), existing, testPatterns())

		introduced := Introduced(before, after)
		assert.Contains(t, typesOf(introduced), ViolationConsecutiveDaysWarning)
		assert.Contains(t, typesOf(introduced), ViolationLevel2Exceedance)
		assert.Less(t, len(introduced), len(after))
	})

	t.Run("other employees are ignored", func(t *testing.T) {
		others := append(run("days", span(0, 5)...), projectAssignment("x", "emp-2", testProject, "days", dateAt(6)))
		violations := ValidateNewAssignment("emp-2", testProject, "days", dateAt(7), others, testPatterns())
		assert.Empty(t, violations)
	})
}

func TestProposedAssignment(t *testing.T) {
	a := ProposedAssignment(testEmployee, testProject, "days", testStart)
	b := ProposedAssignment(testEmployee, testProject, "days", testStart)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, testEmployee, a.EmployeeID)
	assert.Equal(t, "days", a.ShiftPatternID)
	assert.False(t, a.HasCustomTimes())

	other := ProposedAssignment(testEmployee, testProject, "days", dateAt(1))
	assert.NotEqual(t, a.ID, other.ID)
}

func TestValidateNewAssignment_Repeatable(t *testing.T) {
	existing := run("days", span(0, 5)...)

	first := ValidateNewAssignment(testEmployee, testProject, "over-long", dateAt(8), existing, testPatterns())
	second := ValidateNewAssignment(testEmployee, testProject, "over-long", dateAt(8), existing, testPatterns())

	require.NotEmpty(t, ofType(first, ViolationMaxShiftLength))
	assert.Equal(t, first, second)
}

func TestEngine_Options(t *testing.T) {
	t.Run("default checks", func(t *testing.T) {
		var names []string
		for _, c := range NewEngine().Checks() {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"MaxShiftLength", "SameDay", "MinimumRest", "WeeklyHours", "ConsecutiveDays", "ConsecutiveNights"}, names)
	})

	t.Run("fatigue runs last", func(t *testing.T) {
		checks := NewEngine(WithFatigue(defaultFatigueParams())).Checks()
		require.Len(t, checks, 7)
		assert.Equal(t, "FatigueScores", checks[6].Name())
	})

	t.Run("custom limits", func(t *testing.T) {
		engine := NewEngine(
			WithFatigue(defaultFatigueParams()),
			WithChecks(NewMaxShiftLengthCheck(8)),
		)
		checks := engine.Checks()
		require.Len(t, checks, 2)
		assert.Equal(t, "MaxShiftLength", checks[0].Name())
		assert.Equal(t, "FatigueScores", checks[1].Name())

		result := engine.CheckEmployee(testEmployee, run("days", 0), testPatterns())
		assert.Equal(t, []ViolationType{ViolationMaxShiftLength}, typesOf(result.Violations))
	})

	t.Run("logger receives check output", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		engine := NewEngine(WithLogger(zap.New(core)))

		engine.CheckEmployee(testEmployee, run("over-long", 0), testPatterns())

		entries := logs.FilterMessage("Check found violations").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "MaxShiftLength", entries[0].ContextMap()["check"])
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		engine := NewEngine(WithLogger(nil))
		assert.NotPanics(t, func() {
			engine.CheckEmployee(testEmployee, run("over-long", 0), testPatterns())
		})
	})
}

// TestCheckEmployeeCompliance_RandomRosters property-tests result consistency over
// random rosters, including unresolvable and doubled assignments.
func TestCheckEmployeeCompliance_RandomRosters(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	patternIDs := []string{"days", "nights", "long-nights", "flagged", "short", "over-long", "missing"}
	engine := NewEngine(WithFatigue(defaultFatigueParams()))

	for trial := 0; trial < 100; trial++ {
		var assignments []model.Assignment
		perDate := make(map[string]int)
		count := rng.Intn(40)
		for i := 0; i < count; i++ {
			date := dateAt(rng.Intn(28))
			a := assignment(fmt.Sprintf("t%d-%d", trial, i), patternIDs[rng.Intn(len(patternIDs))], date)
			assignments = append(assignments, a)
			perDate[date]++
		}

		result := engine.CheckEmployee(testEmployee, assignments, testPatterns())
		again := engine.CheckEmployee(testEmployee, assignments, testPatterns())
		assert.Equal(t, result, again, "trial %d not deterministic", trial)

		errors, warnings := 0, 0
		for _, v := range result.Violations {
			assert.True(t, v.Type.IsValid(), "trial %d", trial)
			assert.True(t, v.Severity.IsValid(), "trial %d", trial)
			assert.Equal(t, testEmployee, v.EmployeeID)
			assert.NotNil(t, v.Detail)
			if v.Severity.IsError() {
				errors++
			}
			if v.Severity.IsWarning() {
				warnings++
			}
		}
		assert.Equal(t, errors, result.ErrorCount)
		assert.Equal(t, warnings, result.WarningCount)
		assert.Equal(t, errors > 0, result.HasErrors)
		assert.Equal(t, warnings > 0, result.HasWarnings)

		sameDayDates := make(map[string]bool)
		for _, v := range result.Violations {
			if v.Type == ViolationMultipleShiftsSameDay || v.Type == ViolationDayNightTransition {
				sameDayDates[v.Date] = true
			}
		}
		for date, count := range perDate {
			assert.Equal(t, count > 1, sameDayDates[date], "trial %d date %s", trial, date)
		}
	}
}
