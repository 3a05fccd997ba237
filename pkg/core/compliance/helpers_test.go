package compliance

import (
	"fmt"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

const (
	testEmployee = "emp-1"
	testProject  = "proj-1"
	// a Monday
	testStart = "2024-03-04"
)

func testPatterns() []model.ShiftPattern {
	return []model.ShiftPattern{
		{ID: "days", ProjectID: testProject, Name: "Days", StartTime: "07:00", EndTime: "19:00"},
		{ID: "nights", ProjectID: testProject, Name: "Nights", StartTime: "22:00", EndTime: "06:00"},
		{ID: "long-nights", ProjectID: testProject, Name: "Long nights", StartTime: "20:00", EndTime: "08:00"},
		{ID: "flagged", ProjectID: testProject, Name: "Flagged late", StartTime: "14:00", EndTime: "22:00", IsNight: true},
		{ID: "short", ProjectID: testProject, Name: "Short days", StartTime: "08:00", EndTime: "16:00"},
		{ID: "over-long", ProjectID: testProject, Name: "Over long", StartTime: "06:00", EndTime: "19:00"},
	}
}

func testIndex() model.PatternIndex {
	return model.IndexPatterns(testPatterns())
}

// dateAt returns the date offset days after testStart
func dateAt(offset int) string {
	start, err := timeutil.ParseDate(testStart)
	if err != nil {
		panic(err)
	}
	return timeutil.FormatDate(timeutil.AddDays(start, offset))
}

func assignment(id, patternID, date string) model.Assignment {
	return model.Assignment{
		ID:             id,
		EmployeeID:     testEmployee,
		ProjectID:      testProject,
		ShiftPatternID: patternID,
		Date:           date,
	}
}

// run builds one assignment per day for the given day offsets
func run(patternID string, offsets ...int) []model.Assignment {
	assignments := make([]model.Assignment, 0, len(offsets))
	for _, offset := range offsets {
		assignments = append(assignments, assignment(fmt.Sprintf("%s-%d", patternID, offset), patternID, dateAt(offset)))
	}
	return assignments
}

// span returns the offsets from..to inclusive
func span(from, to int) []int {
	var offsets []int
	for i := from; i <= to; i++ {
		offsets = append(offsets, i)
	}
	return offsets
}

func typesOf(violations []ComplianceViolation) []ViolationType {
	types := make([]ViolationType, 0, len(violations))
	for _, v := range violations {
		types = append(types, v.Type)
	}
	return types
}

func ofType(violations []ComplianceViolation, t ViolationType) []ComplianceViolation {
	var filtered []ComplianceViolation
	for _, v := range violations {
		if v.Type == t {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func defaultFatigueParams() fatigue.Parameters {
	return fatigue.DefaultParameters()
}
