package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestEmployee_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Employee{ID: "e1", FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", Employee{ID: "e1", FirstName: "Ada"}.FullName())
	assert.Equal(t, "e1", Employee{ID: "e1"}.FullName())
}

func TestShiftPattern_ShiftDefinition(t *testing.T) {
	pattern := ShiftPattern{
		ID:        "nights",
		ProjectID: "p1",
		StartTime: "22:00",
		EndTime:   "06:00",
		Workload:  intPtr(3),
		CommuteIn: intPtr(45),
	}

	def := pattern.ShiftDefinition(4, "23:00", "07:00")
	assert.Equal(t, 4, def.Day)
	assert.Equal(t, "23:00", def.StartTime)
	assert.Equal(t, "07:00", def.EndTime)
	require.NotNil(t, def.Workload)
	assert.Equal(t, 3, *def.Workload)
	require.NotNil(t, def.CommuteIn)
	assert.Equal(t, 45, *def.CommuteIn)
	assert.Nil(t, def.Attention)
	assert.Nil(t, def.CommuteOut)
	assert.False(t, def.Night)

	pattern.IsNight = true
	assert.True(t, pattern.ShiftDefinition(0, "14:00", "22:00").Night)
}

func TestFilters(t *testing.T) {
	assignments := []Assignment{
		{ID: "a1", EmployeeID: "e1", ProjectID: "p1"},
		{ID: "a2", EmployeeID: "e2", ProjectID: "p1"},
		{ID: "a3", EmployeeID: "e1", ProjectID: "p2"},
	}

	byEmployee := FilterByEmployee(assignments, "e1")
	require.Len(t, byEmployee, 2)
	assert.Equal(t, "a1", byEmployee[0].ID)
	assert.Equal(t, "a3", byEmployee[1].ID)

	byProject := FilterByProject(assignments, "p1")
	require.Len(t, byProject, 2)
	assert.Equal(t, "a2", byProject[1].ID)

	assert.Empty(t, FilterByProject(assignments, "missing"))
}

func TestIndexPatterns(t *testing.T) {
	index := IndexPatterns([]ShiftPattern{
		{ID: "days", Name: "first"},
		{ID: "nights"},
		{ID: "days", Name: "second"},
	})
	assert.Len(t, index, 2)
	assert.Equal(t, "second", index["days"].Name)
}

func TestValidateShiftPattern(t *testing.T) {
	valid := ShiftPattern{
		ID:        "days",
		ProjectID: "p1",
		StartTime: "07:00",
		EndTime:   "19:00",
		WeeklySchedule: map[string]DaySchedule{
			"monday":   {StartTime: "07:00", EndTime: "19:00"},
			"saturday": {StartTime: "08:00", EndTime: "14:00"},
		},
	}
	require.NoError(t, ValidateShiftPattern(valid))

	badDay := valid
	badDay.WeeklySchedule = map[string]DaySchedule{"Monday": {StartTime: "07:00", EndTime: "19:00"}}
	assert.Error(t, ValidateShiftPattern(badDay))

	badTime := valid
	badTime.StartTime = "25:00"
	assert.Error(t, ValidateShiftPattern(badTime))

	noProject := valid
	noProject.ProjectID = ""
	assert.Error(t, ValidateShiftPattern(noProject))
}

func TestValidateAssignment(t *testing.T) {
	valid := Assignment{ID: "a1", EmployeeID: "e1", ProjectID: "p1", ShiftPatternID: "days", Date: "2024-03-04"}
	require.NoError(t, ValidateAssignment(valid))

	badDate := valid
	badDate.Date = "04/03/2024"
	assert.Error(t, ValidateAssignment(badDate))

	halfCustom := valid
	halfCustom.CustomStartTime = "06:00"
	err := ValidateAssignment(halfCustom)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set together")

	custom := valid
	custom.CustomStartTime = "06:00"
	custom.CustomEndTime = "18:00"
	assert.NoError(t, ValidateAssignment(custom))
	assert.True(t, custom.HasCustomTimes())
}

func TestValidateEmployee(t *testing.T) {
	assert.NoError(t, ValidateEmployee(Employee{ID: "e1"}))
	assert.Error(t, ValidateEmployee(Employee{FirstName: "Nobody"}))
}
