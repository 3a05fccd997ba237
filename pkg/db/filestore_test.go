package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

const rosterYAML = `
employees:
  - id: emp-1
    firstName: Ada
    lastName: Lovelace
    role: COSS
  - id: emp-2
    firstName: Grace
    lastName: Hopper
shiftPatterns:
  - id: days
    projectId: proj-1
    name: Days
    startTime: "07:00"
    endTime: "19:00"
    workload: 3
  - id: weekend
    projectId: proj-1
    startTime: "07:00"
    endTime: "19:00"
    weeklySchedule:
      saturday:
        startTime: "08:00"
        endTime: "16:00"
assignments:
  - id: a1
    employeeId: emp-1
    projectId: proj-1
    shiftPatternId: days
    date: "2024-03-04"
  - id: a2
    employeeId: emp-1
    projectId: proj-1
    shiftPatternId: days
    date: "2024-03-05"
    customStartTime: "06:00"
    customEndTime: "14:00"
`

func writeRosterFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestOpenFileStore(t *testing.T) {
	store, err := OpenFileStore(writeRosterFile(t, rosterYAML))
	require.NoError(t, err)
	ctx := context.Background()

	employees, err := store.GetEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	employee, err := store.GetEmployee(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", employee.FullName())

	patterns, err := store.GetShiftPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	require.NotNil(t, patterns[0].Workload)
	assert.Equal(t, 3, *patterns[0].Workload)
	assert.Equal(t, "08:00", patterns[1].WeeklySchedule["saturday"].StartTime)

	assignments, err := store.GetAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "06:00", assignments[1].CustomStartTime)
}

func TestFileStore_GetEmployeeNotFound(t *testing.T) {
	store := NewMemoryStore(Roster{})
	_, err := store.GetEmployee(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpenFileStore_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"invalid yaml", "employees: [", "failed to parse roster"},
		{"unknown field", "employes: []", "failed to parse roster"},
		{"missing employee id", "employees:\n  - firstName: Ada\n", "employees[0]"},
		{"bad pattern time", "shiftPatterns:\n  - id: p\n    projectId: x\n    startTime: \"7am\"\n    endTime: \"19:00\"\n", "shiftPatterns[0]"},
		{"bad assignment date", "assignments:\n  - id: a\n    employeeId: e\n    projectId: p\n    shiftPatternId: s\n    date: \"04/03/2024\"\n", "assignments[0]"},
		{"duplicate pattern", "shiftPatterns:\n  - {id: p, projectId: x, startTime: \"07:00\", endTime: \"19:00\"}\n  - {id: p, projectId: x, startTime: \"07:00\", endTime: \"19:00\"}\n", "duplicate id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenFileStore(writeRosterFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	_, err := OpenFileStore(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpenFileStore_EmptyFile(t *testing.T) {
	store, err := OpenFileStore(writeRosterFile(t, ""))
	require.NoError(t, err)

	assignments, err := store.GetAssignments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestFileStore_InsertAssignments(t *testing.T) {
	path := writeRosterFile(t, rosterYAML)
	store, err := OpenFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	inserted, err := store.InsertAssignments(ctx, []model.Assignment{
		{ID: "a1", EmployeeID: "emp-1", ProjectID: "proj-1", ShiftPatternID: "days", Date: "2024-03-04"},
		{ID: "a3", EmployeeID: "emp-2", ProjectID: "proj-1", ShiftPatternID: "days", Date: "2024-03-06"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	// Persisted and readable by a fresh store
	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	assignments, err := reopened.GetAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	assert.Equal(t, "a3", assignments[2].ID)

	// Nothing new means no rewrite
	inserted, err = store.InsertAssignments(ctx, assignments)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestFileStore_InsertAssignmentsRejectsInvalid(t *testing.T) {
	path := writeRosterFile(t, rosterYAML)
	store, err := OpenFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.InsertAssignments(ctx, []model.Assignment{{EmployeeID: "emp-1", Date: "2024-03-06"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")

	_, err = store.InsertAssignments(ctx, []model.Assignment{{ID: "bad", EmployeeID: "emp-1", ProjectID: "p", ShiftPatternID: "days", Date: "tomorrow"}})
	require.Error(t, err)

	// File untouched
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "tomorrow"))

	assignments, err := store.GetAssignments(ctx)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
}

func TestMemoryStore_InsertAssignments(t *testing.T) {
	store := NewMemoryStore(Roster{})
	inserted, err := store.InsertAssignments(context.Background(), []model.Assignment{
		{ID: "a1", EmployeeID: "emp-1", ProjectID: "proj-1", ShiftPatternID: "days", Date: "2024-03-04"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	assignments, err := store.GetAssignments(context.Background())
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	store, err := OpenFileStore(writeRosterFile(t, rosterYAML))
	require.NoError(t, err)
	ctx := context.Background()

	assignments, err := store.GetAssignments(ctx)
	require.NoError(t, err)
	assignments[0].Date = "1999-01-01"

	again, err := store.GetAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", again[0].Date)
}
