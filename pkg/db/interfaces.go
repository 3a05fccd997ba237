package db

import (
	"context"
	"errors"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// EmployeeStore defines the interface for employee lookups
type EmployeeStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
}

// ShiftPatternStore defines the interface for shift pattern lookups
type ShiftPatternStore interface {
	GetShiftPatterns(ctx context.Context) ([]model.ShiftPattern, error)
}

// AssignmentStore defines the interface for assignment operations
type AssignmentStore interface {
	GetAssignments(ctx context.Context) ([]model.Assignment, error)
	// InsertAssignments adds assignments, skipping any whose ID already exists.
	// Returns the number inserted.
	InsertAssignments(ctx context.Context, assignments []model.Assignment) (int, error)
}

// RosterStore defines the interface for all roster operations.
// Both the YAML FileStore and postgres.DB implement this interface.
type RosterStore interface {
	EmployeeStore
	ShiftPatternStore
	AssignmentStore
}
