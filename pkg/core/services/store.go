package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/db"
)

// RosterReader defines the read operations the assessment services need
type RosterReader interface {
	db.EmployeeStore
	db.ShiftPatternStore
	GetAssignments(ctx context.Context) ([]model.Assignment, error)
}

type rosterSnapshot struct {
	patterns    []model.ShiftPattern
	assignments []model.Assignment
}

func loadRoster(ctx context.Context, store RosterReader) (*rosterSnapshot, error) {
	patterns, err := store.GetShiftPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift patterns: %w", err)
	}

	assignments, err := store.GetAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	return &rosterSnapshot{patterns: patterns, assignments: assignments}, nil
}

// lookupEmployee returns the stored employee, or a bare record when none is stored.
// Employee records are only used for display so a lookup failure is not fatal.
func lookupEmployee(ctx context.Context, store db.EmployeeStore, logger *zap.Logger, employeeID string) model.Employee {
	employee, err := store.GetEmployee(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			logger.Warn("Failed to fetch employee", zap.String("employee_id", employeeID), zap.Error(err))
		}
		return model.Employee{ID: employeeID}
	}
	return *employee
}
