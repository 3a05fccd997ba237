package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/roster"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
	"github.com/jakechorley/rail-roster/pkg/db"
	"github.com/jakechorley/rail-roster/pkg/metrics"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ExpansionResult contains the assignments produced from roster rules
type ExpansionResult struct {
	From        string             `json:"from" yaml:"from"`
	To          string             `json:"to" yaml:"to"`
	Assignments []model.Assignment `json:"assignments" yaml:"assignments"`
	// Inserted is the number of assignments that were new to the store. Zero unless saved.
	Inserted int  `json:"inserted" yaml:"inserted"`
	Saved    bool `json:"saved" yaml:"saved"`
}

// ExpandRoster expands recurring roster rules into assignments for every date in [from, to].
// When save is set the assignments are written to the store; ones already present are skipped.
func ExpandRoster(ctx context.Context, store db.AssignmentStore, logger *zap.Logger, rules []roster.Rule, from, to time.Time, save bool) (*ExpansionResult, error) {
	start := time.Now()

	logger.Debug("Expanding roster rules",
		zap.Int("rules", len(rules)),
		zap.String("from", timeutil.FormatDate(from)),
		zap.String("to", timeutil.FormatDate(to)))

	assignments, err := roster.Expand(rules, from, to)
	if err != nil {
		metrics.EvaluationFailed(kindExpansion)
		return nil, fmt.Errorf("failed to expand roster: %w", err)
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}

	result := &ExpansionResult{
		From:        timeutil.FormatDate(from),
		To:          timeutil.FormatDate(to),
		Assignments: assignments,
	}

	if save && len(assignments) > 0 {
		inserted, err := store.InsertAssignments(ctx, assignments)
		if err != nil {
			metrics.EvaluationFailed(kindExpansion)
			return nil, fmt.Errorf("failed to save expanded assignments: %w", err)
		}
		result.Inserted = inserted
		result.Saved = true

		logger.Info("Saved expanded assignments",
			zap.Int("expanded", len(assignments)),
			zap.Int("inserted", inserted),
			zap.Int("already_present", len(assignments)-inserted))
	}

	metrics.AssignmentsExpanded.Add(float64(len(assignments)))
	metrics.EvaluationCompleted(kindExpansion, time.Since(start))

	return result, nil
}

// RosterImporter defines the write operations needed to load a roster into a store
type RosterImporter interface {
	UpsertEmployees(ctx context.Context, employees []model.Employee) error
	UpsertShiftPatterns(ctx context.Context, patterns []model.ShiftPattern) error
	InsertAssignments(ctx context.Context, assignments []model.Assignment) (int, error)
}

// ImportResult summarises a roster import
type ImportResult struct {
	Employees           int `json:"employees" yaml:"employees"`
	ShiftPatterns       int `json:"shiftPatterns" yaml:"shiftPatterns"`
	AssignmentsInserted int `json:"assignmentsInserted" yaml:"assignmentsInserted"`
	AssignmentsSkipped  int `json:"assignmentsSkipped" yaml:"assignmentsSkipped"`
}

// ImportRoster copies a roster document into a store. Employees and patterns are upserted;
// assignments already present are left alone. Assignments without an ID are given one
// derived from their contents so repeated imports do not duplicate them.
func ImportRoster(ctx context.Context, dst RosterImporter, logger *zap.Logger, r *db.Roster) (*ImportResult, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("roster validation failed: %w", err)
	}

	if err := dst.UpsertEmployees(ctx, r.Employees); err != nil {
		return nil, fmt.Errorf("failed to import employees: %w", err)
	}
	logger.Debug("Imported employees", zap.Int("count", len(r.Employees)))

	if err := dst.UpsertShiftPatterns(ctx, r.ShiftPatterns); err != nil {
		return nil, fmt.Errorf("failed to import shift patterns: %w", err)
	}
	logger.Debug("Imported shift patterns", zap.Int("count", len(r.ShiftPatterns)))

	assignments := make([]model.Assignment, len(r.Assignments))
	for i, a := range r.Assignments {
		if a.ID == "" {
			a.ID = contentID(a)
		}
		assignments[i] = a
	}

	inserted := 0
	if len(assignments) > 0 {
		var err error
		inserted, err = dst.InsertAssignments(ctx, assignments)
		if err != nil {
			return nil, fmt.Errorf("failed to import assignments: %w", err)
		}
	}

	result := &ImportResult{
		Employees:           len(r.Employees),
		ShiftPatterns:       len(r.ShiftPatterns),
		AssignmentsInserted: inserted,
		AssignmentsSkipped:  len(assignments) - inserted,
	}

	logger.Info("Roster imported",
		zap.Int("employees", result.Employees),
		zap.Int("shift_patterns", result.ShiftPatterns),
		zap.Int("assignments_inserted", result.AssignmentsInserted),
		zap.Int("assignments_skipped", result.AssignmentsSkipped))

	return result, nil
}

var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rail-roster/import"))

func contentID(a model.Assignment) string {
	name := strings.Join([]string{a.EmployeeID, a.ProjectID, a.ShiftPatternID, a.Date, a.CustomStartTime, a.CustomEndTime}, "|")
	return uuid.NewSHA1(importNamespace, []byte(name)).String()
}
