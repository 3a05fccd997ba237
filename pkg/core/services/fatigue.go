package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/pkg/core/compliance"
	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/metrics"
)

// Evaluation kinds used as metric labels
const (
	kindFatigue         = "fatigue"
	kindEmployeeFatigue = "employee_fatigue"
	kindEmployee        = "employee_compliance"
	kindProject         = "project_compliance"
	kindSimulation      = "simulation"
	kindExpansion       = "expansion"
)

// FatigueReport is a scored shift sequence with its worst values
type FatigueReport struct {
	Shifts       []fatigue.CombinedFatigueResult `json:"shifts" yaml:"shifts"`
	PeakRisk     float64                         `json:"peakRisk" yaml:"peakRisk"`
	PeakFatigue  float64                         `json:"peakFatigue" yaml:"peakFatigue"`
	RiskLevel    fatigue.RiskLevel               `json:"riskLevel,omitempty" yaml:"riskLevel,omitempty"`
	FatigueLevel fatigue.RiskLevel               `json:"fatigueLevel,omitempty" yaml:"fatigueLevel,omitempty"`
}

// ComputeFatigue validates and scores an explicit shift sequence
func ComputeFatigue(shifts []fatigue.ShiftDefinition, params fatigue.Parameters, logger *zap.Logger) (*FatigueReport, error) {
	start := time.Now()

	if err := fatigue.ValidateParameters(params); err != nil {
		metrics.EvaluationFailed(kindFatigue)
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := fatigue.ValidateSequence(shifts); err != nil {
		metrics.EvaluationFailed(kindFatigue)
		return nil, fmt.Errorf("invalid shift sequence: %w", err)
	}

	report := newFatigueReport(fatigue.ComputeCombinedSequence(shifts, params))
	metrics.EvaluationCompleted(kindFatigue, time.Since(start))

	logger.Debug("Computed fatigue sequence",
		zap.Int("shifts", len(shifts)),
		zap.Float64("peak_risk", report.PeakRisk),
		zap.Float64("peak_fatigue", report.PeakFatigue))

	return report, nil
}

// ScoredAssignment is one rostered shift with its fatigue scores
type ScoredAssignment struct {
	AssignmentID string                        `json:"assignmentId" yaml:"assignmentId"`
	Date         string                        `json:"date" yaml:"date"`
	StartTime    string                        `json:"startTime" yaml:"startTime"`
	EndTime      string                        `json:"endTime" yaml:"endTime"`
	Result       fatigue.CombinedFatigueResult `json:"result" yaml:"result"`
}

// EmployeeFatigueReport is the fatigue profile of one employee's roster
type EmployeeFatigueReport struct {
	Employee model.Employee     `json:"employee" yaml:"employee"`
	Shifts   []ScoredAssignment `json:"shifts" yaml:"shifts"`
	// Skipped counts assignments that could not be resolved to times
	Skipped int           `json:"skipped" yaml:"skipped"`
	Summary FatigueReport `json:"summary" yaml:"summary"`
}

// EmployeeFatigue scores every resolvable assignment of one employee, across all projects
func EmployeeFatigue(ctx context.Context, store RosterReader, logger *zap.Logger, params fatigue.Parameters, employeeID string) (*EmployeeFatigueReport, error) {
	start := time.Now()

	if err := fatigue.ValidateParameters(params); err != nil {
		metrics.EvaluationFailed(kindEmployeeFatigue)
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	snapshot, err := loadRoster(ctx, store)
	if err != nil {
		metrics.EvaluationFailed(kindEmployeeFatigue)
		return nil, err
	}

	employee := lookupEmployee(ctx, store, logger, employeeID)
	assignments := model.FilterByEmployee(snapshot.assignments, employeeID)
	shifts := compliance.ResolveSchedule(assignments, model.IndexPatterns(snapshot.patterns))

	var results []fatigue.CombinedFatigueResult
	if len(shifts) > 0 {
		results = fatigue.ComputeCombinedSequence(compliance.FatigueSequence(shifts), params)
	}

	report := &EmployeeFatigueReport{
		Employee: employee,
		Shifts:   make([]ScoredAssignment, 0, len(shifts)),
		Skipped:  len(assignments) - len(shifts),
		Summary:  *newFatigueReport(results),
	}
	for i, shift := range shifts {
		report.Shifts = append(report.Shifts, ScoredAssignment{
			AssignmentID: shift.Assignment.ID,
			Date:         shift.Assignment.Date,
			StartTime:    shift.StartTime,
			EndTime:      shift.EndTime,
			Result:       results[i],
		})
	}

	metrics.EvaluationCompleted(kindEmployeeFatigue, time.Since(start))

	if report.Skipped > 0 {
		logger.Warn("Some assignments could not be resolved and were not scored",
			zap.String("employee_id", employeeID),
			zap.Int("skipped", report.Skipped))
	}
	logger.Debug("Computed employee fatigue",
		zap.String("employee_id", employeeID),
		zap.Int("shifts", len(report.Shifts)))

	return report, nil
}

// newFatigueReport summarises results and records them in metrics
func newFatigueReport(results []fatigue.CombinedFatigueResult) *FatigueReport {
	report := &FatigueReport{Shifts: results}
	if report.Shifts == nil {
		report.Shifts = []fatigue.CombinedFatigueResult{}
	}

	for _, r := range results {
		metrics.ShiftScored(r.RiskIndex, r.FatigueIndex)

		if r.RiskIndex > report.PeakRisk {
			report.PeakRisk = r.RiskIndex
		}
		if r.FatigueIndex > report.PeakFatigue {
			report.PeakFatigue = r.FatigueIndex
		}
		if !report.RiskLevel.AtLeast(r.RiskLevel) {
			report.RiskLevel = r.RiskLevel
		}
		if !report.FatigueLevel.AtLeast(r.FatigueLevel) {
			report.FatigueLevel = r.FatigueLevel
		}
	}

	return report
}
