package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/pkg/core/compliance"
	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/metrics"
)

const maxConcurrentAssessments = 8

// AssessOptions controls which checks an assessment runs
type AssessOptions struct {
	// IncludeFatigue adds the fatigue score check after the statutory checks
	IncludeFatigue bool
	// Parameters are the fatigue defaults used when IncludeFatigue is set
	Parameters fatigue.Parameters
}

func newEngine(opts AssessOptions, logger *zap.Logger) *compliance.Engine {
	engineOpts := []compliance.Option{compliance.WithLogger(logger)}
	if opts.IncludeFatigue {
		engineOpts = append(engineOpts, compliance.WithFatigue(opts.Parameters))
	}
	return compliance.NewEngine(engineOpts...)
}

func validateOptions(opts AssessOptions) error {
	if !opts.IncludeFatigue {
		return nil
	}
	if err := fatigue.ValidateParameters(opts.Parameters); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// EmployeeAssessment is the compliance outcome for one employee
type EmployeeAssessment struct {
	Employee model.Employee              `json:"employee" yaml:"employee"`
	Result   compliance.ComplianceResult `json:"result" yaml:"result"`
}

// AssessEmployee checks one employee's whole roster, across all projects
func AssessEmployee(ctx context.Context, store RosterReader, logger *zap.Logger, employeeID string, opts AssessOptions) (*EmployeeAssessment, error) {
	start := time.Now()

	if err := validateOptions(opts); err != nil {
		metrics.EvaluationFailed(kindEmployee)
		return nil, err
	}

	snapshot, err := loadRoster(ctx, store)
	if err != nil {
		metrics.EvaluationFailed(kindEmployee)
		return nil, err
	}

	employee := lookupEmployee(ctx, store, logger, employeeID)
	result := newEngine(opts, logger).CheckEmployee(employeeID, snapshot.assignments, snapshot.patterns)

	recordViolations(result.Violations)
	metrics.EvaluationCompleted(kindEmployee, time.Since(start))

	logger.Debug("Assessed employee",
		zap.String("employee_id", employeeID),
		zap.Int("violations", len(result.Violations)),
		zap.Int("errors", result.ErrorCount),
		zap.Int("warnings", result.WarningCount))

	return &EmployeeAssessment{Employee: employee, Result: result}, nil
}

// AssessProject checks every employee with an assignment on the project
func AssessProject(ctx context.Context, store RosterReader, logger *zap.Logger, projectID string, opts AssessOptions) (*compliance.ProjectComplianceResult, error) {
	start := time.Now()

	if err := validateOptions(opts); err != nil {
		metrics.EvaluationFailed(kindProject)
		return nil, err
	}

	snapshot, err := loadRoster(ctx, store)
	if err != nil {
		metrics.EvaluationFailed(kindProject)
		return nil, err
	}

	result := newEngine(opts, logger).CheckProject(projectID, snapshot.assignments, snapshot.patterns)
	if result.EmployeeCount == 0 {
		logger.Warn("No assignments found for project", zap.String("project_id", projectID))
	}

	recordViolations(result.Violations)
	metrics.EvaluationCompleted(kindProject, time.Since(start))

	logger.Debug("Assessed project",
		zap.String("project_id", projectID),
		zap.Int("employees", result.EmployeeCount),
		zap.Int("non_compliant", result.NonCompliantEmployees))

	return &result, nil
}

// AssessAllEmployees checks every employee that has at least one assignment.
// Employees are checked concurrently and returned in ID order.
func AssessAllEmployees(ctx context.Context, store RosterReader, logger *zap.Logger, opts AssessOptions) ([]EmployeeAssessment, error) {
	start := time.Now()

	if err := validateOptions(opts); err != nil {
		metrics.EvaluationFailed(kindEmployee)
		return nil, err
	}

	snapshot, err := loadRoster(ctx, store)
	if err != nil {
		metrics.EvaluationFailed(kindEmployee)
		return nil, err
	}

	var employeeIDs []string
	seen := make(map[string]bool)
	for _, a := range snapshot.assignments {
		if !seen[a.EmployeeID] {
			seen[a.EmployeeID] = true
			employeeIDs = append(employeeIDs, a.EmployeeID)
		}
	}
	sort.Strings(employeeIDs)

	logger.Debug("Assessing all employees", zap.Int("employees", len(employeeIDs)))

	engine := newEngine(opts, logger)
	assessments := make([]EmployeeAssessment, len(employeeIDs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentAssessments)

	for i, employeeID := range employeeIDs {
		wg.Add(1)
		go func(i int, employeeID string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			// Each goroutine writes only its own slot
			assessments[i] = EmployeeAssessment{
				Employee: lookupEmployee(ctx, store, logger, employeeID),
				Result:   engine.CheckEmployee(employeeID, snapshot.assignments, snapshot.patterns),
			}
		}(i, employeeID)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		metrics.EvaluationFailed(kindEmployee)
		return nil, fmt.Errorf("assessment cancelled: %w", err)
	}

	for _, assessment := range assessments {
		recordViolations(assessment.Result.Violations)
	}
	metrics.EvaluationCompleted(kindEmployee, time.Since(start))

	return assessments, nil
}

// SimulationRequest describes an assignment a planner is considering
type SimulationRequest struct {
	EmployeeID     string `json:"employeeId" yaml:"employeeId" validate:"required"`
	ProjectID      string `json:"projectId" yaml:"projectId" validate:"required"`
	ShiftPatternID string `json:"shiftPatternId" yaml:"shiftPatternId" validate:"required"`
	Date           string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
}

// SimulationResult compares an employee's roster with and without a proposed assignment
type SimulationResult struct {
	Request SimulationRequest `json:"request" yaml:"request"`
	// Violations is everything the roster would have with the assignment added
	Violations []compliance.ComplianceViolation `json:"violations" yaml:"violations"`
	// Introduced are the violations the assignment would add
	Introduced []compliance.ComplianceViolation `json:"introduced" yaml:"introduced"`
	// Allowed is false when the assignment introduces an error-severity violation
	Allowed bool `json:"allowed" yaml:"allowed"`
}

// SimulateAssignment reports what adding an assignment would do to an employee's compliance.
// Nothing is saved.
func SimulateAssignment(ctx context.Context, store RosterReader, logger *zap.Logger, req SimulationRequest, opts AssessOptions) (*SimulationResult, error) {
	start := time.Now()

	if err := validate.Struct(req); err != nil {
		metrics.EvaluationFailed(kindSimulation)
		return nil, fmt.Errorf("simulation request validation failed: %w", err)
	}
	if err := validateOptions(opts); err != nil {
		metrics.EvaluationFailed(kindSimulation)
		return nil, err
	}

	snapshot, err := loadRoster(ctx, store)
	if err != nil {
		metrics.EvaluationFailed(kindSimulation)
		return nil, err
	}

	if _, ok := model.IndexPatterns(snapshot.patterns)[req.ShiftPatternID]; !ok {
		metrics.EvaluationFailed(kindSimulation)
		return nil, fmt.Errorf("unknown shift pattern %q", req.ShiftPatternID)
	}

	engine := newEngine(opts, logger)
	before := engine.CheckEmployee(req.EmployeeID, snapshot.assignments, snapshot.patterns).Violations
	after := engine.ValidateNewAssignment(req.EmployeeID, req.ProjectID, req.ShiftPatternID, req.Date, snapshot.assignments, snapshot.patterns)
	introduced := compliance.Introduced(before, after)

	result := &SimulationResult{
		Request:    req,
		Violations: after,
		Introduced: introduced,
		Allowed:    true,
	}
	for _, v := range introduced {
		if v.Severity.IsError() {
			result.Allowed = false
			break
		}
	}

	metrics.EvaluationCompleted(kindSimulation, time.Since(start))

	logger.Debug("Simulated assignment",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.Int("introduced", len(introduced)),
		zap.Bool("allowed", result.Allowed))

	return result, nil
}

// recordViolations counts violations by type and severity
func recordViolations(violations []compliance.ComplianceViolation) {
	for _, v := range violations {
		metrics.ViolationDetected(v.Type.String(), v.Severity.String())
	}
}
