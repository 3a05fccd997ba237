package compliance

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// Engine runs a fixed list of checks against employee rosters.
// An Engine holds no state between calls and is safe for concurrent use.
type Engine struct {
	statutory []Check
	extra     []Check
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithFatigue adds the fatigue score check after the statutory checks
func WithFatigue(params fatigue.Parameters) Option {
	return func(e *Engine) {
		e.extra = append(e.extra, NewFatigueScoreCheck(params))
	}
}

// WithChecks replaces the statutory checks. Checks added by other options are kept.
func WithChecks(checks ...Check) Option {
	return func(e *Engine) {
		e.statutory = checks
	}
}

// WithLogger sets the logger used for per-check debug output
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine running DefaultChecks plus whatever the options add
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		statutory: DefaultChecks(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Checks returns the checks the engine runs, in order
func (e *Engine) Checks() []Check {
	checks := make([]Check, 0, len(e.statutory)+len(e.extra))
	checks = append(checks, e.statutory...)
	return append(checks, e.extra...)
}

// CheckEmployee runs every check against one employee's assignments.
// Assignments belonging to other employees are ignored.
func (e *Engine) CheckEmployee(employeeID string, assignments []model.Assignment, patterns []model.ShiftPattern) ComplianceResult {
	scope := Scope{
		EmployeeID:  employeeID,
		Assignments: model.FilterByEmployee(assignments, employeeID),
		Patterns:    model.IndexPatterns(patterns),
	}
	return NewComplianceResult(employeeID, e.run(scope))
}

// CheckProject checks every employee with an assignment in the project.
//
// Each employee is evaluated on their project assignments only, except for the same day
// check which sees all of the employee's assignments so double bookings on another project
// are caught. Those are reported only on dates the employee works on this project.
// Employees are reported in ID order.
func (e *Engine) CheckProject(projectID string, assignments []model.Assignment, patterns []model.ShiftPattern) ProjectComplianceResult {
	index := model.IndexPatterns(patterns)
	projectAssignments := model.FilterByProject(assignments, projectID)

	var employeeIDs []string
	seen := make(map[string]bool)
	for _, a := range projectAssignments {
		if !seen[a.EmployeeID] {
			seen[a.EmployeeID] = true
			employeeIDs = append(employeeIDs, a.EmployeeID)
		}
	}
	sort.Strings(employeeIDs)

	results := make([]ComplianceResult, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		scope := Scope{
			EmployeeID:  employeeID,
			Assignments: model.FilterByEmployee(projectAssignments, employeeID),
			Wider:       model.FilterByEmployee(assignments, employeeID),
			Patterns:    index,
		}
		results = append(results, NewComplianceResult(employeeID, e.run(scope)))
	}

	e.logger.Debug("Project compliance checked",
		zap.String("project_id", projectID),
		zap.Int("employees", len(results)))

	return NewProjectComplianceResult(projectID, results)
}

// ValidateNewAssignment reports the violations the employee's roster would have if the
// proposed assignment were added. Inputs are not modified.
func (e *Engine) ValidateNewAssignment(employeeID, projectID, patternID, date string, existing []model.Assignment, patterns []model.ShiftPattern) []ComplianceViolation {
	proposed := ProposedAssignment(employeeID, projectID, patternID, date)

	combined := make([]model.Assignment, 0, len(existing)+1)
	combined = append(combined, model.FilterByEmployee(existing, employeeID)...)
	combined = append(combined, proposed)

	e.logger.Debug("Validating proposed assignment",
		zap.String("employee_id", employeeID),
		zap.String("project_id", projectID),
		zap.String("pattern_id", patternID),
		zap.String("date", date))

	return e.CheckEmployee(employeeID, combined, patterns).Violations
}

var proposedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rail-roster/proposed"))

// ProposedAssignment builds an unsaved assignment. Its ID is derived from the
// employee, project, pattern and date so repeated validations report identical details.
func ProposedAssignment(employeeID, projectID, patternID, date string) model.Assignment {
	name := strings.Join([]string{employeeID, projectID, patternID, date}, "|")
	return model.Assignment{
		ID:             uuid.NewSHA1(proposedNamespace, []byte(name)).String(),
		EmployeeID:     employeeID,
		ProjectID:      projectID,
		ShiftPatternID: patternID,
		Date:           date,
	}
}

func (e *Engine) run(scope Scope) []ComplianceViolation {
	violations := []ComplianceViolation{}
	for _, check := range e.Checks() {
		found := check.Check(scope)
		if len(found) > 0 {
			e.logger.Debug("Check found violations",
				zap.String("check", check.Name()),
				zap.String("employee_id", scope.EmployeeID),
				zap.Int("count", len(found)))
		}
		violations = append(violations, found...)
	}
	return violations
}

// CheckEmployeeCompliance runs the statutory checks against one employee's assignments
func CheckEmployeeCompliance(employeeID string, assignments []model.Assignment, patterns []model.ShiftPattern) ComplianceResult {
	return NewEngine().CheckEmployee(employeeID, assignments, patterns)
}

// CheckProjectCompliance runs the statutory checks for every employee on a project
func CheckProjectCompliance(projectID string, assignments []model.Assignment, patterns []model.ShiftPattern) ProjectComplianceResult {
	return NewEngine().CheckProject(projectID, assignments, patterns)
}

// ValidateNewAssignment runs the statutory checks against existing plus the proposed assignment
func ValidateNewAssignment(employeeID, projectID, patternID, date string, existing []model.Assignment, patterns []model.ShiftPattern) []ComplianceViolation {
	return NewEngine().ValidateNewAssignment(employeeID, projectID, patternID, date, existing, patterns)
}
