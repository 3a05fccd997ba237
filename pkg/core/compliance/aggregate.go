package compliance

import "sort"

// Summary counts violations by severity and by type
type Summary struct {
	Total      int                   `json:"total" yaml:"total"`
	BySeverity map[Severity]int      `json:"bySeverity" yaml:"bySeverity"`
	ByType     map[ViolationType]int `json:"byType" yaml:"byType"`
}

// Summarize counts violations. Only non-zero buckets appear in the maps.
func Summarize(violations []ComplianceViolation) Summary {
	summary := Summary{
		Total:      len(violations),
		BySeverity: make(map[Severity]int),
		ByType:     make(map[ViolationType]int),
	}
	for _, v := range violations {
		summary.BySeverity[v.Severity]++
		summary.ByType[v.Type]++
	}
	return summary
}

// ProjectComplianceResult unions the results of every employee on a project
type ProjectComplianceResult struct {
	ProjectID             string                `json:"projectId" yaml:"projectId"`
	Employees             []ComplianceResult    `json:"employees" yaml:"employees"`
	Violations            []ComplianceViolation `json:"violations" yaml:"violations"`
	Summary               Summary               `json:"summary" yaml:"summary"`
	EmployeeCount         int                   `json:"employeeCount" yaml:"employeeCount"`
	NonCompliantEmployees int                   `json:"nonCompliantEmployees" yaml:"nonCompliantEmployees"`
	HasErrors             bool                  `json:"hasErrors" yaml:"hasErrors"`
	HasWarnings           bool                  `json:"hasWarnings" yaml:"hasWarnings"`
}

// NewProjectComplianceResult unions per-employee results in the order given
func NewProjectComplianceResult(projectID string, employees []ComplianceResult) ProjectComplianceResult {
	if employees == nil {
		employees = []ComplianceResult{}
	}

	result := ProjectComplianceResult{
		ProjectID:     projectID,
		Employees:     employees,
		Violations:    []ComplianceViolation{},
		EmployeeCount: len(employees),
	}

	for _, e := range employees {
		result.Violations = append(result.Violations, e.Violations...)
		if !e.IsCompliant() {
			result.NonCompliantEmployees++
		}
		result.HasErrors = result.HasErrors || e.HasErrors
		result.HasWarnings = result.HasWarnings || e.HasWarnings
	}
	result.Summary = Summarize(result.Violations)

	return result
}

// IsCompliant returns true if no employee on the project has a violation
func (r ProjectComplianceResult) IsCompliant() bool {
	return len(r.Violations) == 0
}

// MostSevere returns the highest ranked violation. The earliest wins ties.
// Returns false if there are no violations.
func MostSevere(violations []ComplianceViolation) (ComplianceViolation, bool) {
	if len(violations) == 0 {
		return ComplianceViolation{}, false
	}

	worst := violations[0]
	for _, v := range violations[1:] {
		if v.Severity.Rank() > worst.Severity.Rank() {
			worst = v
		}
	}
	return worst, true
}

// SortBySeverity returns the violations ordered most severe first, then by date.
// The input is not modified.
func SortBySeverity(violations []ComplianceViolation) []ComplianceViolation {
	sorted := make([]ComplianceViolation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Severity.Rank(), sorted[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// ViolationKey identifies a violation independently of its message and detail
type ViolationKey struct {
	Type     ViolationType
	Severity Severity
	Date     string
}

// Key returns the violation's identity for comparing two evaluations of the same roster
func (v ComplianceViolation) Key() ViolationKey {
	return ViolationKey{Type: v.Type, Severity: v.Severity, Date: v.Date}
}

// Introduced returns the violations in after that have no counterpart in before
func Introduced(before, after []ComplianceViolation) []ComplianceViolation {
	existing := make(map[ViolationKey]int)
	for _, v := range before {
		existing[v.Key()]++
	}

	introduced := []ComplianceViolation{}
	for _, v := range after {
		if existing[v.Key()] > 0 {
			existing[v.Key()]--
			continue
		}
		introduced = append(introduced, v)
	}
	return introduced
}
