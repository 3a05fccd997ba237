package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rail-roster/pkg/core/compliance"
	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/services"
)

// Output formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

// ValidateFormat returns an error for an unknown --output value
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatYAML, FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected one of: text, yaml, json", format)
}

// render writes v in the selected format. Text output is produced by text.
func (app *AppContext) render(v any, text func(w io.Writer)) error {
	return writeOutput(app.Out, app.Format, v, text)
}

func writeOutput(w io.Writer, format string, v any, text func(w io.Writer)) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		text(w)
		return nil
	}
}

// levelColor maps a fatigue level to its display color
func levelColor(level fatigue.RiskLevel) string {
	switch level {
	case fatigue.RiskLevelLow:
		return colorGreen
	case fatigue.RiskLevelModerate:
		return colorCyan
	case fatigue.RiskLevelElevated:
		return colorYellow
	case fatigue.RiskLevelCritical:
		return colorRed
	}
	return colorDim
}

// severityColor maps a violation severity to its display color
func severityColor(severity compliance.Severity) string {
	if severity.IsError() {
		return colorRed
	}
	if severity.IsWarning() {
		return colorYellow
	}
	return colorDim
}

func formatLevel(level fatigue.RiskLevel) string {
	if level == "" {
		return colorDim + "-" + colorReset
	}
	return levelColor(level) + level.Info().Label + colorReset
}

func nightMarker(isNight bool) string {
	if isNight {
		return "night"
	}
	return "day"
}

func renderFatigueTable(w io.Writer, labels []string, results []fatigue.CombinedFatigueResult) {
	fmt.Fprintf(w, "%-24s %-6s %8s %-10s %8s %-10s\n", "Shift", "Type", "Risk", "Level", "FGI", "Level")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for i, r := range results {
		fmt.Fprintf(w, "%-24s %-6s %8.3f %-19s %8.1f %s\n",
			labels[i],
			nightMarker(r.IsNight),
			r.RiskIndex,
			formatLevel(r.RiskLevel),
			r.FatigueIndex,
			formatLevel(r.FatigueLevel))
	}
}

func renderFatigueSummary(w io.Writer, report services.FatigueReport) {
	fmt.Fprintf(w, "\nPeak risk index:    %.3f  %s\n", report.PeakRisk, formatLevel(report.RiskLevel))
	fmt.Fprintf(w, "Peak fatigue index: %.1f  %s\n", report.PeakFatigue, formatLevel(report.FatigueLevel))
}

// renderFatigueReport prints a scored shift sequence
func renderFatigueReport(w io.Writer, shifts []fatigue.ShiftDefinition, report *services.FatigueReport) {
	if len(report.Shifts) == 0 {
		fmt.Fprintln(w, "No shifts to score")
		return
	}

	labels := make([]string, len(shifts))
	for i, s := range shifts {
		labels[i] = fmt.Sprintf("Day %d %s-%s", s.Day, s.StartTime, s.EndTime)
	}
	renderFatigueTable(w, labels, report.Shifts)
	renderFatigueSummary(w, *report)
}

// renderEmployeeFatigue prints the fatigue profile of an employee's roster
func renderEmployeeFatigue(w io.Writer, report *services.EmployeeFatigueReport) {
	fmt.Fprintf(w, "Fatigue profile for %s (%s)\n\n", report.Employee.FullName(), report.Employee.ID)

	if len(report.Shifts) == 0 {
		fmt.Fprintln(w, "No rostered shifts")
	} else {
		labels := make([]string, len(report.Shifts))
		results := make([]fatigue.CombinedFatigueResult, len(report.Shifts))
		for i, s := range report.Shifts {
			labels[i] = fmt.Sprintf("%s %s-%s", s.Date, s.StartTime, s.EndTime)
			results[i] = s.Result
		}
		renderFatigueTable(w, labels, results)
		renderFatigueSummary(w, report.Summary)
	}

	if report.Skipped > 0 {
		fmt.Fprintf(w, "\n%s%d assignment(s) could not be resolved and were not scored%s\n", colorYellow, report.Skipped, colorReset)
	}
}

func renderViolations(w io.Writer, violations []compliance.ComplianceViolation, indent string) {
	for _, v := range compliance.SortBySeverity(violations) {
		fmt.Fprintf(w, "%s%s%-8s%s %s  %-26s %s\n",
			indent,
			severityColor(v.Severity), v.Severity, colorReset,
			v.Date,
			v.Type,
			v.Message)
	}
}

func complianceStatus(result compliance.ComplianceResult) string {
	switch {
	case result.HasErrors:
		return fmt.Sprintf("%sNON-COMPLIANT%s (%d errors, %d warnings)", colorRed, colorReset, result.ErrorCount, result.WarningCount)
	case result.HasWarnings:
		return fmt.Sprintf("%sWARNINGS%s (%d warnings)", colorYellow, colorReset, result.WarningCount)
	}
	return colorGreen + "COMPLIANT" + colorReset
}

// renderAssessments prints one block per employee
func renderAssessments(w io.Writer, assessments []services.EmployeeAssessment) {
	if len(assessments) == 0 {
		fmt.Fprintln(w, "No employees with assignments")
		return
	}

	for i, a := range assessments {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s): %s\n", a.Employee.FullName(), a.Employee.ID, complianceStatus(a.Result))
		renderViolations(w, a.Result.Violations, "  ")
	}
}

// renderProject prints a project's compliance summary and its violations
func renderProject(w io.Writer, result *compliance.ProjectComplianceResult) {
	fmt.Fprintf(w, "Project %s: %d employee(s), %d non-compliant\n", result.ProjectID, result.EmployeeCount, result.NonCompliantEmployees)

	if result.IsCompliant() {
		fmt.Fprintf(w, "%sNo violations%s\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintln(w)
	renderViolations(w, result.Violations, "")
	fmt.Fprintf(w, "\n%s\n", formatSummary(result.Summary))
}

// formatSummary lists violation counts by type in a stable order
func formatSummary(summary compliance.Summary) string {
	types := make([]string, 0, len(summary.ByType))
	for t := range summary.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%s=%d", t, summary.ByType[compliance.ViolationType(t)])
	}
	return fmt.Sprintf("Total violations: %d [%s]", summary.Total, strings.Join(parts, ", "))
}

// renderSimulation prints whether a proposed assignment may go ahead
func renderSimulation(w io.Writer, result *services.SimulationResult) {
	req := result.Request
	fmt.Fprintf(w, "Proposed: %s on %s (%s, pattern %s)\n", req.EmployeeID, req.Date, req.ProjectID, req.ShiftPatternID)

	if result.Allowed {
		fmt.Fprintf(w, "%sAllowed%s\n", colorGreen, colorReset)
	} else {
		fmt.Fprintf(w, "%sNot allowed%s\n", colorRed, colorReset)
	}

	if len(result.Introduced) == 0 {
		fmt.Fprintf(w, "%sNo new violations%s\n", colorDim, colorReset)
		return
	}
	fmt.Fprintln(w, "\nNew violations:")
	renderViolations(w, result.Introduced, "  ")
}

// renderExpansion prints the assignments produced by roster rules
func renderExpansion(w io.Writer, result *services.ExpansionResult) {
	fmt.Fprintf(w, "Expanded %d assignment(s) from %s to %s\n\n", len(result.Assignments), result.From, result.To)

	for _, a := range result.Assignments {
		fmt.Fprintf(w, "  %s  %-12s %-12s %s\n", a.Date, a.EmployeeID, a.ProjectID, a.ShiftPatternID)
	}

	if result.Saved {
		fmt.Fprintf(w, "\n%sSaved %d new assignment(s)%s, %d already present\n",
			colorGreen, result.Inserted, colorReset, len(result.Assignments)-result.Inserted)
	}
}

// renderImport prints a roster import summary
func renderImport(w io.Writer, result *services.ImportResult) {
	fmt.Fprintf(w, "%sRoster imported%s\n", colorGreen, colorReset)
	fmt.Fprintf(w, "  Employees:      %d\n", result.Employees)
	fmt.Fprintf(w, "  Shift patterns: %d\n", result.ShiftPatterns)
	fmt.Fprintf(w, "  Assignments:    %d inserted, %d already present\n", result.AssignmentsInserted, result.AssignmentsSkipped)
}
