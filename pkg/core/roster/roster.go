package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

// Rule assigns an employee to a shift pattern on every date matched by an RRule,
// e.g. "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH". Without a DTSTART in the rule, occurrences are
// counted from the start of the expansion range.
type Rule struct {
	Name            string   `yaml:"name,omitempty"`
	RRule           string   `yaml:"rrule" validate:"required"`
	EmployeeID      string   `yaml:"employeeId" validate:"required"`
	ProjectID       string   `yaml:"projectId" validate:"required"`
	ShiftPatternID  string   `yaml:"shiftPatternId" validate:"required"`
	CustomStartTime string   `yaml:"customStartTime,omitempty"`
	CustomEndTime   string   `yaml:"customEndTime,omitempty"`
	Exclude         []string `yaml:"exclude,omitempty" validate:"dive,datetime=2006-01-02"`
}

// namespace for deterministic assignment IDs
var assignmentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rail-roster/assignment"))

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateRule checks required fields and RRule syntax
func ValidateRule(rule Rule) error {
	if err := validate.Struct(rule); err != nil {
		return fmt.Errorf("roster rule validation failed: %w", err)
	}
	if _, err := rrule.StrToRRule(rule.RRule); err != nil {
		return fmt.Errorf("invalid rrule %q: %w", rule.RRule, err)
	}
	return nil
}

// Occurrences returns the dates in [from, to] matched by the rule, as midnight UTC
func Occurrences(rule Rule, from, to time.Time) ([]time.Time, error) {
	r, err := rrule.StrToRRule(rule.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule %q: %w", rule.RRule, err)
	}

	if !strings.Contains(strings.ToUpper(rule.RRule), "DTSTART") {
		r.DTStart(from)
	}

	excluded := make(map[string]bool, len(rule.Exclude))
	for _, date := range rule.Exclude {
		excluded[date] = true
	}

	var dates []time.Time
	seen := make(map[string]bool)
	for _, occurrence := range r.Between(from, to, true) {
		date := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, time.UTC)
		key := timeutil.FormatDate(date)
		if excluded[key] || seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, date)
	}

	return dates, nil
}

// Expand turns rules into concrete assignments for every matching date in [from, to].
//
// Assignment IDs are derived from the rule and date, so expanding the same rules twice
// gives the same IDs. Assignments are ordered by date, then employee, then rule order.
func Expand(rules []Rule, from, to time.Time) ([]model.Assignment, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("expansion range ends (%s) before it starts (%s)", timeutil.FormatDate(to), timeutil.FormatDate(from))
	}

	type ordered struct {
		assignment model.Assignment
		rule       int
	}
	var expanded []ordered

	for i, rule := range rules {
		if err := ValidateRule(rule); err != nil {
			return nil, fmt.Errorf("failed to expand rule %d: %w", i, err)
		}

		dates, err := Occurrences(rule, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to expand rule %d: %w", i, err)
		}

		for _, date := range dates {
			key := timeutil.FormatDate(date)
			expanded = append(expanded, ordered{
				rule: i,
				assignment: model.Assignment{
					ID:              AssignmentID(rule, key),
					EmployeeID:      rule.EmployeeID,
					ProjectID:       rule.ProjectID,
					ShiftPatternID:  rule.ShiftPatternID,
					Date:            key,
					CustomStartTime: rule.CustomStartTime,
					CustomEndTime:   rule.CustomEndTime,
					Notes:           rule.Name,
				},
			})
		}
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		a, b := expanded[i], expanded[j]
		if a.assignment.Date != b.assignment.Date {
			return a.assignment.Date < b.assignment.Date
		}
		if a.assignment.EmployeeID != b.assignment.EmployeeID {
			return a.assignment.EmployeeID < b.assignment.EmployeeID
		}
		return a.rule < b.rule
	})

	assignments := make([]model.Assignment, 0, len(expanded))
	for _, e := range expanded {
		assignments = append(assignments, e.assignment)
	}
	return assignments, nil
}

// AssignmentID returns the deterministic ID of the assignment a rule produces on a date
func AssignmentID(rule Rule, date string) string {
	name := strings.Join([]string{rule.EmployeeID, rule.ProjectID, rule.ShiftPatternID, rule.RRule, date}, "|")
	return uuid.NewSHA1(assignmentNamespace, []byte(name)).String()
}
