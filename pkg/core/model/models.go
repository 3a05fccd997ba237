package model

import (
	"strings"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
)

// Employee represents a rostered worker. Only used for display.
type Employee struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Role      string `json:"role" yaml:"role"`
}

// FullName returns "First Last", falling back to the ID when no name is known
func (e Employee) FullName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.ID
	}
	return name
}

// DaySchedule is the start and end time a pattern uses on one weekday
type DaySchedule struct {
	StartTime string `json:"startTime" yaml:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" yaml:"endTime" validate:"required,hhmm"`
}

// ShiftPattern is a named shift template belonging to a project.
//
// WeeklySchedule is keyed by lower-case English weekday name ("monday"). When it is
// non-empty it replaces StartTime/EndTime, and weekdays without an entry are not worked.
// The fatigue fields are optional per-pattern overrides of the default parameters.
type ShiftPattern struct {
	ID             string                 `json:"id" yaml:"id" validate:"required"`
	ProjectID      string                 `json:"projectId" yaml:"projectId" validate:"required"`
	Name           string                 `json:"name" yaml:"name"`
	StartTime      string                 `json:"startTime" yaml:"startTime" validate:"required,hhmm"`
	EndTime        string                 `json:"endTime" yaml:"endTime" validate:"required,hhmm"`
	IsNight        bool                   `json:"isNight" yaml:"isNight"`
	WeeklySchedule map[string]DaySchedule `json:"weeklySchedule,omitempty" yaml:"weeklySchedule,omitempty" validate:"omitempty,dive,keys,weekday,endkeys"`

	Workload       *int `json:"workload,omitempty" yaml:"workload,omitempty" validate:"omitempty,min=1,max=5"`
	Attention      *int `json:"attention,omitempty" yaml:"attention,omitempty" validate:"omitempty,min=1,max=5"`
	CommuteIn      *int `json:"commuteIn,omitempty" yaml:"commuteIn,omitempty" validate:"omitempty,min=0,max=480"`
	CommuteOut     *int `json:"commuteOut,omitempty" yaml:"commuteOut,omitempty" validate:"omitempty,min=0,max=480"`
	BreakFrequency *int `json:"breakFrequency,omitempty" yaml:"breakFrequency,omitempty" validate:"omitempty,min=0,max=720"`
	BreakLength    *int `json:"breakLength,omitempty" yaml:"breakLength,omitempty" validate:"omitempty,min=0,max=120"`
}

// Assignment places an employee on a shift pattern on one calendar date.
// CustomStartTime and CustomEndTime override the pattern's times and are set together.
type Assignment struct {
	ID              string `json:"id" yaml:"id"`
	EmployeeID      string `json:"employeeId" yaml:"employeeId" validate:"required"`
	ProjectID       string `json:"projectId" yaml:"projectId" validate:"required"`
	ShiftPatternID  string `json:"shiftPatternId" yaml:"shiftPatternId" validate:"required"`
	Date            string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	CustomStartTime string `json:"customStartTime,omitempty" yaml:"customStartTime,omitempty" validate:"omitempty,hhmm"`
	CustomEndTime   string `json:"customEndTime,omitempty" yaml:"customEndTime,omitempty" validate:"omitempty,hhmm"`
	Notes           string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// HasCustomTimes returns true if the assignment overrides the pattern's times
func (a Assignment) HasCustomTimes() bool {
	return a.CustomStartTime != "" && a.CustomEndTime != ""
}

// PatternIndex maps shift pattern ID to pattern
type PatternIndex map[string]ShiftPattern

// IndexPatterns builds a PatternIndex. Later patterns win on duplicate IDs.
func IndexPatterns(patterns []ShiftPattern) PatternIndex {
	index := make(PatternIndex, len(patterns))
	for _, p := range patterns {
		index[p.ID] = p
	}
	return index
}

// ShiftDefinition converts the pattern's fatigue overrides into a fatigue shift for the given times
func (p ShiftPattern) ShiftDefinition(day int, startTime, endTime string) fatigue.ShiftDefinition {
	return fatigue.ShiftDefinition{
		Day:            day,
		StartTime:      startTime,
		EndTime:        endTime,
		Night:          p.IsNight,
		CommuteIn:      p.CommuteIn,
		CommuteOut:     p.CommuteOut,
		Workload:       p.Workload,
		Attention:      p.Attention,
		BreakFrequency: p.BreakFrequency,
		BreakLength:    p.BreakLength,
	}
}

// FilterByEmployee returns the assignments belonging to one employee, in input order
func FilterByEmployee(assignments []Assignment, employeeID string) []Assignment {
	var filtered []Assignment
	for _, a := range assignments {
		if a.EmployeeID == employeeID {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// FilterByProject returns the assignments belonging to one project, in input order
func FilterByProject(assignments []Assignment, projectID string) []Assignment {
	var filtered []Assignment
	for _, a := range assignments {
		if a.ProjectID == projectID {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
