package compliance

import (
	"sort"
	"time"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

// ResolvedShift is an assignment with its effective times worked out against its pattern
type ResolvedShift struct {
	Assignment model.Assignment
	Pattern    model.ShiftPattern
	Date       time.Time
	StartTime  string
	EndTime    string
	Start      time.Time
	End        time.Time
	Hours      float64
	IsNight    bool
}

// ResolveShift works out the effective start and end of an assignment.
//
// Times are taken from, in order of precedence:
//   - the assignment's custom start/end times
//   - the pattern's weekly schedule entry for the assignment's weekday
//   - the pattern's default start/end times
//
// A pattern with a weekly schedule but no entry for the weekday is not worked on that day.
// Returns false if the pattern is unknown, the date cannot be parsed, the weekday is not
// scheduled, or the effective times are malformed.
func ResolveShift(assignment model.Assignment, patterns model.PatternIndex) (ResolvedShift, bool) {
	pattern, ok := patterns[assignment.ShiftPatternID]
	if !ok {
		return ResolvedShift{}, false
	}

	date, err := timeutil.ParseDate(assignment.Date)
	if err != nil {
		return ResolvedShift{}, false
	}

	startTime, endTime := pattern.StartTime, pattern.EndTime
	scheduled := true
	if len(pattern.WeeklySchedule) > 0 {
		entry, found := pattern.WeeklySchedule[timeutil.WeekdayName(date)]
		startTime, endTime = entry.StartTime, entry.EndTime
		scheduled = found
	}

	if assignment.CustomStartTime != "" {
		startTime = assignment.CustomStartTime
	}
	if assignment.CustomEndTime != "" {
		endTime = assignment.CustomEndTime
	}
	if !scheduled && !assignment.HasCustomTimes() {
		return ResolvedShift{}, false
	}

	startHours, okStart := timeutil.ParseTimeStrict(startTime)
	_, okEnd := timeutil.ParseTimeStrict(endTime)
	if !okStart || !okEnd {
		return ResolvedShift{}, false
	}

	hours := timeutil.ShiftDuration(startTime, endTime)
	start := timeutil.AtHours(date, startHours)

	return ResolvedShift{
		Assignment: assignment,
		Pattern:    pattern,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Start:      start,
		End:        start.Add(time.Duration(hours * float64(time.Hour))),
		Hours:      hours,
		IsNight:    timeutil.IsNightShift(startTime, endTime, pattern.IsNight),
	}, true
}

// ResolveSchedule resolves every assignment it can and orders the shifts by start.
// Unresolvable assignments are dropped.
func ResolveSchedule(assignments []model.Assignment, patterns model.PatternIndex) []ResolvedShift {
	return sortByStart(resolveAll(assignments, patterns))
}

// resolveAll resolves every assignment it can, preserving input order
func resolveAll(assignments []model.Assignment, patterns model.PatternIndex) []ResolvedShift {
	resolved := make([]ResolvedShift, 0, len(assignments))
	for _, a := range assignments {
		if shift, ok := ResolveShift(a, patterns); ok {
			resolved = append(resolved, shift)
		}
	}
	return resolved
}

// sortByStart orders shifts chronologically. Ties keep input order.
func sortByStart(shifts []ResolvedShift) []ResolvedShift {
	sorted := make([]ResolvedShift, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

// distinctDates returns the parseable assignment dates, deduplicated and sorted ascending
func distinctDates(assignments []model.Assignment) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, a := range assignments {
		date, err := timeutil.ParseDate(a.Date)
		if err != nil || seen[date] {
			continue
		}
		seen[date] = true
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
