package fatigue

import (
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

// shiftInputs is a shift definition with every override resolved against the parameters
type shiftInputs struct {
	Day        int
	StartTime  string
	EndTime    string
	StartHours float64
	Duration   float64
	IsNight    bool

	CommuteMinutes       float64
	Workload             int
	Attention            int
	BreakFrequency       float64
	BreakLength          float64
	ContinuousWork       float64
	BreakAfterContinuous float64
}

// resolveInputs applies per-shift overrides on top of the default parameters
func resolveInputs(shift ShiftDefinition, params Parameters) shiftInputs {
	startHours := timeutil.ParseTime(shift.StartTime)
	endHours := timeutil.ParseTime(shift.EndTime)

	in := shiftInputs{
		Day:                  shift.Day,
		StartTime:            shift.StartTime,
		EndTime:              shift.EndTime,
		StartHours:           startHours,
		Duration:             timeutil.ShiftDuration(shift.StartTime, shift.EndTime),
		IsNight:              timeutil.IsNightHours(startHours, endHours, shift.Night),
		CommuteMinutes:       resolveCommute(shift, params),
		Workload:             params.Workload,
		Attention:            params.Attention,
		BreakFrequency:       float64(params.BreakFrequency),
		BreakLength:          float64(params.BreakLength),
		ContinuousWork:       float64(params.ContinuousWork),
		BreakAfterContinuous: float64(params.BreakAfterContinuous),
	}

	if shift.Workload != nil {
		in.Workload = *shift.Workload
	}
	if shift.Attention != nil {
		in.Attention = *shift.Attention
	}
	if shift.BreakFrequency != nil {
		in.BreakFrequency = float64(*shift.BreakFrequency)
	}
	if shift.BreakLength != nil {
		in.BreakLength = float64(*shift.BreakLength)
	}

	return in
}

// resolveCommute returns the total commute minutes for a shift.
// Without overrides this is the default total. With at least one override, a missing
// direction counts as half of the default total.
func resolveCommute(shift ShiftDefinition, params Parameters) float64 {
	if shift.CommuteIn == nil && shift.CommuteOut == nil {
		return float64(params.CommuteMinutes)
	}

	half := float64(params.CommuteMinutes) / 2
	in, out := half, half
	if shift.CommuteIn != nil {
		in = float64(*shift.CommuteIn)
	}
	if shift.CommuteOut != nil {
		out = float64(*shift.CommuteOut)
	}
	return in + out
}

// load is the amount of fatigue debt a shift adds to the following shifts
func (in shiftInputs) load() float64 {
	load := in.Duration / loadReferenceHours
	if in.IsNight {
		load *= nightLoadFactor
	}
	return load
}

// gapAfter returns the non-negative rest gap in hours between prev and this shift
func (in shiftInputs) gapAfter(prev shiftInputs) float64 {
	gap := timeutil.RestGap(prev.Day, prev.StartTime, prev.EndTime, in.Day, in.StartTime)
	if gap < 0 {
		return 0
	}
	return gap
}
