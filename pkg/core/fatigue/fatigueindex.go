package fatigue

import "math"

// FatigueIndexModel is the additive model on a 0-100 scale. Night shifts weigh the
// time of day and task components more heavily than day shifts.
var FatigueIndexModel = ThreeFactorModel{
	Name:        "FatigueIndex",
	MaxRecovery: fatigueMaxRecovery,
	Cumulative:  fatigueCumulative,
	Timing: func(in shiftInputs) float64 {
		multiplier := 1.0
		if in.IsNight {
			multiplier = timeOfDayNightMultiplier
		}
		return timeOfDayScale * multiplier * timingFactor(in)
	},
	Task: func(in shiftInputs) float64 {
		multiplier := 1.0
		if in.IsNight {
			multiplier = taskNightMultiplier
		}
		return taskScale * multiplier * jobBreaksFactor(in)
	},
	Combine: Add,
	Round:   round1,
}

// fatigueCumulative saturates towards baseline + ceiling as debt builds up
func fatigueCumulative(carried float64) float64 {
	if carried <= 0 {
		return fatigueCumulativeBaseline
	}
	saturation := 1 - math.Exp(-math.Pow(carried/fatigueCumulativeScale, fatigueCumulativeShape))
	return fatigueCumulativeBaseline + fatigueCumulativeCeiling*saturation
}

// ComputeFatigueIndexSequence computes the Fatigue Index of every shift in a sequence sorted by day
func ComputeFatigueIndexSequence(shifts []ShiftDefinition, params Parameters) []FatigueIndexResult {
	scored := FatigueIndexModel.Score(shifts, params)

	results := make([]FatigueIndexResult, 0, len(scored))
	for _, s := range scored {
		results = append(results, FatigueIndexResult{
			Day:          s.Day,
			Cumulative:   s.Factors.Cumulative,
			TimeOfDay:    s.Factors.Timing,
			Task:         s.Factors.Task,
			FatigueIndex: s.Score,
			FatigueLevel: GetFatigueLevel(s.Score, s.IsNight),
			IsNight:      s.IsNight,
		})
	}

	return results
}

// ComputeCombinedSequence computes both indices for every shift in a sequence sorted by day
func ComputeCombinedSequence(shifts []ShiftDefinition, params Parameters) []CombinedFatigueResult {
	risk := ComputeRiskSequence(shifts, params)
	fgi := ComputeFatigueIndexSequence(shifts, params)

	results := make([]CombinedFatigueResult, 0, len(shifts))
	for i := range risk {
		results = append(results, CombinedFatigueResult{
			Day:               risk[i].Day,
			RiskCumulative:    risk[i].Cumulative,
			Timing:            risk[i].Timing,
			JobBreaks:         risk[i].JobBreaks,
			RiskIndex:         risk[i].RiskIndex,
			RiskLevel:         risk[i].RiskLevel,
			FatigueCumulative: fgi[i].Cumulative,
			TimeOfDay:         fgi[i].TimeOfDay,
			Task:              fgi[i].Task,
			FatigueIndex:      fgi[i].FatigueIndex,
			FatigueLevel:      fgi[i].FatigueLevel,
			IsNight:           fgi[i].IsNight,
		})
	}

	return results
}
