package fatigue

import "math"

// recoveryCarry returns the share of carried fatigue debt that survives a rest gap.
// Gaps up to 12h give no recovery, gaps of a full day or more give maxRecovery.
func recoveryCarry(gapHours, maxRecovery float64) float64 {
	fraction := (gapHours - recoveryStartGapHours) / (recoveryFullGapHours - recoveryStartGapHours)
	fraction = math.Min(math.Max(fraction, 0), 1)
	return 1 - maxRecovery*fraction
}

// circadian is the mean of a 24h sinusoid over the shift, peaking at circadianPeakHour
func circadian(startHours, duration float64) float64 {
	omega := 2 * math.Pi / 24

	var meanCos float64
	if duration <= 0 {
		meanCos = math.Cos(omega * (startHours - circadianPeakHour))
	} else {
		upper := math.Sin(omega * (startHours + duration - circadianPeakHour))
		lower := math.Sin(omega * (startHours - circadianPeakHour))
		meanCos = (upper - lower) / (omega * duration)
	}

	return 1 + circadianAmplitude*meanCos
}

// durationRisk is the relative risk of a shift of the given length.
// Short shifts are below 1, standard shifts are exactly 1 and long shifts grow exponentially.
func durationRisk(hours float64) float64 {
	switch {
	case hours < shortShiftHours:
		return math.Exp(-shortShiftRate * (shortShiftHours - hours))
	case hours <= standardShiftHours:
		return 1
	default:
		return math.Exp(longShiftRate * (hours - standardShiftHours))
	}
}

// commuteAdjustedDurationRisk blends the risk of shift+commute into the shift risk
// in proportion to the commute time beyond the baseline
func commuteAdjustedDurationRisk(hours, commuteMinutes float64) float64 {
	risk := durationRisk(hours)
	if commuteMinutes <= commuteBaselineMinutes {
		return risk
	}

	excess := commuteMinutes - commuteBaselineMinutes
	weight := excess / (excess + hours*60)
	commuteRisk := durationRisk(hours + commuteMinutes/60)

	return (1-weight)*risk + weight*commuteRisk
}

// timingFactor combines the circadian and shift duration terms
func timingFactor(in shiftInputs) float64 {
	return circadian(in.StartHours, in.Duration) * commuteAdjustedDurationRisk(in.Duration, in.CommuteMinutes)
}

// breakCycle returns the effective minutes of work between breaks and the break length
func breakCycle(in shiftInputs) (work, rest float64) {
	work = in.BreakFrequency
	rest = in.BreakLength

	if work <= 0 || (in.ContinuousWork > 0 && work > in.ContinuousWork) {
		work = in.ContinuousWork
		if work <= 0 {
			work = in.Duration * 60
		}
	}
	if rest <= 0 {
		rest = in.BreakAfterContinuous
	}

	return work, rest
}

// workSequenceAverage walks the shift as alternating work and break periods and
// returns the average fatigue level reached at the end of each work period.
// Fatigue builds towards 1 while working and relaxes towards 0 during breaks.
func workSequenceAverage(durationHours, work, rest float64) float64 {
	cycle := work + rest

	iterations := 1
	if cycle > 0 {
		iterations = max(1, int(math.Ceil(durationHours*60/cycle)))
	}

	buildup := 1 - math.Exp(-work/workBuildupMinutes)
	relax := math.Exp(-rest / breakRelaxMinutes)

	level := 0.0
	sum := 0.0
	for i := 0; i < iterations; i++ {
		level += (1 - level) * buildup
		sum += level
		level *= relax
	}

	return sum / float64(iterations)
}

// jobBreaksFactor is the task factor: workload and attention demand scaled by the
// share of time spent working, refined by the work sequence walk
func jobBreaksFactor(in shiftInputs) float64 {
	work, rest := breakCycle(in)

	ratio := 1.0
	if work+rest > 0 {
		ratio = work / (work + rest)
	}

	demand := float64(in.Workload+in.Attention) / 10
	base := jobBreaksBase + jobBreaksDemandWeight*demand*ratio

	average := workSequenceAverage(in.Duration, work, rest)

	return base * (1 + walkWeight*(average-walkBaseline))
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
