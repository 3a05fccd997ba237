package fatigue

// Fixed model constants. These are validated against reference rosters and are
// deliberately not configurable.
const (
	// Load
	loadReferenceHours = 12.0
	nightLoadFactor    = 1.3

	// Recovery between shifts
	recoveryStartGapHours = 12.0
	recoveryFullGapHours  = 24.0

	// Circadian
	circadianAmplitude = 0.25
	circadianPeakHour  = 3.0

	// Shift duration regimes
	shortShiftHours    = 4.25
	standardShiftHours = 8.13
	shortShiftRate     = 0.035
	longShiftRate      = 0.048

	// Commute
	commuteBaselineMinutes = 40.0

	// Job/breaks
	jobBreaksBase         = 0.672
	jobBreaksDemandWeight = 0.5
	workBuildupMinutes    = 90.0
	breakRelaxMinutes     = 12.0
	walkWeight            = 0.35
	walkBaseline          = 0.6

	// Risk Index model
	riskCumulativeBaseline = 1.0
	riskCumulativeGrowth   = 0.0518
	riskMaxRecovery        = 0.895

	// Fatigue Index model
	fatigueCumulativeBaseline = 1.0
	fatigueCumulativeCeiling  = 18.2
	fatigueCumulativeScale    = 3.7
	fatigueCumulativeShape    = 1.55
	fatigueMaxRecovery        = 0.84
	timeOfDayScale            = 2.0
	timeOfDayNightMultiplier  = 2.0
	taskScale                 = 2.8
	taskNightMultiplier       = 2.4
)
