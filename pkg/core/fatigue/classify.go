package fatigue

// RiskLevel is the discrete severity of a Risk Index or Fatigue Index score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelElevated RiskLevel = "elevated"
	RiskLevelCritical RiskLevel = "critical"
)

// Risk Index breakpoints
const (
	RiskModerateThreshold = 1.0
	RiskElevatedThreshold = 1.1
	RiskCriticalThreshold = 1.2
)

// Fatigue Index ceilings. Level thresholds are fractions of these.
const (
	FatigueDayBase   = 35.0
	FatigueNightBase = 45.0
)

// LevelInfo describes how a level should be presented. Weight orders levels for display.
type LevelInfo struct {
	Level  RiskLevel
	Label  string
	Weight int
}

// String returns the string representation of the level
func (l RiskLevel) String() string {
	return string(l)
}

// IsValid returns true if the level is a recognized value
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelModerate, RiskLevelElevated, RiskLevelCritical:
		return true
	}
	return false
}

// Info returns the label and display weight of the level
func (l RiskLevel) Info() LevelInfo {
	switch l {
	case RiskLevelLow:
		return LevelInfo{Level: l, Label: "Low", Weight: 1}
	case RiskLevelModerate:
		return LevelInfo{Level: l, Label: "Moderate", Weight: 2}
	case RiskLevelElevated:
		return LevelInfo{Level: l, Label: "Elevated", Weight: 3}
	case RiskLevelCritical:
		return LevelInfo{Level: l, Label: "Critical", Weight: 4}
	}
	return LevelInfo{Level: l, Label: "Unknown", Weight: 0}
}

// AtLeast returns true if l is as severe as other or more
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Info().Weight >= other.Info().Weight
}

// GetRiskLevel classifies a Risk Index score
func GetRiskLevel(riskIndex float64) RiskLevel {
	switch {
	case riskIndex < RiskModerateThreshold:
		return RiskLevelLow
	case riskIndex < RiskElevatedThreshold:
		return RiskLevelModerate
	case riskIndex < RiskCriticalThreshold:
		return RiskLevelElevated
	default:
		return RiskLevelCritical
	}
}

// GetFatigueLevel classifies a Fatigue Index score. Night shifts are judged against a higher ceiling.
func GetFatigueLevel(fatigueIndex float64, isNight bool) RiskLevel {
	base := FatigueDayBase
	if isNight {
		base = FatigueNightBase
	}

	switch {
	case fatigueIndex < base*0.5:
		return RiskLevelLow
	case fatigueIndex < base*0.75:
		return RiskLevelModerate
	case fatigueIndex < base:
		return RiskLevelElevated
	default:
		return RiskLevelCritical
	}
}
