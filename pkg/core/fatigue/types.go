package fatigue

// ShiftDefinition is one worked interval in a fatigue sequence.
//
// Day is a sequence index used only to compute the gap between consecutive shifts.
// It must be non-decreasing across a sequence but does not need to be contiguous.
// An EndTime numerically at or before StartTime means the shift crosses midnight.
//
// The pointer fields are optional per-shift overrides. When nil, the value is taken
// from the Parameters passed to the engine.
type ShiftDefinition struct {
	Day       int    `yaml:"day" validate:"min=0"`
	StartTime string `yaml:"startTime" validate:"required,hhmm"`
	EndTime   string `yaml:"endTime" validate:"required,hhmm"`
	// Night forces night classification. When false, night is derived from the times.
	Night bool `yaml:"night,omitempty"`

	CommuteIn      *int `yaml:"commuteIn,omitempty" validate:"omitempty,min=0,max=480"`
	CommuteOut     *int `yaml:"commuteOut,omitempty" validate:"omitempty,min=0,max=480"`
	Workload       *int `yaml:"workload,omitempty" validate:"omitempty,min=1,max=5"`
	Attention      *int `yaml:"attention,omitempty" validate:"omitempty,min=1,max=5"`
	BreakFrequency *int `yaml:"breakFrequency,omitempty" validate:"omitempty,min=0,max=720"`
	BreakLength    *int `yaml:"breakLength,omitempty" validate:"omitempty,min=0,max=120"`
}

// Parameters are the defaults applied to every shift in a sequence that does not override them
type Parameters struct {
	// CommuteMinutes is the total daily commute (both directions)
	CommuteMinutes int `yaml:"commuteMinutes" validate:"min=0,max=480"`

	// Workload is the physical/mental workload level, 1 = lightest
	Workload int `yaml:"workload" validate:"min=1,max=4"`

	// Attention is the attention/concentration level required, 1 = lowest
	Attention int `yaml:"attention" validate:"min=1,max=4"`

	// BreakFrequency is the number of minutes worked between breaks (0 = no scheduled breaks)
	BreakFrequency int `yaml:"breakFrequency" validate:"min=0,max=720"`

	// BreakLength is the length of each break in minutes
	BreakLength int `yaml:"breakLength" validate:"min=0,max=120"`

	// ContinuousWork is the ceiling on uninterrupted work in minutes
	ContinuousWork int `yaml:"continuousWork" validate:"min=0,max=720"`

	// BreakAfterContinuous is the break taken after ContinuousWork minutes, in minutes
	BreakAfterContinuous int `yaml:"breakAfterContinuous" validate:"min=0,max=120"`
}

// DefaultParameters returns the parameter set used when a caller has no better information
func DefaultParameters() Parameters {
	return Parameters{
		CommuteMinutes:       40,
		Workload:             2,
		Attention:            2,
		BreakFrequency:       180,
		BreakLength:          15,
		ContinuousWork:       240,
		BreakAfterContinuous: 15,
	}
}

// FatigueResult is the Risk Index (multiplicative model) outcome for one shift
type FatigueResult struct {
	Day        int       `json:"day" yaml:"day"`
	Cumulative float64   `json:"cumulative" yaml:"cumulative"`
	Timing     float64   `json:"timing" yaml:"timing"`
	JobBreaks  float64   `json:"jobBreaks" yaml:"jobBreaks"`
	RiskIndex  float64   `json:"riskIndex" yaml:"riskIndex"`
	RiskLevel  RiskLevel `json:"riskLevel" yaml:"riskLevel"`
}

// FatigueIndexResult is the Fatigue Index (additive model) outcome for one shift.
// All components are on a 0-100 scale.
type FatigueIndexResult struct {
	Day          int       `json:"day" yaml:"day"`
	Cumulative   float64   `json:"cumulative" yaml:"cumulative"`
	TimeOfDay    float64   `json:"timeOfDay" yaml:"timeOfDay"`
	Task         float64   `json:"task" yaml:"task"`
	FatigueIndex float64   `json:"fatigueIndex" yaml:"fatigueIndex"`
	FatigueLevel RiskLevel `json:"fatigueLevel" yaml:"fatigueLevel"`
	IsNight      bool      `json:"isNight" yaml:"isNight"`
}

// CombinedFatigueResult carries both the Risk Index and Fatigue Index outcomes for one shift
type CombinedFatigueResult struct {
	Day int `json:"day" yaml:"day"`

	// Risk Index
	RiskCumulative float64   `json:"riskCumulative" yaml:"riskCumulative"`
	Timing         float64   `json:"timing" yaml:"timing"`
	JobBreaks      float64   `json:"jobBreaks" yaml:"jobBreaks"`
	RiskIndex      float64   `json:"riskIndex" yaml:"riskIndex"`
	RiskLevel      RiskLevel `json:"riskLevel" yaml:"riskLevel"`

	// Fatigue Index
	FatigueCumulative float64   `json:"fatigueCumulative" yaml:"fatigueCumulative"`
	TimeOfDay         float64   `json:"timeOfDay" yaml:"timeOfDay"`
	Task              float64   `json:"task" yaml:"task"`
	FatigueIndex      float64   `json:"fatigueIndex" yaml:"fatigueIndex"`
	FatigueLevel      RiskLevel `json:"fatigueLevel" yaml:"fatigueLevel"`
	IsNight           bool      `json:"isNight" yaml:"isNight"`
}
