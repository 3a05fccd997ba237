package fatigue

// Factors are the three decomposed components of a fatigue score
type Factors struct {
	Cumulative float64
	Timing     float64
	Task       float64
}

// ScoredShift is the outcome of a ThreeFactorModel for one shift
type ScoredShift struct {
	Day     int
	IsNight bool
	Factors Factors
	Score   float64
}

// ThreeFactorModel scores a sequence of shifts from a cumulative, a timing and a task factor.
//
// The Risk Index and Fatigue Index share this decomposition and differ only in the
// injected factor functions, the combination operator and the rounding precision.
//
// Cumulative fatigue is tracked as carried debt: the first shift carries none, and each
// following shift carries (previous debt + previous shift load), reduced by the recovery
// earned during the rest gap in between. The sequence is walked forward once.
type ThreeFactorModel struct {
	// Name identifies the model in logs and errors
	Name string

	// MaxRecovery is the share of carried debt removed by a rest gap of a full day or more
	MaxRecovery float64

	// Cumulative maps carried debt to the cumulative factor. Must return the model's
	// baseline when carried is 0.
	Cumulative func(carried float64) float64

	// Timing returns the time-of-day/duration factor of a shift
	Timing func(in shiftInputs) float64

	// Task returns the job/breaks factor of a shift
	Task func(in shiftInputs) float64

	// Combine turns the rounded factors into a single score
	Combine func(f Factors) float64

	// Round is applied to each factor and to the combined score
	Round func(x float64) float64
}

// Score evaluates every shift in the sequence. Results are in input order.
// An empty sequence yields an empty, non-nil slice.
func (m ThreeFactorModel) Score(shifts []ShiftDefinition, params Parameters) []ScoredShift {
	results := make([]ScoredShift, 0, len(shifts))

	var prev shiftInputs
	carried := 0.0

	for i, shift := range shifts {
		in := resolveInputs(shift, params)

		if i > 0 {
			carried = (carried + prev.load()) * recoveryCarry(in.gapAfter(prev), m.MaxRecovery)
		}

		factors := Factors{
			Cumulative: m.Round(m.Cumulative(carried)),
			Timing:     m.Round(m.Timing(in)),
			Task:       m.Round(m.Task(in)),
		}

		results = append(results, ScoredShift{
			Day:     shift.Day,
			IsNight: in.IsNight,
			Factors: factors,
			Score:   m.Round(m.Combine(factors)),
		})

		prev = in
	}

	return results
}

// Multiply combines factors multiplicatively
func Multiply(f Factors) float64 {
	return f.Cumulative * f.Timing * f.Task
}

// Add combines factors additively
func Add(f Factors) float64 {
	return f.Cumulative + f.Timing + f.Task
}
