package fatigue

// RiskIndexModel is the multiplicative model: cumulative × timing × job/breaks,
// each factor and the product rounded to 3 decimal places
var RiskIndexModel = ThreeFactorModel{
	Name:        "RiskIndex",
	MaxRecovery: riskMaxRecovery,
	Cumulative: func(carried float64) float64 {
		return riskCumulativeBaseline + riskCumulativeGrowth*carried
	},
	Timing:  timingFactor,
	Task:    jobBreaksFactor,
	Combine: Multiply,
	Round:   round3,
}

// ComputeRiskSequence computes the Risk Index of every shift in a sequence sorted by day
func ComputeRiskSequence(shifts []ShiftDefinition, params Parameters) []FatigueResult {
	scored := RiskIndexModel.Score(shifts, params)

	results := make([]FatigueResult, 0, len(scored))
	for _, s := range scored {
		results = append(results, FatigueResult{
			Day:        s.Day,
			Cumulative: s.Factors.Cumulative,
			Timing:     s.Factors.Timing,
			JobBreaks:  s.Factors.Task,
			RiskIndex:  s.Score,
			RiskLevel:  GetRiskLevel(s.Score),
		})
	}

	return results
}
