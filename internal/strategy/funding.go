package strategy

import "math"

// EstimateFundingAmount maps a growth rate (as a fraction, 0.25 for 25%)
// and current revenue/MRR to a recommended funding amount. Both multipliers
// are capped so unbounded growth or revenue never produces an unbounded
// recommendation. This is the single shared implementation used by the
// scoring path and ad-hoc recommendation queries.
func EstimateFundingAmount(growthRateFrac, currentRevenue, baseAmount float64) float64 {
	growthMultiplier := math.Min(growthRateFrac*10, 3)
	revenueMultiplier := math.Min(currentRevenue/10000, 2)
	return math.Round(baseAmount * growthMultiplier * revenueMultiplier)
}
