package model

// Thresholds is the single source of truth for every tunable cutoff in the
// monitoring pipeline. Loaded from config; zero values are replaced by
// DefaultThresholds in config loading.
type Thresholds struct {
	// SurgeMultiplier: a period with growth multiplier strictly above this
	// is flagged as a surge.
	SurgeMultiplier float64
	// StreakMinGrowthPct: a period must exceed this growth rate to extend
	// a growth streak.
	StreakMinGrowthPct float64
	// SustainedGrowthPct / SustainedMinPeriods: growth is sustained when at
	// least SustainedMinPeriods of the evaluated records exceed
	// SustainedGrowthPct.
	SustainedGrowthPct  float64
	SustainedMinPeriods int
	// Trigger branch: average monthly growth above TriggerAvgGrowthPct,
	// sustained growth, and at least TriggerMinSurges surge periods.
	TriggerAvgGrowthPct float64
	TriggerMinSurges    int
	// Monitor branch: average monthly growth above MonitorAvgGrowthPct or
	// at least MonitorMinSurges surge periods.
	MonitorAvgGrowthPct float64
	MonitorMinSurges    int
	// EligibilityScore: funding-eligibility score cutoff for recording a
	// funding recommendation.
	EligibilityScore int
	// FundingBaseAmount: base of the funding amount estimator.
	FundingBaseAmount float64
	// MonthsToEvaluate: monthly records consumed by the trigger evaluator.
	MonthsToEvaluate int
	// SurgeLookbackDays: trailing window for the surge count.
	SurgeLookbackDays int
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SurgeMultiplier:     1.5,
		StreakMinGrowthPct:  5,
		SustainedGrowthPct:  20,
		SustainedMinPeriods: 2,
		TriggerAvgGrowthPct: 30,
		TriggerMinSurges:    2,
		MonitorAvgGrowthPct: 20,
		MonitorMinSurges:    1,
		EligibilityScore:    70,
		FundingBaseAmount:   50000,
		MonthsToEvaluate:    3,
		SurgeLookbackDays:   90,
	}
}
