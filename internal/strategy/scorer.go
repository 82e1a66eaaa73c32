package strategy

import "GrowthSentinel/internal/model"

// ScoreInputs are the signals combined into a funding-eligibility score.
type ScoreInputs struct {
	GrowthRatePct  float64
	CurrentStreak  int
	MilestoneCount int
	RiskFactors    []model.RiskFactor
}

// Score computes the funding-eligibility score in [0,100]. Additive banded
// scoring: each factor contributes independently, the sum is clamped.
// Pure and deterministic.
func Score(in ScoreInputs) int {
	score := 0

	// Revenue growth, max 40
	switch {
	case in.GrowthRatePct > 20:
		score += 40
	case in.GrowthRatePct > 10:
		score += 30
	case in.GrowthRatePct > 5:
		score += 20
	case in.GrowthRatePct > 0:
		score += 10
	}

	// Sustained streak, max 30
	switch {
	case in.CurrentStreak >= 3:
		score += 30
	case in.CurrentStreak >= 2:
		score += 20
	case in.CurrentStreak >= 1:
		score += 10
	}

	// Milestones, max 20
	switch {
	case in.MilestoneCount >= 3:
		score += 20
	case in.MilestoneCount >= 2:
		score += 15
	case in.MilestoneCount >= 1:
		score += 10
	}

	// Risk deduction, max 10
	highRisk := 0
	for _, rf := range in.RiskFactors {
		if rf.Severity == model.SeverityHigh || rf.Severity == model.SeverityCritical {
			highRisk++
		}
	}
	deduction := 3 * highRisk
	if deduction > 10 {
		deduction = 10
	}
	score -= deduction

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
