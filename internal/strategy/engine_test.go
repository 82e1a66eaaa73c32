package strategy

import (
	"strings"
	"testing"
	"time"

	"GrowthSentinel/internal/model"
)

func sampleTrend(rates ...float64) []model.MetricSample {
	samples := make([]model.MetricSample, len(rates))
	for i, r := range rates {
		samples[i] = model.MetricSample{GrowthRatePct: r}
	}
	return samples
}

func TestEvaluate_StrongGrowthTriggers(t *testing.T) {
	eval := Evaluate(EvaluationInputs{
		EntityID:   "acme",
		Samples:    sampleTrend(35, 32, 40),
		SurgeCount: 3,
		Now:        time.Now(),
	}, model.DefaultThresholds())

	if eval.Recommendation != model.RecommendTrigger {
		t.Fatalf("expected trigger, got %s (%s)", eval.Recommendation, eval.Reasoning)
	}
	if !eval.SustainedGrowth {
		t.Error("expected sustained growth flag")
	}
	want := (35.0 + 32.0 + 40.0) / 3
	if diff := eval.AvgMonthlyGrowthRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected avg %.4f, got %.4f", want, eval.AvgMonthlyGrowthRate)
	}
	if len(eval.GrowthRateTrend) != 3 {
		t.Errorf("expected 3-point trend, got %d", len(eval.GrowthRateTrend))
	}
}

func TestEvaluate_HighAvgWithoutSurgesMonitors(t *testing.T) {
	// Avg 35% and two sustained months, but only one recorded surge:
	// the trigger branch requires all three conditions.
	eval := Evaluate(EvaluationInputs{
		EntityID:   "acme",
		Samples:    sampleTrend(35, 32, 38),
		SurgeCount: 1,
		Now:        time.Now(),
	}, model.DefaultThresholds())

	if eval.Recommendation != model.RecommendMonitor {
		t.Fatalf("expected monitor, got %s (%s)", eval.Recommendation, eval.Reasoning)
	}
}

func TestEvaluate_ModestGrowthMonitors(t *testing.T) {
	eval := Evaluate(EvaluationInputs{
		EntityID:   "acme",
		Samples:    sampleTrend(5, 5, 5),
		SurgeCount: 1,
		Now:        time.Now(),
	}, model.DefaultThresholds())

	if eval.Recommendation != model.RecommendMonitor {
		t.Fatalf("expected monitor, got %s (%s)", eval.Recommendation, eval.Reasoning)
	}
	if eval.SustainedGrowth {
		t.Error("5%% months should not count as sustained growth")
	}
}

func TestEvaluate_FlatGrowthNoAction(t *testing.T) {
	eval := Evaluate(EvaluationInputs{
		EntityID:   "acme",
		Samples:    sampleTrend(25, 5, 3),
		SurgeCount: 0,
		Now:        time.Now(),
	}, model.DefaultThresholds())

	if eval.Recommendation != model.RecommendNoAction {
		t.Fatalf("expected no_action, got %s (%s)", eval.Recommendation, eval.Reasoning)
	}
}

func TestEvaluate_EmptyHistoryNoAction(t *testing.T) {
	eval := Evaluate(EvaluationInputs{
		EntityID: "acme",
		Now:      time.Now(),
	}, model.DefaultThresholds())

	if eval.Recommendation != model.RecommendNoAction {
		t.Fatalf("expected no_action for empty history, got %s", eval.Recommendation)
	}
	if eval.Reasoning != "No monthly growth data available for evaluation" {
		t.Errorf("unexpected reasoning: %s", eval.Reasoning)
	}
	if eval.ID == "" {
		t.Error("expected evaluation id even without data")
	}
}

func TestScore_Bands(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreInputs
		want int
	}{
		{"everything maxed", ScoreInputs{GrowthRatePct: 25, CurrentStreak: 4, MilestoneCount: 5}, 90},
		{"no signal at all", ScoreInputs{}, 0},
		{"growth exactly 20 takes lower band", ScoreInputs{GrowthRatePct: 20}, 30},
		{"growth just above 20", ScoreInputs{GrowthRatePct: 20.1}, 40},
		{"single streak month", ScoreInputs{CurrentStreak: 1}, 10},
		{"two milestones", ScoreInputs{MilestoneCount: 2}, 15},
		{"negative growth adds nothing", ScoreInputs{GrowthRatePct: -10}, 0},
	}
	for _, tt := range tests {
		if got := Score(tt.in); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestScore_RiskDeductionCapped(t *testing.T) {
	risks := []model.RiskFactor{
		{Factor: "churn", Severity: model.SeverityCritical},
		{Factor: "concentration", Severity: model.SeverityHigh},
		{Factor: "runway", Severity: model.SeverityHigh},
		{Factor: "legal", Severity: model.SeverityHigh},
		{Factor: "noise", Severity: model.SeverityLow},
	}
	// 4 high/critical factors would deduct 12; the cap holds it at 10.
	got := Score(ScoreInputs{GrowthRatePct: 25, CurrentStreak: 4, MilestoneCount: 5, RiskFactors: risks})
	if got != 80 {
		t.Errorf("expected 80 with capped deduction, got %d", got)
	}
}

func TestScore_NeverNegative(t *testing.T) {
	risks := []model.RiskFactor{
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityCritical},
	}
	if got := Score(ScoreInputs{RiskFactors: risks}); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestEstimateFundingAmount(t *testing.T) {
	tests := []struct {
		name    string
		growth  float64
		revenue float64
		want    float64
	}{
		{"modest growth and revenue", 0.10, 5000, 25000},
		{"growth multiplier capped at 3", 10.0, 10000000, 300000},
		{"revenue multiplier capped at 2", 0.05, 50000, 50000},
		{"zero revenue yields zero", 0.30, 0, 0},
	}
	for _, tt := range tests {
		got := EstimateFundingAmount(tt.growth, tt.revenue, 50000)
		if got != tt.want {
			t.Errorf("%s: expected %.0f, got %.0f", tt.name, tt.want, got)
		}
	}
}

func TestLadder_CheckReturnsOnlyNewAchievements(t *testing.T) {
	achieved := map[string]bool{"$5K": true, "$10K": true}
	now := time.Now()

	newly := DefaultLadder.Check(30000, achieved, now)
	if len(newly) != 1 {
		t.Fatalf("expected exactly one new milestone, got %d", len(newly))
	}
	if newly[0].Label != "$25K" {
		t.Errorf("expected $25K, got %s", newly[0].Label)
	}
	if newly[0].Threshold != 25000 {
		t.Errorf("achievement should carry its ladder threshold, got %.0f", newly[0].Threshold)
	}
	if newly[0].Revenue != 30000 {
		t.Errorf("achievement should carry the actual revenue, got %.0f", newly[0].Revenue)
	}
	if !newly[0].AchievedAt.Equal(now) {
		t.Error("achievement timestamp should be the check time")
	}
}

func TestLadder_CheckAtExactThreshold(t *testing.T) {
	newly := DefaultLadder.Check(5000, map[string]bool{}, time.Now())
	if len(newly) != 1 || newly[0].Label != "$5K" {
		t.Fatalf("revenue equal to a threshold should achieve it, got %v", newly)
	}
}

func TestLadder_RevenueDipDoesNotRevoke(t *testing.T) {
	achieved := map[string]bool{"$5K": true, "$10K": true}
	newly := DefaultLadder.Check(3000, achieved, time.Now())
	if len(newly) != 0 {
		t.Errorf("a revenue dip must not produce achievements, got %v", newly)
	}
}

func TestNewLadder_PanicsOnMisorderedSteps(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for non-ascending ladder")
		} else if !strings.Contains(r.(string), "ladder") {
			t.Errorf("unexpected panic message: %v", r)
		}
	}()
	NewLadder(
		model.MilestoneStep{Label: "$10K", Threshold: 10000},
		model.MilestoneStep{Label: "$5K", Threshold: 5000},
	)
}
