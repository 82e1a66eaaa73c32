package strategy

import (
	"fmt"
	"time"

	"GrowthSentinel/internal/model"

	"github.com/google/uuid"
)

// EvaluationInputs is the history window consumed by the trigger evaluator:
// the entity's most recent monthly samples (newest first) plus the surge
// count computed by the store over its trailing lookback window.
type EvaluationInputs struct {
	EntityID   string
	Samples    []model.MetricSample
	SurgeCount int
	Now        time.Time
}

// Evaluate classifies an entity's trajectory into trigger, monitor or
// no_action. Absence of monthly data is itself a valid no_action outcome,
// never an error. Branches are checked in order, most specific first.
func Evaluate(in EvaluationInputs, th model.Thresholds) model.TriggerEvaluation {
	eval := model.TriggerEvaluation{
		ID:             uuid.NewString(),
		EntityID:       in.EntityID,
		EvaluationDate: in.Now,
		SurgeCount:     in.SurgeCount,
	}

	if len(in.Samples) == 0 {
		eval.Recommendation = model.RecommendNoAction
		eval.Reasoning = "No monthly growth data available for evaluation"
		return eval
	}

	rates := make([]float64, len(in.Samples))
	sum := 0.0
	sustained := 0
	for i, s := range in.Samples {
		rates[i] = s.GrowthRatePct
		sum += s.GrowthRatePct
		if s.GrowthRatePct > th.SustainedGrowthPct {
			sustained++
		}
	}
	avg := sum / float64(len(rates))

	eval.GrowthRateTrend = rates
	eval.AvgMonthlyGrowthRate = avg
	eval.SustainedGrowth = sustained >= th.SustainedMinPeriods

	switch {
	case avg > th.TriggerAvgGrowthPct && eval.SustainedGrowth && in.SurgeCount >= th.TriggerMinSurges:
		eval.Recommendation = model.RecommendTrigger
		eval.Reasoning = fmt.Sprintf(
			"Strong sustained growth detected: %.1f%% average monthly growth over %d months with %d surge periods. Recommend triggering funding milestone.",
			avg, len(rates), in.SurgeCount)
	case avg > th.MonitorAvgGrowthPct || in.SurgeCount >= th.MonitorMinSurges:
		eval.Recommendation = model.RecommendMonitor
		eval.Reasoning = fmt.Sprintf(
			"Positive growth trends observed: %.1f%% average monthly growth with %d surge periods. Continue monitoring for sustained pattern.",
			avg, in.SurgeCount)
	default:
		eval.Recommendation = model.RecommendNoAction
		eval.Reasoning = fmt.Sprintf(
			"Growth below threshold: %.1f%% average monthly growth. No significant surge activity detected.",
			avg)
	}
	return eval
}
