package notifier

import (
	"fmt"
	"strings"
	"time"

	"GrowthSentinel/internal/model"
	"GrowthSentinel/internal/store"
)

// FormatEvaluationReport formats a trigger evaluation into a message.
func FormatEvaluationReport(entity model.Entity, eval *model.TriggerEvaluation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Funding Trigger Evaluation</b> | %s\n\n", eval.EvaluationDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Entity: %s (%s)\n", entity.Name, entity.ID))
	b.WriteString(fmt.Sprintf("Recommendation: <b>%s</b>\n\n", strings.ToUpper(string(eval.Recommendation))))

	b.WriteString(fmt.Sprintf("Avg monthly growth: %.1f%%\n", eval.AvgMonthlyGrowthRate))
	b.WriteString(fmt.Sprintf("Sustained growth: %v\n", eval.SustainedGrowth))
	b.WriteString(fmt.Sprintf("Surge periods (trailing window): %d\n", eval.SurgeCount))
	if len(eval.GrowthRateTrend) > 0 {
		rates := make([]string, len(eval.GrowthRateTrend))
		for i, r := range eval.GrowthRateTrend {
			rates[i] = fmt.Sprintf("%.1f%%", r)
		}
		b.WriteString(fmt.Sprintf("Monthly trend (newest first): %s\n", strings.Join(rates, ", ")))
	}

	b.WriteString(fmt.Sprintf("\n%s\n", eval.Reasoning))
	return b.String()
}

// FormatFundingRecommendation formats a funding recommendation alert.
func FormatFundingRecommendation(entity model.Entity, rec *model.FundingRecommendation) string {
	var b strings.Builder
	b.WriteString("💰 <b>Funding Eligible</b>\n\n")
	b.WriteString(fmt.Sprintf("Entity: %s (%s)\n", entity.Name, entity.ID))
	b.WriteString(fmt.Sprintf("Eligibility score: %d/100\n", rec.Score))
	b.WriteString(fmt.Sprintf("Recommended amount: $%.0f\n", rec.Amount))
	b.WriteString(fmt.Sprintf("Reason: %s\n", rec.Reason))
	return b.String()
}

// FormatMilestoneAlert formats newly achieved revenue milestones.
func FormatMilestoneAlert(entity model.Entity, achieved []model.MilestoneAchievement) string {
	var b strings.Builder
	b.WriteString("🎯 <b>Revenue Milestone Achieved</b>\n\n")
	b.WriteString(fmt.Sprintf("Entity: %s (%s)\n", entity.Name, entity.ID))
	for _, m := range achieved {
		b.WriteString(fmt.Sprintf("  %s at $%.0f revenue (%s)\n", m.Label, m.Revenue, m.AchievedAt.Format("2006-01-02")))
	}
	return b.String()
}

// FormatSurgeAlert formats a weekly surge notification.
func FormatSurgeAlert(entity model.Entity, sample *model.MetricSample) string {
	return fmt.Sprintf("📈 <b>Growth Surge</b> | %s\n\nEntity: %s (%s)\nPeriod: %s\nNew: %d (previous %d)\nMultiplier: %.2fx | Growth: %+.1f%%\n",
		time.Now().Format("2006-01-02"), entity.Name, entity.ID,
		sample.PeriodKey, sample.NewCount, sample.PreviousCount,
		sample.GrowthMultiplier, sample.GrowthRatePct)
}

// FormatEntityStatus formats the current status of one entity.
func FormatEntityStatus(entity model.Entity, stats store.MonthlySummary, streaks model.StreakStats, milestones []model.MilestoneAchievement) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Entity Status</b> | %s\n\n", entity.Name))
	b.WriteString(fmt.Sprintf("Monitoring: %v\n", entity.MonitoringEnabled))
	if !entity.LastCheckedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Last checked: %s\n", entity.LastCheckedAt.Format("2006-01-02 15:04")))
	}
	b.WriteString(fmt.Sprintf("Avg monthly growth (%d months): %.1f%%\n", stats.MonthsCovered, stats.AvgMonthlyGrowthPct))
	b.WriteString(fmt.Sprintf("Surge months: %d\n", stats.SurgeMonths))
	b.WriteString(fmt.Sprintf("Current streak: %d | Longest: %d\n", streaks.CurrentStreak, streaks.LongestStreak))
	b.WriteString(fmt.Sprintf("Milestones achieved: %d", len(milestones)))
	if n := len(milestones); n > 0 {
		b.WriteString(fmt.Sprintf(" (latest %s)", milestones[n-1].Label))
	}
	b.WriteString("\n")
	if len(entity.RiskFactors) > 0 {
		b.WriteString("Risk factors:\n")
		for _, rf := range entity.RiskFactors {
			b.WriteString(fmt.Sprintf("  [%s] %s\n", rf.Severity, rf.Factor))
		}
	}
	return b.String()
}
