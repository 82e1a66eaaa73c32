package model

import "time"

// Recommendation classifies an entity's trajectory for funding purposes.
type Recommendation string

const (
	RecommendTrigger  Recommendation = "trigger"
	RecommendMonitor  Recommendation = "monitor"
	RecommendNoAction Recommendation = "no_action"
)

// TriggerEvaluation is a point-in-time record of the funding-trigger
// decision, including the raw inputs that drove it. Append-only audit log.
type TriggerEvaluation struct {
	ID                   string
	EntityID             string
	EvaluationDate       time.Time
	AvgMonthlyGrowthRate float64
	SustainedGrowth      bool
	Recommendation       Recommendation
	Reasoning            string
	GrowthRateTrend      []float64 // newest first, the rates actually evaluated
	SurgeCount           int
}

// Severity ranks a risk factor.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// RiskFactor is a known issue attached to an entity that deducts from
// its funding-eligibility score.
type RiskFactor struct {
	Factor      string   `json:"factor"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description,omitempty"`
}

// AlertType tags a monitoring alert.
type AlertType string

const (
	AlertMilestone       AlertType = "SALES_MILESTONE"
	AlertSurge           AlertType = "GROWTH_SURGE"
	AlertSustainedGrowth AlertType = "SUSTAINED_GROWTH"
	AlertFundingEligible AlertType = "FUNDING_ELIGIBLE"
)

// Alert is one monitoring event written to the alert log and pushed to
// the notification channel.
type Alert struct {
	ID             string
	EntityID       string
	Type           AlertType
	Severity       Severity
	Message        string
	TriggerValue   float64
	ThresholdValue float64
	CreatedAt      time.Time
}

// FundingRecommendation is the estimator output recorded when an entity
// crosses the eligibility score cutoff.
type FundingRecommendation struct {
	EntityID  string
	Score     int
	Amount    float64
	Reason    string
	CreatedAt time.Time
}
