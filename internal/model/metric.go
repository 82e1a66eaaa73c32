package model

import "time"

// PeriodType identifies the sampling window length.
type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// Days returns the window length in days for this period type.
func (p PeriodType) Days() int {
	if p == PeriodWeekly {
		return 7
	}
	return 30
}

// DailyCount is one calendar day's event count within a weekly sample.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// MetricSample is one growth observation for one entity over one period.
// Samples are immutable after creation and appended to the entity's
// historical series, keyed by EntityID + PeriodType + PeriodKey.
type MetricSample struct {
	EntityID         string
	PeriodType       PeriodType
	PeriodKey        string // e.g. "2026-W31" or "2026-07"
	WindowStart      time.Time
	WindowEnd        time.Time
	NewCount         int
	PreviousCount    int
	GrowthRatePct    float64
	GrowthMultiplier float64
	Surge            bool
	DailyBreakdown   []DailyCount // weekly samples only
	CreatedAt        time.Time
}

// RevenueSnapshot holds money-denominated metrics for one entity and period.
type RevenueSnapshot struct {
	EntityID         string
	PeriodType       PeriodType
	PeriodKey        string
	WindowStart      time.Time
	WindowEnd        time.Time
	CurrentMRR       float64
	PreviousMRR      float64
	GrowthRatePct    float64
	TransactionCount int
	CustomerCount    int
	CreatedAt        time.Time
}

// StreakStats summarizes consecutive-growth runs in a growth-rate series.
// Derived, never persisted; recomputed from the full history each time.
type StreakStats struct {
	CurrentStreak         int
	LongestStreak         int
	StreakCount           int
	AverageStreakDuration float64
}
