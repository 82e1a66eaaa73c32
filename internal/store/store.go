package store

import (
	"errors"

	"GrowthSentinel/internal/model"
)

// ErrDuplicatePeriod is returned when a sample or snapshot for the same
// entity, period type and period key already exists. The uniqueness
// constraint serializes overlapping evaluation runs for one entity: two
// samples for the same period are never both inserted.
var ErrDuplicatePeriod = errors.New("sample for this period already recorded")

// SeriesRepository owns the per-entity historical series.
type SeriesRepository interface {
	AppendSample(s *model.MetricSample) error
	// LatestSamples returns up to limit samples, newest first.
	LatestSamples(entityID string, pt model.PeriodType, limit int) ([]model.MetricSample, error)
	// CountSurges counts surge-flagged samples recorded in the trailing
	// sinceDays window.
	CountSurges(entityID string, sinceDays int) (int, error)
	AppendRevenue(snap *model.RevenueSnapshot) error
	LatestRevenue(entityID string, limit int) ([]model.RevenueSnapshot, error)
}

// MilestoneStore tracks the append-only achieved-milestone set.
type MilestoneStore interface {
	Milestones(entityID string) ([]model.MilestoneAchievement, error)
	AddMilestones(entityID string, achieved []model.MilestoneAchievement) error
}

// EvaluationLog is the append-only trigger-evaluation audit log.
type EvaluationLog interface {
	AppendEvaluation(ev *model.TriggerEvaluation) error
	LatestEvaluation(entityID string) (*model.TriggerEvaluation, error)
}

// AlertLog records monitoring alerts.
type AlertLog interface {
	AppendAlert(a *model.Alert) error
	RecentAlerts(entityID string, limit int) ([]model.Alert, error)
}

// MonthlySummary aggregates an entity's trailing monthly series.
type MonthlySummary struct {
	AvgMonthlyGrowthPct float64
	SurgeMonths         int
	LatestNewCount      int
	MonthsCovered       int
}

// Store is the full persistence boundary used by the scheduler.
type Store interface {
	SeriesRepository
	MilestoneStore
	EvaluationLog
	AlertLog
	// MonthlyStats summarizes up to the last 12 monthly samples.
	MonthlyStats(entityID string) (MonthlySummary, error)
	Close() error
}
