package strategy

import (
	"fmt"
	"time"

	"GrowthSentinel/internal/model"
)

// Ladder is an ordered list of revenue milestones, strictly ascending in
// threshold.
type Ladder []model.MilestoneStep

// NewLadder validates the step ordering. A misordered ladder is a
// misconfiguration, not a recoverable runtime condition, so it panics.
func NewLadder(steps ...model.MilestoneStep) Ladder {
	for i := 1; i < len(steps); i++ {
		if steps[i].Threshold <= steps[i-1].Threshold {
			panic(fmt.Sprintf("milestone ladder not strictly ascending: %q (%.0f) after %q (%.0f)",
				steps[i].Label, steps[i].Threshold, steps[i-1].Label, steps[i-1].Threshold))
		}
	}
	return Ladder(steps)
}

// DefaultLadder mirrors the revenue milestones tracked for every entity.
var DefaultLadder = NewLadder(
	model.MilestoneStep{Label: "$5K", Threshold: 5000},
	model.MilestoneStep{Label: "$10K", Threshold: 10000},
	model.MilestoneStep{Label: "$25K", Threshold: 25000},
	model.MilestoneStep{Label: "$50K", Threshold: 50000},
	model.MilestoneStep{Label: "$100K", Threshold: 100000},
	model.MilestoneStep{Label: "$250K", Threshold: 250000},
	model.MilestoneStep{Label: "$500K", Threshold: 500000},
	model.MilestoneStep{Label: "$1M", Threshold: 1000000},
)

// Check returns the milestones newly crossed at currentRevenue, in ladder
// order. A label already in achieved is never returned again; achievement
// is historical, not a live gauge. Pure: the caller persists the delta.
func (l Ladder) Check(currentRevenue float64, achieved map[string]bool, now time.Time) []model.MilestoneAchievement {
	var newly []model.MilestoneAchievement
	for _, step := range l {
		if achieved[step.Label] {
			continue
		}
		if currentRevenue >= step.Threshold {
			newly = append(newly, model.MilestoneAchievement{
				Label:      step.Label,
				Threshold:  step.Threshold,
				AchievedAt: now,
				Revenue:    currentRevenue,
			})
		}
	}
	return newly
}
