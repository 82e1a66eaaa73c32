package model

import "time"

// MilestoneStep is one rung of the revenue milestone ladder.
type MilestoneStep struct {
	Label     string
	Threshold float64
}

// MilestoneAchievement records a one-time revenue threshold crossing.
// Achievements are monotonic: once recorded, never revoked, even if
// revenue later drops below the threshold. Threshold is the ladder step
// that was crossed; Revenue the actual figure at the time.
type MilestoneAchievement struct {
	Label      string
	Threshold  float64
	AchievedAt time.Time
	Revenue    float64
}
