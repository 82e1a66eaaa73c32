package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeStreaks_InsufficientHistory(t *testing.T) {
	assert.Zero(t, AnalyzeStreaks(nil, 5))
	assert.Zero(t, AnalyzeStreaks([]float64{50}, 5), "one period cannot form a streak")
}

func TestAnalyzeStreaks_TrailingStreakStaysOpen(t *testing.T) {
	stats := AnalyzeStreaks([]float64{10, 12, 8}, 5)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, 0, stats.StreakCount, "an open streak is not a completed streak")
	assert.Zero(t, stats.AverageStreakDuration)
}

func TestAnalyzeStreaks_ClosedAndReopened(t *testing.T) {
	// Two completed runs (2 and 3 periods) and a trailing open run of 1.
	rates := []float64{10, 12, 3, 8, 9, 11, -2, 6}
	stats := AnalyzeStreaks(rates, 5)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, 2, stats.StreakCount)
	assert.InDelta(t, 2.5, stats.AverageStreakDuration, 1e-9)
}

func TestAnalyzeStreaks_ThresholdIsStrict(t *testing.T) {
	// Exactly 5% does not extend a streak.
	stats := AnalyzeStreaks([]float64{5, 5, 5}, 5)
	assert.Zero(t, stats.CurrentStreak)
	assert.Zero(t, stats.LongestStreak)

	stats = AnalyzeStreaks([]float64{5.01, 5.01}, 5)
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestAnalyzeStreaks_AllBelowThreshold(t *testing.T) {
	stats := AnalyzeStreaks([]float64{-5, 0, 2}, 5)
	assert.Zero(t, stats)
}
