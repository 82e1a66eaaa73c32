package metrics

import "GrowthSentinel/internal/model"

// AnalyzeStreaks scans a chronologically ordered growth-rate series (oldest
// first) and reports consecutive-growth runs. A period extends the current
// streak when its rate strictly exceeds minGrowthPct; a period at or below
// the threshold closes the streak. The trailing streak stays open: it is
// reported in CurrentStreak but not counted in StreakCount.
//
// Fewer than 2 periods is a valid insufficient-data state, not an error,
// and yields the zero result.
func AnalyzeStreaks(rates []float64, minGrowthPct float64) model.StreakStats {
	if len(rates) < 2 {
		return model.StreakStats{}
	}

	var current, longest, count, totalDuration int
	for _, rate := range rates {
		if rate > minGrowthPct {
			current++
			if current > longest {
				longest = current
			}
		} else {
			if current > 0 {
				count++
				totalDuration += current
			}
			current = 0
		}
	}

	avg := 0.0
	if count > 0 {
		avg = float64(totalDuration) / float64(count)
	}
	return model.StreakStats{
		CurrentStreak:         current,
		LongestStreak:         longest,
		StreakCount:           count,
		AverageStreakDuration: avg,
	}
}
