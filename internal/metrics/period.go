package metrics

import (
	"fmt"
	"time"

	"GrowthSentinel/internal/model"
)

// PeriodKey returns the canonical identifier for the period containing now:
// ISO year-week ("2026-W31") for weekly, year-month ("2026-07") for monthly.
func PeriodKey(now time.Time, pt model.PeriodType) string {
	if pt == model.PeriodWeekly {
		year, week := now.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return fmt.Sprintf("%d-%02d", now.Year(), int(now.Month()))
}

// WindowBounds returns the half-open current window [now-days, now).
func WindowBounds(now time.Time, days int) (start, end time.Time) {
	return now.AddDate(0, 0, -days), now
}
