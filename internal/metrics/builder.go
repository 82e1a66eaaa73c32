package metrics

import (
	"sort"
	"time"

	"GrowthSentinel/internal/model"
)

// GrowthRate applies the zero-guarded growth formulas. When previous is 0
// both results are 0, never Inf or NaN: an empty previous window means "no
// growth signal", not unbounded growth.
func GrowthRate(current, previous int) (ratePct, multiplier float64) {
	if previous == 0 {
		return 0, 0
	}
	ratePct = float64(current-previous) / float64(previous) * 100
	multiplier = float64(current) / float64(previous)
	return ratePct, multiplier
}

// BuildSample aggregates raw dated events into one MetricSample for the
// period ending at now. Events are partitioned into the current window
// [now-w, now) and the previous window [now-2w, now-w); both half-open, so
// a record exactly on a boundary lands in exactly one partition. Weekly
// samples carry a per-day breakdown; monthly samples omit it.
func BuildSample(entityID string, pt model.PeriodType, events []model.Event, now time.Time, surgeMultiplier float64) model.MetricSample {
	days := pt.Days()
	curStart, curEnd := WindowBounds(now, days)
	prevStart := now.AddDate(0, 0, -2*days)

	var current []model.Event
	previousCount := 0
	for _, ev := range events {
		ts := ev.Timestamp
		switch {
		case !ts.Before(curStart) && ts.Before(curEnd):
			current = append(current, ev)
		case !ts.Before(prevStart) && ts.Before(curStart):
			previousCount++
		}
	}

	ratePct, multiplier := GrowthRate(len(current), previousCount)

	sample := model.MetricSample{
		EntityID:         entityID,
		PeriodType:       pt,
		PeriodKey:        PeriodKey(now, pt),
		WindowStart:      curStart,
		WindowEnd:        curEnd,
		NewCount:         len(current),
		PreviousCount:    previousCount,
		GrowthRatePct:    ratePct,
		GrowthMultiplier: multiplier,
		Surge:            multiplier > surgeMultiplier,
		CreatedAt:        now,
	}
	if pt == model.PeriodWeekly {
		sample.DailyBreakdown = dailyBreakdown(current)
	}
	return sample
}

// dailyBreakdown groups events by calendar date, sorted ascending.
func dailyBreakdown(events []model.Event) []model.DailyCount {
	if len(events) == 0 {
		return nil
	}
	counts := make(map[time.Time]int)
	for _, ev := range events {
		y, m, d := ev.Timestamp.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		counts[day]++
	}
	breakdown := make([]model.DailyCount, 0, len(counts))
	for day, n := range counts {
		breakdown = append(breakdown, model.DailyCount{Date: day, Count: n})
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Date.Before(breakdown[j].Date) })
	return breakdown
}
