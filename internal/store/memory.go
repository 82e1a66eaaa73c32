package store

import (
	"sort"
	"sync"
	"time"

	"GrowthSentinel/internal/model"
)

// MemoryStore is an in-memory Store used when no database is configured
// and by tests. Same semantics as the SQLite store, including the
// per-period uniqueness invariant.
type MemoryStore struct {
	mu          sync.Mutex
	samples     map[string][]model.MetricSample // entityID -> samples
	revenue     map[string][]model.RevenueSnapshot
	milestones  map[string][]model.MilestoneAchievement
	evaluations map[string][]model.TriggerEvaluation
	alerts      map[string][]model.Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		samples:     make(map[string][]model.MetricSample),
		revenue:     make(map[string][]model.RevenueSnapshot),
		milestones:  make(map[string][]model.MilestoneAchievement),
		evaluations: make(map[string][]model.TriggerEvaluation),
		alerts:      make(map[string][]model.Alert),
	}
}

func (m *MemoryStore) AppendSample(s *model.MetricSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.samples[s.EntityID] {
		if existing.PeriodType == s.PeriodType && existing.PeriodKey == s.PeriodKey {
			return ErrDuplicatePeriod
		}
	}
	m.samples[s.EntityID] = append(m.samples[s.EntityID], *s)
	return nil
}

func (m *MemoryStore) LatestSamples(entityID string, pt model.PeriodType, limit int) ([]model.MetricSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.MetricSample
	for _, s := range m.samples[entityID] {
		if s.PeriodType == pt {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey > out[j].PeriodKey })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CountSurges(entityID string, sinceDays int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	since := time.Now().AddDate(0, 0, -sinceDays)
	count := 0
	for _, s := range m.samples[entityID] {
		if s.Surge && !s.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) AppendRevenue(snap *model.RevenueSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.revenue[snap.EntityID] {
		if existing.PeriodType == snap.PeriodType && existing.PeriodKey == snap.PeriodKey {
			return ErrDuplicatePeriod
		}
	}
	m.revenue[snap.EntityID] = append(m.revenue[snap.EntityID], *snap)
	return nil
}

func (m *MemoryStore) LatestRevenue(entityID string, limit int) ([]model.RevenueSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]model.RevenueSnapshot(nil), m.revenue[entityID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey > out[j].PeriodKey })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Milestones(entityID string) ([]model.MilestoneAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MilestoneAchievement(nil), m.milestones[entityID]...), nil
}

func (m *MemoryStore) AddMilestones(entityID string, achieved []model.MilestoneAchievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[string]bool, len(m.milestones[entityID]))
	for _, ms := range m.milestones[entityID] {
		existing[ms.Label] = true
	}
	for _, ms := range achieved {
		if existing[ms.Label] {
			continue
		}
		m.milestones[entityID] = append(m.milestones[entityID], ms)
		existing[ms.Label] = true
	}
	return nil
}

func (m *MemoryStore) AppendEvaluation(ev *model.TriggerEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations[ev.EntityID] = append(m.evaluations[ev.EntityID], *ev)
	return nil
}

func (m *MemoryStore) LatestEvaluation(entityID string) (*model.TriggerEvaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	evs := m.evaluations[entityID]
	if len(evs) == 0 {
		return nil, nil
	}
	latest := evs[0]
	for _, ev := range evs[1:] {
		if ev.EvaluationDate.After(latest.EvaluationDate) {
			latest = ev
		}
	}
	return &latest, nil
}

func (m *MemoryStore) AppendAlert(a *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[a.EntityID] = append(m.alerts[a.EntityID], *a)
	return nil
}

func (m *MemoryStore) RecentAlerts(entityID string, limit int) ([]model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]model.Alert(nil), m.alerts[entityID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) MonthlyStats(entityID string) (MonthlySummary, error) {
	samples, err := m.LatestSamples(entityID, model.PeriodMonthly, 12)
	if err != nil {
		return MonthlySummary{}, err
	}
	return summarizeMonthly(samples), nil
}

func (m *MemoryStore) Close() error { return nil }
