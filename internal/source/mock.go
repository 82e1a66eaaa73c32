package source

import (
	"context"
	"time"

	"GrowthSentinel/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Records outside the requested window are filtered, matching what a real
// source would return. Err, when set, is returned from every fetch.
type MockSource struct {
	Events       []model.Event
	Transactions []model.Transaction
	Err          error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchEvents(_ context.Context, _ string, start, end time.Time) ([]model.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Event
	for _, ev := range m.Events {
		if !ev.Timestamp.Before(start) && ev.Timestamp.Before(end) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MockSource) FetchTransactions(_ context.Context, _ string, start, end time.Time) ([]model.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Transaction
	for _, tx := range m.Transactions {
		if !tx.Timestamp.Before(start) && tx.Timestamp.Before(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// GenerateMockEvents spreads count events evenly across the window ending
// at end, useful for exercising the full pipeline without a live source.
func GenerateMockEvents(end time.Time, days, count int) []model.Event {
	if count <= 0 {
		return nil
	}
	events := make([]model.Event, count)
	step := time.Duration(days) * 24 * time.Hour / time.Duration(count)
	ts := end.Add(-time.Duration(days) * 24 * time.Hour)
	for i := range events {
		events[i] = model.Event{Timestamp: ts}
		ts = ts.Add(step)
	}
	return events
}
