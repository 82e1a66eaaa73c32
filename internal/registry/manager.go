package registry

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"GrowthSentinel/internal/model"
)

// Manager tracks the set of monitored entities with concurrency safety.
// State persists to a JSON file across restarts.
type Manager struct {
	mu       sync.Mutex
	state    *model.RegistryState
	filePath string
}

// NewManager creates a Manager, loading state from disk and seeding any
// configured entities not yet present. Seeded entities start enabled.
func NewManager(filePath string, seed []model.Entity) (*Manager, error) {
	state, err := loadState(filePath)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(state.Entities))
	for _, e := range state.Entities {
		known[e.ID] = true
	}
	for _, e := range seed {
		if known[e.ID] {
			continue
		}
		e.MonitoringEnabled = true
		state.Entities = append(state.Entities, e)
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Enabled returns a copy of all entities with monitoring enabled.
func (m *Manager) Enabled() []model.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Entity
	for _, e := range m.state.Entities {
		if e.MonitoringEnabled {
			out = append(out, e)
		}
	}
	return out
}

// All returns a copy of every registered entity.
func (m *Manager) All() []model.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Entity(nil), m.state.Entities...)
}

// Get returns the entity with the given ID.
func (m *Manager) Get(id string) (model.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.state.Entities {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entity{}, fmt.Errorf("entity %q not registered", id)
}

// SetMonitoring enables or disables monitoring for an entity.
func (m *Manager) SetMonitoring(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Entities {
		if m.state.Entities[i].ID == id {
			m.state.Entities[i].MonitoringEnabled = enabled
			return m.save()
		}
	}
	return fmt.Errorf("entity %q not registered", id)
}

// MarkChecked records the completion time of an entity's monitoring cycle.
func (m *Manager) MarkChecked(id string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Entities {
		if m.state.Entities[i].ID == id {
			m.state.Entities[i].LastCheckedAt = at
			if err := m.save(); err != nil {
				log.Printf("[ERROR] save registry state: %v", err)
			}
			return
		}
	}
}

// AddRiskFactor attaches a risk factor to an entity.
func (m *Manager) AddRiskFactor(id string, rf model.RiskFactor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Entities {
		if m.state.Entities[i].ID == id {
			m.state.Entities[i].RiskFactors = append(m.state.Entities[i].RiskFactors, rf)
			return m.save()
		}
	}
	return fmt.Errorf("entity %q not registered", id)
}

// loadState reads the state file. A missing file is a fresh install and
// yields an empty state; a present-but-unparseable file is an error, since
// silently starting over would drop the monitoring flags.
func loadState(filePath string) (*model.RegistryState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.RegistryState{}, nil
		}
		return nil, fmt.Errorf("read registry state: %w", err)
	}
	var state model.RegistryState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse registry state %s: %w", filePath, err)
	}
	return &state, nil
}

// save writes the state through a temp file and rename, so a crash
// mid-write never leaves a truncated state file behind.
func (m *Manager) save() error {
	m.state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry state: %w", err)
	}
	tmp := m.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write registry state: %w", err)
	}
	if err := os.Rename(tmp, m.filePath); err != nil {
		return fmt.Errorf("replace registry state: %w", err)
	}
	return nil
}
