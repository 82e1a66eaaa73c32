package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GrowthSentinel/internal/model"
)

func seedEntities() []model.Entity {
	return []model.Entity{
		{ID: "acme", Name: "Acme", Company: "Acme Inc"},
		{ID: "beta", Name: "Beta", Company: "Beta LLC"},
	}
}

func TestNewManager_SeedsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	m, err := NewManager(path, seedEntities())
	require.NoError(t, err)
	assert.Len(t, m.Enabled(), 2, "seeded entities start enabled")

	// A second manager on the same file sees the persisted state.
	m2, err := NewManager(path, nil)
	require.NoError(t, err)
	assert.Len(t, m2.All(), 2)
}

func TestNewManager_SeedDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	m, err := NewManager(path, seedEntities())
	require.NoError(t, err)
	require.NoError(t, m.SetMonitoring("acme", false))

	// Restart with the same seed: the disabled flag must survive.
	m2, err := NewManager(path, seedEntities())
	require.NoError(t, err)
	e, err := m2.Get("acme")
	require.NoError(t, err)
	assert.False(t, e.MonitoringEnabled)
	assert.Len(t, m2.Enabled(), 1)
}

func TestManager_GetUnknown(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "registry.json"), seedEntities())
	require.NoError(t, err)

	_, err = m.Get("ghost")
	assert.Error(t, err)
	assert.Error(t, m.SetMonitoring("ghost", true))
}

func TestManager_MarkChecked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	m, err := NewManager(path, seedEntities())
	require.NoError(t, err)

	at := time.Date(2026, 7, 28, 8, 0, 0, 0, time.UTC)
	m.MarkChecked("acme", at)

	e, err := m.Get("acme")
	require.NoError(t, err)
	assert.True(t, e.LastCheckedAt.Equal(at))

	m2, err := NewManager(path, nil)
	require.NoError(t, err)
	e, err = m2.Get("acme")
	require.NoError(t, err)
	assert.True(t, e.LastCheckedAt.Equal(at), "check time persists across restarts")
}

func TestManager_AddRiskFactor(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "registry.json"), seedEntities())
	require.NoError(t, err)

	rf := model.RiskFactor{Factor: "churn", Severity: model.SeverityHigh, Description: "rising churn"}
	require.NoError(t, m.AddRiskFactor("acme", rf))

	e, err := m.Get("acme")
	require.NoError(t, err)
	require.Len(t, e.RiskFactors, 1)
	assert.Equal(t, model.SeverityHigh, e.RiskFactors[0].Severity)
}

func TestNewManager_CorruptStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewManager(path, seedEntities())
	assert.Error(t, err, "a corrupt state file must not be silently reset")
}

func TestManager_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	m, err := NewManager(path, seedEntities())
	require.NoError(t, err)
	require.NoError(t, m.SetMonitoring("acme", false))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file is renamed away after every save")
	assert.Equal(t, "registry.json", entries[0].Name())
}
