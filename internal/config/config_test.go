package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "0 0 8 * * 1", cfg.Schedule.WeeklyCron)
	assert.Equal(t, "0 0 9 1 * *", cfg.Schedule.MonthlyCron)
	assert.Equal(t, "0 0 10 2 * *", cfg.Schedule.EvaluationCron)
	assert.Equal(t, "data/growth_sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, "data/registry_state.json", cfg.Registry.StateFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SIGNALS_BASE_URL", "https://signals.example")
	t.Setenv("CRON_WEEKLY", "0 0 7 * * 1")
	t.Setenv("CRON_MONTHLY", "0 0 8 1 * *")
	t.Setenv("CRON_EVALUATION", "0 30 8 2 * *")
	t.Setenv("FUNDING_BASE_AMOUNT", "75000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://signals.example", cfg.DataSource.BaseURL)
	assert.Equal(t, "0 0 7 * * 1", cfg.Schedule.WeeklyCron)
	assert.Equal(t, "0 0 8 1 * *", cfg.Schedule.MonthlyCron)
	assert.Equal(t, "0 30 8 2 * *", cfg.Schedule.EvaluationCron)
	assert.Equal(t, 75000.0, cfg.MaterializeThresholds().FundingBaseAmount)
}

func TestMaterializeThresholds(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  surge_multiplier: 2.0
  sustained_growth_pct: 25
  sustained_min_periods: 3
  trigger_min_surges: 4
  monitor_min_surges: 2
  eligibility_score: 80
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	th := cfg.MaterializeThresholds()
	assert.Equal(t, 2.0, th.SurgeMultiplier)
	assert.Equal(t, 25.0, th.SustainedGrowthPct)
	assert.Equal(t, 3, th.SustainedMinPeriods)
	assert.Equal(t, 4, th.TriggerMinSurges)
	assert.Equal(t, 2, th.MonitorMinSurges)
	assert.Equal(t, 80, th.EligibilityScore)

	// Unset fields keep their defaults.
	assert.Equal(t, 5.0, th.StreakMinGrowthPct)
	assert.Equal(t, 30.0, th.TriggerAvgGrowthPct)
	assert.Equal(t, 20.0, th.MonitorAvgGrowthPct)
	assert.Equal(t, 3, th.MonthsToEvaluate)
	assert.Equal(t, 90, th.SurgeLookbackDays)
	assert.Equal(t, 50000.0, th.FundingBaseAmount)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
data_source:
  mock: true
registry:
  entities:
    - id: acme
      name: Acme
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Entities(), 1)
	assert.True(t, cfg.Entities()[0].MonitoringEnabled)

	cfg.Registry.Entities = nil
	assert.Error(t, cfg.Validate())

	cfg, err = Load(writeConfig(t, `
registry:
  entities:
    - id: acme
`))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "real source requires a base URL")
}
