package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"GrowthSentinel/internal/model"
)

// EntityConfig declares one startup to monitor.
type EntityConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Company string `yaml:"company"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Mock    bool   `yaml:"mock"`
	} `yaml:"data_source"`
	Schedule struct {
		WeeklyCron     string `yaml:"weekly_cron"`
		MonthlyCron    string `yaml:"monthly_cron"`
		EvaluationCron string `yaml:"evaluation_cron"`
	} `yaml:"schedule"`
	Registry struct {
		StateFile string         `yaml:"state_file"`
		Entities  []EntityConfig `yaml:"entities"`
	} `yaml:"registry"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Thresholds struct {
		SurgeMultiplier     float64 `yaml:"surge_multiplier"`
		StreakMinGrowthPct  float64 `yaml:"streak_min_growth_pct"`
		SustainedGrowthPct  float64 `yaml:"sustained_growth_pct"`
		SustainedMinPeriods int     `yaml:"sustained_min_periods"`
		TriggerAvgGrowthPct float64 `yaml:"trigger_avg_growth_pct"`
		TriggerMinSurges    int     `yaml:"trigger_min_surges"`
		MonitorAvgGrowthPct float64 `yaml:"monitor_avg_growth_pct"`
		MonitorMinSurges    int     `yaml:"monitor_min_surges"`
		EligibilityScore    int     `yaml:"eligibility_score"`
		FundingBaseAmount   float64 `yaml:"funding_base_amount"`
		MonthsToEvaluate    int     `yaml:"months_to_evaluate"`
		SurgeLookbackDays   int     `yaml:"surge_lookback_days"`
	} `yaml:"thresholds"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SIGNALS_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("SIGNALS_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_WEEKLY"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
	if v := os.Getenv("CRON_MONTHLY"); v != "" {
		cfg.Schedule.MonthlyCron = v
	}
	if v := os.Getenv("CRON_EVALUATION"); v != "" {
		cfg.Schedule.EvaluationCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FUNDING_BASE_AMOUNT"); v != "" {
		var amount float64
		if _, err := fmt.Sscanf(v, "%f", &amount); err == nil {
			cfg.Thresholds.FundingBaseAmount = amount
		}
	}

	// Defaults
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 8 * * 1"
	}
	if cfg.Schedule.MonthlyCron == "" {
		cfg.Schedule.MonthlyCron = "0 0 9 1 * *"
	}
	if cfg.Schedule.EvaluationCron == "" {
		cfg.Schedule.EvaluationCron = "0 0 10 2 * *"
	}
	if cfg.Registry.StateFile == "" {
		cfg.Registry.StateFile = "data/registry_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/growth_sentinel.db"
	}

	return cfg, nil
}

// MaterializeThresholds builds the evaluation thresholds, falling back to
// the built-in defaults for any value left unset.
func (c *Config) MaterializeThresholds() model.Thresholds {
	th := model.DefaultThresholds()
	if c.Thresholds.SurgeMultiplier > 0 {
		th.SurgeMultiplier = c.Thresholds.SurgeMultiplier
	}
	if c.Thresholds.StreakMinGrowthPct > 0 {
		th.StreakMinGrowthPct = c.Thresholds.StreakMinGrowthPct
	}
	if c.Thresholds.SustainedGrowthPct > 0 {
		th.SustainedGrowthPct = c.Thresholds.SustainedGrowthPct
	}
	if c.Thresholds.SustainedMinPeriods > 0 {
		th.SustainedMinPeriods = c.Thresholds.SustainedMinPeriods
	}
	if c.Thresholds.TriggerAvgGrowthPct > 0 {
		th.TriggerAvgGrowthPct = c.Thresholds.TriggerAvgGrowthPct
	}
	if c.Thresholds.TriggerMinSurges > 0 {
		th.TriggerMinSurges = c.Thresholds.TriggerMinSurges
	}
	if c.Thresholds.MonitorAvgGrowthPct > 0 {
		th.MonitorAvgGrowthPct = c.Thresholds.MonitorAvgGrowthPct
	}
	if c.Thresholds.MonitorMinSurges > 0 {
		th.MonitorMinSurges = c.Thresholds.MonitorMinSurges
	}
	if c.Thresholds.EligibilityScore > 0 {
		th.EligibilityScore = c.Thresholds.EligibilityScore
	}
	if c.Thresholds.FundingBaseAmount > 0 {
		th.FundingBaseAmount = c.Thresholds.FundingBaseAmount
	}
	if c.Thresholds.MonthsToEvaluate > 0 {
		th.MonthsToEvaluate = c.Thresholds.MonthsToEvaluate
	}
	if c.Thresholds.SurgeLookbackDays > 0 {
		th.SurgeLookbackDays = c.Thresholds.SurgeLookbackDays
	}
	return th
}

// Entities converts the configured entity list into registry seed entries.
func (c *Config) Entities() []model.Entity {
	out := make([]model.Entity, 0, len(c.Registry.Entities))
	for _, e := range c.Registry.Entities {
		out = append(out, model.Entity{
			ID:                e.ID,
			Name:              e.Name,
			Company:           e.Company,
			MonitoringEnabled: true,
		})
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if !c.DataSource.Mock && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required unless data_source.mock is set")
	}
	if len(c.Registry.Entities) == 0 {
		return fmt.Errorf("registry.entities must list at least one entity")
	}
	for _, e := range c.Registry.Entities {
		if e.ID == "" {
			return fmt.Errorf("registry.entities entries require an id")
		}
	}
	if c.Thresholds.FundingBaseAmount < 0 {
		return fmt.Errorf("thresholds.funding_base_amount must not be negative")
	}
	return nil
}
