package model

import "time"

// Entity is a monitored startup account.
type Entity struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Company           string       `json:"company"`
	MonitoringEnabled bool         `json:"monitoring_enabled"`
	RiskFactors       []RiskFactor `json:"risk_factors,omitempty"`
	LastCheckedAt     time.Time    `json:"last_checked_at"`
}

// RegistryState is the persisted payload of the entity registry file.
type RegistryState struct {
	Entities  []Entity  `json:"entities"`
	UpdatedAt time.Time `json:"updated_at"`
}
