package model

import "time"

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ComponentHealthStatus represents the health check structure of a application component
type ComponentHealthStatus struct {
	Status    HealthStatus      `json:"status"`
	Details   map[string]string `json:"details,omitempty"`
	CheckedAt time.Time         `json:"checkedAt,omitempty"`
}

// HealthResponse represents the health check response of all application
type HealthResponse struct {
	Status     HealthStatus                     `json:"status"`
	Components map[string]ComponentHealthStatus `json:"components"`
}
