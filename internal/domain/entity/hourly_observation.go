package entity

// HourlyObservation is one forecast hour. Nil pointers mean the upstream had no value.
type HourlyObservation struct {
	Timestamp                   string   `json:"timestamp"`
	PrecipitationMm             *float64 `json:"precipitationMm,omitempty"`
	PrecipitationProbabilityPct *int     `json:"precipitationProbabilityPct,omitempty"`
}

// Forecast is a chronological sequence of hourly observations starting at the current local hour.
type Forecast []HourlyObservation
