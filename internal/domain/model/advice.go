package model

import "umbrella-bot/internal/domain/entity"

// Outcome classifies how an umbrella request ended
type Outcome string

const (
	OutcomeCityNotFound     Outcome = "CITY_NOT_FOUND"
	OutcomeUnavailable      Outcome = "UNAVAILABLE"
	OutcomeForecastEmpty    Outcome = "FORECAST_EMPTY"
	OutcomeNeedsUmbrella    Outcome = "NEEDS_UMBRELLA"
	OutcomeNoUmbrellaNeeded Outcome = "NO_UMBRELLA_NEEDED"
)

// Advice is the result of running one city through the umbrella pipeline
type Advice struct {
	Outcome  Outcome             `json:"outcome"`
	Location *entity.GeoLocation `json:"location,omitempty"`
	Decision entity.Decision     `json:"decision"`
}
