package api

import (
	"context"

	"umbrella-bot/internal/domain/entity"
)

// ForecastGateway fetches hourly precipitation forecasts
type ForecastGateway interface {
	// GetHourlyPrecipitation returns one day of hourly precipitation amount and probability
	// for the coordinates, in the location's local time.
	GetHourlyPrecipitation(ctx context.Context, latitude float64, longitude float64) (entity.Forecast, error)
}
