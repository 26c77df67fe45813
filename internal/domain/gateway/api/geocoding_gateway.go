package api

import (
	"context"

	"umbrella-bot/internal/domain/entity"
)

// GeocodingGateway resolves free-text place names to coordinates
type GeocodingGateway interface {
	// SearchCity returns the single best match for name.
	// A nil location with a nil error means the service knows no such place.
	SearchCity(ctx context.Context, name string) (*entity.GeoLocation, error)
}
