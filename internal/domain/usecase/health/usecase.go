package health

import (
	"context"

	"umbrella-bot/internal/domain/model"
)

type UseCase interface {
	// CheckHealth returns the latest probe snapshot for every component
	CheckHealth() model.HealthResponse

	// Probe runs every component check and stores the results
	Probe(ctx context.Context) model.HealthResponse
}
