package umbrella

import (
	"context"

	"umbrella-bot/internal/domain/model"
)

type UseCase interface {
	// Advise resolves city, fetches its hourly forecast and classifies the umbrella outcome.
	// Upstream failures are logged and reported as OutcomeUnavailable, never returned.
	Advise(ctx context.Context, city string) model.Advice
}
