package umbrella

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"umbrella-bot/internal/domain/entity"
	"umbrella-bot/internal/domain/gateway/api"
	"umbrella-bot/internal/domain/model"
	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/requestid"
)

type umbrellaUseCase struct {
	hoursAhead       int
	geocodingGateway api.GeocodingGateway
	forecastGateway  api.ForecastGateway
	decide           func(entity.Forecast, int) entity.Decision
}

func NewUmbrellaUseCase(hoursAhead int, geocodingGateway api.GeocodingGateway, forecastGateway api.ForecastGateway) UseCase {
	return &umbrellaUseCase{
		hoursAhead:       hoursAhead,
		geocodingGateway: geocodingGateway,
		forecastGateway:  forecastGateway,
		decide:           Decide,
	}
}

// Advise runs the geocode -> forecast -> decide pipeline for one city
func (uc *umbrellaUseCase) Advise(ctx context.Context, city string) model.Advice {
	requestID := zap.String("request_id", requestid.FromContext(ctx))

	location, err := uc.geocodingGateway.SearchCity(ctx, city)
	if err != nil {
		logUpstreamFailure("Failed to resolve city", city, requestID, err)
		return model.Advice{Outcome: model.OutcomeUnavailable}
	}
	if location == nil {
		log.Info("City not found", zap.String("city", city), requestID)
		return model.Advice{Outcome: model.OutcomeCityNotFound}
	}

	forecast, err := uc.forecastGateway.GetHourlyPrecipitation(ctx, location.Latitude, location.Longitude)
	if err != nil {
		logUpstreamFailure("Failed to fetch forecast", city, requestID, err)
		return model.Advice{Outcome: model.OutcomeUnavailable, Location: location}
	}

	decision := uc.decide(forecast, uc.hoursAhead)
	advice := model.Advice{Location: location, Decision: decision}

	switch decision {
	case entity.DecisionNeedsUmbrella:
		advice.Outcome = model.OutcomeNeedsUmbrella
	case entity.DecisionNoUmbrellaNeeded:
		advice.Outcome = model.OutcomeNoUmbrellaNeeded
	default:
		log.Warn("Forecast returned no hourly data",
			zap.String("city", city),
			zap.String("location", location.DisplayName),
			requestID,
		)
		advice.Outcome = model.OutcomeForecastEmpty
	}

	log.Info("Umbrella advice computed",
		zap.String("city", city),
		zap.String("location", location.DisplayName),
		zap.Int("hours", len(forecast)),
		zap.Stringer("decision", decision),
		requestID,
	)
	return advice
}

func logUpstreamFailure(message string, city string, requestID zap.Field, err error) {
	fields := []zap.Field{zap.String("city", city), requestID, zap.Error(err)}
	if errors.Is(err, context.Canceled) {
		log.Warn(message, fields...)
		return
	}
	log.Error(message, fields...)
}
