package umbrella

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"umbrella-bot/internal/domain/entity"
	"umbrella-bot/internal/domain/model"
	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/requestid"
)

type mockGeocodingGateway struct {
	mock.Mock
}

func (m *mockGeocodingGateway) SearchCity(ctx context.Context, name string) (*entity.GeoLocation, error) {
	args := m.Called(ctx, name)
	location, _ := args.Get(0).(*entity.GeoLocation)
	return location, args.Error(1)
}

type mockForecastGateway struct {
	mock.Mock
}

func (m *mockForecastGateway) GetHourlyPrecipitation(ctx context.Context, latitude float64, longitude float64) (entity.Forecast, error) {
	args := m.Called(ctx, latitude, longitude)
	forecast, _ := args.Get(0).(entity.Forecast)
	return forecast, args.Error(1)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log.Use(zap.New(core))
	t.Cleanup(func() { log.Configure("", "") })
	return logs
}

var tallinn = &entity.GeoLocation{Latitude: 59.437, Longitude: 24.7535, DisplayName: "Tallinn", Country: "Estonia"}

func TestAdvise_CityNotFoundSkipsForecast(t *testing.T) {
	logs := observeLogs(t)
	geocoding := new(mockGeocodingGateway)
	forecast := new(mockForecastGateway)
	geocoding.On("SearchCity", mock.Anything, "Xyzzyplatz").Return(nil, nil)

	advice := NewUmbrellaUseCase(6, geocoding, forecast).Advise(context.Background(), "Xyzzyplatz")

	assert.Equal(t, model.OutcomeCityNotFound, advice.Outcome)
	assert.Nil(t, advice.Location)
	forecast.AssertNotCalled(t, "GetHourlyPrecipitation", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestAdvise_ForecastFailureIsUnavailableAndSkipsDecision(t *testing.T) {
	logs := observeLogs(t)
	geocoding := new(mockGeocodingGateway)
	forecast := new(mockForecastGateway)
	geocoding.On("SearchCity", mock.Anything, "Tallinn").Return(tallinn, nil)
	forecast.On("GetHourlyPrecipitation", mock.Anything, tallinn.Latitude, tallinn.Longitude).
		Return(nil, errors.New("connection reset by peer"))

	useCase := NewUmbrellaUseCase(6, geocoding, forecast).(*umbrellaUseCase)
	decided := false
	useCase.decide = func(entity.Forecast, int) entity.Decision {
		decided = true
		return entity.DecisionUnknown
	}

	ctx := requestid.WithRequestID(context.Background(), "req-1")
	advice := useCase.Advise(ctx, "Tallinn")

	assert.Equal(t, model.OutcomeUnavailable, advice.Outcome)
	assert.Equal(t, tallinn, advice.Location)
	assert.False(t, decided)

	errorLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorLogs, 1)
	assert.Equal(t, "Failed to fetch forecast", errorLogs[0].Message)
	assert.Equal(t, "req-1", errorLogs[0].ContextMap()["request_id"])
}

func TestAdvise_GeocodingFailureIsUnavailable(t *testing.T) {
	logs := observeLogs(t)
	geocoding := new(mockGeocodingGateway)
	forecast := new(mockForecastGateway)
	geocoding.On("SearchCity", mock.Anything, "Tallinn").Return(nil, errors.New("dns failure"))

	advice := NewUmbrellaUseCase(6, geocoding, forecast).Advise(context.Background(), "Tallinn")

	assert.Equal(t, model.OutcomeUnavailable, advice.Outcome)
	assert.Nil(t, advice.Location)
	forecast.AssertNotCalled(t, "GetHourlyPrecipitation", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, logs.FilterMessage("Failed to resolve city").Len())
}

func TestAdvise_CancelledRequestLogsWarning(t *testing.T) {
	logs := observeLogs(t)
	geocoding := new(mockGeocodingGateway)
	geocoding.On("SearchCity", mock.Anything, "Tallinn").Return(nil, context.Canceled)

	advice := NewUmbrellaUseCase(6, geocoding, new(mockForecastGateway)).Advise(context.Background(), "Tallinn")

	assert.Equal(t, model.OutcomeUnavailable, advice.Outcome)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestAdvise_MapsDecisionToOutcome(t *testing.T) {
	tests := []struct {
		name     string
		forecast entity.Forecast
		outcome  model.Outcome
		decision entity.Decision
	}{
		{"rain", entity.Forecast{obs("t0", 1.2, 80)}, model.OutcomeNeedsUmbrella, entity.DecisionNeedsUmbrella},
		{"dry", entity.Forecast{obs("t0", 0, 5)}, model.OutcomeNoUmbrellaNeeded, entity.DecisionNoUmbrellaNeeded},
		{"empty", entity.Forecast{}, model.OutcomeForecastEmpty, entity.DecisionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observeLogs(t)
			geocoding := new(mockGeocodingGateway)
			forecast := new(mockForecastGateway)
			geocoding.On("SearchCity", mock.Anything, "Tallinn").Return(tallinn, nil)
			forecast.On("GetHourlyPrecipitation", mock.Anything, tallinn.Latitude, tallinn.Longitude).Return(tt.forecast, nil)

			advice := NewUmbrellaUseCase(DefaultHoursAhead, geocoding, forecast).Advise(context.Background(), "Tallinn")

			assert.Equal(t, tt.outcome, advice.Outcome)
			assert.Equal(t, tt.decision, advice.Decision)
			assert.Equal(t, "Tallinn", advice.Location.DisplayName)
			forecast.AssertExpectations(t)
		})
	}
}

func TestAdvise_PassesConfiguredWindow(t *testing.T) {
	observeLogs(t)
	geocoding := new(mockGeocodingGateway)
	forecast := new(mockForecastGateway)
	geocoding.On("SearchCity", mock.Anything, "Tallinn").Return(tallinn, nil)
	forecast.On("GetHourlyPrecipitation", mock.Anything, mock.Anything, mock.Anything).Return(entity.Forecast{obs("t0", 0, 0)}, nil)

	useCase := NewUmbrellaUseCase(3, geocoding, forecast).(*umbrellaUseCase)
	var window int
	useCase.decide = func(_ entity.Forecast, hoursAhead int) entity.Decision {
		window = hoursAhead
		return entity.DecisionNoUmbrellaNeeded
	}

	useCase.Advise(context.Background(), "Tallinn")
	assert.Equal(t, 3, window)
}
