package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"umbrella-bot/internal/domain/entity"
	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/pkg/http"
)

const (
	forecastUpstream = "open-meteo forecast"
	forecastPath     = "/v1/forecast"
	hourlyVariables  = "precipitation,precipitation_probability"
)

// forecastGatewayImpl implements the ForecastGateway interface over Open-Meteo
type forecastGatewayImpl struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewForecastGateway creates a new instance of ForecastGateway with HTTP client
func NewForecastGateway(baseUrl string, timeout time.Duration, clientOptions http.ClientOptions) ForecastGateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &forecastGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		timeout:    timeout,
	}
}

// GetHourlyPrecipitation gets today's hourly precipitation forecast for the coordinates
func (f *forecastGatewayImpl) GetHourlyPrecipitation(ctx context.Context, latitude float64, longitude float64) (entity.Forecast, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("hourly", hourlyVariables)
	query.Set("forecast_days", "1")
	query.Set("timezone", "auto")

	successResp, errResp, _, err := f.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(forecastPath).
		WithQueryParams(query).
		WithSuccessResp(&external.ForecastResponse{}).
		WithErrorResp(&external.OpenMeteoErrorResponse{}).
		Execute()

	if err != nil {
		if errResp != nil {
			if reason := errResp.(*external.OpenMeteoErrorResponse).Reason; reason != "" {
				err = fmt.Errorf("%w: %s", err, reason)
			}
		}
		return nil, newTransportError(forecastUpstream, err)
	}

	return zipHourly(successResp.(*external.ForecastResponse).Hourly), nil
}

// BreakerState reports the state of the circuit breaker guarding the forecast API
func (f *forecastGatewayImpl) BreakerState() string {
	return f.httpClient.BreakerState()
}

// zipHourly pairs the parallel hourly arrays by index. The longest array sets the length;
// missing or null entries become absent values.
func zipHourly(hourly *external.HourlyDTO) entity.Forecast {
	if hourly == nil {
		return entity.Forecast{}
	}

	size := max(len(hourly.Time), len(hourly.Precipitation), len(hourly.PrecipitationProbability))
	forecast := make(entity.Forecast, size)
	for i := range size {
		if i < len(hourly.Time) && hourly.Time[i] != nil {
			forecast[i].Timestamp = *hourly.Time[i]
		}
		if i < len(hourly.Precipitation) {
			forecast[i].PrecipitationMm = hourly.Precipitation[i]
		}
		if i < len(hourly.PrecipitationProbability) {
			forecast[i].PrecipitationProbabilityPct = hourly.PrecipitationProbability[i]
		}
	}
	return forecast
}
