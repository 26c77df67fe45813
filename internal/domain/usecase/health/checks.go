package health

import (
	"context"
	"errors"
	"strconv"

	"umbrella-bot/internal/domain/gateway/api"
	"umbrella-bot/internal/domain/gateway/chat"
)

// Check probes one component. Returned details are reported even on error.
type Check struct {
	Name string
	Run  func(ctx context.Context) (map[string]string, error)
}

// Pinger is anything that can answer a ping, e.g. the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// breakerReporter is implemented by gateways guarded by a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}

func withBreakerState(details map[string]string, gateway any) map[string]string {
	if reporter, ok := gateway.(breakerReporter); ok {
		details["breaker"] = reporter.BreakerState()
	}
	return details
}

// GeocodingCheck resolves probeCity. A "not found" answer still proves the service is reachable.
func GeocodingCheck(gateway api.GeocodingGateway, probeCity string) Check {
	return Check{
		Name: "geocoding",
		Run: func(ctx context.Context) (map[string]string, error) {
			location, err := gateway.SearchCity(ctx, probeCity)
			details := withBreakerState(map[string]string{"probe_city": probeCity}, gateway)
			if err != nil {
				return details, err
			}
			details["found"] = strconv.FormatBool(location != nil)
			return details, nil
		},
	}
}

// ForecastCheck fetches the forecast for fixed coordinates.
func ForecastCheck(gateway api.ForecastGateway, latitude float64, longitude float64) Check {
	return Check{
		Name: "forecast",
		Run: func(ctx context.Context) (map[string]string, error) {
			forecast, err := gateway.GetHourlyPrecipitation(ctx, latitude, longitude)
			details := withBreakerState(map[string]string{}, gateway)
			if err != nil {
				return details, err
			}
			details["hours"] = strconv.Itoa(len(forecast))
			if len(forecast) == 0 {
				return details, errors.New("forecast returned no hourly data")
			}
			return details, nil
		},
	}
}

// TelegramCheck calls getMe, which also validates the bot token.
func TelegramCheck(gateway chat.TelegramGateway) Check {
	return Check{
		Name: "telegram",
		Run: func(ctx context.Context) (map[string]string, error) {
			user, err := gateway.GetMe(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]string{"username": user.Username}, nil
		},
	}
}

// PingCheck wraps a Pinger.
func PingCheck(name string, pinger Pinger) Check {
	return Check{
		Name: name,
		Run: func(ctx context.Context) (map[string]string, error) {
			return nil, pinger.Ping(ctx)
		},
	}
}
