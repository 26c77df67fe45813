package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"umbrella-bot/internal/domain/entity"
	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/pkg/http"
)

const (
	geocodingUpstream = "open-meteo geocoding"
	geocodingPath     = "/v1/search"
	defaultLanguage   = "en"
	defaultTimeout    = 10 * time.Second
)

// geocodingGatewayImpl implements the GeocodingGateway interface over Open-Meteo
type geocodingGatewayImpl struct {
	httpClient *http.Client
	validate   *validator.Validate
	language   string
	timeout    time.Duration
}

// NewGeocodingGateway creates a new instance of GeocodingGateway with HTTP client
func NewGeocodingGateway(baseUrl string, language string, timeout time.Duration, clientOptions http.ClientOptions) GeocodingGateway {
	if language == "" {
		language = defaultLanguage
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &geocodingGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		validate:   validator.New(),
		language:   language,
		timeout:    timeout,
	}
}

// SearchCity searches for the best match of a city name
func (g *geocodingGatewayImpl) SearchCity(ctx context.Context, name string) (*entity.GeoLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("city name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("name", name)
	query.Set("count", "1")
	query.Set("language", g.language)
	query.Set("format", "json")

	successResp, errResp, _, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(geocodingPath).
		WithQueryParams(query).
		WithSuccessResp(&external.GeocodingSearchResponse{}).
		WithErrorResp(&external.OpenMeteoErrorResponse{}).
		Execute()

	if err != nil {
		if errResp != nil {
			if reason := errResp.(*external.OpenMeteoErrorResponse).Reason; reason != "" {
				err = fmt.Errorf("%w: %s", err, reason)
			}
		}
		return nil, newTransportError(geocodingUpstream, err)
	}

	response := successResp.(*external.GeocodingSearchResponse)
	if len(response.Results) == 0 {
		return nil, nil
	}

	first := response.Results[0]
	if err := g.validate.Struct(first); err != nil {
		return nil, newTransportError(geocodingUpstream, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	displayName := first.Name
	if displayName == "" {
		displayName = name
	}

	return &entity.GeoLocation{
		Latitude:    *first.Latitude,
		Longitude:   *first.Longitude,
		DisplayName: displayName,
		Country:     first.Country,
		Timezone:    first.Timezone,
	}, nil
}

// BreakerState reports the state of the circuit breaker guarding the geocoding API
func (g *geocodingGatewayImpl) BreakerState() string {
	return g.httpClient.BreakerState()
}
