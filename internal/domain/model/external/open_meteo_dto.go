package external

// GeocodingSearchResponse represents the response from the Open-Meteo geocoding search API
type GeocodingSearchResponse struct {
	Results []GeocodingResultDTO `json:"results"`
}

// GeocodingResultDTO represents one geocoding match. Coordinates are required.
type GeocodingResultDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
	Timezone    string   `json:"timezone"`
}

// ForecastResponse represents the response from the Open-Meteo forecast API
type ForecastResponse struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Hourly    *HourlyDTO `json:"hourly"`
}

// HourlyDTO holds the parallel hourly arrays. Entries may be null.
type HourlyDTO struct {
	Time                     []*string  `json:"time"`
	Precipitation            []*float64 `json:"precipitation"`
	PrecipitationProbability []*int     `json:"precipitation_probability"`
}

// OpenMeteoErrorResponse represents error responses from Open-Meteo
type OpenMeteoErrorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
