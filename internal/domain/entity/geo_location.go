package entity

// GeoLocation is the best geocoding match for a free-text city name.
type GeoLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
	Country     string  `json:"country,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
}
