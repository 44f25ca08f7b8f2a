package domain

import (
	"context"
	"fmt"
)

// ProviderError is a failure signaled by the weather provider itself, via a
// non-200 status code in the response payload.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.Code, e.Message)
}

// WeatherData is the structured result of a successful weather resolution.
// RawData keeps the full flattened provider report for the LLM summary.
type WeatherData struct {
	City        string         `json:"city"`
	Temperature float64        `json:"temperature"`
	Description string         `json:"description"`
	Humidity    int            `json:"humidity"`
	WindSpeed   float64        `json:"wind_speed"`
	Pressure    int            `json:"pressure"`
	RawData     map[string]any `json:"raw_data"`
}

// WeatherReport is the normalized payload returned by the weather provider.
type WeatherReport struct {
	Temperature float64
	FeelsLike   float64
	Humidity    int
	Pressure    int
	Description string
	Main        string
	Icon        string
	WindSpeed   float64
	WindDeg     int
	Visibility  int
	Clouds      int
	Sunrise     int64
	Sunset      int64
	Country     string
	Timezone    int
	Raw         map[string]any
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// WeatherClient fetches current conditions for a coordinate pair.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, coords Coordinates) (*WeatherReport, error)
}

// GeocodingClient resolves a free-text place name to coordinates.
// An empty result set is reported as ErrNoGeocodingMatch.
type GeocodingClient interface {
	Geocode(ctx context.Context, place string) (Coordinates, error)
}
