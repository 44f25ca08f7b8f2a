package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"assistant-orchestrator/internal/domain"
)

// fallbackCoordinates is the fixed city table used whenever the geocoding
// service is unavailable or returns no match.
var fallbackCoordinates = map[string]domain.Coordinates{
	"mumbai":    {Lat: 19.0760, Lon: 72.8777},
	"delhi":     {Lat: 28.7041, Lon: 77.1025},
	"bangalore": {Lat: 12.9716, Lon: 77.5946},
	"hyderabad": {Lat: 17.3850, Lon: 78.4867},
	"chennai":   {Lat: 13.0827, Lon: 80.2707},
	"kolkata":   {Lat: 22.5726, Lon: 88.3639},
	"pune":      {Lat: 18.5204, Lon: 73.8567},
	"ahmedabad": {Lat: 23.0225, Lon: 72.5714},
	"jaipur":    {Lat: 26.9124, Lon: 75.7873},
	"london":    {Lat: 51.5074, Lon: -0.0799},
	"new york":  {Lat: 40.7128, Lon: -74.0060},
	"tokyo":     {Lat: 35.6812, Lon: 139.7671},
	"paris":     {Lat: 48.8566, Lon: 2.3522},
	"beijing":   {Lat: 39.9087, Lon: 116.3975},
	"sydney":    {Lat: -33.8688, Lon: 151.2153},
}

// defaultCoordinates is returned for cities missing from the table (Mumbai).
var defaultCoordinates = domain.Coordinates{Lat: 19.0760, Lon: 72.8777}

// Geocoder resolves a city name to coordinates, absorbing every failure
// into the static fallback table. Coordinates never fails.
type Geocoder struct {
	client domain.GeocodingClient // nil when no API key is configured
	cache  *expirable.LRU[string, domain.Coordinates]
	logger *slog.Logger
}

// NewGeocoder creates a geocoder with an expirable result cache. client may
// be nil, in which case only the fallback table is consulted.
func NewGeocoder(client domain.GeocodingClient, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) *Geocoder {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	return &Geocoder{
		client: client,
		cache:  expirable.NewLRU[string, domain.Coordinates](cacheSize, nil, cacheTTL),
		logger: logger,
	}
}

// Coordinates resolves city to a coordinate pair. Transport failures and
// empty result sets degrade silently to the fallback table, keyed by the
// lower-cased city name, defaulting to Mumbai.
func (g *Geocoder) Coordinates(ctx context.Context, city string) domain.Coordinates {
	key := strings.ToLower(strings.TrimSpace(city))

	if coords, ok := g.cache.Get(key); ok {
		return coords
	}

	if g.client == nil {
		return g.fallback(key)
	}

	coords, err := g.client.Geocode(ctx, city)
	if err != nil {
		g.logger.Warn("geocoding degraded to fallback table",
			slog.String("city", city),
			slog.String("reason", err.Error()),
		)
		return g.fallback(key)
	}

	g.cache.Add(key, coords)
	return coords
}

func (g *Geocoder) fallback(key string) domain.Coordinates {
	if coords, ok := fallbackCoordinates[key]; ok {
		return coords
	}
	return defaultCoordinates
}
