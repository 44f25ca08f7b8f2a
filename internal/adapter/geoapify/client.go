package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"assistant-orchestrator/internal/domain"
)

// Client resolves free-text place names via the Geoapify forward geocoder.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a geocoding client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Geocode returns the best match for place. An empty feature set maps to
// domain.ErrNoGeocodingMatch so callers can fall back.
func (c *Client) Geocode(ctx context.Context, place string) (domain.Coordinates, error) {
	params := url.Values{}
	params.Set("text", place)
	params.Set("apiKey", c.apiKey)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geocoding endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		Features []struct {
			Geometry struct {
				// GeoJSON order: [lon, lat]
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(payload.Features) == 0 || len(payload.Features[0].Geometry.Coordinates) < 2 {
		return domain.Coordinates{}, domain.ErrNoGeocodingMatch
	}

	coords := payload.Features[0].Geometry.Coordinates
	return domain.Coordinates{Lat: coords[1], Lon: coords[0]}, nil
}

var _ domain.GeocodingClient = (*Client)(nil)
