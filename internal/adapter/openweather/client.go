package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"assistant-orchestrator/internal/domain"
)

// Client fetches current conditions from the OpenWeather API. Outbound calls
// are rate-limited client-side to stay inside the free tier.
type Client struct {
	baseURL    string
	apiKey     string
	units      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient constructs a client. ratePerSecond <= 0 disables limiting.
func NewClient(baseURL, apiKey, units string, ratePerSecond float64, httpClient *http.Client) *Client {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		units:      units,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// CurrentWeather fetches and normalizes the current-weather payload.
// A provider-signaled failure (cod != 200) maps to *domain.ProviderError;
// anything else is a transport-level error.
func (c *Client) CurrentWeather(ctx context.Context, coords domain.Coordinates) (*domain.WeatherReport, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// cod is a number on success but a string on some error payloads.
	if code := asInt(raw["cod"]); code != http.StatusOK {
		message := "Unknown error"
		if msg, ok := raw["message"].(string); ok && msg != "" {
			message = msg
		}
		return nil, &domain.ProviderError{Code: code, Message: message}
	}

	report := &domain.WeatherReport{Raw: raw}

	if main, ok := raw["main"].(map[string]any); ok {
		report.Temperature = asFloat(main["temp"])
		report.FeelsLike = asFloat(main["feels_like"])
		report.Humidity = asInt(main["humidity"])
		report.Pressure = asInt(main["pressure"])
	}
	if weather, ok := raw["weather"].([]any); ok && len(weather) > 0 {
		if first, ok := weather[0].(map[string]any); ok {
			report.Description, _ = first["description"].(string)
			report.Main, _ = first["main"].(string)
			report.Icon, _ = first["icon"].(string)
		}
	}
	if wind, ok := raw["wind"].(map[string]any); ok {
		report.WindSpeed = asFloat(wind["speed"])
		report.WindDeg = asInt(wind["deg"])
	}
	if clouds, ok := raw["clouds"].(map[string]any); ok {
		report.Clouds = asInt(clouds["all"])
	}
	if sys, ok := raw["sys"].(map[string]any); ok {
		report.Sunrise = int64(asFloat(sys["sunrise"]))
		report.Sunset = int64(asFloat(sys["sunset"]))
		report.Country, _ = sys["country"].(string)
	}
	report.Visibility = asInt(raw["visibility"])
	report.Timezone = asInt(raw["timezone"])

	return report, nil
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		parsed, _ := strconv.ParseFloat(n, 64)
		return parsed
	default:
		return 0
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		parsed, _ := strconv.Atoi(n)
		return parsed
	default:
		return 0
	}
}

var _ domain.WeatherClient = (*Client)(nil)
