package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"assistant-orchestrator/internal/domain"
)

const weatherSummarySystemPrompt = `You are a helpful weather assistant. First, present the weather information in a clear, structured format with each detail on a new line, then provide a conversational answer to the user's query.

Weather Information Format:
Temperature: XX°C
Feels like: XX°C
Humidity: XX%
Wind: X.X m/s

Then answer the user's question conversationally. For example:
- "Is it cold?" → "No, it's quite warm and comfortable"
- "Should I bring a jacket?" → "You probably won't need one, it's quite warm"

Be helpful, conversational, and provide practical advice based on the weather conditions. Make sure each weather detail is on its own line.`

// WeatherUsecase resolves a weather query: extract the city, geocode it,
// fetch current conditions and synthesize a conversational answer.
type WeatherUsecase struct {
	llm       domain.LLMClient
	extractor *CityExtractor
	geocoder  *Geocoder
	weather   domain.WeatherClient
	logger    *slog.Logger
}

// NewWeatherUsecase wires the weather resolution stage.
func NewWeatherUsecase(
	llm domain.LLMClient,
	extractor *CityExtractor,
	geocoder *Geocoder,
	weather domain.WeatherClient,
	logger *slog.Logger,
) *WeatherUsecase {
	return &WeatherUsecase{
		llm:       llm,
		extractor: extractor,
		geocoder:  geocoder,
		weather:   weather,
		logger:    logger,
	}
}

// Resolve runs the stage. Every failure is terminal for the turn and lands
// in state.ErrorMessage; geocoding alone never fails thanks to the fallback
// table. WeatherData is only populated once the summary succeeded, so an
// errored state never carries a partial result.
func (u *WeatherUsecase) Resolve(ctx context.Context, state *domain.ConversationState) {
	defer func() {
		if r := recover(); r != nil {
			state.WeatherData = nil
			state.ErrorMessage = fmt.Sprintf("Error in weather node: %v", r)
		}
	}()

	start := time.Now()

	query := state.ResolveQuery()
	if query == "" {
		state.ErrorMessage = "No query provided for weather processing"
		return
	}

	city := u.extractor.Extract(ctx, query)
	if city == "" {
		state.ErrorMessage = "Could not extract city name from query"
		return
	}

	coords := u.geocoder.Coordinates(ctx, city)

	report, err := u.weather.CurrentWeather(ctx, coords)
	if err != nil {
		var provider *domain.ProviderError
		if errors.As(err, &provider) {
			state.ErrorMessage = "Weather API error: " + provider.Message
		} else {
			state.ErrorMessage = "Network error: " + err.Error()
		}
		return
	}

	// Prefer the provider's station name over the extracted, lower-cased city.
	if name, ok := report.Raw["name"].(string); ok && name != "" {
		city = name
	}

	data := &domain.WeatherData{
		City:        city,
		Temperature: report.Temperature,
		Description: report.Description,
		Humidity:    report.Humidity,
		WindSpeed:   report.WindSpeed,
		Pressure:    report.Pressure,
		RawData:     flattenReport(city, report),
	}

	summary, err := u.summarize(ctx, query, data.RawData)
	if err != nil {
		state.ErrorMessage = fmt.Sprintf("Error in weather node: %v", err)
		return
	}

	state.WeatherData = data
	state.AddMessage(domain.RoleAssistant, summary)
	state.ProcessingTime = time.Since(start).Seconds()

	u.logger.Info("weather query resolved",
		slog.String("city", city),
		slog.Float64("temperature", report.Temperature),
	)
}

func (u *WeatherUsecase) summarize(ctx context.Context, query string, weatherData map[string]any) (string, error) {
	payload, err := json.Marshal(weatherData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal weather data: %w", err)
	}

	content := fmt.Sprintf(
		"Query: %s\nWeather Data: %s\n\nPlease provide the weather information in the structured format with each detail on a new line, then answer the user's question conversationally.",
		query, string(payload),
	)

	return u.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: content},
	}, weatherSummarySystemPrompt)
}

// flattenReport mirrors the provider payload into the opaque RawData map the
// summarizer and callers see.
func flattenReport(city string, report *domain.WeatherReport) map[string]any {
	return map[string]any{
		"city":        city,
		"temperature": report.Temperature,
		"feels_like":  report.FeelsLike,
		"humidity":    report.Humidity,
		"pressure":    report.Pressure,
		"description": report.Description,
		"main":        report.Main,
		"icon":        report.Icon,
		"wind_speed":  report.WindSpeed,
		"wind_deg":    report.WindDeg,
		"visibility":  report.Visibility,
		"clouds":      report.Clouds,
		"sunrise":     report.Sunrise,
		"sunset":      report.Sunset,
		"country":     report.Country,
		"timezone":    report.Timezone,
	}
}
