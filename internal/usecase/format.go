package usecase

import (
	"fmt"
	"strings"

	"assistant-orchestrator/internal/domain"
)

// ResponseText returns the most recent assistant message, which the
// pipeline guarantees to exist after synthesis.
func ResponseText(state *domain.ConversationState) string {
	if text := state.LastAssistantMessage(); text != "" {
		return text
	}
	return "No response generated"
}

// FormatWeatherResponse renders a compact, human-readable weather block.
func FormatWeatherResponse(state *domain.ConversationState) string {
	if state.ErrorMessage != "" {
		return "❌ Error: " + state.ErrorMessage
	}
	if state.WeatherData == nil {
		return "❌ No weather data available"
	}

	weather := state.WeatherData
	var sb strings.Builder
	fmt.Fprintf(&sb, "🌤️ Weather in %s:\n", weather.City)
	fmt.Fprintf(&sb, "• Temperature: %.1f°C\n", weather.Temperature)
	fmt.Fprintf(&sb, "• Conditions: %s\n", capitalize(weather.Description))

	if state.ProcessingTime > 0 {
		fmt.Fprintf(&sb, "\n⏱️ Processing time: %.2fs", state.ProcessingTime)
	}
	return sb.String()
}

// FormatRAGResponse renders the retrieval summary with its source list.
func FormatRAGResponse(state *domain.ConversationState) string {
	if state.ErrorMessage != "" {
		return "❌ Error: " + state.ErrorMessage
	}
	if state.RAGResult == nil {
		return "❌ No document results available"
	}

	rag := state.RAGResult
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 Response based on %d source(s):\n\n%s", len(rag.Sources), rag.Summary)

	if len(rag.Sources) > 0 {
		fmt.Fprintf(&sb, "\n\n📖 Sources: %s", strings.Join(rag.Sources, ", "))
	}
	if state.ProcessingTime > 0 {
		fmt.Fprintf(&sb, "\n\n⏱️ Processing time: %.2fs", state.ProcessingTime)
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
