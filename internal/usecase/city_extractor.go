package usecase

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"assistant-orchestrator/internal/domain"
)

const locationExtractorSystemPrompt = `You are a location extractor. Extract ANY location information from weather queries, including landmarks, beaches, parks, neighborhoods, or any place name.

Return the complete location including any descriptive information. If no clear location is mentioned, return 'none'.

Examples:
- "weather in London" -> "london"
- "temperature in New York" -> "new york"
- "weather in downtown chicago, illinois" -> "downtown chicago, illinois"
- "is it safe to travel to marina beach?" -> "marina beach"
- "weather at central park" -> "central park"
- "how's the weather at the beach?" -> "beach"
- "weather near the airport" -> "airport"

Extract ANY location reference, not just city names.`

// weatherKeywords are stripped from the query before the regex fallback
// looks for a location.
var weatherKeywords = []string{
	"weather", "temperature", "forecast", "climate", "hot", "cold",
	"rain", "snow", "sunny", "cloudy", "windy", "humidity",
	"conditions", "safe", "travel",
}

// locationPatterns are tried in priority order against the keyword-stripped
// query; the first match wins.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`to\s+([^?]+)`),
	regexp.MustCompile(`at\s+([^?]+)`),
	regexp.MustCompile(`in\s+([^?]+)`),
	regexp.MustCompile(`near\s+([^?]+)`),
	regexp.MustCompile(`around\s+([^?]+)`),
	regexp.MustCompile(`([^?]+)\s+weather`),
	regexp.MustCompile(`([^?]+)\s+temperature`),
	regexp.MustCompile(`([^?]+)\s+conditions`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CityExtractor pulls a place reference out of a weather query, asking the
// LLM first and degrading to regex heuristics when the LLM call fails.
type CityExtractor struct {
	llm domain.LLMClient
}

// NewCityExtractor creates an extractor backed by the given LLM.
func NewCityExtractor(llm domain.LLMClient) *CityExtractor {
	return &CityExtractor{llm: llm}
}

// Extract returns the extracted place name, or "" when the query names no
// location. An LLM failure falls back to pattern matching and never
// surfaces as an error; a model answer of none/no location/unknown is a
// normal empty result, not a fallback trigger.
func (e *CityExtractor) Extract(ctx context.Context, query string) string {
	response, err := e.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "Extract the complete location from this weather query: " + query},
	}, locationExtractorSystemPrompt)
	if err != nil {
		return e.extractWithPatterns(query)
	}

	location := strings.ToLower(strings.TrimSpace(response))
	switch location {
	case "none", "no location", "unknown", "":
		return ""
	}
	return location
}

// extractWithPatterns is the regex fallback: strip weather keywords, try
// prepositional then trailing patterns, then scan for capitalized token
// runs, and finally fall back to the stripped residual.
func (e *CityExtractor) extractWithPatterns(query string) string {
	stripped := strings.ToLower(query)
	for _, keyword := range weatherKeywords {
		stripped = strings.ReplaceAll(stripped, keyword, "")
	}
	stripped = strings.TrimSpace(whitespaceRe.ReplaceAllString(stripped, " "))

	switch stripped {
	case "", "?", "!", ".", ",", ";", ":", `"`, "'":
		return ""
	}

	for _, pattern := range locationPatterns {
		if match := pattern.FindStringSubmatch(stripped); match != nil {
			location := strings.TrimSpace(match[1])
			if len(location) > 2 {
				return location
			}
		}
	}

	if run := longestCapitalizedRun(query); run != "" {
		return run
	}

	return stripped
}

// longestCapitalizedRun scans the original query for sequences of
// capitalized tokens and returns the longest one.
func longestCapitalizedRun(query string) string {
	words := strings.Fields(query)
	var longest string

	for i, word := range words {
		if !startsUpper(word) || len(word) <= 2 || isWeatherKeyword(word) || strings.HasSuffix(word, "?") {
			continue
		}
		run := word
		for j := i + 1; j < len(words); j++ {
			if isWeatherKeyword(words[j]) || strings.HasSuffix(words[j], "?") {
				break
			}
			run += " " + words[j]
		}
		if len(run) > 2 && len(run) > len(longest) {
			longest = run
		}
	}
	return longest
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func isWeatherKeyword(word string) bool {
	lower := strings.ToLower(word)
	for _, keyword := range weatherKeywords {
		if lower == keyword {
			return true
		}
	}
	return false
}
