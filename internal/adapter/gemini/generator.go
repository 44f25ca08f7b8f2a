package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"assistant-orchestrator/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generator sends chat payloads to the Gemini generateContent endpoint.
type Generator struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
}

// NewGenerator constructs a generator for the given model. httpClient may be
// a pooled client shared with the other adapters.
func NewGenerator(apiKey, model string, temperature float64, maxTokens int, httpClient *http.Client) *Generator {
	return &Generator{
		BaseURL:     defaultBaseURL,
		Model:       model,
		APIKey:      apiKey,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Client:      httpClient,
	}
}

// Complete sends the conversation to Gemini and returns the model text.
// Every failure is wrapped in *domain.LLMError.
func (g *Generator) Complete(ctx context.Context, messages []domain.ChatMessage, systemPrompt string) (string, error) {
	reqBody := generateRequest{
		GenerationConfig: &generationConfig{
			Temperature:     g.Temperature,
			MaxOutputTokens: g.MaxTokens,
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	for _, m := range messages {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		reqBody.Contents = append(reqBody.Contents, content{
			Role:  role,
			Parts: []part{{Text: m.Content}},
		})
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.NewLLMError(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", domain.NewLLMError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", domain.NewLLMError(fmt.Errorf("failed to call generation endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", domain.NewLLMError(fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", domain.NewLLMError(fmt.Errorf("failed to decode generation response: %w", err))
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.NewLLMError(fmt.Errorf("generation response contained no candidates"))
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Version returns the wrapped model name.
func (g *Generator) Version() string {
	return g.Model
}

var _ domain.LLMClient = (*Generator)(nil)
