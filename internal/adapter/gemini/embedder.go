package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"assistant-orchestrator/internal/domain"
)

type embedContentRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedContentResponse struct {
	Embedding embeddingValues `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}

// Embedder calls the Gemini embedContent endpoints. Vectors are 768-wide,
// matching the collaborating vector store.
type Embedder struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

// NewEmbedder constructs an embedder for the given embedding model.
func NewEmbedder(apiKey, model string, httpClient *http.Client) *Embedder {
	return &Embedder{
		BaseURL: defaultBaseURL,
		Model:   model,
		APIKey:  apiKey,
		Client:  httpClient,
	}
}

// Embed encodes a single text into one vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedContentRequest{
		Model:   "models/" + e.Model,
		Content: content{Parts: []part{{Text: text}}},
	}
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", e.BaseURL, e.Model, e.APIKey)

	var respBody embedContentResponse
	if err := e.post(ctx, url, reqBody, &respBody); err != nil {
		return nil, err
	}
	if len(respBody.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return respBody.Embedding.Values, nil
}

// EmbedBatch encodes texts in one request, preserving input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	slog.Info("gemini_embed_batch_started",
		slog.Int("text_count", len(texts)),
		slog.String("model", e.Model),
	)
	start := time.Now()

	reqBody := batchEmbedRequest{Requests: make([]embedContentRequest, 0, len(texts))}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, embedContentRequest{
			Model:   "models/" + e.Model,
			Content: content{Parts: []part{{Text: text}}},
		})
	}
	url := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s", e.BaseURL, e.Model, e.APIKey)

	var respBody batchEmbedResponse
	if err := e.post(ctx, url, reqBody, &respBody); err != nil {
		slog.Error("gemini_embed_batch_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}
	if len(respBody.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(respBody.Embeddings))
	}

	vectors := make([][]float32, len(respBody.Embeddings))
	for i, emb := range respBody.Embeddings {
		vectors[i] = emb.Values
	}

	slog.Info("gemini_embed_batch_completed",
		slog.Int("embedding_count", len(vectors)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return vectors, nil
}

func (e *Embedder) post(ctx context.Context, url string, body any, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call embedding endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embedding endpoint returned %d: %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode embedding response: %w", err)
	}
	return nil
}

// Version returns the wrapped model name.
func (e *Embedder) Version() string {
	return e.Model
}

var _ domain.VectorEncoder = (*Embedder)(nil)
