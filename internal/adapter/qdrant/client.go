package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"assistant-orchestrator/internal/domain"
)

// Client is a minimal REST client to Qdrant. It assumes cosine distance and
// creates the collection on demand.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

// NewClient constructs a client for the given collection.
func NewClient(baseURL, apiKey, collection string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		httpClient: httpClient,
	}
}

// EnsureCollection creates the collection if it does not exist yet.
// Qdrant answers 200 when the collection already exists with the same schema.
func (c *Client) EnsureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     domain.EmbeddingDimension,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	return c.do(ctx, http.MethodPut, url, body, nil)
}

// Search runs a similarity query and maps hits to scored documents.
func (c *Client) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]domain.ScoredDocument, error) {
	reqBody := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": scoreThreshold,
		"with_payload":    true,
	}

	var resp struct {
		Result []struct {
			ID      json.RawMessage `json:"id"`
			Score   float32         `json:"score"`
			Payload map[string]any  `json:"payload"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPost, url, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to search collection: %w", err)
	}

	docs := make([]domain.ScoredDocument, 0, len(resp.Result))
	for _, hit := range resp.Result {
		doc := domain.ScoredDocument{
			ID:     string(bytes.Trim(hit.ID, `"`)),
			Score:  hit.Score,
			Source: "unknown",
		}
		if v, ok := hit.Payload["content"].(string); ok {
			doc.Content = v
		}
		if v, ok := hit.Payload["source"].(string); ok && v != "" {
			doc.Source = v
		}
		if v, ok := hit.Payload["metadata"].(map[string]any); ok {
			doc.Metadata = v
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Upsert writes embedded chunks as points, creating the collection first.
func (c *Client) Upsert(ctx context.Context, points []domain.DocumentPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := c.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	payload := make([]map[string]any, 0, len(points))
	for _, p := range points {
		payload = append(payload, map[string]any{
			"id":     p.ID,
			"vector": p.Embedding,
			"payload": map[string]any{
				"content":     p.Content,
				"source":      p.Source,
				"chunk_index": p.ChunkIndex,
				"metadata":    p.Metadata,
			},
		})
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPut, url, map[string]any{"points": payload}, nil); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// CollectionInfo reports point counters for the stats endpoint.
func (c *Client) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	var resp struct {
		Result struct {
			PointsCount  int64 `json:"points_count"`
			VectorsCount int64 `json:"vectors_count"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}

	return &domain.CollectionInfo{
		Name:         c.collection,
		PointsCount:  resp.Result.PointsCount,
		VectorsCount: resp.Result.VectorsCount,
	}, nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s returned %d: %s", method, url, resp.StatusCode, string(payload))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

var _ domain.VectorStore = (*Client)(nil)
