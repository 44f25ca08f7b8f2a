package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-orchestrator/internal/domain"
)

func TestGenerator_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "You are concise.", req.SystemInstruction.Parts[0].Text)

		// Assistant turns map to the model role.
		require.Len(t, req.Contents, 2)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "model", req.Contents[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "  answer text "}]}}]}`))
	}))
	defer server.Close()

	gen := NewGenerator("test-key", "gemini-2.0-flash", 0.5, 1000, server.Client())
	gen.BaseURL = server.URL

	out, err := gen.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "question"},
		{Role: domain.RoleAssistant, Content: "earlier answer"},
	}, "You are concise.")

	require.NoError(t, err)
	assert.Equal(t, "answer text", out)
}

func TestGenerator_Complete_HTTPErrorWrapsLLMError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	gen := NewGenerator("test-key", "gemini-2.0-flash", 0.5, 1000, server.Client())
	gen.BaseURL = server.URL

	_, err := gen.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "question"},
	}, "")

	var llmErr *domain.LLMError
	require.True(t, errors.As(err, &llmErr))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerator_Complete_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	gen := NewGenerator("test-key", "gemini-2.0-flash", 0.5, 1000, server.Client())
	gen.BaseURL = server.URL

	_, err := gen.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "question"},
	}, "")

	var llmErr *domain.LLMError
	require.True(t, errors.As(err, &llmErr))
}

func TestEmbedder_EmbedBatch_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/embedding-001:batchEmbedContents", r.URL.Path)

		var req batchEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [0.1, 0.2]}, {"values": [0.3, 0.4]}]}`))
	}))
	defer server.Close()

	emb := NewEmbedder("test-key", "embedding-001", server.Client())
	emb.BaseURL = server.URL

	vectors, err := emb.EmbedBatch(context.Background(), []string{"one", "two"})

	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.1, float64(vectors[0][0]), 0.0001)
	assert.InDelta(t, 0.3, float64(vectors[1][0]), 0.0001)
}

func TestEmbedder_EmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [0.1]}]}`))
	}))
	defer server.Close()

	emb := NewEmbedder("test-key", "embedding-001", server.Client())
	emb.BaseURL = server.URL

	_, err := emb.EmbedBatch(context.Background(), []string{"one", "two"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}
