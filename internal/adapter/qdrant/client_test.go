package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-orchestrator/internal/adapter/qdrant"
	"assistant-orchestrator/internal/domain"
)

func TestSearch_MapsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/docs/points/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["limit"])
		assert.InDelta(t, 0.6, body["score_threshold"].(float64), 0.0001)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": [
			{"id": "abc", "score": 0.91, "payload": {"content": "chunk text", "source": "doc.pdf"}},
			{"id": 7, "score": 0.75, "payload": {"content": "other chunk"}}
		]}`))
	}))
	defer server.Close()

	client := qdrant.NewClient(server.URL, "secret", "docs", server.Client())

	docs, err := client.Search(context.Background(), []float32{0.1, 0.2}, 3, 0.6)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "abc", docs[0].ID)
	assert.InDelta(t, 0.91, float64(docs[0].Score), 0.0001)
	assert.Equal(t, "chunk text", docs[0].Content)
	assert.Equal(t, "doc.pdf", docs[0].Source)

	// Missing source payload falls back to unknown.
	assert.Equal(t, "7", docs[1].ID)
	assert.Equal(t, "unknown", docs[1].Source)
}

func TestUpsert_EnsuresCollectionFirst(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": {}}`))
	}))
	defer server.Close()

	client := qdrant.NewClient(server.URL, "", "docs", server.Client())

	err := client.Upsert(context.Background(), []domain.DocumentPoint{
		{ID: "p1", Embedding: []float32{0.1}, Content: "chunk", Source: "doc.pdf"},
	})

	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "PUT /collections/docs", paths[0])
	assert.Equal(t, "PUT /collections/docs/points", paths[1])
}

func TestUpsert_NoPointsIsNoop(t *testing.T) {
	client := qdrant.NewClient("http://127.0.0.1:1", "", "docs", &http.Client{})

	assert.NoError(t, client.Upsert(context.Background(), nil))
}

func TestCollectionInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": {"points_count": 42, "vectors_count": 42}}`))
	}))
	defer server.Close()

	client := qdrant.NewClient(server.URL, "", "docs", server.Client())

	info, err := client.CollectionInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "docs", info.Name)
	assert.Equal(t, int64(42), info.PointsCount)
}

func TestSearch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": {"error": "bad vector size"}}`))
	}))
	defer server.Close()

	client := qdrant.NewClient(server.URL, "", "docs", server.Client())

	_, err := client.Search(context.Background(), []float32{0.1}, 3, 0.6)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad vector size")
}
