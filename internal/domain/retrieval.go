package domain

import (
	"context"
	"errors"
)

// ErrNoGeocodingMatch reports an empty geocoding result set.
var ErrNoGeocodingMatch = errors.New("no geocoding match")

// EmbeddingDimension is fixed by the embedding model feeding the store.
const EmbeddingDimension = 768

// RAGResult is the structured outcome of retrieval resolution.
// RelevantChunks preserves rank order; Sources is deduplicated.
type RAGResult struct {
	Query          string   `json:"query"`
	RelevantChunks []string `json:"relevant_chunks"`
	Summary        string   `json:"summary"`
	Sources        []string `json:"sources"`
	AverageScore   float32  `json:"average_score"`
}

// ScoredDocument is one ranked hit from the vector store.
type ScoredDocument struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Content  string         `json:"content"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DocumentPoint is one embedded chunk to be upserted into the store.
type DocumentPoint struct {
	ID         string
	Embedding  []float32
	Content    string
	Source     string
	ChunkIndex int
	Metadata   map[string]any
}

// CollectionInfo describes the backing collection for diagnostics.
type CollectionInfo struct {
	Name         string `json:"name"`
	PointsCount  int64  `json:"points_count"`
	VectorsCount int64  `json:"vectors_count"`
}

// VectorStore is the similarity-search backend. Ranking is delegated to the
// store; callers only pass limit and score threshold.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]ScoredDocument, error)
	Upsert(ctx context.Context, points []DocumentPoint) error
	CollectionInfo(ctx context.Context) (*CollectionInfo, error)
	EnsureCollection(ctx context.Context) error
}

// VectorEncoder turns text into embedding vectors.
type VectorEncoder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
