package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"assistant-orchestrator/internal/domain"
)

// IngestResult reports what one ingestion produced.
type IngestResult struct {
	Source     string  `json:"source"`
	ChunkCount int     `json:"chunk_count"`
	Elapsed    float64 `json:"elapsed_seconds"`
}

// IngestDocumentUsecase turns a document into embedded chunks in the store.
type IngestDocumentUsecase interface {
	IngestFile(ctx context.Context, path string) (*IngestResult, error)
	IngestText(ctx context.Context, text, source string) (*IngestResult, error)
}

type ingestDocumentUsecase struct {
	extractor domain.TextExtractor
	chunker   domain.Chunker
	encoder   domain.VectorEncoder
	store     domain.VectorStore
	logger    *slog.Logger
}

// NewIngestDocumentUsecase wires the ingestion path: extract, chunk, embed,
// upsert.
func NewIngestDocumentUsecase(
	extractor domain.TextExtractor,
	chunker domain.Chunker,
	encoder domain.VectorEncoder,
	store domain.VectorStore,
	logger *slog.Logger,
) IngestDocumentUsecase {
	return &ingestDocumentUsecase{
		extractor: extractor,
		chunker:   chunker,
		encoder:   encoder,
		store:     store,
		logger:    logger,
	}
}

func (u *ingestDocumentUsecase) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	text, err := u.extractor.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return u.IngestText(ctx, text, filepath.Base(path))
}

func (u *ingestDocumentUsecase) IngestText(ctx context.Context, text, source string) (*IngestResult, error) {
	start := time.Now()

	chunks := u.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s produced no chunks", source)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := u.encoder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(vectors))
	}

	points := make([]domain.DocumentPoint, len(chunks))
	for i, chunk := range chunks {
		points[i] = domain.DocumentPoint{
			ID:         uuid.NewString(),
			Embedding:  vectors[i],
			Content:    chunk.Content,
			Source:     source,
			ChunkIndex: chunk.Index,
			Metadata: map[string]any{
				"chunk_index": chunk.Index,
			},
		}
	}

	if err := u.store.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("failed to upsert chunks: %w", err)
	}

	result := &IngestResult{
		Source:     source,
		ChunkCount: len(chunks),
		Elapsed:    time.Since(start).Seconds(),
	}

	u.logger.Info("document ingested",
		slog.String("source", source),
		slog.Int("chunk_count", result.ChunkCount),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
