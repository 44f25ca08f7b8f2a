package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"assistant-orchestrator/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentStore implements domain.VectorStore on PostgreSQL with pgvector.
// Cosine similarity is computed in SQL; score = 1 - cosine distance.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore creates a pgvector-backed store.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// EnsureCollection creates the documents table and its index when missing.
func (s *DocumentStore) EnsureCollection(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS assistant_documents (
			id          UUID PRIMARY KEY,
			content     TEXT NOT NULL,
			source      TEXT NOT NULL DEFAULT 'unknown',
			chunk_index INT NOT NULL DEFAULT 0,
			metadata    JSONB,
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS assistant_documents_embedding_idx
			ON assistant_documents USING hnsw (embedding vector_cosine_ops);
	`, domain.EmbeddingDimension)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure documents table: %w", err)
	}
	return nil
}

// Search returns the closest chunks above the score threshold, best first.
func (s *DocumentStore) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]domain.ScoredDocument, error) {
	query := `
		SELECT id, content, source, metadata, 1 - (embedding <=> $1) AS score
		FROM assistant_documents
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), scoreThreshold, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.ScoredDocument
	for rows.Next() {
		var (
			doc      domain.ScoredDocument
			id       uuid.UUID
			metadata []byte
		)
		if err := rows.Scan(&id, &doc.Content, &doc.Source, &metadata, &doc.Score); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.ID = id.String()
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &doc.Metadata)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return docs, nil
}

// Upsert bulk-inserts embedded chunks via COPY.
func (s *DocumentStore) Upsert(ctx context.Context, points []domain.DocumentPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := s.EnsureCollection(ctx); err != nil {
		return err
	}

	now := time.Now()
	rows := make([][]interface{}, len(points))
	for i, p := range points {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			id = uuid.New()
		}
		var metadata []byte
		if p.Metadata != nil {
			metadata, _ = json.Marshal(p.Metadata)
		}
		rows[i] = []interface{}{
			id,
			p.Content,
			p.Source,
			p.ChunkIndex,
			metadata,
			pgvector.NewVector(p.Embedding),
			now,
		}
	}

	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{"assistant_documents"},
		[]string{"id", "content", "source", "chunk_index", "metadata", "embedding", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert documents: %w", err)
	}
	return nil
}

// CollectionInfo counts stored chunks. Points and vectors are 1:1 here.
func (s *DocumentStore) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM assistant_documents`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	return &domain.CollectionInfo{
		Name:         "assistant_documents",
		PointsCount:  count,
		VectorsCount: count,
	}, nil
}

var _ domain.VectorStore = (*DocumentStore)(nil)
