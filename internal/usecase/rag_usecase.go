package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"assistant-orchestrator/internal/domain"
)

const ragSummarySystemPrompt = `You are a helpful assistant that answers questions based on provided document information.
Use only the information provided in the relevant chunks to answer the question.
If the information is not sufficient, say so clearly. Be accurate and helpful.`

// RAGProfiles carries the two retrieval profiles: context assembly feeds the
// answer pipeline, generic retrieval backs the standalone document search.
type RAGProfiles struct {
	ContextLimit      int
	ContextThreshold  float32
	RetrieveLimit     int
	RetrieveThreshold float32
}

// DefaultRAGProfiles returns the stock limits and thresholds.
func DefaultRAGProfiles() RAGProfiles {
	return RAGProfiles{
		ContextLimit:      3,
		ContextThreshold:  0.6,
		RetrieveLimit:     5,
		RetrieveThreshold: 0.7,
	}
}

// ragContext is the assembled retrieval context for one query.
type ragContext struct {
	chunks       []string
	sources      []string
	averageScore float32
}

// RAGUsecase resolves a document query: embed, search, assemble context and
// summarize over it.
type RAGUsecase struct {
	encoder  domain.VectorEncoder
	store    domain.VectorStore
	llm      domain.LLMClient
	profiles RAGProfiles
	logger   *slog.Logger
}

// NewRAGUsecase wires the retrieval resolution stage.
func NewRAGUsecase(
	encoder domain.VectorEncoder,
	store domain.VectorStore,
	llm domain.LLMClient,
	profiles RAGProfiles,
	logger *slog.Logger,
) *RAGUsecase {
	return &RAGUsecase{
		encoder:  encoder,
		store:    store,
		llm:      llm,
		profiles: profiles,
		logger:   logger,
	}
}

// RetrieveDocuments runs the generic retrieval profile (wider limit, higher
// threshold) and returns the raw ranked hits.
func (u *RAGUsecase) RetrieveDocuments(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	vector, err := u.encoder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	docs, err := u.store.Search(ctx, vector, u.profiles.RetrieveLimit, u.profiles.RetrieveThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	return docs, nil
}

// Resolve runs the stage. The stage contract is all-or-nothing: RAGResult is
// only populated once the summary succeeded, and any failure surfaces as
// state.ErrorMessage with no partial result left behind.
func (u *RAGUsecase) Resolve(ctx context.Context, state *domain.ConversationState) {
	defer func() {
		if r := recover(); r != nil {
			state.RAGResult = nil
			state.ErrorMessage = fmt.Sprintf("Error in RAG node: %v", r)
		}
	}()

	start := time.Now()

	query := state.ResolveQuery()
	if query == "" {
		state.ErrorMessage = "No query provided for RAG processing"
		return
	}

	assembled, err := u.buildContext(ctx, query)
	if err != nil {
		state.ErrorMessage = fmt.Sprintf("Error in RAG node: %v", err)
		return
	}
	if len(assembled.chunks) == 0 {
		state.ErrorMessage = "No relevant documents found for your query"
		return
	}

	summary, err := u.summarize(ctx, query, assembled.chunks, assembled.sources)
	if err != nil {
		state.ErrorMessage = fmt.Sprintf("Error in RAG node: %v", err)
		return
	}

	state.RAGResult = &domain.RAGResult{
		Query:          query,
		RelevantChunks: assembled.chunks,
		Summary:        summary,
		Sources:        assembled.sources,
		AverageScore:   assembled.averageScore,
	}
	state.AddMessage(domain.RoleAssistant, summary)
	state.ProcessingTime = time.Since(start).Seconds()

	u.logger.Info("document query resolved",
		slog.Int("chunk_count", len(assembled.chunks)),
		slog.Int("source_count", len(assembled.sources)),
	)
}

// buildContext runs the context-assembly profile: embed, search, keep chunks
// in rank order, deduplicate sources and average the scores.
func (u *RAGUsecase) buildContext(ctx context.Context, query string) (*ragContext, error) {
	vector, err := u.encoder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := u.store.Search(ctx, vector, u.profiles.ContextLimit, u.profiles.ContextThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	if len(docs) == 0 {
		return &ragContext{}, nil
	}

	assembled := &ragContext{
		chunks: make([]string, 0, len(docs)),
	}
	seen := make(map[string]bool, len(docs))
	var total float32
	for _, doc := range docs {
		assembled.chunks = append(assembled.chunks, doc.Content)
		total += doc.Score

		source := doc.Source
		if source == "" {
			source = "unknown"
		}
		if !seen[source] {
			seen[source] = true
			assembled.sources = append(assembled.sources, source)
		}
	}
	assembled.averageScore = total / float32(len(docs))

	return assembled, nil
}

func (u *RAGUsecase) summarize(ctx context.Context, query string, chunks, sources []string) (string, error) {
	content := fmt.Sprintf(
		"Question: %s\n\nRelevant Information:\n%s\n\nSources: %s\n\nPlease answer the question based on the provided information.",
		query,
		strings.Join(chunks, "\n\n"),
		strings.Join(sources, ", "),
	)

	return u.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: content},
	}, ragSummarySystemPrompt)
}

// CollectionStats reports the backing collection counters.
func (u *RAGUsecase) CollectionStats(ctx context.Context) (*domain.CollectionInfo, error) {
	info, err := u.store.CollectionInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}
	return info, nil
}
