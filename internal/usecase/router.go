package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"assistant-orchestrator/internal/domain"
)

const classifierSystemPrompt = `You are a query classifier. Determine if the user's question is about:
1. Weather (current weather, temperature, weather forecast, etc.) - respond with "weather"
2. Document content (questions about uploaded PDFs, documents, etc.) - respond with "rag"

Only respond with "weather" or "rag".`

// Router is the pipeline entry stage. It classifies the turn's query and
// stamps the verdict on the state.
type Router struct {
	llm domain.LLMClient
}

// NewRouter creates the classification stage.
func NewRouter(llm domain.LLMClient) *Router {
	return &Router{llm: llm}
}

// Classify resolves the turn's query and asks the LLM whether it is a
// weather or a document question. Anything the model answers that does not
// contain "weather" routes to the document path; unknown is reserved for
// the no-query and LLM-failure cases.
func (r *Router) Classify(ctx context.Context, state *domain.ConversationState) {
	start := time.Now()

	query := state.ResolveQuery()
	if query == "" {
		state.ErrorMessage = "No query provided"
		state.QueryType = domain.QueryTypeUnknown
		return
	}

	classification, err := r.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "Classify this query: " + query},
	}, classifierSystemPrompt)
	if err != nil {
		state.ErrorMessage = fmt.Sprintf("Error in router node: %v", err)
		state.QueryType = domain.QueryTypeUnknown
		state.ProcessingTime = time.Since(start).Seconds()
		return
	}

	if strings.Contains(strings.ToLower(classification), "weather") {
		state.QueryType = domain.QueryTypeWeather
	} else {
		state.QueryType = domain.QueryTypeDocument
	}

	state.AddMessage(domain.RoleSystem, "Query classified as: "+string(state.QueryType))
	state.ProcessingTime = time.Since(start).Seconds()
}
