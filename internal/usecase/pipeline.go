package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"assistant-orchestrator/internal/domain"
)

// fallbackInvitation is appended when a turn produced neither an answer nor
// an error, so the caller always receives an assistant message.
const fallbackInvitation = "I can help you with current weather or questions about your documents. Ask me something like \"What's the weather in Tokyo?\" or a question about an ingested document."

type stage string

const (
	stageWeather   stage = "weather"
	stageRetrieval stage = "retrieval"
	stageSynthesis stage = "synthesis"
)

// Pipeline is the turn orchestrator: router, one of the two resolvers, then
// response synthesis. The graph is a fixed dispatch table, evaluated once
// after the router returns.
type Pipeline struct {
	router  *Router
	weather *WeatherUsecase
	rag     *RAGUsecase
	logger  *slog.Logger
}

// NewPipeline wires the stages together.
func NewPipeline(router *Router, weather *WeatherUsecase, rag *RAGUsecase, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		router:  router,
		weather: weather,
		rag:     rag,
		logger:  logger,
	}
}

// ProcessQuery runs one full turn. It never returns an error: every failure
// is encoded in the returned state, and a panic anywhere in the graph is
// converted into a fresh, well-formed error state that preserves the
// query and identifiers.
func (p *Pipeline) ProcessQuery(ctx context.Context, query, sessionID, userID string) (result *domain.ConversationState) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline execution panicked", slog.Any("panic", r))

			fresh := domain.NewConversationState(query, sessionID, userID)
			fresh.ErrorMessage = fmt.Sprintf("Error processing query: %v", r)
			fresh.AddMessage(domain.RoleAssistant, "❌ Error: "+fresh.ErrorMessage)
			result = fresh
		}
	}()

	state := domain.NewConversationState(query, sessionID, userID)

	p.router.Classify(ctx, state)

	switch p.nextStage(state) {
	case stageWeather:
		p.weather.Resolve(ctx, state)
	case stageRetrieval:
		p.rag.Resolve(ctx, state)
	}

	p.synthesize(state)
	return state
}

// nextStage is the three-way decision evaluated after the router: an error
// short-circuits to synthesis, otherwise the query type picks the resolver.
func (p *Pipeline) nextStage(state *domain.ConversationState) stage {
	if state.ErrorMessage != "" {
		return stageSynthesis
	}
	switch state.QueryType {
	case domain.QueryTypeWeather:
		return stageWeather
	case domain.QueryTypeDocument:
		return stageRetrieval
	default:
		return stageSynthesis
	}
}

// synthesize guarantees the turn ends with an assistant message. It never
// fails the turn: an internal panic degrades to a synthesis-failure banner.
func (p *Pipeline) synthesize(state *domain.ConversationState) {
	defer func() {
		if r := recover(); r != nil {
			state.AddMessage(domain.RoleAssistant, fmt.Sprintf("❌ Error: response synthesis failed: %v", r))
		}
	}()

	if state.ErrorMessage != "" {
		// A resolver may already have produced the final assistant reply;
		// do not double-append.
		n := len(state.Messages)
		if n == 0 || state.Messages[n-1].Role != domain.RoleAssistant {
			state.AddMessage(domain.RoleAssistant, "❌ Error: "+state.ErrorMessage)
		}
		return
	}

	if state.LastAssistantMessage() == "" {
		state.AddMessage(domain.RoleAssistant, fallbackInvitation)
	}
}
