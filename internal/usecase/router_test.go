package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"assistant-orchestrator/internal/domain"
	"assistant-orchestrator/internal/usecase"
)

func TestRouter_Classify_Weather(t *testing.T) {
	mockLLM := new(MockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("weather", nil)

	router := usecase.NewRouter(mockLLM)
	state := domain.NewConversationState("What's the weather in Tokyo?", "s1", "u1")

	router.Classify(context.Background(), state)

	assert.Equal(t, domain.QueryTypeWeather, state.QueryType)
	assert.Empty(t, state.ErrorMessage)
	assert.GreaterOrEqual(t, state.ProcessingTime, 0.0)

	// The verdict is recorded as a system message.
	last := state.Messages[len(state.Messages)-1]
	assert.Equal(t, domain.RoleSystem, last.Role)
	assert.Equal(t, "Query classified as: weather", last.Content)
}

func TestRouter_Classify_Document(t *testing.T) {
	mockLLM := new(MockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("rag", nil)

	router := usecase.NewRouter(mockLLM)
	state := domain.NewConversationState("Summarize the uploaded report", "s1", "u1")

	router.Classify(context.Background(), state)

	assert.Equal(t, domain.QueryTypeDocument, state.QueryType)
	assert.Empty(t, state.ErrorMessage)
}

func TestRouter_Classify_WeatherWinsTieBreak(t *testing.T) {
	mockLLM := new(MockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("weather or rag", nil)

	router := usecase.NewRouter(mockLLM)
	state := domain.NewConversationState("weather in the report?", "s1", "u1")

	router.Classify(context.Background(), state)

	assert.Equal(t, domain.QueryTypeWeather, state.QueryType)
}

func TestRouter_Classify_UnexpectedAnswerDefaultsToDocument(t *testing.T) {
	mockLLM := new(MockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("I am not sure what this is", nil)

	router := usecase.NewRouter(mockLLM)
	state := domain.NewConversationState("xyz123", "s1", "u1")

	router.Classify(context.Background(), state)

	// Anything that does not mention weather routes to the document path.
	assert.Equal(t, domain.QueryTypeDocument, state.QueryType)
	assert.Empty(t, state.ErrorMessage)
}

func TestRouter_Classify_EmptyQuery(t *testing.T) {
	mockLLM := new(MockLLMClient)

	router := usecase.NewRouter(mockLLM)
	state := domain.NewConversationState("", "s1", "u1")

	router.Classify(context.Background(), state)

	assert.Equal(t, domain.QueryTypeUnknown, state.QueryType)
	assert.Equal(t, "No query provided", state.ErrorMessage)
	mockLLM.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_Classify_FallsBackToLastUserMessage(t *testing.T) {
	mockLLM := new(MockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("weather", nil)

	router := usecase.NewRouter(mockLLM)
	state := &domain.ConversationState{QueryType: domain.QueryTypeUnknown}
	state.AddMessage(domain.RoleUser, "weather in Delhi")

	router.Classify(context.Background(), state)

	assert.Equal(t, domain.QueryTypeWeather, state.QueryType)
	assert.Empty(t, state.ErrorMessage)
}

func TestRouter_Classify_LLMFailure(t *testing.T) {
	mockLLM := new(MockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", domain.NewLLMError(errors.New("connection refused")))

	router := usecase.NewRouter(mockLLM)
	state := domain.NewConversationState("What's the weather?", "s1", "u1")

	router.Classify(context.Background(), state)

	assert.Equal(t, domain.QueryTypeUnknown, state.QueryType)
	assert.Contains(t, state.ErrorMessage, "Error in router node:")
	assert.GreaterOrEqual(t, state.ProcessingTime, 0.0)
}
