package domain

import (
	"context"
	"fmt"
)

// ChatMessage is one entry of an LLM conversation payload.
type ChatMessage struct {
	Role    MessageRole
	Content string
}

// LLMClient defines the capability to send prompts to an LLM and receive
// textual responses. Implementations wrap every failure in *LLMError.
type LLMClient interface {
	Complete(ctx context.Context, messages []ChatMessage, systemPrompt string) (string, error)
	Version() string
}

// LLMError signals that the language model call itself failed, as opposed
// to the model returning an unhelpful answer.
type LLMError struct {
	Cause error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm request failed: %v", e.Cause)
}

func (e *LLMError) Unwrap() error {
	return e.Cause
}

// NewLLMError wraps cause so callers can branch on errors.As.
func NewLLMError(cause error) *LLMError {
	return &LLMError{Cause: cause}
}
