package domain

import "time"

// MessageRole identifies who produced a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// QueryType is the router's verdict for a single turn.
type QueryType string

const (
	QueryTypeWeather  QueryType = "weather"
	QueryTypeDocument QueryType = "document"
	QueryTypeUnknown  QueryType = "unknown"
)

// Message is a single entry in the conversation log. Timestamp is RFC3339
// when set by AddMessage; messages built directly (fixtures) leave it empty.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// ConversationState is the unit of work threaded through every pipeline
// stage. One turn owns one state; stages mutate it strictly in sequence.
type ConversationState struct {
	Messages       []Message      `json:"messages"`
	CurrentQuery   string         `json:"current_query"`
	QueryType      QueryType      `json:"query_type"`
	WeatherData    *WeatherData   `json:"weather_data,omitempty"`
	RAGResult      *RAGResult     `json:"rag_result,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	ProcessingTime float64        `json:"processing_time,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
}

// NewConversationState builds the initial state for a turn with the query
// recorded as a user message.
func NewConversationState(query, sessionID, userID string) *ConversationState {
	s := &ConversationState{
		CurrentQuery: query,
		QueryType:    QueryTypeUnknown,
		SessionID:    sessionID,
		UserID:       userID,
	}
	if query != "" {
		s.AddMessage(RoleUser, query)
	}
	return s
}

// AddMessage appends a message stamped with the current wall clock.
// Earlier messages are never reordered or rewritten.
func (s *ConversationState) AddMessage(role MessageRole, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// LastUserMessage scans the log in reverse and returns the most recent user
// message content, or "" if none exists.
func (s *ConversationState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// LastAssistantMessage returns the most recent assistant message content,
// or "" if the assistant has not spoken yet.
func (s *ConversationState) LastAssistantMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}

// ResolveQuery returns the text to process this turn: the current query if
// non-empty, otherwise the most recent user message.
func (s *ConversationState) ResolveQuery() string {
	if s.CurrentQuery != "" {
		return s.CurrentQuery
	}
	return s.LastUserMessage()
}

// ConversationSummary holds per-turn counters surfaced for diagnostics.
type ConversationSummary struct {
	TotalMessages     int       `json:"total_messages"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	QueryType         QueryType `json:"query_type"`
	HasWeatherData    bool      `json:"has_weather_data"`
	HasRAGResult      bool      `json:"has_rag_result"`
	HasError          bool      `json:"has_error"`
}

// Summary counts the messages by role and reports which results are present.
func (s *ConversationState) Summary() ConversationSummary {
	out := ConversationSummary{
		TotalMessages:  len(s.Messages),
		QueryType:      s.QueryType,
		HasWeatherData: s.WeatherData != nil,
		HasRAGResult:   s.RAGResult != nil,
		HasError:       s.ErrorMessage != "",
	}
	for _, m := range s.Messages {
		switch m.Role {
		case RoleUser:
			out.UserMessages++
		case RoleAssistant:
			out.AssistantMessages++
		}
	}
	return out
}
