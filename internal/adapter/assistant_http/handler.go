package assistant_http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"assistant-orchestrator/internal/domain"
	"assistant-orchestrator/internal/usecase"
	"assistant-orchestrator/internal/worker"
)

// QueryRequest is the payload for POST /v1/assistant/query.
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// QueryResponse surfaces the finished conversation state to API clients.
type QueryResponse struct {
	Response       string              `json:"response"`
	QueryType      domain.QueryType    `json:"query_type"`
	WeatherData    *domain.WeatherData `json:"weather_data,omitempty"`
	RAGResult      *domain.RAGResult   `json:"rag_result,omitempty"`
	ErrorMessage   string              `json:"error_message,omitempty"`
	ProcessingTime float64             `json:"processing_time"`
	SessionID      string              `json:"session_id,omitempty"`
}

// IngestRequest is the payload for POST /internal/documents. Either Path
// (a server-local file) or Text+Source is provided.
type IngestRequest struct {
	Path   string `json:"path,omitempty"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
}

type Handler struct {
	pipeline *usecase.Pipeline
	rag      *usecase.RAGUsecase
	worker   *worker.IngestWorker
}

func NewHandler(pipeline *usecase.Pipeline, rag *usecase.RAGUsecase, ingestWorker *worker.IngestWorker) *Handler {
	return &Handler{
		pipeline: pipeline,
		rag:      rag,
		worker:   ingestWorker,
	}
}

// Register wires the routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/v1/assistant/query", h.Query)
	e.GET("/v1/assistant/stats", h.Stats)
	e.POST("/internal/documents", h.IngestDocument)
}

func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Query runs one pipeline turn. The pipeline never fails; every outcome is
// encoded in the returned state, so this endpoint always answers 200.
func (h *Handler) Query(ctx echo.Context) error {
	var req QueryRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state := h.pipeline.ProcessQuery(ctx.Request().Context(), req.Query, sessionID, req.UserID)

	return ctx.JSON(http.StatusOK, QueryResponse{
		Response:       usecase.ResponseText(state),
		QueryType:      state.QueryType,
		WeatherData:    state.WeatherData,
		RAGResult:      state.RAGResult,
		ErrorMessage:   state.ErrorMessage,
		ProcessingTime: state.ProcessingTime,
		SessionID:      state.SessionID,
	})
}

func (h *Handler) Stats(ctx echo.Context) error {
	info, err := h.rag.CollectionStats(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, info)
}

// IngestDocument enqueues an ingestion job and answers 202.
func (h *Handler) IngestDocument(ctx echo.Context) error {
	var req IngestRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Path == "" && req.Text == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "path or text is required"})
	}

	job := worker.IngestJob{
		ID:     uuid.New(),
		Path:   req.Path,
		Text:   req.Text,
		Source: req.Source,
	}
	if job.Source == "" {
		job.Source = "inline"
	}

	if err := h.worker.Enqueue(job); err != nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}
