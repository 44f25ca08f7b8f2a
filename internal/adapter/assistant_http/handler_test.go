package assistant_http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assistant-orchestrator/internal/adapter/assistant_http"
	"assistant-orchestrator/internal/domain"
	"assistant-orchestrator/internal/usecase"
	"assistant-orchestrator/internal/worker"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Complete(ctx context.Context, messages []domain.ChatMessage, systemPrompt string) (string, error) {
	args := m.Called(ctx, messages, systemPrompt)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) Version() string { return "mock" }

type mockEncoder struct {
	mock.Mock
}

func (m *mockEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *mockEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *mockEncoder) Version() string { return "mock" }

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]domain.ScoredDocument, error) {
	args := m.Called(ctx, vector, limit, scoreThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredDocument), args.Error(1)
}

func (m *mockStore) Upsert(ctx context.Context, points []domain.DocumentPoint) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *mockStore) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectionInfo), args.Error(1)
}

func (m *mockStore) EnsureCollection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) CurrentWeather(ctx context.Context, coords domain.Coordinates) (*domain.WeatherReport, error) {
	args := m.Called(ctx, coords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherReport), args.Error(1)
}

type noopIngest struct{}

func (noopIngest) IngestFile(ctx context.Context, path string) (*usecase.IngestResult, error) {
	return &usecase.IngestResult{Source: path}, nil
}

func (noopIngest) IngestText(ctx context.Context, text, source string) (*usecase.IngestResult, error) {
	return &usecase.IngestResult{Source: source}, nil
}

func newHandler(llm domain.LLMClient, encoder domain.VectorEncoder, store domain.VectorStore, weather domain.WeatherClient, queueSize int) (*assistant_http.Handler, *worker.IngestWorker) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	weatherUsecase := usecase.NewWeatherUsecase(
		llm,
		usecase.NewCityExtractor(llm),
		usecase.NewGeocoder(nil, 16, time.Minute, log),
		weather,
		log,
	)
	ragUsecase := usecase.NewRAGUsecase(encoder, store, llm, usecase.DefaultRAGProfiles(), log)
	pipeline := usecase.NewPipeline(usecase.NewRouter(llm), weatherUsecase, ragUsecase, log)
	ingestWorker := worker.NewIngestWorker(noopIngest{}, queueSize, log)
	return assistant_http.NewHandler(pipeline, ragUsecase, ingestWorker), ingestWorker
}

func TestHandler_Query_AlwaysAnswersOK(t *testing.T) {
	llm := new(mockLLM)
	// No LLM expectations: an empty query short-circuits before the model.

	handler, _ := newHandler(llm, new(mockEncoder), new(mockStore), new(mockWeather), 4)

	e := echo.New()
	handler.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/query", strings.NewReader(`{"query": ""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp assistant_http.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No query provided", resp.ErrorMessage)
	assert.Equal(t, "❌ Error: No query provided", resp.Response)
	assert.NotEmpty(t, resp.SessionID, "a session id is minted when the client sends none")
}

func TestHandler_Query_WeatherTurn(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "query classifier")
	})).Return("weather", nil)
	llm.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "location extractor")
	})).Return("london", nil)
	llm.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "weather assistant")
	})).Return("Mild and cloudy.", nil)

	weather := new(mockWeather)
	weather.On("CurrentWeather", mock.Anything, mock.Anything).Return(&domain.WeatherReport{
		Temperature: 15.5,
		Description: "partly cloudy",
		Raw:         map[string]any{"name": "London"},
	}, nil)

	handler, _ := newHandler(llm, new(mockEncoder), new(mockStore), weather, 4)

	e := echo.New()
	handler.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/query",
		strings.NewReader(`{"query": "weather in London", "session_id": "s1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp assistant_http.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.QueryTypeWeather, resp.QueryType)
	assert.Equal(t, "Mild and cloudy.", resp.Response)
	assert.Equal(t, "s1", resp.SessionID)
	require.NotNil(t, resp.WeatherData)
	assert.Equal(t, "London", resp.WeatherData.City)
}

func TestHandler_Stats(t *testing.T) {
	store := new(mockStore)
	store.On("CollectionInfo", mock.Anything).Return(&domain.CollectionInfo{
		Name:        "docs",
		PointsCount: 12,
	}, nil)

	handler, _ := newHandler(new(mockLLM), new(mockEncoder), store, new(mockWeather), 4)

	e := echo.New()
	handler.Register(e)

	req := httptest.NewRequest(http.MethodGet, "/v1/assistant/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var info domain.CollectionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "docs", info.Name)
	assert.Equal(t, int64(12), info.PointsCount)
}

func TestHandler_IngestDocument_Validation(t *testing.T) {
	handler, _ := newHandler(new(mockLLM), new(mockEncoder), new(mockStore), new(mockWeather), 4)

	e := echo.New()
	handler.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/internal/documents", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_IngestDocument_AcceptsAndOverflows(t *testing.T) {
	// Queue of one, worker never started: the second enqueue must overflow.
	handler, _ := newHandler(new(mockLLM), new(mockEncoder), new(mockStore), new(mockWeather), 1)

	e := echo.New()
	handler.Register(e)

	body := `{"text": "some document text", "source": "notes.txt"}`

	req := httptest.NewRequest(http.MethodPost, "/internal/documents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var accepted map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.NotEmpty(t, accepted["job_id"])

	req = httptest.NewRequest(http.MethodPost, "/internal/documents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_Health(t *testing.T) {
	handler, _ := newHandler(new(mockLLM), new(mockEncoder), new(mockStore), new(mockWeather), 4)

	e := echo.New()
	handler.Register(e)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
