package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"assistant-orchestrator/internal/domain"
)

// --- Mocks ---

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, messages []domain.ChatMessage, systemPrompt string) (string, error) {
	args := m.Called(ctx, messages, systemPrompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Version() string {
	return "mock"
}

type MockVectorEncoder struct {
	mock.Mock
}

func (m *MockVectorEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockVectorEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockVectorEncoder) Version() string {
	return "mock"
}

type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]domain.ScoredDocument, error) {
	args := m.Called(ctx, vector, limit, scoreThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredDocument), args.Error(1)
}

func (m *MockVectorStore) Upsert(ctx context.Context, points []domain.DocumentPoint) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockVectorStore) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectionInfo), args.Error(1)
}

func (m *MockVectorStore) EnsureCollection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockWeatherClient struct {
	mock.Mock
}

func (m *MockWeatherClient) CurrentWeather(ctx context.Context, coords domain.Coordinates) (*domain.WeatherReport, error) {
	args := m.Called(ctx, coords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherReport), args.Error(1)
}

type MockGeocodingClient struct {
	mock.Mock
}

func (m *MockGeocodingClient) Geocode(ctx context.Context, place string) (domain.Coordinates, error) {
	args := m.Called(ctx, place)
	return args.Get(0).(domain.Coordinates), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
