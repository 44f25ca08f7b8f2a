package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"assistant-orchestrator/internal/adapter/gemini"
	"assistant-orchestrator/internal/adapter/geoapify"
	"assistant-orchestrator/internal/adapter/openweather"
	"assistant-orchestrator/internal/adapter/pdftext"
	"assistant-orchestrator/internal/adapter/qdrant"
	"assistant-orchestrator/internal/adapter/repository"
	"assistant-orchestrator/internal/domain"
	"assistant-orchestrator/internal/infra"
	"assistant-orchestrator/internal/infra/config"
	"assistant-orchestrator/internal/infra/httpclient"
	"assistant-orchestrator/internal/usecase"
	"assistant-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Pipeline      *usecase.Pipeline
	RAGUsecase    *usecase.RAGUsecase
	IngestUsecase usecase.IngestDocumentUsecase
	Worker        *worker.IngestWorker
	Store         domain.VectorStore

	closers []func()
}

// NewApplicationComponents wires adapters and usecases from config.
// The context is only used for establishing the database connection when
// the pgvector backend is selected.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	geminiHTTP := httpclient.NewPooledClient(time.Duration(cfg.Gemini.Timeout) * time.Second)
	weatherHTTP := httpclient.NewPooledClient(time.Duration(cfg.Weather.Timeout) * time.Second)
	geocodeHTTP := httpclient.NewPooledClient(time.Duration(cfg.Geocoding.Timeout) * time.Second)

	llm := gemini.NewGenerator(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature, cfg.Gemini.MaxTokens, geminiHTTP)
	encoder := gemini.NewEmbedder(cfg.Gemini.APIKey, cfg.Gemini.EmbeddingModel, geminiHTTP)

	components := &ApplicationComponents{}

	var store domain.VectorStore
	switch cfg.VectorBackend {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Name)
		pool, err := infra.NewPostgresDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		components.closers = append(components.closers, pool.Close)
		store = repository.NewDocumentStore(pool)
	case "qdrant":
		qdrantHTTP := httpclient.NewPooledClient(time.Duration(cfg.Qdrant.Timeout) * time.Second)
		store = qdrant.NewClient(cfg.Qdrant.Endpoint, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, qdrantHTTP)
	default:
		return nil, fmt.Errorf("unknown vector backend: %s", cfg.VectorBackend)
	}

	var geocodingClient domain.GeocodingClient
	if cfg.Geocoding.APIKey != "" {
		geocodingClient = geoapify.NewClient(cfg.Geocoding.BaseURL, cfg.Geocoding.APIKey, geocodeHTTP)
	} else {
		log.Warn("no geocoding api key configured, using fallback coordinates only")
	}

	weatherClient := openweather.NewClient(
		cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Units,
		cfg.Weather.RatePerSecond, weatherHTTP,
	)

	extractor := usecase.NewCityExtractor(llm)
	geocoder := usecase.NewGeocoder(
		geocodingClient,
		cfg.Geocoding.CacheSize,
		time.Duration(cfg.Geocoding.CacheTTL)*time.Minute,
		log,
	)

	router := usecase.NewRouter(llm)
	weatherUsecase := usecase.NewWeatherUsecase(llm, extractor, geocoder, weatherClient, log)

	profiles := usecase.RAGProfiles{
		ContextLimit:      cfg.Retrieval.ContextLimit,
		ContextThreshold:  float32(cfg.Retrieval.ContextThreshold),
		RetrieveLimit:     cfg.Retrieval.RetrieveLimit,
		RetrieveThreshold: float32(cfg.Retrieval.RetrieveThreshold),
	}
	ragUsecase := usecase.NewRAGUsecase(encoder, store, llm, profiles, log)

	ingestUsecase := usecase.NewIngestDocumentUsecase(
		pdftext.NewExtractor(),
		domain.NewChunkerWith(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		encoder,
		store,
		log,
	)

	components.Pipeline = usecase.NewPipeline(router, weatherUsecase, ragUsecase, log)
	components.RAGUsecase = ragUsecase
	components.IngestUsecase = ingestUsecase
	components.Worker = worker.NewIngestWorker(ingestUsecase, cfg.Ingest.QueueSize, log)
	components.Store = store

	return components, nil
}

// Close releases held resources (database pools).
func (c *ApplicationComponents) Close() {
	for _, closer := range c.closers {
		closer()
	}
}
