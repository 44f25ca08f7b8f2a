package config

import (
	"os"
	"strconv"
	"strings"
)

// GeminiConfig holds settings for the Google generative language API.
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Temperature    float64
	MaxTokens      int
	Timeout        int
}

// WeatherConfig holds settings for the OpenWeather current-weather API.
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Units   string
	Timeout int
	// RatePerSecond caps outbound calls; free-tier friendly.
	RatePerSecond float64
}

// GeocodingConfig holds settings for the Geoapify forward geocoder.
type GeocodingConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   int
	CacheSize int
	CacheTTL  int // minutes
}

// QdrantConfig holds settings for the Qdrant REST backend.
type QdrantConfig struct {
	Endpoint   string
	APIKey     string
	Collection string
	Timeout    int
}

// PostgresConfig holds settings for the pgvector backend.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RetrievalConfig carries the two retrieval profiles. Context assembly and
// generic retrieval use distinct limits and thresholds.
type RetrievalConfig struct {
	ContextLimit      int
	ContextThreshold  float64
	RetrieveLimit     int
	RetrieveThreshold float64
}

// IngestConfig holds document ingestion tuning.
type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
	QueueSize    int
}

type Config struct {
	Env           string
	Port          string
	VectorBackend string // "qdrant" or "postgres"
	OTelLogs      bool

	Gemini    GeminiConfig
	Weather   WeatherConfig
	Geocoding GeocodingConfig
	Qdrant    QdrantConfig
	Postgres  PostgresConfig
	Retrieval RetrievalConfig
	Ingest    IngestConfig
}

func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "9020"),
		VectorBackend: getEnv("VECTOR_BACKEND", "qdrant"),
		OTelLogs:      getEnvBool("OTEL_LOGS_ENABLED", false),
		Gemini: GeminiConfig{
			APIKey:         getSecret("GOOGLE_API_KEY", "GOOGLE_API_KEY_FILE", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "embedding-001"),
			Temperature:    getEnvFloat("GEMINI_TEMPERATURE", 0.5),
			MaxTokens:      getEnvInt("GEMINI_MAX_TOKENS", 1000),
			Timeout:        getEnvInt("GEMINI_TIMEOUT", 60),
		},
		Weather: WeatherConfig{
			APIKey:        getSecret("OPENWEATHER_API_KEY", "OPENWEATHER_API_KEY_FILE", ""),
			BaseURL:       getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather"),
			Units:         getEnv("OPENWEATHER_UNITS", "metric"),
			Timeout:       getEnvInt("OPENWEATHER_TIMEOUT", 10),
			RatePerSecond: getEnvFloat("OPENWEATHER_RATE_PER_SECOND", 1),
		},
		Geocoding: GeocodingConfig{
			APIKey:    getSecret("GEOAPIFY_API_KEY", "GEOAPIFY_API_KEY_FILE", ""),
			BaseURL:   getEnv("GEOAPIFY_BASE_URL", "https://api.geoapify.com/v1/geocode/search"),
			Timeout:   getEnvInt("GEOAPIFY_TIMEOUT", 10),
			CacheSize: getEnvInt("GEOCODE_CACHE_SIZE", 256),
			CacheTTL:  getEnvInt("GEOCODE_CACHE_TTL_MINUTES", 60),
		},
		Qdrant: QdrantConfig{
			Endpoint:   getEnv("QDRANT_ENDPOINT", "http://localhost:6333"),
			APIKey:     getSecret("QDRANT_API_KEY", "QDRANT_API_KEY_FILE", ""),
			Collection: getEnv("QDRANT_COLLECTION", "assistant_docs"),
			Timeout:    getEnvInt("QDRANT_TIMEOUT", 15),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "assistant-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "assistant_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "assistant_password"),
			Name:     getEnv("DB_NAME", "assistant_db"),
		},
		Retrieval: RetrievalConfig{
			ContextLimit:      getEnvInt("RAG_CONTEXT_LIMIT", 3),
			ContextThreshold:  getEnvFloat("RAG_CONTEXT_THRESHOLD", 0.6),
			RetrieveLimit:     getEnvInt("RAG_RETRIEVE_LIMIT", 5),
			RetrieveThreshold: getEnvFloat("RAG_RETRIEVE_THRESHOLD", 0.7),
		},
		Ingest: IngestConfig{
			ChunkSize:    getEnvInt("INGEST_CHUNK_SIZE", 1000),
			ChunkOverlap: getEnvInt("INGEST_CHUNK_OVERLAP", 200),
			QueueSize:    getEnvInt("INGEST_QUEUE_SIZE", 64),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
