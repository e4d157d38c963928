package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// LLM generation
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	LLMMaxTokens     int

	// Embeddings (OpenAI-compatible endpoint)
	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string
	EmbeddingDims    int

	// Guardrail (optional; empty URL disables it)
	GuardrailURL    string
	GuardrailAPIKey string

	// Postgres (vector store + FAQ cache)
	DatabaseURL string

	// Redis (chat history + token window)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Blob storage for raw chapter text
	BlobstoreURL    string
	BlobstoreBucket string
	BlobstoreAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentEmbed int
	ProcessMediaItems  bool

	// Chunking
	ChunkSize     int
	ChunkOverlap  int
	MinChunkChars int

	// Chat
	ChatTopK      int
	TokenBudget   int
	DailyTokenCap int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("OERAI_API_KEY"),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		LLMMaxTokens:     envInt("LLM_MAX_TOKENS", 4096),

		EmbeddingBaseURL: envOr("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingAPIKey:  os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:   envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDims:    envInt("EMBEDDING_DIMS", 1536),

		GuardrailURL:    os.Getenv("GUARDRAIL_URL"),
		GuardrailAPIKey: os.Getenv("GUARDRAIL_API_KEY"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		BlobstoreURL:    envOr("BLOBSTORE_URL", "http://localhost:9000"),
		BlobstoreBucket: envOr("BLOBSTORE_BUCKET", "oerai-chapters"),
		BlobstoreAPIKey: os.Getenv("BLOBSTORE_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 2),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 50),
		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 4),
		ProcessMediaItems:  envBool("PROCESS_MEDIA_ITEMS", false),

		ChunkSize:     envInt("CHUNK_SIZE", 1200),
		ChunkOverlap:  envInt("CHUNK_OVERLAP", 200),
		MinChunkChars: envInt("MIN_CHUNK_CHARS", 600),

		ChatTopK:      envInt("CHAT_TOP_K", 4),
		TokenBudget:   envInt("CHAT_TOKEN_BUDGET", 6000),
		DailyTokenCap: envInt("DAILY_TOKEN_CAP", 0),

		JobTTL: envDuration("JOB_TTL", 24*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 4
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1200
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunkChars <= 0 {
		cfg.MinChunkChars = 600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OERAI_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.EmbeddingAPIKey == "" {
		return fmt.Errorf("EMBEDDING_API_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
