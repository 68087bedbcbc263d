// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names accepted by LLM_PROVIDER
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// Embedding providers accepted by EMBEDDING_PROVIDER
const (
	EmbeddingGemini = "gemini"
	EmbeddingOllama = "ollama"
	EmbeddingHash   = "hash"
)

// Vector index backends accepted by VECTOR_STORE
const (
	VectorStoreSQLite   = "sqlite"
	VectorStorePgvector = "pgvector"
)

// DefaultTopK is the number of policy chunks retrieved per query
const DefaultTopK = 8

// Config holds every setting the service reads at startup
type Config struct {
	Port    string
	GinMode string

	LLMProvider   string
	LLMModel      string
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingDim      int
	OllamaBaseURL     string

	VectorStore string
	IndexPath   string
	DatabaseURL string
	AuditDBPath string

	StorageType      string
	StorageLocalPath string
	PolicyKey        string
	S3Bucket         string
	S3Region         string
	AWSAccessKey     string
	AWSSecretKey     string

	TopK         int
	APITokenHash string
}

// LoadDotEnv loads a .env file from the working directory or the project root
// (relative to cmd/<name>/). A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			slog.Warn("no .env file found, using environment variables")
		}
	}
}

// Load reads .env and the process environment into a Config
func Load() (*Config, error) {
	LoadDotEnv()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:    getenv("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		LLMProvider:   strings.ToLower(getenv("LLM_PROVIDER", ProviderGoogle)),
		LLMModel:      os.Getenv("LLM_MODEL"),
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		EmbeddingProvider: strings.ToLower(getenv("EMBEDDING_PROVIDER", EmbeddingOllama)),
		EmbeddingModel:    os.Getenv("EMBEDDING_MODEL"),
		OllamaBaseURL:     getenv("OLLAMA_BASE_URL", "http://localhost:11434"),

		VectorStore: strings.ToLower(getenv("VECTOR_STORE", VectorStoreSQLite)),
		IndexPath:   getenv("INDEX_PATH", "./data/policy_index"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AuditDBPath: getenv("AUDIT_DB_PATH", "./data/verifications.db"),

		StorageType:      getenv("STORAGE_TYPE", "local"),
		StorageLocalPath: getenv("STORAGE_LOCAL_PATH", "./policies"),
		PolicyKey:        getenv("POLICY_KEY", "policies.txt"),
		S3Bucket:         os.Getenv("AWS_S3_BUCKET"),
		S3Region:         getenv("AWS_REGION", "us-east-1"),
		AWSAccessKey:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),

		APITokenHash: os.Getenv("API_TOKEN_HASH"),
	}

	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	var err error
	if cfg.TopK, err = getenvInt("RETRIEVAL_TOP_K", DefaultTopK); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDim, err = getenvInt("EMBEDDING_DIM", 0); err != nil {
		return nil, err
	}

	cfg.applyModelDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyModelDefaults() {
	if c.LLMModel == "" {
		switch c.LLMProvider {
		case ProviderGoogle:
			c.LLMModel = "gemini-2.5-flash"
		case ProviderOpenAI:
			c.LLMModel = "gpt-4o"
		}
	}
	// text-embedding-004 and nomic-embed-text both return 768 dimensions
	if c.EmbeddingDim == 0 {
		switch c.EmbeddingProvider {
		case EmbeddingGemini, EmbeddingOllama:
			c.EmbeddingDim = 768
		case EmbeddingHash:
			c.EmbeddingDim = 384
		}
	}
	if c.EmbeddingModel == "" {
		switch c.EmbeddingProvider {
		case EmbeddingGemini:
			c.EmbeddingModel = "text-embedding-004"
		case EmbeddingOllama:
			c.EmbeddingModel = "nomic-embed-text"
		case EmbeddingHash:
			c.EmbeddingModel = fmt.Sprintf("hash-%d", c.EmbeddingDim)
		}
	}
}

// Validate checks provider names and backend-specific requirements.
// Missing LLM credentials are not an error here; they surface on each /verify call.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGoogle, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown LLM provider: %s", c.LLMProvider)
	}

	switch c.EmbeddingProvider {
	case EmbeddingGemini, EmbeddingOllama, EmbeddingHash:
	default:
		return fmt.Errorf("unknown embedding provider: %s", c.EmbeddingProvider)
	}

	switch c.VectorStore {
	case VectorStoreSQLite:
		if c.IndexPath == "" {
			return errors.New("INDEX_PATH is required for the sqlite vector store")
		}
	case VectorStorePgvector:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the pgvector vector store")
		}
	default:
		return fmt.Errorf("unknown vector store: %s", c.VectorStore)
	}

	if c.TopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.TopK)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	return nil
}

// LLMAPIKey returns the API key of the configured LLM provider
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
