package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LLM_PROVIDER", "LLM_MODEL", "GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"EMBEDDING_PROVIDER", "EMBEDDING_MODEL", "EMBEDDING_DIM", "VECTOR_STORE", "INDEX_PATH",
		"DATABASE_URL", "AUDIT_DB_PATH", "STORAGE_TYPE", "RETRIEVAL_TOP_K", "API_TOKEN_HASH",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGoogle, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, EmbeddingOllama, cfg.EmbeddingProvider)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, 768, cfg.EmbeddingDim)
	assert.Equal(t, VectorStoreSQLite, cfg.VectorStore)
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.Equal(t, "policies.txt", cfg.PolicyKey)
	assert.Equal(t, "./data/verifications.db", cfg.AuditDBPath)
}

func TestFromEnvProviders(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantModel string
		wantKey   string
		wantErr   bool
	}{
		{
			name:      "openai default model",
			env:       map[string]string{"LLM_PROVIDER": "OpenAI", "OPENAI_API_KEY": "sk-test"},
			wantModel: "gpt-4o",
			wantKey:   "sk-test",
		},
		{
			name:      "google explicit model",
			env:       map[string]string{"LLM_PROVIDER": "google", "LLM_MODEL": "gemini-1.5-pro", "GOOGLE_API_KEY": "g-key"},
			wantModel: "gemini-1.5-pro",
			wantKey:   "g-key",
		},
		{
			name:      "gemini key fallback",
			env:       map[string]string{"GEMINI_API_KEY": "gem-key"},
			wantModel: "gemini-2.5-flash",
			wantKey:   "gem-key",
		},
		{
			name:      "missing key is not a config error",
			env:       map[string]string{"LLM_PROVIDER": "openai"},
			wantModel: "gpt-4o",
			wantKey:   "",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"LLM_PROVIDER": "anthropic"},
			wantErr: true,
		},
		{
			name:    "pgvector without database url",
			env:     map[string]string{"VECTOR_STORE": "pgvector"},
			wantErr: true,
		},
		{
			name:    "invalid top k",
			env:     map[string]string{"RETRIEVAL_TOP_K": "eight"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, cfg.LLMModel)
			assert.Equal(t, tt.wantKey, cfg.LLMAPIKey())
		})
	}
}

func TestFromEnvEmbeddingDimensions(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantModel string
		wantDim   int
	}{
		{name: "gemini", env: map[string]string{"EMBEDDING_PROVIDER": "gemini"}, wantModel: "text-embedding-004", wantDim: 768},
		{name: "ollama", env: map[string]string{"EMBEDDING_PROVIDER": "ollama"}, wantModel: "nomic-embed-text", wantDim: 768},
		{name: "hash", env: map[string]string{"EMBEDDING_PROVIDER": "hash"}, wantModel: "hash-384", wantDim: 384},
		{name: "explicit dim wins", env: map[string]string{"EMBEDDING_PROVIDER": "hash", "EMBEDDING_DIM": "64"}, wantModel: "hash-64", wantDim: 64},
		{name: "explicit dim for ollama model", env: map[string]string{"EMBEDDING_MODEL": "mxbai-embed-large", "EMBEDDING_DIM": "1024"}, wantModel: "mxbai-embed-large", wantDim: 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, cfg.EmbeddingModel)
			assert.Equal(t, tt.wantDim, cfg.EmbeddingDim)
		})
	}
}
