package service

import (
	"context"
	"fmt"

	"juscash-verifier/config"
)

// NewEmbedder creates the embedder selected by EMBEDDING_PROVIDER
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingHash:
		return NewHashEmbedder(cfg.EmbeddingDim), nil
	case config.EmbeddingGemini:
		return NewGeminiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	case config.EmbeddingOllama:
		return NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", ErrUnknownProvider, cfg.EmbeddingProvider)
	}
}

// NewGenerator creates the LLM generator selected by LLM_PROVIDER
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGoogle:
		return NewGeminiGenerator(ctx, cfg.GoogleAPIKey, cfg.LLMModel)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("%w: llm provider %q", ErrUnknownProvider, cfg.LLMProvider)
	}
}
