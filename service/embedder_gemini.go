package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiBatchSize is the embedding API's per-request limit
const geminiBatchSize = 100

// GeminiEmbedder generates embeddings with the Gemini embedding API
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates a Gemini embedder. An empty apiKey yields an
// embedder whose calls fail with ErrMissingAPIKey.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	e := &GeminiEmbedder{model: model}
	if apiKey == "" {
		return e, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	e.client = client
	return e, nil
}

// Name implements Embedder
func (e *GeminiEmbedder) Name() string { return "gemini-" + e.model }

// EmbedDocuments implements Embedder
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if e.client == nil {
		return nil, ErrMissingAPIKey
	}

	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += geminiBatchSize {
		end := i + geminiBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := em.NewBatch()
		for _, text := range texts[i:end] {
			batch.AddContent(genai.Text(text))
		}

		res, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		}
		if len(res.Embeddings) != end-i {
			return nil, fmt.Errorf("mismatch: got %d embeddings for %d texts in batch", len(res.Embeddings), end-i)
		}
		for k, emb := range res.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("text %d has empty embedding", i+k)
			}
			out = append(out, normalize(emb.Values))
		}
	}
	return out, nil
}

// EmbedQuery implements Embedder
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, ErrMissingAPIKey
	}

	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalQuery

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, ErrEmbeddingFailed
	}
	return normalize(res.Embedding.Values), nil
}

// Close releases the underlying client
func (e *GeminiEmbedder) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}
