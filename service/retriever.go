package service

import (
	"context"
	"fmt"
	"strings"

	"juscash-verifier/models"
	"juscash-verifier/repository"
)

// Retriever finds the policy chunks closest to a query
type Retriever struct {
	embedder Embedder
	index    repository.PolicyIndex
	topK     int
}

// NewRetriever creates a retriever returning at most topK chunks per query
func NewRetriever(embedder Embedder, index repository.PolicyIndex, topK int) *Retriever {
	return &Retriever{embedder: embedder, index: index, topK: topK}
}

// Retrieve embeds query and returns the nearest chunks, most similar first.
// An empty index yields no chunks and no error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.PolicyChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.index.Search(ctx, vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search policy index: %w", err)
	}
	return chunks, nil
}

// Context returns the retrieved chunks formatted for the prompt
func (r *Retriever) Context(ctx context.Context, query string) (string, error) {
	chunks, err := r.Retrieve(ctx, query)
	if err != nil {
		return "", err
	}
	return FormatContext(chunks), nil
}

// FormatContext joins chunk texts with blank lines, preserving order
func FormatContext(chunks []models.PolicyChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}
