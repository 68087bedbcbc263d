package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"juscash-verifier/repository"
	"juscash-verifier/storage"
)

// Indexer rebuilds the policy index from the corpus held in storage
type Indexer struct {
	storage  storage.Storage
	key      string
	embedder Embedder
	index    repository.PolicyIndex
}

// NewIndexer creates an indexer reading the corpus stored under key
func NewIndexer(store storage.Storage, key string, embedder Embedder, index repository.PolicyIndex) *Indexer {
	return &Indexer{storage: store, key: key, embedder: embedder, index: index}
}

// Rebuild discards the current index and repopulates it from the corpus. The
// index is reset first, so a failure in a later step leaves it empty.
func (ix *Indexer) Rebuild(ctx context.Context) (int, error) {
	if err := ix.index.Reset(ctx); err != nil {
		return 0, fmt.Errorf("failed to reset policy index: %w", err)
	}

	rc, err := ix.storage.Download(ctx, ix.key)
	if err != nil {
		return 0, fmt.Errorf("failed to open policy corpus %s: %w", ix.key, err)
	}
	defer rc.Close()

	chunks, err := ParsePolicyCorpus(rc, path.Base(ix.key))
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed policy corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("mismatch: got %d embeddings for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := ix.index.Insert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store policy chunks: %w", err)
	}
	return len(chunks), nil
}

// RebuildOnStartup runs Rebuild and logs the outcome. Errors are not
// returned: the service keeps starting with whatever the index holds.
func (ix *Indexer) RebuildOnStartup(ctx context.Context) {
	n, err := ix.Rebuild(ctx)
	if err != nil {
		slog.Error("policy index population failed, serving with an empty index",
			"key", ix.key, "index", ix.index.Label(), "error", err)
		return
	}
	slog.Info("policy index populated", "chunks", n, "index", ix.index.Label(), "embedder", ix.embedder.Name())
}
