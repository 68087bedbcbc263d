package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"juscash-verifier/config"
	"juscash-verifier/repository"
	"juscash-verifier/service"
	"juscash-verifier/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	query := flag.String("query", "", "run a test retrieval against the rebuilt index")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, *query); err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, query string) error {
	var db *pgxpool.Pool
	if cfg.VectorStore == config.VectorStorePgvector {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		db = pool
	}

	policyStorage, err := storage.NewStorageFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := service.NewEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	index, err := repository.OpenPolicyIndex(cfg, db)
	if err != nil {
		return err
	}
	defer index.Close()

	start := time.Now()
	n, err := service.NewIndexer(policyStorage, cfg.PolicyKey, embedder, index).Rebuild(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Indexed %d policy chunks into %s using %s (%s)\n", n, index.Label(), embedder.Name(), time.Since(start).Round(time.Millisecond))

	if query == "" {
		return nil
	}

	chunks, err := service.NewRetriever(embedder, index, cfg.TopK).Retrieve(ctx, query)
	if err != nil {
		return fmt.Errorf("test retrieval failed: %w", err)
	}
	fmt.Printf("\nTop %d chunks for %q:\n", len(chunks), query)
	for i, c := range chunks {
		fmt.Printf("  %d. [%.4f] %s\n", i+1, c.Distance, c.Text)
	}
	return nil
}
