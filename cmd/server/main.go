package main

import (
	"context"
	"log/slog"
	"os"

	"juscash-verifier/config"
	"juscash-verifier/handlers"
	"juscash-verifier/repository"
	"juscash-verifier/service"
	"juscash-verifier/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()

	// Initialize database connection (pgvector backend only)
	var db *pgxpool.Pool
	if cfg.VectorStore == config.VectorStorePgvector {
		db, err = repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to initialize postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	// Initialize storage
	policyStorage, err := storage.NewStorageFromConfig(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("storage initialized", "type", cfg.StorageType)

	// Initialize embedder and vector index
	embedder, err := service.NewEmbedder(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize embedder", "error", err)
		os.Exit(1)
	}

	index, err := repository.OpenPolicyIndex(cfg, db)
	if err != nil {
		slog.Error("failed to open policy index", "error", err)
		os.Exit(1)
	}
	defer index.Close()

	service.NewIndexer(policyStorage, cfg.PolicyKey, embedder, index).RebuildOnStartup(ctx)

	// Initialize LLM generator
	if cfg.LLMAPIKey() == "" {
		slog.Warn("LLM API key not set, every /verify call will fail", "provider", cfg.LLMProvider)
	}
	generator, err := service.NewGenerator(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize generator", "error", err)
		os.Exit(1)
	}
	defer generator.Close()

	verificationLog, err := repository.OpenVerificationLog(cfg, db)
	if err != nil {
		slog.Error("failed to open verification log", "error", err)
		os.Exit(1)
	}
	defer verificationLog.Close()

	// Initialize services
	engine := service.NewDecisionEngine(service.NewRetriever(embedder, index, cfg.TopK), generator)
	verificationService := service.NewVerificationService(
		service.WithDecider(engine),
		service.WithVerificationLog(verificationLog),
	)

	// Initialize handlers
	verifyHandler := handlers.NewVerifyHandler(verificationService, handlers.HealthInfo{
		Provider:  generator.Provider(),
		Model:     generator.Model(),
		Index:     index.Label(),
		Embedding: embedder.Name(),
	})
	policyHandler := handlers.NewPolicyHandler(policyStorage, cfg.PolicyKey)

	// Setup Gin router
	r := gin.Default()
	handlers.RegisterRoutes(r, verifyHandler, policyHandler, cfg.APITokenHash)

	slog.Info("server starting", "port", cfg.Port, "provider", generator.Provider(), "model", generator.Model())
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
