package repository

import (
	"context"
	"fmt"
	"log/slog"

	"juscash-verifier/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to Postgres and makes sure the pgvector extension is available
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		// may already be installed by a superuser
		slog.Warn("failed to create pgvector extension", "error", err)
	}

	slog.Info("postgres connection established")
	return pool, nil
}

// OpenPolicyIndex opens the vector index selected by VECTOR_STORE. pool is
// only used by the pgvector backend.
func OpenPolicyIndex(cfg *config.Config, pool *pgxpool.Pool) (PolicyIndex, error) {
	switch cfg.VectorStore {
	case config.VectorStoreSQLite:
		return NewSQLitePolicyIndex(cfg.IndexPath)
	case config.VectorStorePgvector:
		if pool == nil {
			return nil, fmt.Errorf("pgvector index requires a database pool")
		}
		return NewPgPolicyIndex(pool), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore)
	}
}

// OpenVerificationLog opens the audit log next to the configured index backend
func OpenVerificationLog(cfg *config.Config, pool *pgxpool.Pool) (VerificationLog, error) {
	if cfg.VectorStore == config.VectorStorePgvector && pool != nil {
		return NewVerificationRepository(pool), nil
	}
	return NewSQLiteVerificationLog(cfg.AuditDBPath)
}
