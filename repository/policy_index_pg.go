package repository

import (
	"context"
	"fmt"

	"juscash-verifier/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgPolicyIndex handles database operations for policy chunks stored with pgvector
type PgPolicyIndex struct {
	db *pgxpool.Pool
}

// NewPgPolicyIndex creates a new pgvector-backed policy index
func NewPgPolicyIndex(db *pgxpool.Pool) *PgPolicyIndex {
	return &PgPolicyIndex{db: db}
}

// Label implements PolicyIndex
func (r *PgPolicyIndex) Label() string { return "pgvector" }

// Reset removes every stored policy chunk
func (r *PgPolicyIndex) Reset(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "TRUNCATE TABLE policy_chunks"); err != nil {
		return fmt.Errorf("failed to truncate policy chunks: %w", err)
	}
	return nil
}

// Insert stores chunks in a single transaction
func (r *PgPolicyIndex) Insert(ctx context.Context, chunks []models.PolicyChunk) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %d has no embedding", chunk.Position)
		}
		// NULLIF keeps lines without a rule identifier as NULL
		batch.Queue(`
			INSERT INTO policy_chunks (id, rule_id, source, position, chunk_text, embedding)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6::vector)`,
			chunk.ID, chunk.RuleID, chunk.Source, chunk.Position, chunk.Text, formatVector(chunk.Embedding),
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, chunk := range chunks {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Position, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Search performs a cosine-distance nearest-neighbour search
func (r *PgPolicyIndex) Search(ctx context.Context, embedding []float32, k int) ([]models.PolicyChunk, error) {
	if k <= 0 {
		return []models.PolicyChunk{}, nil
	}

	query := `
		SELECT
			id,
			COALESCE(rule_id, ''),
			source,
			position,
			chunk_text,
			embedding <=> $1::vector AS distance
		FROM policy_chunks
		ORDER BY
			embedding <=> $1::vector,
			position
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, formatVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]models.PolicyChunk, 0, k)
	for rows.Next() {
		var chunk models.PolicyChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.RuleID,
			&chunk.Source,
			&chunk.Position,
			&chunk.Text,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy chunks: %w", err)
	}

	return chunks, nil
}

// Count implements PolicyIndex
func (r *PgPolicyIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM policy_chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count policy chunks: %w", err)
	}
	return n, nil
}

// Close is a no-op: the pool is owned by the caller
func (r *PgPolicyIndex) Close() error { return nil }
