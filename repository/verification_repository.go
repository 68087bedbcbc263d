package repository

import (
	"context"
	"errors"
	"fmt"

	"juscash-verifier/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VerificationRepository handles database operations for verification audit rows
type VerificationRepository struct {
	db *pgxpool.Pool
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create inserts a verification row
func (r *VerificationRepository) Create(ctx context.Context, v *models.Verification) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	query := `
		INSERT INTO verifications (
			id, process_number, decision, rationale, citations,
			provider, model, error_message, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		v.ID,
		v.ProcessNumber,
		v.Decision,
		v.Rationale,
		v.Citations,
		v.Provider,
		v.Model,
		v.ErrorMessage,
		v.DurationMS,
	).Scan(&v.CreatedAt)
}

// GetByID retrieves a verification by ID
func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	v := &models.Verification{}
	query := `
		SELECT id, process_number, decision, rationale, citations,
			provider, model, error_message, duration_ms, created_at
		FROM verifications
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.ProcessNumber,
		&v.Decision,
		&v.Rationale,
		&v.Citations,
		&v.Provider,
		&v.Model,
		&v.ErrorMessage,
		&v.DurationMS,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load verification: %w", err)
	}

	if v.Citations == nil {
		v.Citations = make(models.Citations, 0)
	}

	return v, nil
}

// Close is a no-op: the pool is owned by the caller
func (r *VerificationRepository) Close() error { return nil }
