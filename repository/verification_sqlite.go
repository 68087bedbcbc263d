package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"juscash-verifier/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteVerificationSchema = `
CREATE TABLE IF NOT EXISTS verifications (
	id             TEXT PRIMARY KEY,
	process_number TEXT NOT NULL,
	decision       TEXT,
	rationale      TEXT,
	citations      TEXT NOT NULL DEFAULT '[]',
	provider       TEXT NOT NULL,
	model          TEXT NOT NULL,
	error_message  TEXT,
	duration_ms    INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);
`

// SQLiteVerificationLog stores verification rows in a SQLite file
type SQLiteVerificationLog struct {
	db *sql.DB
}

// NewSQLiteVerificationLog opens the log at dbPath and runs migrations
func NewSQLiteVerificationLog(dbPath string) (*SQLiteVerificationLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(sqliteVerificationSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteVerificationLog{db: db}, nil
}

// Create inserts a verification row
func (s *SQLiteVerificationLog) Create(ctx context.Context, v *models.Verification) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	var decision *string
	if v.Decision != nil {
		d := string(*v.Decision)
		decision = &d
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verifications (
			id, process_number, decision, rationale, citations,
			provider, model, error_message, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID.String(), v.ProcessNumber, decision, v.Rationale, v.Citations,
		v.Provider, v.Model, v.ErrorMessage, v.DurationMS, v.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// GetByID retrieves a verification by ID
func (s *SQLiteVerificationLog) GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	var (
		v         models.Verification
		rawID     string
		decision  sql.NullString
		rationale sql.NullString
		errMsg    sql.NullString
		createdAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, process_number, decision, rationale, citations,
			provider, model, error_message, duration_ms, created_at
		FROM verifications
		WHERE id = ?`, id.String()).Scan(
		&rawID, &v.ProcessNumber, &decision, &rationale, &v.Citations,
		&v.Provider, &v.Model, &errMsg, &v.DurationMS, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load verification: %w", err)
	}

	if v.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("invalid verification id %q: %w", rawID, err)
	}
	if decision.Valid {
		d := models.Decision(decision.String)
		v.Decision = &d
	}
	if rationale.Valid {
		v.Rationale = &rationale.String
	}
	if errMsg.Valid {
		v.ErrorMessage = &errMsg.String
	}
	if v.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if v.Citations == nil {
		v.Citations = make(models.Citations, 0)
	}

	return &v, nil
}

// Close closes the underlying database connection
func (s *SQLiteVerificationLog) Close() error {
	return s.db.Close()
}
