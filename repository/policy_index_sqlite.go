package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"juscash-verifier/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteIndexFile = "policy_index.db"

const sqliteIndexSchema = `
CREATE TABLE IF NOT EXISTS policy_chunks (
	id         TEXT PRIMARY KEY,
	rule_id    TEXT,
	source     TEXT NOT NULL,
	position   INTEGER NOT NULL,
	chunk_text TEXT NOT NULL,
	embedding  BLOB NOT NULL
);
`

// SQLitePolicyIndex keeps the policy index in a SQLite file inside a dedicated
// directory. Similarity ranking is done in process over a full scan, which is
// adequate for a corpus of a few dozen rules.
type SQLitePolicyIndex struct {
	dir string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLitePolicyIndex opens (or creates) the index stored under dir
func NewSQLitePolicyIndex(dir string) (*SQLitePolicyIndex, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	db, err := openSQLiteIndex(dir)
	if err != nil {
		return nil, err
	}
	return &SQLitePolicyIndex{dir: dir, db: db}, nil
}

func openSQLiteIndex(dir string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, sqliteIndexFile))
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	if _, err := db.Exec(sqliteIndexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate index db: %w", err)
	}
	return db, nil
}

// Label implements PolicyIndex
func (s *SQLitePolicyIndex) Label() string { return "sqlite" }

// Reset deletes every file in the index directory and recreates an empty index.
// When it fails after the old database is closed, the index stays unavailable:
// searches return nothing and inserts fail with ErrIndexUnavailable.
func (s *SQLitePolicyIndex) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		if err != nil {
			return fmt.Errorf("close index db: %w", err)
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read index directory: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := openSQLiteIndex(s.dir)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Insert stores chunks in a single transaction
func (s *SQLitePolicyIndex) Insert(ctx context.Context, chunks []models.PolicyChunk) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return ErrIndexUnavailable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO policy_chunks (id, rule_id, source, position, chunk_text, embedding)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %d has no embedding", chunk.Position)
		}
		_, err := stmt.ExecContext(ctx,
			chunk.ID.String(), chunk.RuleID, chunk.Source, chunk.Position, chunk.Text,
			encodeVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Search implements PolicyIndex
func (s *SQLitePolicyIndex) Search(ctx context.Context, embedding []float32, k int) ([]models.PolicyChunk, error) {
	if k <= 0 {
		return []models.PolicyChunk{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return []models.PolicyChunk{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_id, source, position, chunk_text, embedding
		FROM policy_chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]models.PolicyChunk, 0)
	for rows.Next() {
		var (
			chunk  models.PolicyChunk
			id     string
			ruleID sql.NullString
			blob   []byte
		)
		if err := rows.Scan(&id, &ruleID, &chunk.Source, &chunk.Position, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan policy chunk: %w", err)
		}
		if chunk.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid chunk id %q: %w", id, err)
		}
		chunk.RuleID = ruleID.String
		if chunk.Embedding, err = decodeVector(blob); err != nil {
			return nil, err
		}
		if chunk.Distance, err = cosineDistance(embedding, chunk.Embedding); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.Position, err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy chunks: %w", err)
	}

	return rankByDistance(chunks, k), nil
}

// Count implements PolicyIndex
func (s *SQLitePolicyIndex) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return 0, nil
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM policy_chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count policy chunks: %w", err)
	}
	return n, nil
}

// Close implements PolicyIndex
func (s *SQLitePolicyIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
