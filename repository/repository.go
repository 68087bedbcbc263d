package repository

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"juscash-verifier/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ErrIndexUnavailable is returned by writes to an index whose last reset failed
var ErrIndexUnavailable = errors.New("policy index unavailable")

// PolicyIndex is a nearest-neighbour store of embedded policy chunks.
// It is rebuilt wholesale (Reset then Insert) and read-only afterwards.
type PolicyIndex interface {
	// Reset discards every stored chunk
	Reset(ctx context.Context) error

	// Insert stores chunks together with their embeddings
	Insert(ctx context.Context, chunks []models.PolicyChunk) error

	// Search returns up to k chunks ordered by ascending cosine distance to embedding
	Search(ctx context.Context, embedding []float32, k int) ([]models.PolicyChunk, error)

	// Count returns the number of stored chunks
	Count(ctx context.Context) (int, error)

	// Label names the backend, as reported by the health endpoint
	Label() string

	Close() error
}

// VerificationLog records the outcome of every verification request
type VerificationLog interface {
	Create(ctx context.Context, v *models.Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
	Close() error
}

// formatVector formats an embedding vector as a pgvector literal
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(embedding))
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// encodeVector serializes a vector as little-endian float32 values
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector
func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v, nil
}

// cosineDistance returns 1 - cos(a, b). Zero vectors are at distance 1 from everything.
func cosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1, nil
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}

// rankByDistance sorts chunks by distance, then corpus position, and keeps the first k
func rankByDistance(chunks []models.PolicyChunk, k int) []models.PolicyChunk {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Distance != chunks[j].Distance {
			return chunks[i].Distance < chunks[j].Distance
		}
		return chunks[i].Position < chunks[j].Position
	})
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks
}
