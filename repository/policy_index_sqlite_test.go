package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"juscash-verifier/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempIndex(t *testing.T) *SQLitePolicyIndex {
	t.Helper()
	idx, err := NewSQLitePolicyIndex(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func chunk(pos int, ruleID, text string, vec ...float32) models.PolicyChunk {
	return models.PolicyChunk{
		ID:        uuid.New(),
		RuleID:    ruleID,
		Source:    "policies.txt",
		Position:  pos,
		Text:      text,
		Embedding: vec,
	}
}

func TestSQLitePolicyIndexSearch(t *testing.T) {
	ctx := context.Background()
	idx := tempIndex(t)

	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{
		chunk(0, "POL-1", "certidao", 1, 0, 0),
		chunk(1, "POL-2", "valor", 0, 1, 0),
		chunk(2, "POL-3", "trabalhista", 0.9, 0.1, 0),
		chunk(3, "", "sem regra", 0, 0, 1),
	}))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "POL-1", got[0].RuleID)
	assert.Equal(t, "POL-3", got[1].RuleID)
	assert.InDelta(t, 0.0, got[0].Distance, 1e-6)
	assert.Less(t, got[0].Distance, got[1].Distance)

	// Repeated searches return the same order
	again, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	// k larger than the index returns everything
	all, err := idx.Search(ctx, []float32{1, 0, 0}, 8)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "", all[3].RuleID)

	none, err := idx.Search(ctx, []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLitePolicyIndexTiesKeepCorpusOrder(t *testing.T) {
	ctx := context.Background()
	idx := tempIndex(t)

	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{
		chunk(2, "POL-3", "c", 0, 1),
		chunk(0, "POL-1", "a", 0, 1),
		chunk(1, "POL-2", "b", 0, 1),
	}))

	got, err := idx.Search(ctx, []float32{0, 1}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"POL-1", "POL-2", "POL-3"}, []string{got[0].RuleID, got[1].RuleID, got[2].RuleID})
}

func TestSQLitePolicyIndexReset(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")
	idx, err := NewSQLitePolicyIndex(dir)
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{chunk(0, "POL-1", "a", 1, 0)}))

	// Stray files from an older index layout are removed as well
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.bin"), []byte("x"), 0644))

	require.NoError(t, idx.Reset(ctx))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = os.Stat(filepath.Join(dir, "stale.bin"))
	assert.True(t, os.IsNotExist(err))

	got, err := idx.Search(ctx, []float32{1, 0}, 8)
	require.NoError(t, err)
	assert.Empty(t, got)

	// The index is usable after a reset
	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{chunk(0, "POL-9", "z", 1, 0)}))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLitePolicyIndexRejectsMissingEmbedding(t *testing.T) {
	idx := tempIndex(t)
	err := idx.Insert(context.Background(), []models.PolicyChunk{chunk(0, "POL-1", "a")})
	require.Error(t, err)
}

func TestSQLitePolicyIndexDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := tempIndex(t)
	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{chunk(0, "POL-1", "a", 1, 0, 0)}))

	_, err := idx.Search(ctx, []float32{1, 0}, 8)
	require.Error(t, err)
}

func TestSQLitePolicyIndexFailedResetDegrades(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")
	idx, err := NewSQLitePolicyIndex(dir)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{chunk(0, "POL-1", "certidao", 1, 0)}))

	// a plain file where the index directory used to be makes the reset fail
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0644))
	require.Error(t, idx.Reset(ctx))

	var got []models.PolicyChunk
	assert.NotPanics(t, func() {
		got, err = idx.Search(ctx, []float32{1, 0}, 8)
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = idx.Insert(ctx, []models.PolicyChunk{chunk(0, "POL-1", "certidao", 1, 0)})
	assert.ErrorIs(t, err, ErrIndexUnavailable)

	// a later successful reset makes the index usable again
	require.NoError(t, os.Remove(dir))
	require.NoError(t, idx.Reset(ctx))
	require.NoError(t, idx.Insert(ctx, []models.PolicyChunk{chunk(0, "POL-1", "certidao", 1, 0)}))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
