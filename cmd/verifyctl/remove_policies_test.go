package main

import (
	"context"
	"strings"
	"testing"

	"juscash-verifier/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemovePolicies(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Upload(ctx, "policies.txt", strings.NewReader("POL-1: Só transitado em julgado.\n")))

	require.NoError(t, removePolicies(ctx, store, "policies.txt"))

	_, err = store.Download(ctx, "policies.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRemovePoliciesMissingKey(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = removePolicies(context.Background(), store, "policies.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
