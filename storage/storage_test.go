package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, "corpus/policies.txt", strings.NewReader("POL-1: regra\n")))

	rc, err := s.Download(ctx, "corpus/policies.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "POL-1: regra\n", string(data))

	// Overwrite replaces the content
	require.NoError(t, s.Upload(ctx, "corpus/policies.txt", strings.NewReader("POL-2: outra\n")))
	rc, err = s.Download(ctx, "corpus/policies.txt")
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "POL-2: outra\n", string(data))

	require.NoError(t, s.Delete(ctx, "corpus/policies.txt"))
	_, err = s.Download(ctx, "corpus/policies.txt")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting a missing object is not an error
	assert.NoError(t, s.Delete(ctx, "corpus/policies.txt"))
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "policies.txt", want: "policies.txt"},
		{key: "/a/b.txt", want: "a/b.txt"},
		{key: "../../etc/passwd", want: "etc/passwd"},
		{key: `dir\file.txt`, want: "dir/file.txt"},
		{key: "", wantErr: true},
		{key: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cleanKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewStorageUnknownType(t *testing.T) {
	_, err := NewStorage(StorageConfig{Type: "ftp"})
	require.Error(t, err)

	_, err = NewStorage(StorageConfig{Type: StorageTypeS3})
	require.Error(t, err)
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", getContentType("policies.txt"))
	assert.Equal(t, "application/octet-stream", getContentType("blob"))
}
