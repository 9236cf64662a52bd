package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("sheet"), "snapshots/2025-05.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "snapshots/2025-05.xlsx", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(body))
}

func TestLocalStorage_Missing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "snapshots/2025-01.xlsx")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Download(ctx, "snapshots/2025-01.xlsx")
	assert.ErrorIs(t, err, ErrFileNotFound)

	keys, err := s.List(ctx, "snapshots")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStorage_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("x"), "../../escape.txt")
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", key)

	_, err = s.Upload(ctx, strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"snapshots/2025-05.xlsx", "snapshots/2025-04.xlsx", "other/readme.txt"} {
		_, err := s.Upload(ctx, strings.NewReader(k), k)
		require.NoError(t, err)
	}

	keys, err := s.List(ctx, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/2025-04.xlsx", "snapshots/2025-05.xlsx"}, keys)
}
