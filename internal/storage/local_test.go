package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "reports/abc.pdf", []byte("%PDF-fake")))

	got, err := store.Read(ctx, "reports/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), got)

	exists, err := store.Exists(ctx, "reports/abc.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageReadMissingKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "reports/missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := store.Exists(context.Background(), "reports/missing.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageRejectsTraversalKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../outside.txt", "/etc/passwd", "a/../../b", "."} {
		assert.Error(t, store.Save(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestLocalStoragePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	assert.NotEmpty(t, store.Path("uploads/doc.pdf"))
	assert.Empty(t, store.Path("../escape"))
}
