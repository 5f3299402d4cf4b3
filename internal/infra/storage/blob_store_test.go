package storage

import (
	"context"
	"strings"
	"testing"

	"taskhub/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/fileblob"
)

func newTestStore(t *testing.T) service.FileStore {
	t.Helper()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { bucket.Close() })

	return NewWithBucket(bucket)
}

func TestBlobStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, err := store.Save(ctx, "avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, ".png"), "stored key keeps the extension: %s", path)
	assert.NotEqual(t, "avatar.png", path, "stored key must not be the client-supplied name")

	data, err := store.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestBlobStore_SaveGeneratesUniqueKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, "avatar.jpg", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "avatar.jpg", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBlobStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "nope.gif")
	assert.ErrorIs(t, err, service.ErrFileNotFound)
}

func TestBlobStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, err := store.Save(ctx, "avatar.gif", strings.NewReader("gif-bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Load(ctx, path)
	assert.ErrorIs(t, err, service.ErrFileNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, path))
}
