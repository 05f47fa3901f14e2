package minio

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_KeyLayout(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("a", "b", ""),
	})
	require.NoError(t, err)

	store := NewStore(client, "archives", "eqsearch/")
	assert.Equal(t, "eqsearch/session.eqs", store.key("session.eqs"))
	assert.Equal(t, "eqsearch/x/y.eqs", store.key("x/y.eqs"))

	bare := NewStore(client, "archives", "")
	assert.Equal(t, "session.eqs", bare.key("session.eqs"))
}

// TestStore_Integration exercises the full lifecycle against a running
// MinIO instance and skips when none is reachable.
func TestStore_Integration(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("minio client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("minio not available: %v", err)
	}

	bucket := "eqsearch-test"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "it/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "session.eqs", data))

	blob, err := store.Open(ctx, "session.eqs")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, data, buf[:n])

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part := make([]byte, 5)
	_, err = rc.Read(part)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	w, err := store.Create(ctx, "stream.eqs")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "session.eqs")
	assert.Contains(t, names, "stream.eqs")

	require.NoError(t, store.Delete(ctx, "session.eqs"))
	require.NoError(t, store.Delete(ctx, "stream.eqs"))

	_, err = store.Open(ctx, "session.eqs")
	require.Error(t, err)
}
