package blob

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotforge/lotledger/pkg/types"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"fs":     fsStore,
		"memory": NewMemory(),
	}
}

func TestStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	payload := []byte("%PDF-1.4 fake document body")

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			info, err := store.Put(ctx, "bill_of_sale/1/doc.pdf", bytes.NewReader(payload), PutOptions{ContentType: "application/pdf"})
			require.NoError(t, err)
			assert.Equal(t, int64(len(payload)), info.Size)
			assert.Equal(t, "application/pdf", info.ContentType)
			assert.NotEmpty(t, info.ETag)

			got, rc, err := store.Get(ctx, "bill_of_sale/1/doc.pdf")
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, payload, data)
			assert.Equal(t, info.ETag, got.ETag)

			existed, err := store.Delete(ctx, "bill_of_sale/1/doc.pdf")
			require.NoError(t, err)
			assert.True(t, existed)

			existed, err = store.Delete(ctx, "bill_of_sale/1/doc.pdf")
			require.NoError(t, err)
			assert.False(t, existed, "second delete reports nothing removed")

			_, _, err = store.Get(ctx, "bill_of_sale/1/doc.pdf")
			assert.Error(t, err)
		})
	}
}

func TestStoreRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Put(ctx, "k/v", bytes.NewReader([]byte("a")), PutOptions{})
			require.NoError(t, err)
			_, err = store.Put(ctx, "k/v", bytes.NewReader([]byte("b")), PutOptions{})
			assert.Error(t, err)
		})
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "/abs/path", "a/../../b"} {
				_, err := store.Put(ctx, key, bytes.NewReader(nil), PutOptions{})
				assert.Error(t, err, "key %q", key)
			}
		})
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, types.BlobConfig{Driver: types.BlobDriverMemory})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, store.Driver())

	store, err = Open(ctx, types.BlobConfig{Driver: types.BlobDriverFS, FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, store.Driver())

	_, err = Open(ctx, types.BlobConfig{Driver: "tape"})
	assert.ErrorIs(t, err, types.ErrBlobDriverUnknown)
}
