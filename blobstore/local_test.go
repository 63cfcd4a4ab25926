package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skfactor/internal/fs"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Create a blob
	blobName := "runs/sk-001.skf"
	data := []byte("hello world, this is a test blob for skfactor")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(tmpDir, "runs", "sk-001.skf"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(tmpDir, "runs", "sk-001.skf"+tmpSuffix))
	require.True(t, os.IsNotExist(err))

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. ReadRange
	rangeReader, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	defer rangeReader.Close()

	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.Equal(t, "this", string(rangeContent))

	// 4. List
	require.NoError(t, store.Put(ctx, "runs/sk-002.skf", []byte("x")))
	require.NoError(t, store.Put(ctx, "other.skf", []byte("y")))

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	require.Equal(t, []string{"runs/sk-001.skf", "runs/sk-002.skf"}, names)

	// 5. Delete
	require.NoError(t, store.Delete(ctx, blobName))
	require.NoError(t, store.Delete(ctx, blobName))

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"other.skf", "runs/sk-002.skf"}, names)

	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	r, err := blob.ReadRange(ctx, 0, 10)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	require.True(t, bytes.Equal(data, content))

	r, err = blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))
	r.Close()

	_, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)
}

func TestLocalBlobStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalBlobStore_FailedWriteKeepsOldBlob(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, NewLocalStore(tmpDir).Put(ctx, "result.skf", []byte("old")))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(tmpSuffix, fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	store := NewLocalStore(tmpDir, WithFileSystem(ffs))

	err := store.Put(ctx, "result.skf", []byte("new"))
	require.ErrorIs(t, err, fs.ErrInjected)

	got, err := ReadAll(ctx, store, "result.skf")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"result.skf"}, names)
}

func TestLocalBlobStore_WriteAfterClose(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	w, err := store.Create(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorIs(t, w.Close(), os.ErrClosed)
}
