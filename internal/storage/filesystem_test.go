package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pptxapi/internal/config"
)

func newFileStore(t *testing.T) *fileStore {
	t.Helper()
	store, err := NewFilesystem(config.FilesConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	return store.(*fileStore)
}

func TestFilesystemSaveGetRoundTrip(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	id, err := fs.Save(ctx, []byte("pptx bytes"), "x.pptx")
	require.NoError(t, err)
	require.NoError(t, uuid.Validate(id))

	data, meta, err := fs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("pptx bytes"), data)
	assert.Equal(t, "x.pptx", meta.Filename)
	assert.WithinDuration(t, time.Now(), meta.CreatedAt, 5*time.Second)
}

func TestFilesystemSaveDefaultsFilename(t *testing.T) {
	fs := newFileStore(t)

	id, err := fs.Save(context.Background(), []byte("b"), "")
	require.NoError(t, err)

	_, meta, err := fs.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "presentation.pptx", meta.Filename)
}

func TestFilesystemGetUnknownID(t *testing.T) {
	fs := newFileStore(t)

	_, _, err := fs.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemGetWithUnreadableMetadata(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	id, err := fs.Save(ctx, []byte("b"), "named.pptx")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.metaPath(id), []byte("{not json"), 0o644))

	data, meta, err := fs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)
	assert.Equal(t, "presentation.pptx", meta.Filename)
	// Falls back to the blob's modification time.
	assert.False(t, meta.CreatedAt.IsZero())
}

func TestFilesystemSweep(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	oldID, err := fs.Save(ctx, []byte("old"), "old.pptx")
	require.NoError(t, err)
	freshID, err := fs.Save(ctx, []byte("fresh"), "fresh.pptx")
	require.NoError(t, err)

	// Age the first artifact via its sidecar.
	stale, err := json.Marshal(Metadata{Filename: "old.pptx", CreatedAt: time.Now().Add(-48 * time.Hour)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.metaPath(oldID), stale, 0o644))

	require.NoError(t, fs.Sweep(ctx, 24))

	_, _, err = fs.Get(ctx, oldID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = os.Stat(fs.metaPath(oldID))
	assert.True(t, os.IsNotExist(err))

	_, _, err = fs.Get(ctx, freshID)
	assert.NoError(t, err)
}

func TestFilesystemSweepUsesModTimeWithoutSidecar(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	id, err := fs.Save(ctx, []byte("b"), "x.pptx")
	require.NoError(t, err)
	require.NoError(t, os.Remove(fs.metaPath(id)))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(fs.blobPath(id), old, old))

	require.NoError(t, fs.Sweep(ctx, 24))

	_, _, err = fs.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemSweepIdempotent(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	id, err := fs.Save(ctx, []byte("b"), "x.pptx")
	require.NoError(t, err)
	stale, err := json.Marshal(Metadata{Filename: "x.pptx", CreatedAt: time.Now().Add(-48 * time.Hour)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.metaPath(id), stale, 0o644))

	require.NoError(t, fs.Sweep(ctx, 24))

	before, err := os.ReadDir(fs.filesDir)
	require.NoError(t, err)

	// Second sweep with no new artifacts deletes nothing further.
	require.NoError(t, fs.Sweep(ctx, 24))

	after, err := os.ReadDir(fs.filesDir)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestFilesystemSweepIgnoresForeignFiles(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	foreign := filepath.Join(fs.filesDir, "README.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0o644))
	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(foreign, old, old))

	require.NoError(t, fs.Sweep(ctx, 24))

	_, err := os.Stat(foreign)
	assert.NoError(t, err)
}

func TestFilesystemPing(t *testing.T) {
	fs := newFileStore(t)
	assert.NoError(t, fs.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(fs.filesDir))
	assert.Error(t, fs.Ping(context.Background()))
}
