package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pptxapi/internal/config"
)

// fileStore implements ArtifactStore on the local filesystem: one blob file
// under files/ and one JSON metadata sidecar under metadata/ per artifact.
type fileStore struct {
	filesDir string
	metaDir  string
}

// NewFilesystem creates the local backend, ensuring both directories exist.
func NewFilesystem(cfg config.FilesConfig) (ArtifactStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	fs := &fileStore{
		filesDir: filepath.Join(cfg.Dir, "files"),
		metaDir:  filepath.Join(cfg.Dir, "metadata"),
	}
	for _, dir := range []string{fs.filesDir, fs.metaDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return fs, nil
}

func (fs *fileStore) blobPath(id string) string {
	return filepath.Join(fs.filesDir, id+objectSuffix)
}

func (fs *fileStore) metaPath(id string) string {
	return filepath.Join(fs.metaDir, id+".json")
}

func (fs *fileStore) Save(_ context.Context, data []byte, filename string) (string, error) {
	if filename == "" {
		filename = defaultFilename
	}
	id := uuid.NewString()

	meta, err := json.Marshal(Metadata{Filename: filename, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	if err := os.WriteFile(fs.blobPath(id), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := os.WriteFile(fs.metaPath(id), meta, 0o644); err != nil {
		// No partial artifact state: remove the blob again.
		if rmErr := os.Remove(fs.blobPath(id)); rmErr != nil {
			log.Printf("storage: rollback blob %s: %v", id, rmErr)
		}
		return "", fmt.Errorf("write metadata: %w", err)
	}
	return id, nil
}

func (fs *fileStore) Get(_ context.Context, id string) ([]byte, Metadata, error) {
	data, err := os.ReadFile(fs.blobPath(id))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("storage: read blob %s: %v", id, err)
		}
		return nil, Metadata{}, ErrNotFound
	}

	return data, fs.readMetadata(id), nil
}

// readMetadata parses the sidecar, defaulting filename and falling back to
// the blob's modification time when the sidecar is missing or unreadable.
func (fs *fileStore) readMetadata(id string) Metadata {
	meta := Metadata{Filename: defaultFilename}
	if info, err := os.Stat(fs.blobPath(id)); err == nil {
		meta.CreatedAt = info.ModTime()
	}

	raw, err := os.ReadFile(fs.metaPath(id))
	if err != nil {
		return meta
	}

	var parsed Metadata
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("storage: metadata for %s unreadable: %v", id, err)
		return meta
	}
	if parsed.Filename != "" {
		meta.Filename = parsed.Filename
	}
	if !parsed.CreatedAt.IsZero() {
		meta.CreatedAt = parsed.CreatedAt
	}
	return meta
}

func (fs *fileStore) Sweep(ctx context.Context, maxAgeHours int) error {
	cutoff := time.Now().Add(-time.Duration(maxAgeHours) * time.Hour)

	entries, err := os.ReadDir(fs.filesDir)
	if err != nil {
		return fmt.Errorf("list storage dir: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), objectSuffix) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), objectSuffix)

		if fs.readMetadata(id).CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(fs.blobPath(id)); err != nil {
			log.Printf("storage: sweep delete %s: %v", id, err)
			continue
		}
		if err := os.Remove(fs.metaPath(id)); err != nil && !os.IsNotExist(err) {
			log.Printf("storage: sweep delete metadata %s: %v", id, err)
		}
		log.Printf("storage: swept %s", id)
	}
	return nil
}

func (fs *fileStore) Ping(_ context.Context) error {
	for _, dir := range []string{fs.filesDir, fs.metaDir} {
		if _, err := os.Stat(dir); err != nil {
			return err
		}
	}
	return nil
}
