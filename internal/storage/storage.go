// Package storage persists rendered presentation artifacts under generated
// identifiers. Two backends implement the same contract: S3-compatible
// object storage (MinIO) and the local filesystem. The backend is selected
// once at process start.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for unknown identifiers. Backend read
// errors are logged and reported the same way: callers cannot distinguish
// a missing artifact from a broken backend at this boundary.
var ErrNotFound = errors.New("presentation not found")

// ContentType is the MIME type of a PPTX file.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// defaultFilename is used when stored metadata is missing or unreadable.
const defaultFilename = "presentation.pptx"

// Metadata is the per-artifact record kept alongside the blob.
type Metadata struct {
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtifactStore is the presentation artifact store. Artifacts are immutable
// once saved; the only transitions are save, any number of gets, and
// deletion by sweep.
type ArtifactStore interface {
	// Save writes the blob and its metadata under a fresh random
	// identifier and returns that identifier. On error no identifier is
	// returned and no partial artifact remains.
	Save(ctx context.Context, data []byte, filename string) (string, error)
	// Get returns the blob and metadata for an identifier, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, Metadata, error)
	// Sweep deletes every artifact older than maxAgeHours, judging age by
	// stored creation time and falling back to last-modified when that is
	// unavailable. Per-artifact failures are logged and skipped.
	Sweep(ctx context.Context, maxAgeHours int) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
