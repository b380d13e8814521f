package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pptxapi/internal/config"
)

const objectSuffix = ".pptx"

// User metadata keys; MinIO canonicalizes them, so lookups go through
// metadataValue.
const (
	metaFilename  = "Filename"
	metaCreatedAt = "Created-At"
)

// minioStore implements ArtifactStore on an S3-compatible backend.
// It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates the object storage backend. It validates connectivity
// and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (ArtifactStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

func (m *minioStore) Save(ctx context.Context, data []byte, filename string) (string, error) {
	if filename == "" {
		filename = defaultFilename
	}
	id := uuid.NewString()
	key := id + objectSuffix

	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType,
		UserMetadata: map[string]string{
			metaFilename:  filename,
			metaCreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return id, nil
}

func (m *minioStore) Get(ctx context.Context, id string) ([]byte, Metadata, error) {
	key := id + objectSuffix

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		log.Printf("storage: get %s: %v", key, err)
		return nil, Metadata{}, ErrNotFound
	}
	defer obj.Close()

	st, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			log.Printf("storage: stat %s: %v", key, err)
		}
		return nil, Metadata{}, ErrNotFound
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		log.Printf("storage: read %s: %v", key, err)
		return nil, Metadata{}, ErrNotFound
	}

	meta := Metadata{
		Filename:  metadataValue(st.UserMetadata, metaFilename),
		CreatedAt: st.LastModified,
	}
	if meta.Filename == "" {
		meta.Filename = key
	}
	if raw := metadataValue(st.UserMetadata, metaCreatedAt); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			meta.CreatedAt = ts
		}
	}
	return data, meta, nil
}

func (m *minioStore) Sweep(ctx context.Context, maxAgeHours int) error {
	cutoff := time.Now().Add(-time.Duration(maxAgeHours) * time.Hour)

	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return fmt.Errorf("list objects: %w", obj.Err)
		}

		createdAt := obj.LastModified
		st, err := m.client.StatObject(ctx, m.bucket, obj.Key, minio.StatObjectOptions{})
		if err != nil {
			log.Printf("storage: sweep stat %s: %v", obj.Key, err)
			continue
		}
		if raw := metadataValue(st.UserMetadata, metaCreatedAt); raw != "" {
			if ts, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
				createdAt = ts
			}
		}

		if createdAt.Before(cutoff) {
			if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
				log.Printf("storage: sweep delete %s: %v", obj.Key, err)
				continue
			}
			log.Printf("storage: swept %s (created %s)", obj.Key, createdAt.Format(time.RFC3339))
		}
	}
	return nil
}

func (m *minioStore) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %q does not exist", m.bucket)
	}
	return nil
}

// metadataValue looks a key up tolerating the header canonicalization S3
// gateways apply to user metadata.
func metadataValue(meta map[string]string, key string) string {
	if v, ok := meta[key]; ok {
		return v
	}
	for k, v := range meta {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
