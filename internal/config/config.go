package config

import (
	"os"
	"strconv"
	"time"
)

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FilesConfig holds settings for the local filesystem storage backend,
// used when the MinIO client cannot be initialized.
type FilesConfig struct {
	// Dir is the base directory; blobs go under Dir/files and metadata
	// sidecars under Dir/metadata.
	Dir string
}

// RenderConfig holds slide renderer settings.
type RenderConfig struct {
	// ImageFetchTimeout caps every remote image download.
	ImageFetchTimeout time.Duration
	// PlaceholderPath is the bundled image embedded when a fetch fails.
	PlaceholderPath string
	// StrictValidation rejects unknown slide/section type tags at decode
	// time instead of skipping them during rendering.
	StrictValidation bool
}

// RetentionConfig holds sweeper settings.
type RetentionConfig struct {
	// MaxAgeHours is the retention window for stored presentations.
	MaxAgeHours int
	// SweepInterval is the pause between sweep cycles.
	SweepInterval time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables and passed explicitly into
// every component; there is no package-level state.
type AppConfig struct {
	AppHost   string
	Port      string
	MinIO     MinIOConfig
	Files     FilesConfig
	Render    RenderConfig
	Retention RetentionConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "presentations"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Files: FilesConfig{
			Dir: getEnv("STORAGE_DIR", "storage"),
		},
		Render: RenderConfig{
			ImageFetchTimeout: time.Duration(getEnvInt("IMAGE_FETCH_TIMEOUT_SEC", 10)) * time.Second,
			PlaceholderPath:   getEnv("PLACEHOLDER_IMAGE", "assets/placeholder.png"),
			StrictValidation:  getEnv("VALIDATION_MODE", "lenient") == "strict",
		},
		Retention: RetentionConfig{
			MaxAgeHours:   getEnvInt("RETENTION_HOURS", 24),
			SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_MIN", 60)) * time.Minute,
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
