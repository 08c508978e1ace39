/**
 * Runtime/service configuration for docintel.
 *
 * This is distinct from ExtractionConfig (file.go): ServiceConfig is the
 * process-wide environment the engine runs in (cache root, distributed
 * pool broker, job store DSN, vector sink URL) and is loaded once at
 * startup from environment variables, matching the teacher worker's
 * env-only config.Config.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServiceConfig holds process-wide runtime configuration.
type ServiceConfig struct {
	// CacheDir overrides the platform-default cache root (KREUZBERG_CACHE_DIR).
	CacheDir string

	// Distributed worker-pool broker (optional; in-process pool used when empty).
	RedisURL string

	// Job store (optional; batch job status is not recorded when empty).
	DatabaseURL string

	// Vector sink for chunk embeddings (optional).
	QdrantURL        string
	QdrantCollection string

	// Embedding backend.
	EmbeddingAPIKey string
	EmbeddingAPIURL string

	// Remote/custom OCR backend (optional HTTP vision service).
	RemoteOCRURL string

	// Tesseract backend.
	TesseractPath string

	WorkerConcurrency int
	MaxFileSize       int64
	ProcessingTimeout int // milliseconds

	TempDir string
	Env     string
}

// LoadServiceConfig loads ServiceConfig from environment variables. Every
// field is optional except those with hard platform requirements (none,
// here — unlike the teacher, nothing in this engine requires external
// services to be reachable at startup; distributed features degrade to
// their in-process equivalent when unconfigured).
func LoadServiceConfig() (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		CacheDir:          getEnvOrDefault("KREUZBERG_CACHE_DIR", ""),
		RedisURL:          getEnvOrDefault("DOCINTEL_REDIS_URL", ""),
		DatabaseURL:       getEnvOrDefault("DOCINTEL_DATABASE_URL", ""),
		QdrantURL:         getEnvOrDefault("DOCINTEL_QDRANT_URL", ""),
		QdrantCollection:  getEnvOrDefault("DOCINTEL_QDRANT_COLLECTION", "docintel_chunks"),
		EmbeddingAPIKey:   getEnvOrDefault("DOCINTEL_EMBEDDING_API_KEY", ""),
		EmbeddingAPIURL:   getEnvOrDefault("DOCINTEL_EMBEDDING_API_URL", ""),
		RemoteOCRURL:      getEnvOrDefault("DOCINTEL_REMOTE_OCR_URL", ""),
		TesseractPath:     getEnvOrDefault("TESSERACT_PATH", "/usr/bin/tesseract"),
		WorkerConcurrency: getEnvAsIntOrDefault("DOCINTEL_WORKER_CONCURRENCY", 10),
		MaxFileSize:       getEnvAsInt64OrDefault("DOCINTEL_MAX_FILE_SIZE", 5368709120), // 5GB
		ProcessingTimeout: getEnvAsIntOrDefault("DOCINTEL_PROCESSING_TIMEOUT", 300000),  // 5 minutes
		TempDir:           getEnvOrDefault("TEMP_DIR", os.TempDir()),
		Env:               getEnvOrDefault("NODE_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("service configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the bounded fields of ServiceConfig.
func (c *ServiceConfig) Validate() error {
	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 1000 {
		return fmt.Errorf("DOCINTEL_WORKER_CONCURRENCY must be between 1 and 1000, got %d", c.WorkerConcurrency)
	}

	if c.MaxFileSize < 1024 || c.MaxFileSize > 10737418240 { // 1KB to 10GB
		return fmt.Errorf("DOCINTEL_MAX_FILE_SIZE must be between 1KB and 10GB, got %d", c.MaxFileSize)
	}

	return nil
}

// UsesDistributedPool reports whether a Redis broker is configured for
// the asynq-backed worker pool.
func (c *ServiceConfig) UsesDistributedPool() bool {
	return c.RedisURL != ""
}

// UsesJobStore reports whether a Postgres DSN is configured for
// persistent batch job status.
func (c *ServiceConfig) UsesJobStore() bool {
	return c.DatabaseURL != ""
}

// UsesVectorStore reports whether a Qdrant URL is configured for chunk
// embedding persistence.
func (c *ServiceConfig) UsesVectorStore() bool {
	return c.QdrantURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
