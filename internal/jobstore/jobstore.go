// Package jobstore persists batch-extraction job status to Postgres
// when the service is configured with a DatabaseURL. It is an optional
// collaborator: batch_extract_file/batch_extract_bytes work without
// it, but callers that want durable job tracking across process
// restarts wire a Store in.
package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

// Status is the lifecycle state of one batch job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// JobUpdate is an upsert of one job's current status.
type JobUpdate struct {
	JobID            string
	Status           Status
	Progress         float64 // 0.0-1.0
	ProcessingTimeMs int64
	ErrorMessage     string
	ResultCount      int
	Metadata         map[string]interface{}
}

// sanitizeProgress clamps and rounds progress to 4 decimal places,
// matching the bounded-precision handling the teacher's client applies
// to its confidence column (unbounded float precision otherwise trips
// Postgres NUMERIC casting).
func sanitizeProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return float64(int(p*10000+0.5)) / 10000
}

// Store persists job status in Postgres.
type Store struct {
	db *sql.DB
}

// New opens a connection pool against databaseURL and verifies
// connectivity. Pool sizing mirrors the teacher's tuning: a handful of
// idle connections is enough for status-update traffic.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("jobstore: database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("jobstore: opening database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("jobstore: pinging database: %w", err)
	}

	return &Store{db: db}, nil
}

// Upsert creates the job row on first status update and updates it on
// every subsequent call, so callers don't need a separate "create"
// step before the first progress report.
func (s *Store) Upsert(ctx context.Context, update JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("jobstore: job ID is required")
	}
	if update.Status == "" {
		return fmt.Errorf("jobstore: status is required")
	}

	metadataJSON, err := json.Marshal(update.Metadata)
	if err != nil {
		return fmt.Errorf("jobstore: marshaling metadata: %w", err)
	}
	progress := sanitizeProgress(update.Progress)

	query := `
		INSERT INTO docintel.extraction_jobs (
			id, status, progress, processing_time_ms, error_message,
			result_count, metadata, created_at, updated_at
		) VALUES (
			$1, $2, $3::NUMERIC(5,4), NULLIF($4, 0), NULLIF($5, ''),
			$6, COALESCE($7::jsonb, '{}'::jsonb), NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			progress = EXCLUDED.progress,
			processing_time_ms = COALESCE(NULLIF(EXCLUDED.processing_time_ms, 0), docintel.extraction_jobs.processing_time_ms),
			error_message = COALESCE(NULLIF(EXCLUDED.error_message, ''), docintel.extraction_jobs.error_message),
			result_count = EXCLUDED.result_count,
			metadata = COALESCE(EXCLUDED.metadata, docintel.extraction_jobs.metadata),
			updated_at = NOW()
	`
	_, err = s.db.ExecContext(ctx, query,
		update.JobID,
		string(update.Status),
		progress,
		update.ProcessingTimeMs,
		update.ErrorMessage,
		update.ResultCount,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("jobstore: upserting job %s: %w", update.JobID, err)
	}
	return nil
}

// JobRecord is a row read back from the store.
type JobRecord struct {
	JobID            string
	Status           Status
	Progress         float64
	ProcessingTimeMs int64
	ErrorMessage     string
	ResultCount      int
	Metadata         map[string]interface{}
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Get retrieves a job's current status.
func (s *Store) Get(ctx context.Context, jobID string) (*JobRecord, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobstore: job ID is required")
	}

	query := `
		SELECT id, status, progress, processing_time_ms, error_message,
		       result_count, metadata, created_at, updated_at
		FROM docintel.extraction_jobs
		WHERE id = $1
	`
	var (
		rec              JobRecord
		status           string
		progress         sql.NullFloat64
		processingTimeMs sql.NullInt64
		errorMessage     sql.NullString
		metadataJSON     []byte
	)
	err := s.db.QueryRowContext(ctx, query, jobID).Scan(
		&rec.JobID, &status, &progress, &processingTimeMs, &errorMessage,
		&rec.ResultCount, &metadataJSON, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("jobstore: job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("jobstore: getting job %s: %w", jobID, err)
	}

	rec.Status = Status(status)
	if progress.Valid {
		rec.Progress = progress.Float64
	}
	if processingTimeMs.Valid {
		rec.ProcessingTimeMs = processingTimeMs.Int64
	}
	if errorMessage.Valid {
		rec.ErrorMessage = errorMessage.String
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("jobstore: unmarshaling metadata for job %s: %w", jobID, err)
		}
	}
	return &rec, nil
}

// StoreEmbeddingRef records that a batch of chunk embeddings for a job
// landed in the vector store, keyed by the vector IDs used there, so a
// job record can be cross-referenced with vectorstore contents without
// duplicating the vectors themselves in Postgres.
func (s *Store) StoreEmbeddingRef(ctx context.Context, jobID string, vectorIDs []string) error {
	if jobID == "" {
		return fmt.Errorf("jobstore: job ID is required")
	}
	query := `
		INSERT INTO docintel.job_vector_refs (job_id, vector_ids, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (job_id) DO UPDATE SET vector_ids = EXCLUDED.vector_ids
	`
	_, err := s.db.ExecContext(ctx, query, jobID, pq.Array(vectorIDs))
	if err != nil {
		return fmt.Errorf("jobstore: storing embedding refs for job %s: %w", jobID, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Stats returns connection pool statistics for observability.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}
