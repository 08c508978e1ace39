package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adverant/docintel/internal/jobstore"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/pool"
)

// ExtractFile is the async entry point: extraction runs on the calling
// goroutine and passes ctx to the extractor and the post-processing
// stages (OCR/embedding calls). The file read and cache I/O do not take
// ctx.
func (e *Engine) ExtractFile(ctx context.Context, path string, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return e.extractFromFile(ctx, path, mimeHint, cfg)
}

// ExtractFileSync drives the identical pipeline on an uncancellable
// background context, guaranteeing output identical to ExtractFile
// for the same inputs, the spec's "sync entry points drive the same
// pipeline on the calling thread... guaranteeing identical output".
func (e *Engine) ExtractFileSync(path string, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return e.extractFromFile(context.Background(), path, mimeHint, cfg)
}

// ExtractBytes is the async, in-memory-input counterpart to ExtractFile.
func (e *Engine) ExtractBytes(ctx context.Context, data []byte, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return e.extractFromBytes(ctx, data, mimeHint, cfg)
}

// ExtractBytesSync is the uncancellable counterpart to ExtractBytes.
func (e *Engine) ExtractBytesSync(data []byte, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return e.extractFromBytes(context.Background(), data, mimeHint, cfg)
}

// BatchExtractFile extracts every path, returning results in input
// order regardless of completion order, bounded by
// cfg.MaxConcurrentExtractions (default: available parallelism). When
// ServiceConfig named a Redis broker, each path is submitted to the
// distributed pool instead of the in-process one, and, when a job
// store is also configured, its status is recorded as the job
// transitions from queued to completed/failed, matching the spec's
// batch job tracking supplement.
func (e *Engine) BatchExtractFile(ctx context.Context, paths []string, mimeHint string, cfg model.ExtractionConfig) ([]*model.ExtractionResult, []error) {
	if e.distPool != nil {
		return e.batchViaDistributedPool(ctx, len(paths), func(i int) (*model.ExtractionResult, error) {
			return e.extractFromFile(ctx, paths[i], mimeHint, cfg)
		})
	}

	p := pool.New(concurrencyBound(cfg))
	defer p.Close()

	fns := make([]pool.ExtractFunc, len(paths))
	for i, path := range paths {
		path := path
		fns[i] = func(ctx context.Context) (*model.ExtractionResult, error) {
			return e.extractFromFile(ctx, path, mimeHint, cfg)
		}
	}
	return p.SubmitBatch(ctx, fns)
}

// BatchExtractBytes is the in-memory-input counterpart to
// BatchExtractFile.
func (e *Engine) BatchExtractBytes(ctx context.Context, contents [][]byte, mimeHint string, cfg model.ExtractionConfig) ([]*model.ExtractionResult, []error) {
	if e.distPool != nil {
		return e.batchViaDistributedPool(ctx, len(contents), func(i int) (*model.ExtractionResult, error) {
			return e.extractFromBytes(ctx, contents[i], mimeHint, cfg)
		})
	}

	p := pool.New(concurrencyBound(cfg))
	defer p.Close()

	fns := make([]pool.ExtractFunc, len(contents))
	for i, data := range contents {
		data := data
		fns[i] = func(ctx context.Context) (*model.ExtractionResult, error) {
			return e.extractFromBytes(ctx, data, mimeHint, cfg)
		}
	}
	return p.SubmitBatch(ctx, fns)
}

// batchViaDistributedPool runs n jobs through the Redis-backed pool
// concurrently, each under its own job ID, recording status transitions
// in the job store when one is configured. Results preserve input order
// the same way the in-process path does, since each job writes directly
// into its own index.
func (e *Engine) batchViaDistributedPool(ctx context.Context, n int, run func(i int) (*model.ExtractionResult, error)) ([]*model.ExtractionResult, []error) {
	results := make([]*model.ExtractionResult, n)
	errs := make([]error, n)

	type outcome struct {
		i   int
		err error
	}
	done := make(chan outcome, n)

	for i := 0; i < n; i++ {
		i := i
		jobID := uuid.NewString()
		e.recordJobStatus(ctx, jobID, jobstore.StatusQueued, 0, nil)
		go func() {
			start := time.Now()
			result, err := e.distPool.Submit(ctx, jobID, func(ctx context.Context) (*model.ExtractionResult, error) {
				e.recordJobStatus(ctx, jobID, jobstore.StatusProcessing, 0, nil)
				return run(i)
			})
			results[i] = result
			errs[i] = err
			elapsed := time.Since(start).Milliseconds()
			if err != nil {
				e.recordJobStatus(ctx, jobID, jobstore.StatusFailed, elapsed, err)
			} else {
				e.recordJobStatus(ctx, jobID, jobstore.StatusCompleted, elapsed, nil)
			}
			done <- outcome{i: i}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
	return results, errs
}

// recordJobStatus is a no-op when no job store is configured.
func (e *Engine) recordJobStatus(ctx context.Context, jobID string, status jobstore.Status, processingTimeMs int64, cause error) {
	if e.jobStore == nil {
		return
	}
	update := jobstore.JobUpdate{JobID: jobID, Status: status, ProcessingTimeMs: processingTimeMs}
	if status == jobstore.StatusCompleted {
		update.Progress = 1
	}
	if cause != nil {
		update.ErrorMessage = cause.Error()
	}
	_ = e.jobStore.Upsert(ctx, update)
}

func concurrencyBound(cfg model.ExtractionConfig) int {
	if cfg.MaxConcurrentExtractions != nil {
		return *cfg.MaxConcurrentExtractions
	}
	return 0
}

// CreatePool creates an explicit worker pool sized to size (0 =
// available parallelism). Callers that want a long-lived pool across
// many ExtractInPool calls, rather than the implicit one-shot pool
// BatchExtractFile/BatchExtractBytes create and close internally, use
// this.
func (e *Engine) CreatePool(size int) *pool.Pool {
	return pool.New(size)
}

// ExtractInPool submits one file extraction to an explicitly created
// pool, waiting for a free slot.
func (e *Engine) ExtractInPool(ctx context.Context, p *pool.Pool, path, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return p.Submit(ctx, func(ctx context.Context) (*model.ExtractionResult, error) {
		return e.extractFromFile(ctx, path, mimeHint, cfg)
	})
}

// ExtractBytesInPool is ExtractInPool's in-memory-input counterpart.
func (e *Engine) ExtractBytesInPool(ctx context.Context, p *pool.Pool, data []byte, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return p.Submit(ctx, func(ctx context.Context) (*model.ExtractionResult, error) {
		return e.extractFromBytes(ctx, data, mimeHint, cfg)
	})
}

// PoolStats reports a pool's current utilization and lifetime counters.
func PoolStats(p *pool.Pool) pool.Stats {
	return p.Stats()
}

// ClosePool closes a pool, waiting for in-flight work to drain.
func ClosePool(p *pool.Pool) error {
	return p.Close()
}
