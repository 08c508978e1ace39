package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adverant/docintel/internal/model"
)

func TestPoolRunsWithinCapacity(t *testing.T) {
	p := New(2)
	defer p.Close()

	var active, maxActive int64
	fn := func(ctx context.Context) (*model.ExtractionResult, error) {
		n := atomic.AddInt64(&active, 1)
		for {
			cur := atomic.LoadInt64(&maxActive)
			if n <= cur || atomic.CompareAndSwapInt64(&maxActive, cur, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return &model.ExtractionResult{}, nil
	}

	fns := make([]ExtractFunc, 6)
	for i := range fns {
		fns[i] = fn
	}
	results, errs := p.SubmitBatch(context.Background(), fns)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("job %d failed: %v", i, err)
		}
		if results[i] == nil {
			t.Fatalf("job %d returned nil result", i)
		}
	}
	if atomic.LoadInt64(&maxActive) > 2 {
		t.Errorf("max concurrent active = %d, want <= 2", maxActive)
	}
}

func TestPoolPreservesBatchOrder(t *testing.T) {
	p := New(4)
	defer p.Close()

	fns := make([]ExtractFunc, 10)
	for i := range fns {
		i := i
		fns[i] = func(ctx context.Context) (*model.ExtractionResult, error) {
			delay := time.Duration(10-i) * time.Millisecond
			time.Sleep(delay)
			return &model.ExtractionResult{Content: string(rune('a' + i))}, nil
		}
	}
	results, _ := p.SubmitBatch(context.Background(), fns)
	for i, r := range results {
		want := string(rune('a' + i))
		if r.Content != want {
			t.Errorf("result[%d].Content = %q, want %q", i, r.Content, want)
		}
	}
}

func TestPoolStatsTracksCompletedAndFailed(t *testing.T) {
	p := New(2)
	defer p.Close()

	ok := func(ctx context.Context) (*model.ExtractionResult, error) {
		return &model.ExtractionResult{}, nil
	}
	bad := func(ctx context.Context) (*model.ExtractionResult, error) {
		return nil, errors.New("boom")
	}
	p.SubmitBatch(context.Background(), []ExtractFunc{ok, ok, bad})

	stats := p.Stats()
	if stats.CompletedJobs != 2 {
		t.Errorf("CompletedJobs = %d, want 2", stats.CompletedJobs)
	}
	if stats.FailedJobs != 1 {
		t.Errorf("FailedJobs = %d, want 1", stats.FailedJobs)
	}
	if stats.Capacity != 2 {
		t.Errorf("Capacity = %d, want 2", stats.Capacity)
	}
}

func TestPoolSubmitRespectsContextCancellation(t *testing.T) {
	p := New(1)
	defer p.Close()

	block := make(chan struct{})
	go p.Submit(context.Background(), func(ctx context.Context) (*model.ExtractionResult, error) {
		<-block
		return &model.ExtractionResult{}, nil
	})
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Submit(ctx, func(ctx context.Context) (*model.ExtractionResult, error) {
		return &model.ExtractionResult{}, nil
	})
	if err == nil {
		t.Error("expected context deadline error while pool is saturated")
	}
	close(block)
}

func TestPoolCloseWaitsForInflight(t *testing.T) {
	p := New(1)
	done := make(chan struct{})
	go func() {
		p.Submit(context.Background(), func(ctx context.Context) (*model.ExtractionResult, error) {
			time.Sleep(20 * time.Millisecond)
			return &model.ExtractionResult{}, nil
		})
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	p.Close()
	select {
	case <-done:
	default:
		t.Error("Close returned before in-flight work drained")
	}
}
