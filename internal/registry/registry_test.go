package registry

import (
	"context"
	"testing"

	"github.com/adverant/docintel/internal/model"
)

type fakeExtractor struct {
	name        string
	mimes       []string
	initErr     error
	shutdownErr error
	shutdowns   *int
}

func (f *fakeExtractor) Name() string { return f.name }
func (f *fakeExtractor) Initialize(ctx context.Context) error { return f.initErr }
func (f *fakeExtractor) Shutdown(ctx context.Context) error {
	if f.shutdowns != nil {
		*f.shutdowns++
	}
	return f.shutdownErr
}
func (f *fakeExtractor) SupportedMimeTypes() []string { return f.mimes }
func (f *fakeExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	return &model.ExtractionResult{Content: string(data), MimeType: mimeType}, nil
}

func TestExtractorRegistryPriorityWins(t *testing.T) {
	r := NewExtractorRegistry()
	ctx := context.Background()

	low := &fakeExtractor{name: "low", mimes: []string{"text/csv"}}
	high := &fakeExtractor{name: "high", mimes: []string{"text/csv"}}

	if err := r.Register(ctx, low, PriorityPlainText); err != nil {
		t.Fatalf("Register(low) error = %v", err)
	}
	if err := r.Register(ctx, high, PriorityCSV); err != nil {
		t.Fatalf("Register(high) error = %v", err)
	}

	got, err := r.GetFor("text/csv")
	if err != nil {
		t.Fatalf("GetFor() error = %v", err)
	}
	if got.Name() != "high" {
		t.Errorf("GetFor() = %q, want %q", got.Name(), "high")
	}
}

func TestExtractorRegistryTieBreaksByRegistrationOrder(t *testing.T) {
	r := NewExtractorRegistry()
	ctx := context.Background()

	first := &fakeExtractor{name: "first", mimes: []string{"text/plain"}}
	second := &fakeExtractor{name: "second", mimes: []string{"text/plain"}}

	if err := r.Register(ctx, first, 50); err != nil {
		t.Fatalf("Register(first) error = %v", err)
	}
	if err := r.Register(ctx, second, 50); err != nil {
		t.Fatalf("Register(second) error = %v", err)
	}

	got, err := r.GetFor("text/plain")
	if err != nil {
		t.Fatalf("GetFor() error = %v", err)
	}
	if got.Name() != "first" {
		t.Errorf("GetFor() = %q, want %q (earlier registration should win a priority tie)", got.Name(), "first")
	}
}

func TestExtractorRegistryGetForUnregisteredMime(t *testing.T) {
	r := NewExtractorRegistry()
	if _, err := r.GetFor("application/x-nonexistent"); err == nil {
		t.Error("expected an UnsupportedFormat error for an unregistered MIME")
	}
}

func TestExtractorRegistryRejectsDuplicateActiveName(t *testing.T) {
	r := NewExtractorRegistry()
	ctx := context.Background()

	a := &fakeExtractor{name: "dup", mimes: []string{"text/plain"}}
	b := &fakeExtractor{name: "dup", mimes: []string{"text/plain"}}

	if err := r.Register(ctx, a, 50); err != nil {
		t.Fatalf("Register(a) error = %v", err)
	}
	if err := r.Register(ctx, b, 50); err == nil {
		t.Error("expected a Plugin error registering a duplicate active name")
	}
}

func TestExtractorRegistryRemoveCallsShutdownOnce(t *testing.T) {
	r := NewExtractorRegistry()
	ctx := context.Background()
	var shutdowns int

	e := &fakeExtractor{name: "e", mimes: []string{"text/plain"}, shutdowns: &shutdowns}
	if err := r.Register(ctx, e, 50); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Remove(ctx, "e"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if shutdowns != 1 {
		t.Errorf("shutdown called %d times, want 1", shutdowns)
	}

	if _, err := r.GetFor("text/plain"); err == nil {
		t.Error("expected GetFor to fail after the only extractor was removed")
	}
}

func TestExtractorRegistryShutdownAllRemovesEveryRegistration(t *testing.T) {
	r := NewExtractorRegistry()
	ctx := context.Background()

	var order []string
	makeExtractor := func(name string) *fakeExtractor {
		e := &fakeExtractor{name: name, mimes: []string{"text/plain"}}
		return e
	}
	a, b, c := makeExtractor("a"), makeExtractor("b"), makeExtractor("c")
	_ = r.Register(ctx, a, 50)
	_ = r.Register(ctx, b, 50)
	_ = r.Register(ctx, c, 50)

	// Track shutdown order via a closure-capturing wrapper isn't
	// available on fakeExtractor directly, so verify indirectly: after
	// ShutdownAll every registration must be gone.
	if err := r.ShutdownAll(ctx); err != nil {
		t.Fatalf("ShutdownAll() error = %v", err)
	}
	if len(r.List()) != 0 {
		t.Errorf("List() after ShutdownAll = %v, want empty", order)
	}
}

func TestExtractorRegistryInitializeFailureAbortsRegistration(t *testing.T) {
	r := NewExtractorRegistry()
	ctx := context.Background()

	e := &fakeExtractor{name: "broken", mimes: []string{"text/plain"}, initErr: errTestInit}
	if err := r.Register(ctx, e, 50); err == nil {
		t.Error("expected Register to fail when Initialize fails")
	}
	if _, err := r.GetFor("text/plain"); err == nil {
		t.Error("expected GetFor to find nothing after a failed registration")
	}
}

var errTestInit = &testErr{"init failed"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
