package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/registry"
)

type fakeProcessor struct {
	name    string
	stage   plugin.Stage
	fail    bool
	strict  bool
	applied *bool
}

func (p *fakeProcessor) Name() string                         { return p.name }
func (p *fakeProcessor) Initialize(ctx context.Context) error { return nil }
func (p *fakeProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *fakeProcessor) ConcurrentSafe() bool                 { return true }
func (p *fakeProcessor) Stage() plugin.Stage                  { return p.stage }
func (p *fakeProcessor) Strict() bool                         { return p.strict }
func (p *fakeProcessor) Process(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig) error {
	if p.applied != nil {
		*p.applied = true
	}
	if p.fail {
		return errors.New("processor exploded")
	}
	return nil
}

func TestRunProcessorsAppliesRegisteredProcessor(t *testing.T) {
	reg := registry.New[plugin.Processor]()
	applied := false
	if err := reg.Register(context.Background(), &fakeProcessor{name: "p1", stage: plugin.StageCustom, applied: &applied}, 10); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	result := &model.ExtractionResult{}
	if err := RunProcessors(context.Background(), result, model.ExtractionConfig{}, reg); err != nil {
		t.Fatalf("RunProcessors error = %v", err)
	}
	if !applied {
		t.Error("expected processor to run")
	}
}

func TestRunProcessorsNonStrictFailureBecomesWarning(t *testing.T) {
	reg := registry.New[plugin.Processor]()
	if err := reg.Register(context.Background(), &fakeProcessor{name: "p1", stage: plugin.StageCustom, fail: true}, 10); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	result := &model.ExtractionResult{}
	if err := RunProcessors(context.Background(), result, model.ExtractionConfig{}, reg); err != nil {
		t.Fatalf("RunProcessors error = %v, want nil (non-strict failure is a warning)", err)
	}
	if len(result.ProcessingWarnings) != 1 {
		t.Errorf("ProcessingWarnings = %v, want one warning", result.ProcessingWarnings)
	}
}

func TestRunProcessorsStrictFailureIsFatal(t *testing.T) {
	reg := registry.New[plugin.Processor]()
	if err := reg.Register(context.Background(), &fakeProcessor{name: "p1", stage: plugin.StageCustom, fail: true, strict: true}, 10); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	result := &model.ExtractionResult{}
	if err := RunProcessors(context.Background(), result, model.ExtractionConfig{}, reg); err == nil {
		t.Error("expected a strict processor failure to be fatal")
	}
}

func TestRunProcessorsNilRegistryIsNoOp(t *testing.T) {
	if err := RunProcessors(context.Background(), &model.ExtractionResult{}, model.ExtractionConfig{}, nil); err != nil {
		t.Fatalf("RunProcessors error = %v", err)
	}
}
