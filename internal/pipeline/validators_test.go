package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/registry"
)

type fakeValidator struct {
	name string
	fail bool
}

func (v *fakeValidator) Name() string                         { return v.name }
func (v *fakeValidator) Initialize(ctx context.Context) error { return nil }
func (v *fakeValidator) Shutdown(ctx context.Context) error   { return nil }
func (v *fakeValidator) ConcurrentSafe() bool                 { return true }
func (v *fakeValidator) Validate(ctx context.Context, result *model.ExtractionResult) error {
	if v.fail {
		return errors.New("content too short")
	}
	return nil
}

func TestRunValidatorsPassesWhenAllSucceed(t *testing.T) {
	reg := registry.New[plugin.Validator]()
	if err := reg.Register(context.Background(), &fakeValidator{name: "v1"}, 10); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := RunValidators(context.Background(), &model.ExtractionResult{}, reg); err != nil {
		t.Fatalf("RunValidators error = %v", err)
	}
}

func TestRunValidatorsFailureIsFatal(t *testing.T) {
	reg := registry.New[plugin.Validator]()
	if err := reg.Register(context.Background(), &fakeValidator{name: "v1", fail: true}, 10); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := RunValidators(context.Background(), &model.ExtractionResult{}, reg); err == nil {
		t.Error("expected a failing validator to fail the whole extraction")
	}
}

func TestRunValidatorsNilRegistryIsNoOp(t *testing.T) {
	if err := RunValidators(context.Background(), &model.ExtractionResult{}, nil); err != nil {
		t.Fatalf("RunValidators error = %v", err)
	}
}
