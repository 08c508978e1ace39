package pipeline

import (
	"context"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/registry"
)

// Strict is optionally implemented by a Processor to demand that its
// own failures fail the whole extraction rather than degrading to a
// processing warning.
type Strict interface {
	Strict() bool
}

// RunProcessors invokes every registered custom post-processor in
// priority order (registry.Registry[T] already orders by descending
// priority, ties broken by registration order) against result. A
// processor's error becomes a processing warning unless the processor
// implements Strict and returns true, in which case it fails the
// whole extraction.
func RunProcessors(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig, reg *registry.Registry[plugin.Processor]) error {
	if reg == nil {
		return nil
	}
	for _, p := range reg.List() {
		var err error
		runErr := reg.WithSerialization(p.Name(), func(proc plugin.Processor) error {
			err = proc.Process(ctx, result, cfg)
			return nil
		})
		if runErr != nil {
			return runErr
		}
		if err == nil {
			continue
		}
		if strict, ok := p.(Strict); ok && strict.Strict() {
			return kerrors.NewPluginError(p.Name(), "strict processor failed", err)
		}
		result.ProcessingWarnings = append(result.ProcessingWarnings,
			kerrors.NewPluginError(p.Name(), "processor failed", err).Error())
	}
	return nil
}
