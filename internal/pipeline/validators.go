package pipeline

import (
	"context"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/registry"
)

// RunValidators invokes every registered validator against the final
// result, in priority order. Any validator failure is fatal: it stops
// at the first failing validator and returns a Validation error,
// unlike processors, which only ever degrade to a warning.
func RunValidators(ctx context.Context, result *model.ExtractionResult, reg *registry.Registry[plugin.Validator]) error {
	if reg == nil {
		return nil
	}
	for _, v := range reg.List() {
		var validateErr error
		runErr := reg.WithSerialization(v.Name(), func(validator plugin.Validator) error {
			validateErr = validator.Validate(ctx, result)
			return nil
		})
		if runErr != nil {
			return runErr
		}
		if validateErr != nil {
			return kerrors.NewValidationError("validator \""+v.Name()+"\" rejected the result", validateErr)
		}
	}
	return nil
}
