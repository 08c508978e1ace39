package pipeline

import (
	"context"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/ocr"
	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/registry"
)

// Dependencies are the runtime-resolved collaborators the pipeline
// drives; any of them may be nil, in which case the stage that needs
// it degrades to a no-op or warning rather than failing (OCR/embedder
// resolution from cfg happens in the orchestrator, one layer up).
type Dependencies struct {
	Embedder   Embedder
	OCRBackend ocr.DetailedBackend
	Processors *registry.Registry[plugin.Processor]
	Validators *registry.Registry[plugin.Validator]
}

// Run drives the full C7 post-processing pipeline over result in
// spec order: chunking, embeddings, language detection, image OCR
// augmentation, custom processors, validators, and finally the
// supplemented keyword-extraction stage. Stages are sequential within
// one document; batch-level parallelism across documents is the
// concurrency orchestrator's concern (C9), not this package's.
func Run(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig, deps Dependencies) error {
	if err := Chunk(ctx, result, cfg); err != nil {
		return err
	}
	if err := Embed(ctx, result, cfg, deps.Embedder); err != nil {
		return err
	}
	if err := DetectLanguage(ctx, result, cfg); err != nil {
		return err
	}
	if err := AugmentImagesWithOCR(ctx, result, cfg, deps.OCRBackend); err != nil {
		return err
	}
	if err := RunProcessors(ctx, result, cfg, deps.Processors); err != nil {
		return err
	}
	if err := RunValidators(ctx, result, deps.Validators); err != nil {
		return err
	}
	if err := ExtractKeywords(ctx, result, cfg); err != nil {
		return err
	}
	return nil
}
