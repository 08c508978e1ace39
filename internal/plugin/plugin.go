// Package plugin declares the four extension-point interfaces the
// engine dispatches to at runtime: document extractors, post-processors,
// validators, and OCR backends (C8). The registries that hold them live
// in internal/registry.
package plugin

import (
	"context"

	"github.com/adverant/docintel/internal/model"
)

// Plugin is the lifecycle contract every registrable component
// implements. Initialize runs once, synchronously, before the plugin is
// considered Active; a failing Initialize aborts registration.
// Shutdown runs exactly once, when the plugin is removed or the
// registry drains.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ThreadSafe is implemented by plugins that may be invoked concurrently
// by the registry. A plugin that does not implement this interface is
// treated as single-threaded and the registry serializes calls to it.
type ThreadSafe interface {
	ConcurrentSafe() bool
}

// Extractor produces an initial ExtractionResult from raw bytes for one
// or more MIME families (C4).
type Extractor interface {
	Plugin
	SupportedMimeTypes() []string
	ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error)
}

// FileExtractor is optionally implemented by extractors with a
// zero-copy path-based entry point (e.g. memory-mapped PDF reads).
type FileExtractor interface {
	Extractor
	ExtractFile(ctx context.Context, path string, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error)
}

// Stage identifies where in the C7 pipeline a Processor runs.
type Stage string

const (
	StageChunking          Stage = "chunking"
	StageEmbedding         Stage = "embedding"
	StageLanguageDetection Stage = "language_detection"
	StageImageOCR          Stage = "image_ocr"
	StageCustom            Stage = "custom"
)

// Processor mutates an ExtractionResult in place as part of the C7
// post-processing pipeline.
type Processor interface {
	Plugin
	Stage() Stage
	Process(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig) error
}

// Validator inspects a finished ExtractionResult and reports a
// non-fatal problem by appending to ProcessingWarnings, or a fatal one
// by returning an error.
type Validator interface {
	Plugin
	Validate(ctx context.Context, result *model.ExtractionResult) error
}

// OCRBackend renders an image to text. Backend implementations are
// registered by name ("tesseract", "paddle", "easy", or a custom name).
type OCRBackend interface {
	Plugin
	BackendName() string
	Recognize(ctx context.Context, image []byte, language string) (string, error)
}
