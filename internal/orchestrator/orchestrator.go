// Package orchestrator implements the C9 public facade: the
// extract_file/extract_bytes family, their sync/async and
// single/batch variants, and the worker-pool API. It is the only
// package that wires together C1 (mimetype), C2 (cache), C3/C8
// (registries), C4/C5/C6 (extractors), and C7 (pipeline) into one
// callable surface.
package orchestrator

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/adverant/docintel/internal/cache"
	"github.com/adverant/docintel/internal/config"
	"github.com/adverant/docintel/internal/extract"
	"github.com/adverant/docintel/internal/extract/archive"
	"github.com/adverant/docintel/internal/extract/email"
	"github.com/adverant/docintel/internal/extract/office"
	"github.com/adverant/docintel/internal/jobstore"
	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/logging"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/ocr"
	"github.com/adverant/docintel/internal/pipeline"
	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/pool"
	"github.com/adverant/docintel/internal/registry"
	"github.com/adverant/docintel/internal/vectorstore"
)

// Engine is the assembled extraction service: every built-in extractor
// and OCR backend registered, a content-addressed cache, and whichever
// optional collaborators (distributed pool, job store, vector sink)
// the ServiceConfig enabled.
type Engine struct {
	extractors  *registry.ExtractorRegistry
	processors  *registry.Registry[plugin.Processor]
	validators  *registry.Registry[plugin.Validator]
	ocrBackends *registry.Registry[plugin.OCRBackend]

	resultCache *cache.Cache
	embedder    pipeline.Embedder
	defaultOCR  ocr.DetailedBackend

	// distPool, jobStore, and vecStore are optional C9/C7 supplements,
	// wired only when ServiceConfig names a broker/DSN/URL for them;
	// every call site treats a nil value as "use the in-process
	// equivalent" rather than failing.
	distPool *pool.DistributedPool
	jobStore *jobstore.Store
	vecStore *vectorstore.Store

	logger *logging.Logger
}

// New builds an Engine from svcCfg: registers every built-in extractor
// at its C3 priority, every available OCR backend, and opens the
// extraction-result cache. Post-processors and validators start empty;
// callers add custom ones via RegisterProcessor/RegisterValidator
// before the first extraction, matching C8's open registration model.
func New(ctx context.Context, svcCfg *config.ServiceConfig) (*Engine, error) {
	e := &Engine{
		extractors:  registry.NewExtractorRegistry(),
		processors:  registry.New[plugin.Processor](),
		validators:  registry.New[plugin.Validator](),
		ocrBackends: registry.New[plugin.OCRBackend](),
		logger:      logging.NewLogger("orchestrator"),
	}

	ocrBackend, err := e.registerOCRBackends(ctx, svcCfg)
	if err != nil {
		return nil, err
	}
	e.defaultOCR = ocrBackend
	if err := e.registerExtractors(ctx, ocrBackend); err != nil {
		return nil, err
	}

	root, err := cache.DefaultRoot(svcCfg.CacheDir)
	if err != nil {
		return nil, err
	}
	resultCache, err := cache.New(root, cache.KindExtraction, 0)
	if err != nil {
		return nil, err
	}
	e.resultCache = resultCache

	if svcCfg.EmbeddingAPIURL != "" {
		e.embedder = pipeline.NewHTTPEmbedder(svcCfg.EmbeddingAPIURL, model.EmbeddingModelType{
			Kind: "preset",
			Name: "balanced",
		})
	}

	if svcCfg.UsesDistributedPool() {
		distPool, err := pool.NewDistributed(pool.DistributedConfig{
			RedisURL:          svcCfg.RedisURL,
			QueueName:         "docintel_extraction",
			Concurrency:       svcCfg.WorkerConcurrency,
			ProcessingTimeout: time.Duration(svcCfg.ProcessingTimeout) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		if err := distPool.Start(ctx); err != nil {
			return nil, err
		}
		e.distPool = distPool
	}

	if svcCfg.UsesJobStore() {
		store, err := jobstore.New(ctx, svcCfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		e.jobStore = store
	}

	if svcCfg.UsesVectorStore() {
		dims := 768
		if e.embedder != nil {
			dims = e.embedder.Dimensions()
		}
		vecStore, err := vectorstore.New(svcCfg.QdrantURL, svcCfg.QdrantCollection, dims)
		if err != nil {
			return nil, err
		}
		e.vecStore = vecStore
	}

	return e, nil
}

func (e *Engine) registerOCRBackends(ctx context.Context, svcCfg *config.ServiceConfig) (ocr.DetailedBackend, error) {
	null := ocr.NewNullBackend(string(model.OCRBackendCustom) + "-null")
	if err := e.ocrBackends.Register(ctx, null, 0); err != nil {
		return nil, err
	}

	var active ocr.DetailedBackend = null
	if svcCfg.TesseractPath != "" {
		tess := ocr.NewTesseractBackend("eng")
		if err := e.ocrBackends.Register(ctx, tess, 20); err != nil {
			return nil, err
		}
		active = tess
	}
	if svcCfg.RemoteOCRURL != "" {
		remote := ocr.NewRemoteBackend("remote", svcCfg.RemoteOCRURL)
		if err := e.ocrBackends.Register(ctx, remote, 10); err != nil {
			return nil, err
		}
		if svcCfg.TesseractPath == "" {
			active = remote
		}
	}
	return active, nil
}

// ocrBackendFor resolves the OCR backend named by cfg.OCR.Backend,
// falling back to whichever backend registerOCRBackends picked as
// default when the name isn't registered (e.g. "paddle"/"easy" are
// declared in the config model but have no built-in implementation).
func (e *Engine) ocrBackendFor(cfg model.ExtractionConfig, fallback ocr.DetailedBackend) ocr.DetailedBackend {
	if cfg.OCR == nil || cfg.OCR.Backend == "" {
		return fallback
	}
	p, ok := e.ocrBackends.Get(string(cfg.OCR.Backend))
	if !ok {
		return fallback
	}
	detailed, ok := p.(ocr.DetailedBackend)
	if !ok {
		return fallback
	}
	return detailed
}

func (e *Engine) registerExtractors(ctx context.Context, ocrBackend ocr.DetailedBackend) error {
	type reg struct {
		extractor plugin.Extractor
		priority  int
	}
	regs := []reg{
		{extract.NewCSVExtractor(), registry.PriorityCSV},
		{extract.NewMarkupExtractor(), registry.PriorityMarkup},
		{extract.NewPlainTextExtractor(), registry.PriorityPlainText},
		{extract.NewPDFExtractor(), registry.PriorityPDF},
		{office.NewDOCXExtractor(), registry.PriorityDOCX},
		{office.NewPPTXExtractor(), registry.PriorityPPTX},
		{office.NewXLSXExtractor(), registry.PriorityXLSX},
		{archive.NewExtractor(), registry.PriorityArchive},
		{email.NewEMLExtractor(), registry.PriorityEmail},
		{email.NewMSGExtractor(), registry.PriorityEmail},
		{extract.NewImageExtractor(ocrBackend), registry.PriorityImage},
	}
	for _, r := range regs {
		if err := e.extractors.Register(ctx, r.extractor, r.priority); err != nil {
			return err
		}
	}
	return nil
}

// RegisterProcessor adds a custom C7-stage processor at priority.
func (e *Engine) RegisterProcessor(ctx context.Context, p plugin.Processor, priority int) error {
	return e.processors.Register(ctx, p, priority)
}

// RegisterValidator adds a custom result validator at priority.
func (e *Engine) RegisterValidator(ctx context.Context, v plugin.Validator, priority int) error {
	return e.validators.Register(ctx, v, priority)
}

// Shutdown releases every registered extractor, processor, validator,
// and OCR backend, and closes whichever optional collaborators New
// opened.
func (e *Engine) Shutdown(ctx context.Context) error {
	var firstErrVal error
	for _, shutdown := range []func(context.Context) error{
		e.extractors.ShutdownAll,
		e.processors.ShutdownAll,
		e.validators.ShutdownAll,
		e.ocrBackends.ShutdownAll,
	} {
		if err := shutdown(ctx); err != nil && firstErrVal == nil {
			firstErrVal = err
		}
	}
	if e.distPool != nil {
		if err := e.distPool.Close(); err != nil && firstErrVal == nil {
			firstErrVal = err
		}
	}
	if e.jobStore != nil {
		if err := e.jobStore.Close(); err != nil && firstErrVal == nil {
			firstErrVal = err
		}
	}
	if e.vecStore != nil {
		if err := e.vecStore.Close(); err != nil && firstErrVal == nil {
			firstErrVal = err
		}
	}
	return firstErrVal
}

// extractFromBytes runs the full single-document pipeline: cache
// lookup, extractor dispatch, C7 post-processing, cache store.
func (e *Engine) extractFromBytes(ctx context.Context, data []byte, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	mime, err := e.resolveMime(data, "", mimeHint)
	if err != nil {
		return nil, err
	}

	var cacheKey string
	if cfg.UseCache {
		contentHash := cache.HashContent(data)
		configHash, err := cache.HashConfig(cfg)
		if err == nil {
			cacheKey = cache.Key(contentHash, configHash)
			if cached, ok, lookupErr := e.resultCache.Lookup(cacheKey); lookupErr == nil && ok {
				return cached, nil
			}
		}
	}

	extractor, err := e.extractors.GetFor(mime)
	if err != nil {
		return nil, err
	}

	result, err := extractor.ExtractBytes(ctx, data, mime, cfg)
	if err != nil {
		return nil, err
	}

	if err := e.runPostProcessing(ctx, result, cfg); err != nil {
		return nil, err
	}
	e.persistChunkVectors(ctx, result)

	if cacheKey != "" {
		if err := e.resultCache.Store(cacheKey, result); err != nil {
			result.ProcessingWarnings = append(result.ProcessingWarnings, "cache store failed: "+err.Error())
		}
	}
	return result, nil
}

// extractFromFile runs the same pipeline as extractFromBytes but
// prefers an extractor's zero-copy FileExtractor path when it
// implements one (PDFExtractor does, to avoid re-reading a file pdfcpu
// already opened by path).
func (e *Engine) extractFromFile(ctx context.Context, path, mimeHint string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerrors.NewIoError("failed to read file: "+path, err)
	}

	mime, err := e.resolveMime(data, path, mimeHint)
	if err != nil {
		return nil, err
	}

	var cacheKey string
	if cfg.UseCache {
		contentHash := cache.HashContent(data)
		configHash, err := cache.HashConfig(cfg)
		if err == nil {
			cacheKey = cache.Key(contentHash, configHash)
			if cached, ok, lookupErr := e.resultCache.Lookup(cacheKey); lookupErr == nil && ok {
				return cached, nil
			}
		}
	}

	extractor, err := e.extractors.GetFor(mime)
	if err != nil {
		return nil, err
	}

	var result *model.ExtractionResult
	if fe, ok := extractor.(plugin.FileExtractor); ok {
		result, err = fe.ExtractFile(ctx, path, mime, cfg)
	} else {
		result, err = extractor.ExtractBytes(ctx, data, mime, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := e.runPostProcessing(ctx, result, cfg); err != nil {
		return nil, err
	}
	e.persistChunkVectors(ctx, result)

	if cacheKey != "" {
		if err := e.resultCache.Store(cacheKey, result); err != nil {
			result.ProcessingWarnings = append(result.ProcessingWarnings, "cache store failed: "+err.Error())
		}
	}
	return result, nil
}

func (e *Engine) runPostProcessing(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig) error {
	backend := e.ocrBackendFor(cfg, e.defaultOCR)
	return pipeline.Run(ctx, result, cfg, pipeline.Dependencies{
		Embedder:   e.embedder,
		OCRBackend: backend,
		Processors: e.processors,
		Validators: e.validators,
	})
}

// persistChunkVectors upserts every embedded chunk into the optional
// vector sink. Failures are recorded as processing warnings rather than
// aborting the extraction: vector persistence is a side effect of a
// successful extraction, not a precondition for one.
func (e *Engine) persistChunkVectors(ctx context.Context, result *model.ExtractionResult) {
	if e.vecStore == nil || len(result.Chunks) == 0 {
		return
	}
	docID := uuid.NewString()
	vectors := make([]*vectorstore.ChunkVector, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		vectors = append(vectors, &vectorstore.ChunkVector{
			ID:         uuid.NewString(),
			Vector:     chunk.Embedding,
			DocumentID: docID,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
		})
	}
	if len(vectors) == 0 {
		return
	}
	if err := e.vecStore.UpsertBatch(ctx, vectors); err != nil {
		result.ProcessingWarnings = append(result.ProcessingWarnings, "vector store upsert failed: "+err.Error())
	}
}

func (e *Engine) resolveMime(data []byte, path, hint string) (string, error) {
	if hint != "" {
		return mimetype.Validate(hint)
	}
	if path != "" {
		if m, err := mimetype.DetectFromPath(path, true, data); err == nil {
			return m, nil
		}
	}
	return mimetype.DetectFromBytes(data)
}
