package pipeline

import (
	"context"
	"math"

	"github.com/adverant/docintel/internal/model"
)

// Embedder generates one embedding vector per input text, batched. A
// preset/fastembed/custom-model resolution all land on this interface;
// only the construction differs.
type Embedder interface {
	Dimensions() int
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Embed runs the embedding sub-stage of chunking: if cfg.Chunking has
// an Embedding sub-config and embedder is non-nil, batches
// result.Chunks' content through embedder and writes each chunk's
// Embedding field. A resolution or inference failure is non-fatal per
// the post-processing stage contract: it is recorded as a processing
// warning, the failing batch and every later batch are left without
// embeddings, and embeddings already written by earlier batches stay.
func Embed(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig, embedder Embedder) error {
	if cfg.Chunking == nil || cfg.Chunking.Embedding == nil || len(result.Chunks) == 0 {
		return nil
	}
	if embedder == nil {
		result.ProcessingWarnings = append(result.ProcessingWarnings,
			"embedding configured but no embedder is wired into the pipeline")
		return nil
	}

	batchSize := cfg.Chunking.Embedding.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	texts := make([]string, len(result.Chunks))
	for i, c := range result.Chunks {
		texts[i] = c.Content
	}

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			result.ProcessingWarnings = append(result.ProcessingWarnings,
				"embedding failed: "+err.Error())
			return nil
		}
		if len(vectors) != end-start {
			result.ProcessingWarnings = append(result.ProcessingWarnings,
				"embedding backend returned a mismatched vector count; embeddings left unset")
			return nil
		}
		for i, v := range vectors {
			if cfg.Chunking.Embedding.Normalize {
				v = normalizeL2(v)
			}
			result.Chunks[start+i].Embedding = v
		}
	}
	return nil
}

func normalizeL2(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return v
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
