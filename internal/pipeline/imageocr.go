package pipeline

import (
	"context"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/ocr"
)

// AugmentImagesWithOCR runs the image-OCR-augmentation stage (C7.4):
// if cfg.OCR is set and result.Images is non-empty, each image is
// passed to backend and the OCR text wrapped into a nested
// ExtractionResult on the image's OcrResult field. An individual
// image's OCR failure does not fail the document; that image's
// OcrResult is simply left nil, matching the shared
// process_images_with_ocr helper the original extractors call into.
func AugmentImagesWithOCR(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig, backend ocr.DetailedBackend) error {
	if cfg.OCR == nil || len(result.Images) == 0 {
		return nil
	}
	if backend == nil {
		result.ProcessingWarnings = append(result.ProcessingWarnings,
			"OCR configured but no backend is wired into the pipeline")
		return nil
	}

	for i := range result.Images {
		img := &result.Images[i]
		recognized, err := backend.RecognizeDetailed(ctx, img.Data, cfg.OCR.Language)
		if err != nil {
			img.OcrResult = nil
			continue
		}
		img.OcrResult = &model.ExtractionResult{
			Content:  recognized.Text,
			MimeType: "text/plain",
			Metadata: model.Metadata{
				Format: &model.FormatMetadata{
					Kind: "ocr",
					Ocr: &model.OcrMeta{
						Backend:    backend.BackendName(),
						Confidence: recognized.Confidence,
					},
				},
			},
		}
	}
	return nil
}
