package extract

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/ocr"
)

// ImageExtractor handles a document whose MIME tag is itself an image
// (JPEG/PNG/GIF/BMP/TIFF/WEBP, as opposed to an image embedded inside a
// PDF or office document, which the respective extractor collects into
// Images directly). Dimensions are read via disintegration/imaging;
// content is populated by running the resolved OCR backend, when one is
// configured for this extractor, the same way C7's image-OCR-
// augmentation stage runs it for embedded images.
type ImageExtractor struct {
	Backend ocr.DetailedBackend
}

func NewImageExtractor(backend ocr.DetailedBackend) *ImageExtractor {
	return &ImageExtractor{Backend: backend}
}

func (e *ImageExtractor) Name() string { return "image-extractor" }

func (e *ImageExtractor) Initialize(ctx context.Context) error { return nil }

func (e *ImageExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *ImageExtractor) ConcurrentSafe() bool { return true }

func (e *ImageExtractor) SupportedMimeTypes() []string {
	return []string{
		mimetype.JPEG, mimetype.PNG, mimetype.GIF,
		mimetype.BMP, mimetype.TIFF, mimetype.WEBP,
	}
}

func (e *ImageExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	width, height := decodeDimensions(data, mimeType)

	var warnings []string
	var content string
	var confidence *float64

	if cfg.OCR != nil && e.Backend != nil {
		language := cfg.OCR.Language
		result, ocrErr := e.Backend.RecognizeDetailed(ctx, data, language)
		if ocrErr != nil {
			warnings = append(warnings, "OCR failed: "+ocrErr.Error())
		} else {
			content = result.Text
			confidence = &result.Confidence
		}
	} else if cfg.OCR != nil {
		warnings = append(warnings, "OCR configured but no backend is wired into the image extractor")
	}

	additional := map[string]interface{}{}
	if confidence != nil {
		additional["ocr_backend"] = string(cfg.OCR.Backend)
		additional["ocr_confidence"] = *confidence
	}

	return &model.ExtractionResult{
		Content:  content,
		MimeType: mimeType,
		Metadata: model.Metadata{
			Format: &model.FormatMetadata{
				Kind:  "image",
				Image: &model.ImageMeta{Width: width, Height: height},
			},
			Additional: additional,
		},
		ProcessingWarnings: warnings,
	}, nil
}

// decodeDimensions reports an image's pixel dimensions, or 0,0 if the
// bytes can't be decoded. WEBP is decoded via golang.org/x/image/webp
// directly, since disintegration/imaging's Decode (which already
// covers JPEG/PNG/GIF/BMP/TIFF through its own registered formats)
// does not register a WEBP decoder.
func decodeDimensions(data []byte, mimeType string) (int, int) {
	var img image.Image
	var err error
	if mimeType == mimetype.WEBP {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return 0, 0
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}
