// Package ocr implements the OCR backend plugins registered under C8's
// OCR-backend registry: tesseract (local, offline, via gosseract),
// remote (an HTTP vision service, in the shape of the teacher's
// MageAgent client), and null (a no-op fallback for when OCR is
// configured but no concrete backend applies).
package ocr

import (
	"context"

	"github.com/adverant/docintel/internal/plugin"
	"github.com/adverant/docintel/internal/table"
)

// Result is the detailed outcome of one Recognize call: the recognized
// text, an overall confidence score, and (where the backend can report
// them) per-word bounding boxes in image coordinates, reusable directly
// by the table reconstructor against a scanned-image table.
type Result struct {
	Text       string
	Confidence float64
	Words      []table.Word
}

// DetailedBackend is implemented by every backend in this package.
// plugin.OCRBackend's plain-text Recognize method is satisfied trivially
// by discarding Result's confidence and word-box fields; callers that
// need those (the image-OCR-augmentation stage, the table reconstructor)
// call RecognizeDetailed directly.
type DetailedBackend interface {
	plugin.OCRBackend
	RecognizeDetailed(ctx context.Context, image []byte, language string) (Result, error)
}
