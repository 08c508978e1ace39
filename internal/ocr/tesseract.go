package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/table"
)

// TesseractBackend runs OCR locally and offline via gosseract (a cgo
// binding over the Tesseract engine). A fresh gosseract client is
// created per call, matching the teacher's own tesseract_ocr.go, since
// gosseract clients are not documented as safe for concurrent reuse.
type TesseractBackend struct {
	Language string
}

func NewTesseractBackend(language string) *TesseractBackend {
	if language == "" {
		language = "eng"
	}
	return &TesseractBackend{Language: language}
}

func (b *TesseractBackend) Name() string { return "tesseract" }

func (b *TesseractBackend) BackendName() string { return "tesseract" }

func (b *TesseractBackend) Initialize(ctx context.Context) error { return nil }

func (b *TesseractBackend) Shutdown(ctx context.Context) error { return nil }

func (b *TesseractBackend) ConcurrentSafe() bool { return true }

func (b *TesseractBackend) Recognize(ctx context.Context, image []byte, language string) (string, error) {
	result, err := b.RecognizeDetailed(ctx, image, language)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (b *TesseractBackend) RecognizeDetailed(ctx context.Context, image []byte, language string) (Result, error) {
	if language == "" {
		language = b.Language
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return Result{}, kerrors.NewOcrError("tesseract", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return Result{}, kerrors.NewOcrError("tesseract", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, kerrors.NewOcrError("tesseract", err)
	}

	boxes, boxErr := client.GetBoundingBoxes(gosseract.RIL_WORD)

	var words []table.Word
	var confidence float64
	if boxErr == nil && len(boxes) > 0 {
		var confSum float64
		for _, box := range boxes {
			words = append(words, table.Word{
				Text:   box.Word,
				Left:   float64(box.Box.Min.X),
				Top:    float64(box.Box.Min.Y),
				Width:  float64(box.Box.Max.X - box.Box.Min.X),
				Height: float64(box.Box.Max.Y - box.Box.Min.Y),
			})
			confSum += box.Confidence
		}
		confidence = confSum / float64(len(boxes)) / 100.0
	} else {
		confidence = estimateConfidence(text)
	}

	return Result{Text: text, Confidence: confidence, Words: words}, nil
}

// estimateConfidence falls back to a text-quality heuristic (length,
// word count, alphabetic ratio) when the installed Tesseract build
// doesn't report per-word confidences, mirroring the teacher's
// calculateTesseractConfidence.
func estimateConfidence(text string) float64 {
	confidence := 0.5

	if len(text) > 1000 {
		confidence += 0.1
	}
	if len(text) > 5000 {
		confidence += 0.1
	}

	words := strings.Fields(text)
	if len(words) > 100 {
		confidence += 0.1
	}

	alphaCount := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alphaCount++
		}
	}
	if len(text) > 0 {
		alphaRatio := float64(alphaCount) / float64(len(text))
		if alphaRatio > 0.5 && alphaRatio < 0.9 {
			confidence += 0.1
		}
	}

	if confidence > 0.85 {
		confidence = 0.85
	}
	return confidence
}
