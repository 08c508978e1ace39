package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/ocr"
)

type fakeOCR struct {
	name     string
	text     string
	perImage map[int]error
	calls    int
}

func (f *fakeOCR) Name() string                                   { return f.name }
func (f *fakeOCR) BackendName() string                             { return f.name }
func (f *fakeOCR) Initialize(ctx context.Context) error            { return nil }
func (f *fakeOCR) Shutdown(ctx context.Context) error               { return nil }
func (f *fakeOCR) Recognize(ctx context.Context, image []byte, language string) (string, error) {
	return f.text, nil
}
func (f *fakeOCR) RecognizeDetailed(ctx context.Context, image []byte, language string) (ocr.Result, error) {
	idx := f.calls
	f.calls++
	if err, ok := f.perImage[idx]; ok {
		return ocr.Result{}, err
	}
	return ocr.Result{Text: f.text, Confidence: 0.9}, nil
}

func TestAugmentImagesWithOCRNoOpWithoutConfig(t *testing.T) {
	result := &model.ExtractionResult{Images: []model.ExtractedImage{{Data: []byte("x")}}}
	if err := AugmentImagesWithOCR(context.Background(), result, model.ExtractionConfig{}, &fakeOCR{}); err != nil {
		t.Fatalf("AugmentImagesWithOCR error = %v", err)
	}
	if result.Images[0].OcrResult != nil {
		t.Error("expected OcrResult to remain nil without OCR configured")
	}
}

func TestAugmentImagesWithOCRAttachesResult(t *testing.T) {
	result := &model.ExtractionResult{Images: []model.ExtractedImage{{Data: []byte("x")}, {Data: []byte("y")}}}
	cfg := model.ExtractionConfig{OCR: &model.OCRConfig{Backend: model.OCRBackendTesseract, Language: "eng"}}
	backend := &fakeOCR{name: "tesseract", text: "scanned"}
	if err := AugmentImagesWithOCR(context.Background(), result, cfg, backend); err != nil {
		t.Fatalf("AugmentImagesWithOCR error = %v", err)
	}
	for i, img := range result.Images {
		if img.OcrResult == nil || img.OcrResult.Content != "scanned" {
			t.Errorf("image %d OcrResult = %v, want attached content", i, img.OcrResult)
		}
	}
}

func TestAugmentImagesWithOCRPerImageFailureIsNonFatal(t *testing.T) {
	result := &model.ExtractionResult{Images: []model.ExtractedImage{{Data: []byte("x")}, {Data: []byte("y")}}}
	cfg := model.ExtractionConfig{OCR: &model.OCRConfig{Backend: model.OCRBackendTesseract}}
	backend := &fakeOCR{name: "tesseract", text: "scanned", perImage: map[int]error{0: errors.New("decode failed")}}
	if err := AugmentImagesWithOCR(context.Background(), result, cfg, backend); err != nil {
		t.Fatalf("AugmentImagesWithOCR error = %v, want nil (per-image failure is non-fatal)", err)
	}
	if result.Images[0].OcrResult != nil {
		t.Error("expected first image's OcrResult to remain nil after its OCR failure")
	}
	if result.Images[1].OcrResult == nil {
		t.Error("expected second image to still be OCR'd")
	}
}
