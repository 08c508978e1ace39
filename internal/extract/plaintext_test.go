package extract

import (
	"context"
	"testing"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

func TestPlainTextExtractorPassesThroughValidUTF8(t *testing.T) {
	e := NewPlainTextExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte("hello world"), mimetype.PlainText, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if result.Content != "hello world" {
		t.Errorf("Content = %q", result.Content)
	}
	if len(result.ProcessingWarnings) != 0 {
		t.Errorf("ProcessingWarnings = %v, want none", result.ProcessingWarnings)
	}
}

func TestPlainTextExtractorWarnsOnInvalidUTF8(t *testing.T) {
	e := NewPlainTextExtractor()
	data := []byte{'h', 'i', 0xFF, 0xFE}
	result, err := e.ExtractBytes(context.Background(), data, mimetype.PlainText, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if len(result.ProcessingWarnings) == 0 {
		t.Error("expected a warning for invalid UTF-8 input")
	}
}

func TestPlainTextExtractorSupportsMarkdownAndJSON(t *testing.T) {
	e := NewPlainTextExtractor()
	mimes := e.SupportedMimeTypes()
	want := map[string]bool{mimetype.Markdown: true, mimetype.JSON: true}
	for _, m := range mimes {
		delete(want, m)
	}
	if len(want) != 0 {
		t.Errorf("missing supported mime types: %v", want)
	}
}
