package extract

import (
	"context"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

// MarkupExtractor converts HTML documents to markdown via
// html-to-markdown, registered at a higher priority than
// PlainTextExtractor so HTML is rendered structurally rather than
// passed through as raw markup.
type MarkupExtractor struct{}

func NewMarkupExtractor() *MarkupExtractor { return &MarkupExtractor{} }

func (e *MarkupExtractor) Name() string { return "markup-extractor" }

func (e *MarkupExtractor) Initialize(ctx context.Context) error { return nil }

func (e *MarkupExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *MarkupExtractor) ConcurrentSafe() bool { return true }

func (e *MarkupExtractor) SupportedMimeTypes() []string { return []string{mimetype.HTML} }

func (e *MarkupExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(data))
	if err != nil {
		return nil, kerrors.NewParsingError("html", err)
	}

	return &model.ExtractionResult{
		Content:  markdown,
		MimeType: mimeType,
	}, nil
}
