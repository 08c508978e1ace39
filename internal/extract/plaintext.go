package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

// PlainTextExtractor is the lowest-priority fallback extractor: it
// decodes UTF-8 (lossily, replacing invalid sequences) and passes the
// content through unchanged. It backstops every textual MIME tag that
// has no dedicated structured extractor (plain text, markdown, HTML,
// JSON, YAML, TOML, XML) so the registry never fails closed on a
// recognized-but-unstructured format.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor { return &PlainTextExtractor{} }

func (e *PlainTextExtractor) Name() string { return "plaintext-extractor" }

func (e *PlainTextExtractor) Initialize(ctx context.Context) error { return nil }

func (e *PlainTextExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *PlainTextExtractor) ConcurrentSafe() bool { return true }

func (e *PlainTextExtractor) SupportedMimeTypes() []string {
	return []string{
		mimetype.PlainText, mimetype.Markdown, mimetype.HTML,
		mimetype.JSON, mimetype.YAML, mimetype.TOML, mimetype.XML,
	}
}

func (e *PlainTextExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	var warnings []string
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "�")
		warnings = append(warnings, "input contained invalid UTF-8 sequences; replaced with U+FFFD")
	}

	return &model.ExtractionResult{
		Content:            content,
		MimeType:           mimeType,
		ProcessingWarnings: warnings,
	}, nil
}
