// Package email implements the EML (RFC-822 multipart) and MSG
// (compound-file binary) extractors.
package email

import (
	"bytes"
	"context"

	"github.com/jhillyerd/enmime"
	"golang.org/x/text/encoding/unicode"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

// EMLExtractor parses RFC-822 (MIME multipart) email messages via
// enmime, preferring the plain-text body and falling back to the HTML
// body when no text part is present. UTF-16-with-BOM input (seen in
// some legacy Outlook exports) is transcoded to UTF-8 first, since
// enmime's header parser expects an ASCII-compatible envelope.
type EMLExtractor struct{}

func NewEMLExtractor() *EMLExtractor { return &EMLExtractor{} }

func (e *EMLExtractor) Name() string { return "eml-extractor" }

func (e *EMLExtractor) Initialize(ctx context.Context) error { return nil }

func (e *EMLExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *EMLExtractor) ConcurrentSafe() bool { return true }

func (e *EMLExtractor) SupportedMimeTypes() []string { return []string{mimetype.EML} }

func (e *EMLExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	data = decodeUTF16IfPresent(data)

	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, kerrors.NewParsingError("eml", err)
	}

	content := env.Text
	if content == "" {
		content = env.HTML
	}

	var warnings []string
	if content == "" {
		warnings = append(warnings, "message body is empty")
	}

	additional := map[string]interface{}{}
	if subject := env.GetHeader("Subject"); subject != "" {
		additional["subject"] = subject
	}
	if from := env.GetHeader("From"); from != "" {
		additional["from"] = from
	}
	if to := env.GetHeader("To"); to != "" {
		additional["to"] = to
	}

	for _, attachment := range env.Attachments {
		warnings = append(warnings, "attachment not extracted: "+attachment.FileName)
	}

	return &model.ExtractionResult{
		Content:  content,
		MimeType: mimeType,
		Metadata: model.Metadata{
			Additional: additional,
			Format:     &model.FormatMetadata{Kind: "email"},
		},
		ProcessingWarnings: warnings,
	}, nil
}

// decodeUTF16IfPresent transcodes a UTF-16 (LE or BE) BOM-prefixed
// message to UTF-8; anything else passes through unchanged.
func decodeUTF16IfPresent(data []byte) []byte {
	if len(data) < 2 {
		return data
	}
	var bomPolicy unicode.BOMPolicy
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		bomPolicy = unicode.ExpectBOM
	default:
		return data
	}

	decoder := unicode.UTF16(unicode.LittleEndian, bomPolicy).NewDecoder()
	out, err := decoder.Bytes(data)
	if err != nil {
		return data
	}
	return out
}
