package email

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

// These prefixes name the Outlook MSG compound-file property
// streams this extractor reads to the metadata/content role they fill.
// Property stream names are prefixed with their MAPI property tag;
// 001F is Unicode (UTF-16LE), 001E is ANSI.
const (
	bodyStreamPrefix    = "__substg1.0_1000"
	subjectStreamPrefix = "__substg1.0_0037"
	senderStreamPrefix  = "__substg1.0_0C1A"
)

// MSGExtractor reads Outlook MSG files (OLE/CFB compound documents) by
// walking their stream tree with mscfb and pulling the well-known MAPI
// property streams for body, subject, and sender.
type MSGExtractor struct{}

func NewMSGExtractor() *MSGExtractor { return &MSGExtractor{} }

func (e *MSGExtractor) Name() string { return "msg-extractor" }

func (e *MSGExtractor) Initialize(ctx context.Context) error { return nil }

func (e *MSGExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *MSGExtractor) ConcurrentSafe() bool { return true }

func (e *MSGExtractor) SupportedMimeTypes() []string { return []string{mimetype.MSG} }

func (e *MSGExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, kerrors.NewParsingError("msg", err)
	}

	var body, subject, sender string
	for entry, err := doc.Next(); err == nil && entry != nil; entry, err = doc.Next() {
		name := entry.Name
		raw, readErr := io.ReadAll(entry)
		if readErr != nil {
			continue
		}
		switch {
		case strings.HasPrefix(name, bodyStreamPrefix):
			body = decodeMAPIString(name, raw)
		case strings.HasPrefix(name, subjectStreamPrefix):
			subject = decodeMAPIString(name, raw)
		case strings.HasPrefix(name, senderStreamPrefix):
			sender = decodeMAPIString(name, raw)
		}
	}

	var warnings []string
	if body == "" {
		warnings = append(warnings, "message body stream not found or empty")
	}

	additional := map[string]interface{}{}
	if subject != "" {
		additional["subject"] = subject
	}
	if sender != "" {
		additional["from"] = sender
	}

	return &model.ExtractionResult{
		Content:  body,
		MimeType: mimeType,
		Metadata: model.Metadata{
			Additional: additional,
			Format:     &model.FormatMetadata{Kind: "email"},
		},
		ProcessingWarnings: warnings,
	}, nil
}

// decodeMAPIString decodes a MAPI property stream's payload: streams
// ending in "001F" (Unicode) are UTF-16LE, "001E" (ANSI/string8) are
// read as-is (already single-byte text in practice for the fixtures
// this targets).
func decodeMAPIString(streamName string, raw []byte) string {
	if strings.HasSuffix(streamName, "001F") {
		return utf16LEToString(raw)
	}
	return string(raw)
}

func utf16LEToString(raw []byte) string {
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])|uint16(raw[i+1])<<8)
	}
	return string(utf16.Decode(units))
}
