package email

import (
	"context"
	"strings"
	"testing"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

const sampleEML = "From: alice@example.com\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: Test message\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Hello, this is the body.\r\n"

func TestEMLExtractorParsesTextBody(t *testing.T) {
	e := NewEMLExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(sampleEML), mimetype.EML, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if !strings.Contains(result.Content, "Hello, this is the body.") {
		t.Errorf("Content = %q, want body text", result.Content)
	}
	if result.Metadata.Additional["subject"] != "Test message" {
		t.Errorf("subject = %v, want %q", result.Metadata.Additional["subject"], "Test message")
	}
}

func TestEMLExtractorWarnsOnEmptyBody(t *testing.T) {
	raw := "From: a@example.com\r\nTo: b@example.com\r\nSubject: empty\r\n\r\n"
	e := NewEMLExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(raw), mimetype.EML, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	found := false
	for _, w := range result.ProcessingWarnings {
		if strings.Contains(w, "empty") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an empty-body warning, got %v", result.ProcessingWarnings)
	}
}

func TestDecodeUTF16IfPresentPassesThroughPlainASCII(t *testing.T) {
	data := []byte(sampleEML)
	out := decodeUTF16IfPresent(data)
	if string(out) != sampleEML {
		t.Error("expected plain ASCII input to pass through unchanged")
	}
}

func TestUTF16LEToString(t *testing.T) {
	// "Hi" in UTF-16LE.
	raw := []byte{'H', 0, 'i', 0}
	if got := utf16LEToString(raw); got != "Hi" {
		t.Errorf("utf16LEToString = %q, want %q", got, "Hi")
	}
}

func TestDecodeMAPIStringDispatchesByStreamSuffix(t *testing.T) {
	if got := decodeMAPIString("__substg1.0_0037001E", []byte("ansi text")); got != "ansi text" {
		t.Errorf("ANSI stream = %q", got)
	}
	raw := []byte{'H', 0, 'i', 0}
	if got := decodeMAPIString("__substg1.0_0037001F", raw); got != "Hi" {
		t.Errorf("Unicode stream = %q, want %q", got, "Hi")
	}
}
