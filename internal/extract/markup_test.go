package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

func TestMarkupExtractorConvertsHeadingsAndLists(t *testing.T) {
	html := "<h1>Title</h1><ul><li>one</li><li>two</li></ul><p>paragraph text</p>"
	e := NewMarkupExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(html), mimetype.HTML, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if !strings.Contains(result.Content, "# Title") {
		t.Errorf("Content = %q, want an h1 rendered as markdown", result.Content)
	}
	if !strings.Contains(result.Content, "paragraph text") {
		t.Errorf("Content = %q, want paragraph text preserved", result.Content)
	}
}
