package pdfpipeline

import (
	"strings"
	"testing"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/pdfdoc"
)

func segWithStyle(text string, bold, italic bool) pdfdoc.Segment {
	s := plainSegment(text, 0, 700, 12)
	s.IsBold = bold
	s.IsItalic = italic
	return s
}

func renderToString(para Paragraph) string {
	var sb strings.Builder
	renderParagraph(para, &sb)
	return sb.String()
}

func TestRenderPlainParagraph(t *testing.T) {
	para := Paragraph{Lines: []Line{makeLine([]pdfdoc.Segment{
		segWithStyle("Hello", false, false),
		segWithStyle("world", false, false),
	}, 700, 12)}}
	if got := renderToString(para); got != "Hello world" {
		t.Errorf("got %q", got)
	}
}

func TestRenderHeading(t *testing.T) {
	para := Paragraph{
		HeadingLevel: 2,
		Lines:        []Line{makeLine([]pdfdoc.Segment{segWithStyle("Title", false, false)}, 700, 18)},
	}
	if got := renderToString(para); got != "## Title" {
		t.Errorf("got %q", got)
	}
}

func TestRenderBoldMarkup(t *testing.T) {
	para := Paragraph{Lines: []Line{makeLine([]pdfdoc.Segment{
		segWithStyle("bold", true, false),
		segWithStyle("text", true, false),
	}, 700, 12)}}
	if got := renderToString(para); got != "**bold text**" {
		t.Errorf("got %q", got)
	}
}

func TestRenderItalicMarkup(t *testing.T) {
	para := Paragraph{Lines: []Line{makeLine([]pdfdoc.Segment{segWithStyle("italic", false, true)}, 700, 12)}}
	if got := renderToString(para); got != "*italic*" {
		t.Errorf("got %q", got)
	}
}

func TestRenderBoldItalicMarkup(t *testing.T) {
	para := Paragraph{Lines: []Line{makeLine([]pdfdoc.Segment{segWithStyle("both", true, true)}, 700, 12)}}
	if got := renderToString(para); got != "***both***" {
		t.Errorf("got %q", got)
	}
}

func TestRenderMixedFormatting(t *testing.T) {
	para := Paragraph{Lines: []Line{makeLine([]pdfdoc.Segment{
		segWithStyle("normal", false, false),
		segWithStyle("bold", true, false),
		segWithStyle("normal2", false, false),
	}, 700, 12)}}
	if got := renderToString(para); got != "normal **bold** normal2" {
		t.Errorf("got %q", got)
	}
}

func TestRenderListItemNormalizesBullet(t *testing.T) {
	para := Paragraph{
		IsListItem: true,
		Lines:      []Line{makeLine([]pdfdoc.Segment{segWithStyle("• Item text", false, false)}, 700, 12)},
	}
	if got := renderToString(para); got != "- Item text" {
		t.Errorf("got %q", got)
	}
}

func TestRenderCodeBlockFencesLines(t *testing.T) {
	para := Paragraph{
		IsCodeBlock: true,
		Lines: []Line{
			makeLine([]pdfdoc.Segment{segWithStyle("fn main() {}", false, false)}, 700, 12),
		},
	}
	got := renderToString(para)
	if !strings.HasPrefix(got, "```\n") || !strings.HasSuffix(got, "```") {
		t.Errorf("expected fenced code block, got %q", got)
	}
}

func TestInjectImagePlaceholdersEmpty(t *testing.T) {
	if got := injectImagePlaceholders("Hello", nil); got != "Hello" {
		t.Errorf("got %q", got)
	}
}

func TestInjectImagePlaceholdersWithPage(t *testing.T) {
	page := 3
	images := []model.ExtractedImage{{ImageIndex: 0, PageNumber: &page}}
	got := injectImagePlaceholders("Body", images)
	if !strings.Contains(got, "page 3") {
		t.Errorf("expected page reference in %q", got)
	}
}

func TestInjectImagePlaceholdersWithOCRText(t *testing.T) {
	images := []model.ExtractedImage{{
		ImageIndex: 0,
		OcrResult:  &model.ExtractionResult{Content: "scanned text"},
	}}
	got := injectImagePlaceholders("Body", images)
	if !strings.Contains(got, "scanned text") {
		t.Errorf("expected OCR text in %q", got)
	}
}
