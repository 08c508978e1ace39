package pdfpipeline

import (
	"testing"

	"github.com/adverant/docintel/internal/pdfdoc"
)

func makeLine(segments []pdfdoc.Segment, baselineY, fontSize float64) Line {
	return Line{Segments: segments, BaselineY: baselineY, DominantFontSize: fontSize}
}

func TestLinesToParagraphsSingleLine(t *testing.T) {
	lines := []Line{makeLine([]pdfdoc.Segment{plainSegment("Hello world", 10, 700, 12)}, 700, 12)}
	paragraphs := linesToParagraphs(lines)
	if len(paragraphs) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paragraphs))
	}
}

func TestLinesToParagraphsGapDetection(t *testing.T) {
	lines := []Line{
		makeLine([]pdfdoc.Segment{plainSegment("Para 1", 10, 700, 12)}, 700, 12),
		makeLine([]pdfdoc.Segment{plainSegment("Still para 1", 10, 686, 12)}, 686, 12),
		makeLine([]pdfdoc.Segment{plainSegment("Para 2", 10, 640, 12)}, 640, 12),
	}
	paragraphs := linesToParagraphs(lines)
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2 (big gap before 'Para 2')", len(paragraphs))
	}
}

func TestLinesToParagraphsEmpty(t *testing.T) {
	if paragraphs := linesToParagraphs(nil); paragraphs != nil {
		t.Errorf("expected nil for empty input, got %v", paragraphs)
	}
}

func TestListItemDetectionBullet(t *testing.T) {
	lines := []Line{makeLine([]pdfdoc.Segment{plainSegment("- Item text", 10, 700, 12)}, 700, 12)}
	paragraphs := linesToParagraphs(lines)
	if !paragraphs[0].IsListItem {
		t.Error("expected IsListItem=true for bullet-prefixed line")
	}
}

func TestListItemDetectionNumbered(t *testing.T) {
	lines := []Line{makeLine([]pdfdoc.Segment{plainSegment("1. First item", 10, 700, 12)}, 700, 12)}
	paragraphs := linesToParagraphs(lines)
	if !paragraphs[0].IsListItem {
		t.Error("expected IsListItem=true for numbered-prefixed line")
	}
}

func TestNotListItem(t *testing.T) {
	lines := []Line{makeLine([]pdfdoc.Segment{plainSegment("Normal text", 10, 700, 12)}, 700, 12)}
	paragraphs := linesToParagraphs(lines)
	if paragraphs[0].IsListItem {
		t.Error("expected IsListItem=false for ordinary text")
	}
}

func TestMergeContinuationParagraphsJoinsUnterminatedBody(t *testing.T) {
	p1 := Paragraph{
		DominantFontSize: 12,
		Lines:            []Line{makeLine([]pdfdoc.Segment{plainSegment("continues without punctuation", 10, 700, 12)}, 700, 12)},
	}
	p2 := Paragraph{
		DominantFontSize: 12,
		Lines:            []Line{makeLine([]pdfdoc.Segment{plainSegment("second half.", 10, 686, 12)}, 686, 12)},
	}
	merged := mergeContinuationParagraphs([]Paragraph{p1, p2})
	if len(merged) != 1 {
		t.Fatalf("got %d paragraphs, want 1 merged paragraph", len(merged))
	}
	if len(merged[0].Lines) != 2 {
		t.Errorf("merged paragraph should carry both lines, got %d", len(merged[0].Lines))
	}
}

func TestMergeContinuationParagraphsStopsAtSentenceEnd(t *testing.T) {
	p1 := Paragraph{
		DominantFontSize: 12,
		Lines:            []Line{makeLine([]pdfdoc.Segment{plainSegment("Complete sentence.", 10, 700, 12)}, 700, 12)},
	}
	p2 := Paragraph{
		DominantFontSize: 12,
		Lines:            []Line{makeLine([]pdfdoc.Segment{plainSegment("New paragraph.", 10, 686, 12)}, 686, 12)},
	}
	merged := mergeContinuationParagraphs([]Paragraph{p1, p2})
	if len(merged) != 2 {
		t.Errorf("got %d paragraphs, want 2 (sentence terminator should block merge)", len(merged))
	}
}

func TestIsListPrefixVariants(t *testing.T) {
	cases := map[string]bool{
		"-":    true,
		"*":    true,
		"•":    true,
		"1.":   true,
		"2)":   true,
		"word": false,
		"":     false,
	}
	for text, want := range cases {
		if got := isListPrefix(text); got != want {
			t.Errorf("isListPrefix(%q) = %v, want %v", text, got, want)
		}
	}
}
