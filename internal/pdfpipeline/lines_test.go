package pdfpipeline

import (
	"testing"

	"github.com/adverant/docintel/internal/pdfdoc"
)

func plainSegment(text string, x, baselineY, fontSize float64) pdfdoc.Segment {
	return pdfdoc.Segment{Text: text, X: x, BaselineY: baselineY, FontSize: fontSize, Height: fontSize}
}

func TestSegmentsToLinesSingleLine(t *testing.T) {
	segments := []pdfdoc.Segment{
		plainSegment("Hello", 10, 700, 12),
		plainSegment("world", 55, 700, 12),
	}
	lines := segmentsToLines(segments)
	if len(lines) != 1 || len(lines[0].Segments) != 2 {
		t.Fatalf("got %+v, want 1 line with 2 segments", lines)
	}
}

func TestSegmentsToLinesTwoLines(t *testing.T) {
	segments := []pdfdoc.Segment{
		plainSegment("Line1", 10, 700, 12),
		plainSegment("Line2", 10, 680, 12),
	}
	lines := segmentsToLines(segments)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestSegmentsToLinesSortedLeftToRight(t *testing.T) {
	segments := []pdfdoc.Segment{
		plainSegment("second", 100, 700, 12),
		plainSegment("first", 10, 700, 12),
	}
	lines := segmentsToLines(segments)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Segments[0].Text != "first" || lines[0].Segments[1].Text != "second" {
		t.Errorf("segments not sorted left-to-right: %+v", lines[0].Segments)
	}
}

func TestSegmentsToLinesEmpty(t *testing.T) {
	if lines := segmentsToLines(nil); lines != nil {
		t.Errorf("expected nil for empty input, got %v", lines)
	}
}

func TestSegmentsToLinesBoldMajority(t *testing.T) {
	bold1 := plainSegment("Bold", 10, 700, 12)
	bold1.IsBold = true
	bold2 := plainSegment("Bold2", 55, 700, 12)
	bold2.IsBold = true
	normal := plainSegment("Normal", 100, 700, 12)

	lines := segmentsToLines([]pdfdoc.Segment{bold1, bold2, normal})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !lines[0].IsBold {
		t.Error("expected line IsBold=true (2 of 3 segments bold)")
	}
}

func TestIsCJKChar(t *testing.T) {
	cases := []struct {
		r    rune
		want bool
	}{
		{'一', true},
		{'あ', true},
		{'ア', true},
		{'A', false},
		{' ', false},
	}
	for _, c := range cases {
		if got := isCJK(c.r); got != c.want {
			t.Errorf("isCJK(%q) = %v, want %v", c.r, got, c.want)
		}
	}
}

func TestNeedsSpaceBetween(t *testing.T) {
	if !needsSpaceBetween("hello", "world") {
		t.Error("expected space between two latin words")
	}
	if needsSpaceBetween("一", "丁") {
		t.Error("expected no space between two CJK characters")
	}
	if !needsSpaceBetween("hello", "一") {
		t.Error("expected space between latin and CJK")
	}
}
