package pdfpipeline

import (
	"testing"

	"github.com/adverant/docintel/internal/pdfdoc"
)

func TestFilterStandalonePageNumbersRemovesIsolatedNumber(t *testing.T) {
	segments := []pdfdoc.Segment{
		plainSegment("Body text here", 10, 700, 12),
		plainSegment("42", 300, 50, 10),
	}
	filterStandalonePageNumbers(&segments)
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1 (standalone page number removed)", len(segments))
	}
	if segments[0].Text != "Body text here" {
		t.Errorf("wrong segment survived: %q", segments[0].Text)
	}
}

func TestFilterStandalonePageNumbersKeepsNumberSharingBaseline(t *testing.T) {
	segments := []pdfdoc.Segment{
		plainSegment("Section", 10, 700, 12),
		plainSegment("12", 200, 700, 12),
	}
	filterStandalonePageNumbers(&segments)
	if len(segments) != 2 {
		t.Errorf("got %d segments, want 2 (number shares a baseline with body text)", len(segments))
	}
}

func TestFilterStandalonePageNumbersKeepsLongNumbers(t *testing.T) {
	segments := []pdfdoc.Segment{plainSegment("20260729", 300, 50, 10)}
	filterStandalonePageNumbers(&segments)
	if len(segments) != 1 {
		t.Error("a long numeric run should not be treated as a page number")
	}
}

func TestFilterMarginAndArtifactsDropsTinyFont(t *testing.T) {
	segments := []pdfdoc.Segment{
		plainSegment("normal", 10, 400, 12),
		plainSegment("tiny", 10, 400, 2),
	}
	out := filterMarginAndArtifacts(segments)
	for _, s := range out {
		if s.Text == "tiny" {
			t.Error("segment below minFontSize should be dropped")
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	if !isAllDigits("123") {
		t.Error("expected true for all-digit string")
	}
	if isAllDigits("12a") {
		t.Error("expected false for mixed string")
	}
	if isAllDigits("") {
		t.Error("expected false for empty string")
	}
}
