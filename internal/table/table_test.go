package table

import (
	"strings"
	"testing"
)

// gridWords lays out a rows x cols grid of short numeric-looking cells
// at regular pixel spacing, mimicking hOCR word boxes for a real table.
func gridWords(rows, cols int) []Word {
	var words []Word
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			text := "Header"
			if r > 0 {
				text = "12"
			}
			words = append(words, Word{
				Text:   text,
				Left:   float64(c) * 120,
				Top:    float64(r) * 20,
				Width:  40,
				Height: 14,
			})
		}
	}
	return words
}

func TestReconstructProducesExpectedGridShape(t *testing.T) {
	words := gridWords(4, 4)
	grid := Reconstruct(words, 50, 0.5)
	if len(grid) != 4 {
		t.Fatalf("got %d rows, want 4", len(grid))
	}
	for i, row := range grid {
		if len(row) != 4 {
			t.Errorf("row %d has %d cols, want 4", i, len(row))
		}
	}
}

func TestReconstructEmptyInput(t *testing.T) {
	if grid := Reconstruct(nil, 50, 0.5); grid != nil {
		t.Errorf("expected nil grid for empty input, got %v", grid)
	}
}

func TestReconstructRowGrouping(t *testing.T) {
	words := []Word{
		{Text: "A", Left: 0, Top: 100, Width: 10, Height: 10},
		{Text: "B", Left: 200, Top: 102, Width: 10, Height: 10}, // same row, small jitter
		{Text: "C", Left: 0, Top: 200, Width: 10, Height: 10},   // new row
	}
	grid := Reconstruct(words, 50, 0.5)
	if len(grid) != 2 {
		t.Fatalf("got %d rows, want 2", len(grid))
	}
}

func TestPostProcessAcceptsRealisticTable(t *testing.T) {
	grid := [][]string{
		{"Name", "Quantity", "Price"},
		{"Widget", "12", "9.99"},
		{"Gadget", "34", "19.99"},
		{"Gizmo", "56", "29.99"},
	}
	cleaned, ok := PostProcess(grid)
	if !ok {
		t.Fatal("expected realistic table to be accepted")
	}
	if len(cleaned) != 4 || len(cleaned[0]) != 3 {
		t.Errorf("got shape %dx%d, want 4x3", len(cleaned), len(cleaned[0]))
	}
}

func TestPostProcessRejectsProse(t *testing.T) {
	grid := [][]string{
		{"This is the first long sentence of a paragraph that overflows", "A second chunk of the same flowing prose text here"},
		{"Another sentence continuing the paragraph across a pseudo column boundary", "More prose that is not tabular data at all"},
		{"Third line of flowing text that keeps going and going", "Final chunk of this prose sample for the test"},
	}
	if _, ok := PostProcess(grid); ok {
		t.Error("expected prose to be rejected")
	}
}

func TestPostProcessRejectsTwoColumns(t *testing.T) {
	grid := [][]string{
		{"Col1", "Col2"},
		{"1", "2"},
		{"3", "4"},
	}
	if _, ok := PostProcess(grid); ok {
		t.Error("expected two-column grid to be rejected")
	}
}

func TestPostProcessRejectsEmptyGrid(t *testing.T) {
	if _, ok := PostProcess(nil); ok {
		t.Error("expected nil grid to be rejected")
	}
	if _, ok := PostProcess([][]string{{"", ""}, {"", ""}}); ok {
		t.Error("expected all-blank grid to be rejected")
	}
}

func TestPostProcessRejectsSparseColumn(t *testing.T) {
	grid := [][]string{
		{"Name", "Score", "Notes"},
		{"Alice", "10", ""},
		{"Bob", "20", ""},
		{"Carol", "30", ""},
		{"Dave", "40", ""},
		{"Eve", "50", "ok"},
	}
	if _, ok := PostProcess(grid); ok {
		t.Error("expected a mostly-empty column to be rejected")
	}
}

func TestPostProcessPromotesFirstDataRowWhenNoHeaderDetected(t *testing.T) {
	grid := [][]string{
		{"A", "B", "C"},
		{"D", "E", "F"},
	}
	cleaned, ok := PostProcess(grid)
	if !ok {
		t.Fatal("expected acceptance with promoted header")
	}
	if len(cleaned) != 2 {
		t.Errorf("got %d rows, want 2 (promoted header + one data row)", len(cleaned))
	}
}

func TestPostProcessMergesMultiRowHeader(t *testing.T) {
	grid := [][]string{
		{"Sales", "Sales", "Region"},
		{"Q1", "Q2", "Code"},
		{"100", "200", "1"},
		{"300", "400", "2"},
		{"500", "600", "3"},
	}
	cleaned, ok := PostProcess(grid)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if !strings.Contains(cleaned[0][0], "Sales") || !strings.Contains(cleaned[0][0], "Q1") {
		t.Errorf("header not merged: %v", cleaned[0])
	}
}

func TestNormalizeDataCellDashVariants(t *testing.T) {
	cases := map[string]string{
		"12–20":  "12-20",
		"−5":     "-5",
		"-":           "",
		"1.5E-10":     "1.5e-10",
		"1.5E+10":     "1.5e+10",
		"  trimmed  ": "trimmed",
	}
	for in, want := range cases {
		if got := normalizeDataCell(in); got != want {
			t.Errorf("normalizeDataCell(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToMarkdownBasic(t *testing.T) {
	grid := [][]string{
		{"A", "B"},
		{"1", "2"},
	}
	got := ToMarkdown(grid)
	want := "| A | B |\n|---|---|\n| 1 | 2 |"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToMarkdownEscapesPipes(t *testing.T) {
	grid := [][]string{{"A|B"}}
	got := ToMarkdown(grid)
	if !strings.Contains(got, `A\|B`) {
		t.Errorf("expected escaped pipe, got %q", got)
	}
}

func TestToMarkdownEmpty(t *testing.T) {
	if got := ToMarkdown(nil); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
