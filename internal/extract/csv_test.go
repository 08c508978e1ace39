package extract

import (
	"context"
	"testing"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

func TestCSVExtractorParsesCommaDelimited(t *testing.T) {
	data := "name,age,city\nAlice,30,NYC\nBob,25,LA\n"
	e := NewCSVExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(data), mimetype.CSV, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if result.Metadata.Additional["row_count"] != 3 {
		t.Errorf("row_count = %v, want 3", result.Metadata.Additional["row_count"])
	}
	if len(result.Tables) != 1 || result.Tables[0].Cells[1][0] != "Alice" {
		t.Errorf("unexpected table: %+v", result.Tables)
	}
}

func TestCSVExtractorTSVMimePinsTabDelimiter(t *testing.T) {
	data := "name\tage\nAlice\t30\n"
	e := NewCSVExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(data), mimetype.TSV, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if result.Metadata.Additional["row_count"] != 2 {
		t.Errorf("row_count = %v, want 2", result.Metadata.Additional["row_count"])
	}
	if len(result.Tables) != 0 {
		t.Errorf("len(Tables) = %d, want 0: two-column grids fail PostProcess's column floor", len(result.Tables))
	}
}

func TestCSVExtractorHandlesQuotedFieldsWithEscapedQuotes(t *testing.T) {
	data := `a,b,c` + "\n" + `"hello, ""world""",plain,third` + "\n" + "x,y,z\n"
	e := NewCSVExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(data), mimetype.CSV, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if len(result.Tables) != 1 {
		t.Fatalf("len(Tables) = %d, want 1", len(result.Tables))
	}
	if result.Tables[0].Cells[1][0] != `hello, "world"` {
		t.Errorf("cell = %q, want %q", result.Tables[0].Cells[1][0], `hello, "world"`)
	}
}

func TestDetectDelimiterPicksPipeOverComma(t *testing.T) {
	text := "a|b|c\n1|2|3\n4|5|6\n"
	if got := detectDelimiter(text); got != '|' {
		t.Errorf("detectDelimiter = %q, want '|'", got)
	}
}

func TestDetectDelimiterDisqualifiesSingleColumn(t *testing.T) {
	text := "just one column per line\nanother line here\n"
	if got := detectDelimiter(text); got != ',' {
		t.Errorf("detectDelimiter = %q, want fallback ','", got)
	}
}

func TestCSVExtractorSingleColumnYieldsNoTable(t *testing.T) {
	data := "just one column per line\nanother line here\n"
	e := NewCSVExtractor()
	result, err := e.ExtractBytes(context.Background(), []byte(data), mimetype.CSV, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if len(result.Tables) != 0 {
		t.Errorf("len(Tables) = %d, want 0: a single-column grid is handled as text, not a table", len(result.Tables))
	}
}

func TestParseCSVDropsBlankTrailingRows(t *testing.T) {
	rows := parseCSV("a,b\n1,2\n\n", ',')
	if len(rows) != 2 {
		t.Errorf("len(rows) = %d, want 2 (blank row dropped)", len(rows))
	}
}
