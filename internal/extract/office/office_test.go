package office

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Write error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	return buf.Bytes()
}

const sampleSlideXML = `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp><p:txBody>
      <a:p><a:r><a:t>Title text</a:t></a:r></a:p>
    </p:txBody></p:sp>
    <a:tbl>
      <a:tr><a:tc><a:t>A1</a:t></a:tc><a:tc><a:t>B1</a:t></a:tc><a:tc><a:t>C1</a:t></a:tc></a:tr>
      <a:tr><a:tc><a:t>A2</a:t></a:tc><a:tc><a:t>B2</a:t></a:tc><a:tc><a:t>C2</a:t></a:tc></a:tr>
      <a:tr><a:tc><a:t>A3</a:t></a:tc><a:tc><a:t>B3</a:t></a:tc><a:tc><a:t>C3</a:t></a:tc></a:tr>
    </a:tbl>
  </p:spTree></p:cSld>
</p:sld>`

func TestPPTXExtractorReadsSlideTextAndTables(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": sampleSlideXML,
	})
	e := NewPPTXExtractor()
	result, err := e.ExtractBytes(context.Background(), data, mimetype.PPTX, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if result.Metadata.Additional["slide_count"] != 1 {
		t.Errorf("slide_count = %v, want 1", result.Metadata.Additional["slide_count"])
	}
	if len(result.Tables) != 1 {
		t.Fatalf("len(Tables) = %d, want 1", len(result.Tables))
	}
	if result.Tables[0].Cells[0][0] != "A1" || result.Tables[0].Cells[1][1] != "B2" {
		t.Errorf("unexpected table cells: %v", result.Tables[0].Cells)
	}
	if !bytes.Contains([]byte(result.Content), []byte("Title text")) {
		t.Errorf("Content = %q, want it to contain slide text", result.Content)
	}
}

func TestPPTXExtractorOmitsImagesWhenNotRequested(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": sampleSlideXML,
	})
	e := NewPPTXExtractor()
	result, err := e.ExtractBytes(context.Background(), data, mimetype.PPTX, model.ExtractionConfig{})
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if result.Images != nil {
		t.Errorf("Images = %v, want nil when extraction not requested", result.Images)
	}
}

func TestWalkOOXMLTextSeparatesParagraphsAndTables(t *testing.T) {
	lines, tables := walkOOXMLText([]byte(sampleSlideXML))
	if len(lines) != 1 || lines[0] != "Title text" {
		t.Errorf("lines = %v, want [\"Title text\"]", lines)
	}
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("tables = %v, want one 3-row grid", tables)
	}
}

func TestResolveRelTargetHandlesRelativeSegments(t *testing.T) {
	got := resolveRelTarget("ppt/slides", "../media/image1.png")
	if got != "ppt/media/image1.png" {
		t.Errorf("resolveRelTarget = %q, want %q", got, "ppt/media/image1.png")
	}
}

func TestResolveRelTargetHandlesAbsolutePath(t *testing.T) {
	got := resolveRelTarget("ppt/slides", "/ppt/media/image2.png")
	if got != "ppt/media/image2.png" {
		t.Errorf("resolveRelTarget = %q, want %q", got, "ppt/media/image2.png")
	}
}

func TestParseRelsMapsIDToTarget(t *testing.T) {
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="image" Target="../media/image1.png"/>
</Relationships>`
	got := parseRels([]byte(rels))
	if got["rId1"] != "../media/image1.png" {
		t.Errorf("parseRels = %v", got)
	}
}

func TestDetectImageFormatSniffsMagicBytes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want model.ImageFormat
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}, model.ImagePNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0, 0}, model.ImageJPEG},
		{"unknown", []byte{0, 1, 2, 3}, model.ImageUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectImageFormat(tc.data); got != tc.want {
				t.Errorf("detectImageFormat(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestCollectBlipRefsFindsEmbedIDs(t *testing.T) {
	xml := `<a:blip r:embed="rId3"/><a:blip r:embed="rId7"/>`
	got := collectBlipRefs([]byte(xml))
	if len(got) != 2 || got[0] != "rId3" || got[1] != "rId7" {
		t.Errorf("collectBlipRefs = %v", got)
	}
}
