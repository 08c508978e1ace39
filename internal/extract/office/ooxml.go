// Package office implements the PPTX, DOCX, and XLSX extractors. PPTX
// has no dedicated Go library anywhere in the retrieved pack, so it is
// read directly as an OOXML zip (the same technique excelize itself
// uses internally for XLSX); DOCX wires github.com/nguyenthenguyen/docx
// for its editable XML accessor; XLSX wires github.com/xuri/excelize/v2.
package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
)

// openZip opens an OOXML container (itself a ZIP) from bytes.
func openZip(data []byte) (*zip.Reader, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, kerrors.NewParsingError("ooxml", err)
	}
	return r, nil
}

// readZipFile returns the uncompressed content of name, or nil if the
// entry does not exist.
func readZipFile(r *zip.Reader, name string) ([]byte, bool) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, false
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, false
			}
			return data, true
		}
	}
	return nil, false
}

// relationship is one entry of a .rels part: maps a relationship ID to
// its target path.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
	Type   string `xml:"Type,attr"`
}

type relationships struct {
	Relationships []relationship `xml:"Relationship"`
}

// parseRels parses a _rels/*.rels part into an ID -> target map.
func parseRels(data []byte) map[string]string {
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}
	out := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		out[rel.ID] = rel.Target
	}
	return out
}

// resolveRelTarget joins a relationship target (recorded relative to
// the part's directory) against that directory, normalizing "../".
func resolveRelTarget(partDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	segments := strings.Split(partDir, "/")
	for _, t := range strings.Split(target, "/") {
		switch t {
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		case ".":
		default:
			segments = append(segments, t)
		}
	}
	return strings.Join(segments, "/")
}

// OOXML element local names shared across PPTX slide XML and DOCX
// document XML: both schemas use "p"/"t" for paragraphs/text runs and
// "tbl"/"tr"/"tc" for table grids, so one walker serves both.
const (
	elText      = "t"
	elParagraph = "p"
	elTable     = "tbl"
	elRow       = "tr"
	elCell      = "tc"
)

// walkOOXMLText performs a single-pass token walk of a part's body XML,
// collecting paragraph text in document order and table grids
// separately. Tables are rendered as markdown and appended after the
// surrounding prose by the caller, since both DrawingML (PPTX) and
// WordprocessingML (DOCX) can interleave table elements with text
// placeholders in a way that has no single linear reading order worth
// reconstructing here.
func walkOOXMLText(data []byte) ([]string, [][][]string) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var lines []string
	var tables [][][]string

	var curParagraph strings.Builder
	var inTable bool
	var curTable [][]string
	var curRow []string
	var curCell strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elTable:
				inTable = true
				curTable = nil
			case elRow:
				if inTable {
					curRow = nil
				}
			case elCell:
				if inTable {
					curCell.Reset()
				}
			}
		case xml.CharData:
			if inTable {
				curCell.Write(t)
			} else {
				curParagraph.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case elParagraph:
				if !inTable {
					text := strings.TrimSpace(curParagraph.String())
					if text != "" {
						lines = append(lines, text)
					}
					curParagraph.Reset()
				}
			case elCell:
				if inTable {
					curRow = append(curRow, strings.TrimSpace(curCell.String()))
				}
			case elRow:
				if inTable {
					curTable = append(curTable, curRow)
				}
			case elTable:
				inTable = false
				if len(curTable) > 0 {
					tables = append(tables, curTable)
				}
			}
		}
	}
	return lines, tables
}

// padGrid pads every row to the widest row's length, since walkOOXMLText
// and excelize's GetRows both tolerate ragged rows (a merged or
// trailing-empty cell can leave a row short) but table.PostProcess
// expects a rectangular grid.
func padGrid(grid [][]string) [][]string {
	colCount := 0
	for _, row := range grid {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}
	padded := make([][]string, len(grid))
	for i, row := range grid {
		padded[i] = make([]string, colCount)
		copy(padded[i], row)
	}
	return padded
}

// detectImageFormat sniffs a raster/vector container format from its
// leading magic bytes, mirroring the detection the teacher's
// magic-byte MIME corrector already performs for JPEG/PNG/GIF/BMP/TIFF/
// WebP, extended with the vector/metafile formats OOXML documents
// commonly embed.
func detectImageFormat(data []byte) model.ImageFormat {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return model.ImagePNG
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return model.ImageJPEG
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return model.ImageGIF
	case len(data) >= 2 && bytes.Equal(data[:2], []byte("BM")):
		return model.ImageBMP
	case len(data) >= 4 && (bytes.Equal(data[:4], []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.Equal(data[:4], []byte{0x4D, 0x4D, 0x00, 0x2A})):
		return model.ImageTIFF
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return model.ImageWEBP
	case len(data) >= 5 && bytes.Equal(data[:5], []byte("<?xml")), len(data) >= 4 && bytes.Equal(data[:4], []byte("<svg")):
		return model.ImageSVG
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0xD7, 0xCD, 0xC6, 0x9A}):
		return model.ImageWMF
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x01, 0x00, 0x00, 0x00}):
		return model.ImageEMF
	default:
		return model.ImageUnknown
	}
}
