package office

import (
	"context"
	"os"
	"strings"

	docxlib "github.com/nguyenthenguyen/docx"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/table"
)

// DOCXExtractor reads Word documents via nguyenthenguyen/docx, which
// exposes the editable document.xml body as a string; the document
// paragraph/table XML is then walked with the same reader used for
// PPTX slides, since WordprocessingML reuses the same element local
// names. The library is file-path based, so ExtractBytes spills to a
// temp file first.
type DOCXExtractor struct {
	ExtractImages bool
}

func NewDOCXExtractor() *DOCXExtractor { return &DOCXExtractor{} }

func (e *DOCXExtractor) Name() string { return "docx-extractor" }

func (e *DOCXExtractor) Initialize(ctx context.Context) error { return nil }

func (e *DOCXExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *DOCXExtractor) ConcurrentSafe() bool { return false }

func (e *DOCXExtractor) SupportedMimeTypes() []string { return []string{mimetype.DOCX} }

func (e *DOCXExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	tmp, err := os.CreateTemp("", "docintel-docx-*.docx")
	if err != nil {
		return nil, kerrors.NewIoError("failed to create temp file for docx extraction", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, kerrors.NewIoError("failed to write docx bytes to temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, kerrors.NewIoError("failed to close docx temp file", err)
	}

	doc, err := docxlib.ReadDocxFile(tmp.Name())
	if err != nil {
		return nil, kerrors.NewParsingError("docx", err)
	}
	defer doc.Close()

	body := doc.Editable().GetContent()

	text, grids := walkOOXMLText([]byte(body))

	var tables []model.Table
	for i, grid := range grids {
		text = append(text, table.ToMarkdown(grid))
		if cleaned, ok := table.PostProcess(padGrid(grid)); ok {
			tables = append(tables, model.Table{
				Cells:      cleaned,
				Markdown:   table.ToMarkdown(cleaned),
				PageNumber: i + 1,
			})
		}
	}

	extractImages := cfg.Images != nil && cfg.Images.ExtractImages
	var images []model.ExtractedImage
	if extractImages {
		images = extractDocxMedia(data)
	}

	result := &model.ExtractionResult{
		Content:  strings.Join(text, "\n"),
		MimeType: mimeType,
		Tables:   tables,
		Metadata: model.Metadata{
			Additional: map[string]interface{}{
				"table_count": len(tables),
				"image_count": len(images),
			},
			Format: &model.FormatMetadata{Kind: "docx"},
		},
	}
	if extractImages {
		if images == nil {
			images = []model.ExtractedImage{}
		}
		result.Images = images
	}
	return result, nil
}

// extractDocxMedia pulls every part under word/media/ directly from
// the underlying zip container, since the docx library's editable
// accessor exposes only the document body text, not embedded media.
func extractDocxMedia(data []byte) []model.ExtractedImage {
	zr, err := openZip(data)
	if err != nil {
		return nil
	}
	var images []model.ExtractedImage
	idx := 0
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "word/media/") {
			continue
		}
		raw, ok := readZipFile(zr, f.Name)
		if !ok {
			continue
		}
		images = append(images, model.ExtractedImage{
			Data:       raw,
			Format:     detectImageFormat(raw),
			ImageIndex: idx,
		})
		idx++
	}
	return images
}
