package extract

import (
	"context"
	"os"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/pdfdoc"
	"github.com/adverant/docintel/internal/pdfpipeline"
)

// PDFExtractor wraps internal/pdfdoc and internal/pdfpipeline behind
// the common extractor contract. It implements the optional
// plugin.FileExtractor zero-copy path directly (pdfdoc.Open reads its
// source from a path via pdfcpu); ExtractBytes falls back to spilling
// to a temp file since pdfcpu has no in-memory byte-slice entry point.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

func (e *PDFExtractor) Name() string { return "pdf-extractor" }

func (e *PDFExtractor) Initialize(ctx context.Context) error { return nil }

func (e *PDFExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *PDFExtractor) ConcurrentSafe() bool { return true }

func (e *PDFExtractor) SupportedMimeTypes() []string {
	return []string{mimetype.PDF}
}

func (e *PDFExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	tmp, err := os.CreateTemp("", "docintel-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(data); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	return e.ExtractFile(ctx, tmp.Name(), mimeType, cfg)
}

func (e *PDFExtractor) ExtractFile(ctx context.Context, path string, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		return nil, err
	}

	hierarchy := model.HierarchyConfig{Enabled: true, KClusters: 6}
	pageMarkerFormat := ""
	if cfg.Pages != nil && cfg.Pages.ExtractPages {
		pageMarkerFormat = cfg.Pages.PageMarkerFormat
	}
	if cfg.PdfOptions != nil && cfg.PdfOptions.Hierarchy != nil {
		hierarchy = *cfg.PdfOptions.Hierarchy
	}

	markdown, tables, images := pdfpipeline.Render(doc, hierarchy, pageMarkerFormat)

	result := &model.ExtractionResult{
		Content:  markdown,
		MimeType: mimeType,
		Tables:   tables,
		Metadata: model.Metadata{
			Format: &model.FormatMetadata{
				Kind: "pdf",
				Pdf: &model.PdfMeta{
					PageCount: doc.PageCount(),
					IsTagged:  doc.IsTagged(),
				},
			},
		},
	}

	if cfg.Images != nil && cfg.Images.ExtractImages {
		if images == nil {
			images = []model.ExtractedImage{}
		}
		result.Images = images
	}

	return result, nil
}
