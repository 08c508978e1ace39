package office

import (
	"bytes"
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/table"
)

// XLSXExtractor reads spreadsheet workbooks via excelize, producing one
// model.Table per worksheet that table.PostProcess accepts (a rejected
// sheet yields no table) and a content string that concatenates
// each sheet's cells space-joined per row, the same convention the CSV
// extractor uses for its content field.
type XLSXExtractor struct {
	ExtractImages bool
}

func NewXLSXExtractor() *XLSXExtractor { return &XLSXExtractor{} }

func (e *XLSXExtractor) Name() string { return "xlsx-extractor" }

func (e *XLSXExtractor) Initialize(ctx context.Context) error { return nil }

func (e *XLSXExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *XLSXExtractor) ConcurrentSafe() bool { return false }

func (e *XLSXExtractor) SupportedMimeTypes() []string { return []string{mimetype.XLSX} }

func (e *XLSXExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, kerrors.NewParsingError("xlsx", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()

	var tables []model.Table
	var contentParts []string
	var warnings []string

	for sheetIdx, sheet := range sheets {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			warnings = append(warnings, "failed to read sheet "+sheet+": "+err.Error())
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if cleaned, ok := table.PostProcess(padGrid(rows)); ok {
			tables = append(tables, model.Table{
				Cells:      cleaned,
				Markdown:   table.ToMarkdown(cleaned),
				PageNumber: sheetIdx + 1,
			})
		}
		var lines []string
		for _, row := range rows {
			var cells []string
			for _, c := range row {
				if strings.TrimSpace(c) != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
		contentParts = append(contentParts, strings.Join(lines, "\n"))
	}

	extractImages := cfg.Images != nil && cfg.Images.ExtractImages
	var images []model.ExtractedImage
	if extractImages {
		images = extractXlsxMedia(data)
	}

	result := &model.ExtractionResult{
		Content:  strings.Join(contentParts, "\n\n"),
		MimeType: mimeType,
		Tables:   tables,
		Metadata: model.Metadata{
			Additional: map[string]interface{}{
				"sheet_count": len(sheets),
				"table_count": len(tables),
				"image_count": len(images),
			},
			Format: &model.FormatMetadata{
				Kind: "xlsx",
				Xlsx: &model.OfficeMeta{SlideOrSheetCount: len(sheets)},
			},
		},
		ProcessingWarnings: warnings,
	}
	if extractImages {
		if images == nil {
			images = []model.ExtractedImage{}
		}
		result.Images = images
	}
	return result, nil
}

// extractXlsxMedia pulls every part under xl/media/ directly from the
// underlying zip container; excelize exposes per-cell embedded pictures
// via GetPictures, but a plain zip walk is simpler when the goal is
// just every embedded image regardless of which cell anchors it.
func extractXlsxMedia(data []byte) []model.ExtractedImage {
	zr, err := openZip(data)
	if err != nil {
		return nil
	}
	var images []model.ExtractedImage
	idx := 0
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "xl/media/") {
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
