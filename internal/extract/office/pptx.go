package office

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/table"
)

// PPTXExtractor reads PowerPoint slides directly from the OOXML zip
// container: no PPTX-specific library exists anywhere in the retrieved
// pack, so this walks ppt/slides/slideN.xml with encoding/xml the same
// way excelize itself walks XLSX's sheet XML.
type PPTXExtractor struct {
	ExtractImages bool
}

func NewPPTXExtractor() *PPTXExtractor { return &PPTXExtractor{} }

func (e *PPTXExtractor) Name() string { return "pptx-extractor" }

func (e *PPTXExtractor) Initialize(ctx context.Context) error { return nil }

func (e *PPTXExtractor) Shutdown(ctx context.Context) error { return nil }

func (e *PPTXExtractor) ConcurrentSafe() bool { return true }

func (e *PPTXExtractor) SupportedMimeTypes() []string { return []string{mimetype.PPTX} }

var slideFileRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func (e *PPTXExtractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	zr, err := openZip(data)
	if err != nil {
		return nil, err
	}

	type slideFile struct {
		num  int
		name string
	}
	var slides []slideFile
	for _, f := range zr.File {
		if m := slideFileRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slideFile{num: n, name: f.Name})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	extractImages := cfg.Images != nil && cfg.Images.ExtractImages

	var contentParts []string
	var pages []model.Page
	var allTables []model.Table
	var images []model.ExtractedImage
	imageIndex := 0
	tableCount := 0

	for _, sf := range slides {
		raw, ok := readZipFile(zr, sf.name)
		if !ok {
			continue
		}
		text, tables := walkOOXMLText(raw)
		pageNum := sf.num
		for _, grid := range tables {
			text = append(text, table.ToMarkdown(grid))
			if cleaned, ok := table.PostProcess(padGrid(grid)); ok {
				tableCount++
				allTables = append(allTables, model.Table{
					Cells:      cleaned,
					Markdown:   table.ToMarkdown(cleaned),
					PageNumber: pageNum,
				})
			}
		}
		pageContent := strings.Join(text, "\n")
		pages = append(pages, model.Page{PageNumber: pageNum, Content: pageContent})
		contentParts = append(contentParts, pageContent)

		if extractImages {
			relsName := "ppt/slides/_rels/" + path.Base(sf.name) + ".rels"
			var rels map[string]string
			if relData, ok := readZipFile(zr, relsName); ok {
				rels = parseRels(relData)
			}
			for _, rID := range collectBlipRefs(raw) {
				target, ok := rels[rID]
				if !ok {
					continue
				}
				mediaPath := resolveRelTarget("ppt/slides", target)
				imgData, ok := readZipFile(zr, mediaPath)
				if !ok {
					continue
				}
				pn := pageNum
				images = append(images, model.ExtractedImage{
					Data:       imgData,
					Format:     detectImageFormat(imgData),
					ImageIndex: imageIndex,
					PageNumber: &pn,
				})
				imageIndex++
			}
		}
	}

	result := &model.ExtractionResult{
		Content:  strings.Join(contentParts, "\n\n"),
		MimeType: mimeType,
		Tables:   allTables,
		Pages:    pages,
		Metadata: model.Metadata{
			Additional: map[string]interface{}{
				"slide_count": len(slides),
				"image_count": len(images),
				"table_count": tableCount,
			},
			Format: &model.FormatMetadata{
				Kind: "pptx",
				Pptx: &model.OfficeMeta{SlideOrSheetCount: len(slides)},
			},
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

var blipRe = regexp.MustCompile(`r:embed="([^"]+)"`)

// collectBlipRefs extracts every a:blip r:embed relationship ID from
// raw slide XML via regex rather than a structured unmarshal, since
// the attribute's namespace prefix ("r:") varies by producer and a
// plain substring scan is simpler than registering every possible
// prefix binding.
func collectBlipRefs(data []byte) []string {
	matches := blipRe.FindAllSubmatch(data, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, string(m[1]))
	}
	return out
}
