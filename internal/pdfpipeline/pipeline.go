package pdfpipeline

import (
	"strings"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/pdfdoc"
	"github.com/adverant/docintel/internal/table"
)

const defaultKClusters = 6

// minWordsForTable is the minimum number of positioned words a page
// must carry before table reconstruction is even attempted — below
// this, column-clustering noise dominates any real signal.
const minWordsForTable = 6

const (
	tableColumnThreshold   = 50.0
	tableRowThresholdRatio = 0.5
)

// Render turns doc into markdown: it drives the full hierarchy pipeline
// (font clustering, line/paragraph building, heading classification,
// continuation merge) and delegates table reconstruction to
// internal/table against each page's positioned words. pageMarkerFormat
// containing "{page_num}" inserts a marker before every page's content;
// empty disables markers. Returns the assembled markdown, the tables
// found (with PDF-coordinate bounding boxes), and the image placements
// collected from each page's content stream, for the caller to pair
// with extracted image bytes.
func Render(doc *pdfdoc.Document, hierarchy model.HierarchyConfig, pageMarkerFormat string) (string, []model.Table, []model.ExtractedImage) {
	pageCount := doc.PageCount()

	kClusters := hierarchy.KClusters
	if kClusters <= 0 {
		kClusters = defaultKClusters
	}

	pageSegments := make([][]pdfdoc.Segment, pageCount+1) // 1-indexed
	var images []model.ExtractedImage
	var tables []model.Table
	imageIndex := 0

	for page := 1; page <= pageCount; page++ {
		stream, ok := doc.ContentStream(page)
		if !ok {
			continue
		}
		segments, placements := pdfdoc.Tokenize(stream)
		segments = filterMarginAndArtifacts(segments)
		filterStandalonePageNumbers(&segments)
		pageSegments[page] = segments

		if t, ok := reconstructPageTable(segments, page); ok {
			tables = append(tables, t)
		}

		for range placements {
			pageNum := page
			images = append(images, model.ExtractedImage{ImageIndex: imageIndex, PageNumber: &pageNum})
			imageIndex++
		}
	}

	// Stage 4: global font-size clustering across all heuristically
	// extracted pages (structure-tree extraction never succeeds here —
	// see pdfdoc.Document.IsTagged).
	var allFontSizes []float64
	for page := 1; page <= pageCount; page++ {
		for _, seg := range pageSegments[page] {
			if strings.TrimSpace(seg.Text) == "" {
				continue
			}
			allFontSizes = append(allFontSizes, seg.FontSize)
		}
	}

	var headingMap []headingMapEntry
	if len(allFontSizes) > 0 {
		clusters := clusterFontSizes(allFontSizes, kClusters)
		headingMap = assignHeadingLevels(clusters)
	}

	// Stages 5-9: per-page line/paragraph building, classification,
	// continuation merge.
	pages := make([][]Paragraph, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		lines := segmentsToLines(pageSegments[page])
		paragraphs := linesToParagraphs(lines)
		classifyParagraphs(paragraphs, headingMap)
		paragraphs = mergeContinuationParagraphs(paragraphs)
		pages = append(pages, paragraphs)
	}

	refineHeadingHierarchy(pages)

	markdown := assembleMarkdown(pages, tables, pageMarkerFormat)
	if len(images) > 0 {
		markdown = injectImagePlaceholders(markdown, images)
	}
	return markdown, tables, images
}

// reconstructPageTable delegates to internal/table against a page's
// positioned words, converting from PDF coordinates (y0 at bottom) to
// the image coordinates (y0 at top) the reconstructor expects. Page
// height is approximated the same way filterMarginAndArtifacts does,
// since pdfdoc exposes no page box.
func reconstructPageTable(segments []pdfdoc.Segment, page int) (model.Table, bool) {
	if len(segments) < minWordsForTable {
		return model.Table{}, false
	}

	pageHeight := estimatePageHeight(segments)

	words := make([]table.Word, 0, len(segments))
	for _, s := range segments {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		words = append(words, table.Word{
			Text:   s.Text,
			Left:   s.X,
			Top:    pageHeight - s.BaselineY - s.Height,
			Width:  s.Width,
			Height: s.Height,
		})
	}
	if len(words) < minWordsForTable {
		return model.Table{}, false
	}

	grid := table.Reconstruct(words, tableColumnThreshold, tableRowThresholdRatio)
	if len(grid) == 0 || len(grid[0]) == 0 {
		return model.Table{}, false
	}
	cleaned, ok := table.PostProcess(grid)
	if !ok {
		return model.Table{}, false
	}

	bbox := wordsBoundingBox(words, pageHeight)
	return model.Table{
		Cells:       cleaned,
		Markdown:    table.ToMarkdown(cleaned),
		PageNumber:  page,
		BoundingBox: bbox,
	}, true
}

func estimatePageHeight(segments []pdfdoc.Segment) float64 {
	maxY := segments[0].BaselineY
	for _, s := range segments {
		if s.BaselineY > maxY {
			maxY = s.BaselineY
		}
	}
	return maxY / (1 - pageTopMarginFraction)
}

// wordsBoundingBox computes the table's PDF-coordinate bounding box
// from its word positions. Because the reconstructor treats every word
// on the page as potential table content, a page that passes
// table.PostProcess's validation is treated as wholly tabular: the
// bounding box covers the full word extent, not a sub-region.
func wordsBoundingBox(words []table.Word, pageHeight float64) *model.BBox {
	if len(words) == 0 {
		return nil
	}
	left, top, right, bottom := words[0].Left, words[0].Top, words[0].Left+words[0].Width, words[0].Top+words[0].Height
	for _, w := range words[1:] {
		if w.Left < left {
			left = w.Left
		}
		if w.Top < top {
			top = w.Top
		}
		if r := w.Left + w.Width; r > right {
			right = r
		}
		if b := w.Top + w.Height; b > bottom {
			bottom = b
		}
	}
	return &model.BBox{
		X0: left,
		Y0: pageHeight - bottom,
		X1: right,
		Y1: pageHeight - top,
	}
}

// filterMarginAndArtifacts drops segments in the page header/footer
// margin bands and segments whose font is too small to be real body
// content (embedded glyphs, decorative marks).
func filterMarginAndArtifacts(segments []pdfdoc.Segment) []pdfdoc.Segment {
	if len(segments) == 0 {
		return segments
	}

	// Approximate page height as the tallest observed baseline plus a
	// margin allowance; pdfdoc does not expose a page box, so the
	// highest segment on the page stands in for its top edge.
	pageHeight := estimatePageHeight(segments)
	topCutoff := pageHeight * (1 - pageTopMarginFraction)
	bottomCutoff := pageHeight * pageBottomMarginFraction

	out := segments[:0:0]
	for _, s := range segments {
		if s.BaselineY > topCutoff || s.BaselineY < bottomCutoff {
			continue
		}
		if s.FontSize < minFontSize {
			continue
		}
		out = append(out, s)
	}
	return out
}

// filterStandalonePageNumbers removes short numeric-only segments that
// have no other segment sharing their approximate baseline — the
// signature of a standalone running page number rather than body text.
func filterStandalonePageNumbers(segments *[]pdfdoc.Segment) {
	s := *segments
	if len(s) == 0 {
		return
	}

	const tolerance = 3.0
	var keep []pdfdoc.Segment
	for i, seg := range s {
		trimmed := strings.TrimSpace(seg.Text)
		if trimmed == "" || len(trimmed) > 4 || !isAllDigits(trimmed) {
			keep = append(keep, seg)
			continue
		}

		isolated := true
		for j, other := range s {
			if j == i {
				continue
			}
			if abs(other.BaselineY-seg.BaselineY) < tolerance {
				isolated = false
				break
			}
		}
		if !isolated {
			keep = append(keep, seg)
		}
	}
	*segments = keep
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
