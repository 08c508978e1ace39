package pdfpipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/adverant/docintel/internal/model"
)

// assembleMarkdown renders every page's paragraphs to markdown, with
// page markers inserted per pageMarkerFormat (containing the literal
// substring "{page_num}") when non-empty, and tables interleaved at
// their recorded reading-order position within each page.
func assembleMarkdown(pages [][]Paragraph, tables []model.Table, pageMarkerFormat string) string {
	tablesByPage := map[int][]model.Table{}
	for _, t := range tables {
		pageIdx := 0
		if t.PageNumber > 0 {
			pageIdx = t.PageNumber - 1
		}
		tablesByPage[pageIdx] = append(tablesByPage[pageIdx], t)
	}

	var output strings.Builder
	seenPages := map[int]bool{}

	for pageIdx, paragraphs := range pages {
		seenPages[pageIdx] = true
		if pageMarkerFormat != "" {
			output.WriteString(strings.ReplaceAll(pageMarkerFormat, "{page_num}", strconv.Itoa(pageIdx+1)))
		} else if pageIdx > 0 && output.Len() > 0 {
			output.WriteString("\n\n")
		}

		pageTables := tablesByPage[pageIdx]
		if len(pageTables) > 0 {
			assemblePageWithTables(&output, paragraphs, pageTables)
		} else {
			for i, para := range paragraphs {
				if i > 0 {
					output.WriteString("\n\n")
				}
				renderParagraph(para, &output)
			}
		}
	}

	// Tables addressed to pages beyond the ones we have paragraphs for.
	var extraPageIdx []int
	for pageIdx := range tablesByPage {
		if !seenPages[pageIdx] {
			extraPageIdx = append(extraPageIdx, pageIdx)
		}
	}
	sort.Ints(extraPageIdx)
	for _, pageIdx := range extraPageIdx {
		for _, t := range tablesByPage[pageIdx] {
			md := strings.TrimSpace(t.Markdown)
			if md == "" {
				continue
			}
			if output.Len() > 0 {
				output.WriteString("\n\n")
			}
			output.WriteString(md)
		}
	}

	return output.String()
}

type pageElement struct {
	yPos      float64
	paragraph *Paragraph
	tableMD   string
}

// assemblePageWithTables interleaves a page's paragraphs and tables by
// vertical position: tables with a bounding box are placed by their top
// Y coordinate among the paragraphs (higher Y = earlier in PDF reading
// order); tables without one are appended at the end of the page.
func assemblePageWithTables(output *strings.Builder, paragraphs []Paragraph, tables []model.Table) {
	var positioned []pageElement
	var unpositioned []string

	for _, t := range tables {
		md := strings.TrimSpace(t.Markdown)
		if md == "" {
			continue
		}
		if t.BoundingBox != nil {
			positioned = append(positioned, pageElement{yPos: t.BoundingBox.Y1, tableMD: md})
		} else {
			unpositioned = append(unpositioned, md)
		}
	}

	var elements []pageElement
	for i := range paragraphs {
		yPos := 0.0
		if len(paragraphs[i].Lines) > 0 {
			yPos = paragraphs[i].Lines[0].BaselineY
		}
		elements = append(elements, pageElement{yPos: yPos, paragraph: &paragraphs[i]})
	}
	elements = append(elements, positioned...)

	sort.SliceStable(elements, func(i, j int) bool { return elements[i].yPos > elements[j].yPos })

	startLen := output.Len()
	for _, elem := range elements {
		if output.Len() > startLen {
			output.WriteString("\n\n")
		}
		if elem.paragraph != nil {
			renderParagraph(*elem.paragraph, output)
		} else {
			output.WriteString(elem.tableMD)
		}
	}

	for _, md := range unpositioned {
		if output.Len() > startLen {
			output.WriteString("\n\n")
		}
		output.WriteString(md)
	}
}
