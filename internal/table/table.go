// Package table reconstructs a 2-D cell grid from a flat list of
// positioned word fragments (PDF native text positions, or OCR word
// boxes), validates the grid against empirical "is this actually a
// table" heuristics, and renders the result as GitHub-flavored
// markdown. Reconstruct is invoked from internal/pdfpipeline (native
// PDF word positions); the office and CSV extractors call only
// PostProcess, on grids they build themselves.
package table

import (
	"sort"
	"strings"
)

// Word is a positioned text fragment in image coordinates (y=0 at the
// top), the shape hOCR and Tesseract TSV both produce natively and
// that PDF-native word positions are converted into before
// reconstruction.
type Word struct {
	Text   string
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Reconstruct clusters words into rows by top-coordinate proximity,
// then within each row into columns by left-coordinate proximity,
// producing an initial (unvalidated) 2-D string grid. columnThreshold
// is a pixel gap; rowThresholdRatio is multiplied by the median word
// height to get the row-clustering tolerance.
func Reconstruct(words []Word, columnThreshold float64, rowThresholdRatio float64) [][]string {
	if len(words) == 0 {
		return nil
	}

	rows := clusterRows(words, rowThresholdRatio)
	columnCenters := clusterColumns(words, columnThreshold)
	if len(columnCenters) == 0 {
		return nil
	}

	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columnCenters))
		for _, w := range row {
			col := nearestColumn(columnCenters, w.Left)
			if cells[col] != "" {
				cells[col] += " "
			}
			cells[col] += w.Text
		}
		grid[i] = cells
	}
	return grid
}

// clusterRows groups words by top-coordinate proximity. Each row's
// reference top is pinned to its first (topmost-by-scan) word, and the
// tolerance is rowThresholdRatio times the median height of all words,
// so one short word cannot shrink the row's catchment.
func clusterRows(words []Word, rowThresholdRatio float64) [][]Word {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].Left < sorted[j].Left
	})

	tolerance := rowThresholdRatio * medianHeight(sorted)

	var rows [][]Word
	var current []Word
	var rowTop float64
	for _, w := range sorted {
		if len(current) == 0 {
			current = []Word{w}
			rowTop = w.Top
			continue
		}
		if abs(w.Top-rowTop) <= tolerance {
			current = append(current, w)
			continue
		}
		rows = append(rows, sortByLeft(current))
		current = []Word{w}
		rowTop = w.Top
	}
	if len(current) > 0 {
		rows = append(rows, sortByLeft(current))
	}
	return rows
}

func sortByLeft(row []Word) []Word {
	sort.SliceStable(row, func(i, j int) bool { return row[i].Left < row[j].Left })
	return row
}

func medianHeight(words []Word) float64 {
	heights := make([]float64, len(words))
	for i, w := range words {
		heights[i] = w.Height
	}
	sort.Float64s(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 0 && len(heights) > 0 {
		return (heights[mid-1] + heights[mid]) / 2
	}
	return heights[mid]
}

// clusterColumns derives column boundaries from the left edges of all
// words on the page: sorted left-edges more than columnThreshold
// apart start a new column.
func clusterColumns(words []Word, columnThreshold float64) []float64 {
	lefts := make([]float64, len(words))
	for i, w := range words {
		lefts[i] = w.Left
	}
	sort.Float64s(lefts)

	var centers []float64
	var groupSum, groupCount float64
	var groupStart float64
	for i, l := range lefts {
		if i == 0 {
			groupStart, groupSum, groupCount = l, l, 1
			continue
		}
		if l-groupStart <= columnThreshold {
			groupSum += l
			groupCount++
			continue
		}
		centers = append(centers, groupSum/groupCount)
		groupStart, groupSum, groupCount = l, l, 1
	}
	if groupCount > 0 {
		centers = append(centers, groupSum/groupCount)
	}
	return centers
}

func nearestColumn(centers []float64, left float64) int {
	best := 0
	bestDist := abs(left - centers[0])
	for i := 1; i < len(centers); i++ {
		d := abs(left - centers[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ToMarkdown renders a validated grid as a GitHub-flavored markdown
// table: the first row is the header, followed by a `---` separator
// row with one cell per column.
func ToMarkdown(grid [][]string) string {
	if len(grid) == 0 {
		return ""
	}
	var sb strings.Builder
	writeMarkdownRow(&sb, grid[0])
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("|---", len(grid[0])))
	sb.WriteString("|\n")
	for _, row := range grid[1:] {
		writeMarkdownRow(&sb, row)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeMarkdownRow(sb *strings.Builder, row []string) {
	sb.WriteByte('|')
	for _, cell := range row {
		sb.WriteByte(' ')
		sb.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		sb.WriteString(" |")
	}
}
