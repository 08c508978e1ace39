package pdfpipeline

import (
	"sort"
	"strings"
)

// classifyParagraphs assigns heading levels to paragraphs using the
// global font-size heading map (pass 1), then promotes short bold
// paragraphs that weren't already headings to section headings (pass 2),
// and finally strips any heading level a code block may have picked up
// (pass 3, since a monospace run is never a heading).
func classifyParagraphs(paragraphs []Paragraph, headingMap []headingMapEntry) {
	avgGap := averageCentroidGap(headingMap)

	for i := range paragraphs {
		para := &paragraphs[i]
		wordCount := countWords(para)

		level := findHeadingLevel(para.DominantFontSize, headingMap, avgGap)
		if level != 0 && wordCount <= maxHeadingWordCount && !para.IsCodeBlock {
			para.HeadingLevel = level
			continue
		}

		if para.IsBold && !para.IsListItem && wordCount <= maxBoldHeadingWordCount {
			para.HeadingLevel = 2
		}

		if para.IsCodeBlock {
			para.HeadingLevel = 0
		}
	}
}

func countWords(para *Paragraph) int {
	count := 0
	for _, l := range para.Lines {
		for _, s := range l.Segments {
			count += len(strings.Fields(s.Text))
		}
	}
	return count
}

// findHeadingLevel maps a font size to the nearest cluster centroid's
// heading level, rejecting the match as an outlier (body text) if the
// nearest centroid is more than maxHeadingDistanceMultiplier average
// inter-centroid gaps away.
func findHeadingLevel(fontSize float64, headingMap []headingMapEntry, avgGap float64) int {
	if len(headingMap) == 0 {
		return 0
	}
	if len(headingMap) == 1 {
		return headingMap[0].level
	}

	bestDistance := infinity
	bestLevel := 0
	for _, entry := range headingMap {
		dist := abs(fontSize - entry.centroid)
		if dist < bestDistance {
			bestDistance = dist
			bestLevel = entry.level
		}
	}

	if bestDistance > maxHeadingDistanceMultiplier*avgGap {
		return 0
	}
	return bestLevel
}

func averageCentroidGap(headingMap []headingMapEntry) float64 {
	if len(headingMap) <= 1 {
		return infinity
	}
	centroids := make([]float64, len(headingMap))
	for i, e := range headingMap {
		centroids[i] = e.centroid
	}
	sort.Float64s(centroids)

	if len(centroids) < 2 {
		return infinity
	}
	sum := 0.0
	for i := 0; i+1 < len(centroids); i++ {
		sum += abs(centroids[i+1] - centroids[i])
	}
	return sum / float64(len(centroids)-1)
}

// refineHeadingHierarchy post-processes heading levels across the whole
// document: merges consecutive leading H1s on the first page into one
// title (a title that spans multiple lines misclassified as separate
// H1s), then demotes numbered section headings from H1 to H2 once a
// non-numbered title H1 has been established.
func refineHeadingHierarchy(pages [][]Paragraph) {
	if countH1(pages) <= 1 {
		return
	}

	if len(pages) > 0 {
		first := pages[0]
		runEnd := 0
		for runEnd < len(first) && first[runEnd].HeadingLevel == 1 {
			runEnd++
		}
		if runEnd > 1 {
			merged := first[0].Lines
			for _, para := range first[1:runEnd] {
				merged = append(merged, para.Lines...)
			}
			first[0].Lines = merged
			pages[0] = append(append([]Paragraph(nil), first[0]), first[runEnd:]...)
		}
	}

	if countH1(pages) <= 1 {
		return
	}

	firstH1IsTitle := false
	found := false
	for _, page := range pages {
		for _, para := range page {
			if para.HeadingLevel == 1 {
				firstH1IsTitle = !startsWithSectionNumber(paragraphPlainText(para))
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !firstH1IsTitle {
		return
	}

	foundFirst := false
	for pi := range pages {
		for i := range pages[pi] {
			para := &pages[pi][i]
			if para.HeadingLevel != 1 {
				continue
			}
			if !foundFirst {
				foundFirst = true
				continue
			}
			if startsWithSectionNumber(paragraphPlainText(*para)) {
				para.HeadingLevel = 2
			}
		}
	}
}

func countH1(pages [][]Paragraph) int {
	count := 0
	for _, page := range pages {
		for _, para := range page {
			if para.HeadingLevel == 1 {
				count++
			}
		}
	}
	return count
}

func startsWithSectionNumber(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	digitEnd := 0
	for digitEnd < len(trimmed) && trimmed[digitEnd] >= '0' && trimmed[digitEnd] <= '9' {
		digitEnd++
	}
	if digitEnd > 0 && digitEnd < len(trimmed) {
		next := trimmed[digitEnd]
		return next == ' ' || next == '.' || next == ')'
	}
	return false
}

func paragraphPlainText(para Paragraph) string {
	var words []string
	for _, l := range para.Lines {
		for _, s := range l.Segments {
			words = append(words, s.Text)
		}
	}
	return strings.Join(words, " ")
}
