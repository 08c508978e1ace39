package pdfpipeline

import (
	"sort"
	"strings"
)

// linesToParagraphs groups lines into paragraphs using vertical gaps,
// font-size changes and indentation shifts. The gap threshold is derived
// from the smallest above-noise inter-line spacing observed on the page
// (the "base spacing"), rather than a fixed constant, so it adapts to the
// page's own line height.
func linesToParagraphs(lines []Line) []Paragraph {
	if len(lines) == 0 {
		return nil
	}
	if len(lines) == 1 {
		return []Paragraph{finalizeParagraph(lines)}
	}

	avgFontSize := 0.0
	for _, l := range lines {
		avgFontSize += l.DominantFontSize
	}
	avgFontSize /= float64(len(lines))

	var spacings []float64
	for i := 0; i+1 < len(lines); i++ {
		gap := abs(lines[i+1].BaselineY - lines[i].BaselineY)
		if gap > avgFontSize*0.4 {
			spacings = append(spacings, gap)
		}
	}

	baseSpacing := avgFontSize
	if len(spacings) > 0 {
		sort.Float64s(spacings)
		baseSpacing = spacings[0]
	}
	paragraphGapThreshold := baseSpacing * paragraphGapMultiplier

	var paragraphs []Paragraph
	current := []Line{lines[0]}

	for _, line := range lines[1:] {
		prev := current[len(current)-1]

		verticalGap := abs(line.BaselineY - prev.BaselineY)
		fontSizeChange := abs(line.DominantFontSize - prev.DominantFontSize)

		prevLeft := 0.0
		if len(prev.Segments) > 0 {
			prevLeft = prev.Segments[0].X
		}
		currLeft := 0.0
		if len(line.Segments) > 0 {
			currLeft = line.Segments[0].X
		}
		indentChange := abs(currLeft - prevLeft)

		hasSignificantGap := verticalGap > paragraphGapThreshold
		hasSomeGap := verticalGap > baseSpacing*0.8
		hasFontChange := fontSizeChange > fontSizeChangeThreshold
		hasIndentChange := indentChange > leftIndentChangeThreshold

		nextStartsWithList := false
		if len(line.Segments) > 0 {
			firstWord := firstWhitespaceField(line.Segments[0].Text)
			nextStartsWithList = isListPrefix(firstWord)
		}

		isBreak := hasSignificantGap || (hasSomeGap && (hasFontChange || hasIndentChange)) || nextStartsWithList

		if isBreak {
			paragraphs = append(paragraphs, finalizeParagraph(current))
			current = []Line{line}
		} else {
			current = append(current, line)
		}
	}
	paragraphs = append(paragraphs, finalizeParagraph(current))

	return paragraphs
}

func finalizeParagraph(lines []Line) Paragraph {
	counts := map[int]int{}
	order := []int{}
	for _, l := range lines {
		key := int(roundHalf(l.DominantFontSize * 2))
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	dominantFontSize := 0.0
	if len(order) > 0 {
		best := order[0]
		for _, key := range order[1:] {
			if counts[key] > counts[best] {
				best = key
			}
		}
		dominantFontSize = float64(best) / 2
	}

	boldCount, italicCount := 0, 0
	for _, l := range lines {
		if l.IsBold {
			boldCount++
		}
		if l.IsItalic {
			italicCount++
		}
	}
	majority := (len(lines) + 1) / 2

	var firstWord string
	if len(lines) > 0 && len(lines[0].Segments) > 0 {
		firstWord = firstWhitespaceField(lines[0].Segments[0].Text)
	}
	isListItem := len(lines) <= maxListItemLines && isListPrefix(firstWord)

	isCodeBlock := len(lines) > 0
	for _, l := range lines {
		if !l.IsMonospace {
			isCodeBlock = false
			break
		}
	}

	return Paragraph{
		Lines:            lines,
		DominantFontSize: dominantFontSize,
		HeadingLevel:     0,
		IsBold:           boldCount >= majority,
		IsItalic:         italicCount >= majority,
		IsListItem:       isListItem,
		IsCodeBlock:      isCodeBlock,
	}
}

// mergeContinuationParagraphs joins adjacent body-text paragraphs that
// are really the same logical paragraph split by the line-grouping pass:
// both non-heading, non-list, similar font size, and the first doesn't
// end in sentence-terminating punctuation.
func mergeContinuationParagraphs(paragraphs []Paragraph) []Paragraph {
	if len(paragraphs) < 2 {
		return paragraphs
	}

	out := append([]Paragraph(nil), paragraphs...)
	i := 0
	for i+1 < len(out) {
		current := &out[i]
		next := &out[i+1]

		shouldMerge := current.HeadingLevel == 0 && next.HeadingLevel == 0 &&
			!current.IsListItem && !next.IsListItem &&
			abs(current.DominantFontSize-next.DominantFontSize) < 2.0 &&
			!endsWithSentenceTerminator(current)

		if shouldMerge {
			current.Lines = append(current.Lines, next.Lines...)
			out = append(out[:i+1], out[i+2:]...)
		} else {
			i++
		}
	}
	return out
}

func endsWithSentenceTerminator(para *Paragraph) bool {
	if len(para.Lines) == 0 {
		return false
	}
	lastLine := para.Lines[len(para.Lines)-1]
	if len(lastLine.Segments) == 0 {
		return false
	}
	text := strings.TrimRight(lastLine.Segments[len(lastLine.Segments)-1].Text, " \t")
	if text == "" {
		return false
	}
	switch rune(text[len(text)-1]) {
	case '.', '?', '!', ':', ';':
		return true
	default:
		return false
	}
}

func firstWhitespaceField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isListPrefix reports whether text looks like a bullet or numbered-list
// marker ("-", "*", "•", "1.", "2)").
func isListPrefix(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "-" || trimmed == "*" || trimmed == "•" {
		return true
	}
	if trimmed == "" {
		return false
	}
	digitEnd := 0
	for digitEnd < len(trimmed) && trimmed[digitEnd] >= '0' && trimmed[digitEnd] <= '9' {
		digitEnd++
	}
	if digitEnd > 0 && digitEnd < len(trimmed) {
		suffix := trimmed[digitEnd]
		return suffix == '.' || suffix == ')'
	}
	return false
}
