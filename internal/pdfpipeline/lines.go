package pdfpipeline

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adverant/docintel/internal/pdfdoc"
)

// segmentsToLines groups segments into lines by baseline proximity.
// Segments are sorted top-to-bottom (descending baseline Y, PDF
// coordinates), then left-to-right; adjacent segments within tolerance of
// the running line baseline join the same line. Tolerance is pinned to
// the first segment's font size so it doesn't shrink as smaller segments
// (sub/superscripts) join the line.
func segmentsToLines(segments []pdfdoc.Segment) []Line {
	if len(segments) == 0 {
		return nil
	}

	sorted := append([]pdfdoc.Segment(nil), segments...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BaselineY != sorted[j].BaselineY {
			return sorted[i].BaselineY > sorted[j].BaselineY
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	current := []pdfdoc.Segment{sorted[0]}
	tolerance := maxFloat(sorted[0].FontSize, 1.0)

	for _, seg := range sorted[1:] {
		avgBaseline := averageBaseline(current)
		if abs(seg.BaselineY-avgBaseline) < baselineYToleranceFraction*tolerance {
			current = append(current, seg)
			continue
		}
		lines = append(lines, finalizeLine(current))
		tolerance = maxFloat(seg.FontSize, 1.0)
		current = []pdfdoc.Segment{seg}
	}
	lines = append(lines, finalizeLine(current))

	return lines
}

func averageBaseline(segments []pdfdoc.Segment) float64 {
	sum := 0.0
	for _, s := range segments {
		sum += s.BaselineY
	}
	return sum / float64(len(segments))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func finalizeLine(segments []pdfdoc.Segment) Line {
	sorted := append([]pdfdoc.Segment(nil), segments...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	boldCount, italicCount, monoCount := 0, 0, 0
	for _, s := range sorted {
		if s.IsBold {
			boldCount++
		}
		if s.IsItalic {
			italicCount++
		}
		if s.IsMonospace {
			monoCount++
		}
	}
	majority := (len(sorted) + 1) / 2

	return Line{
		Segments:         sorted,
		BaselineY:        averageBaseline(sorted),
		DominantFontSize: mostFrequentFontSize(sorted),
		IsBold:           boldCount >= majority,
		IsItalic:         italicCount >= majority,
		IsMonospace:      monoCount >= majority,
	}
}

// mostFrequentFontSize returns the modal font size across segments,
// quantized to 0.5pt to absorb the tokenizer's floating-point noise.
func mostFrequentFontSize(segments []pdfdoc.Segment) float64 {
	counts := map[int]int{}
	order := []int{}
	for _, s := range segments {
		key := int(roundHalf(s.FontSize * 2))
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	if len(order) == 0 {
		return 0
	}
	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return float64(best) / 2
}

func roundHalf(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return float64(int(v - 0.5))
}

// isCJK reports whether r falls in a CJK ideograph/syllabary block.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}

// needsSpaceBetween reports whether a space should separate two adjacent
// text chunks; CJK runs are not space-separated.
func needsSpaceBetween(prev, next string) bool {
	prevRunes := []rune(prev)
	nextRunes := []rune(next)
	if len(prevRunes) == 0 || len(nextRunes) == 0 {
		return true
	}
	return !(isCJK(prevRunes[len(prevRunes)-1]) && isCJK(nextRunes[0]))
}
