package pdfdoc

import (
	"strconv"
	"strings"
)

// Segment is a positioned run of text recovered from a page's content
// stream, the input to the hierarchy pipeline's line/paragraph/heading
// stages.
type Segment struct {
	Text        string
	X           float64
	BaselineY   float64
	Width       float64
	Height      float64
	FontSize    float64
	IsBold      bool
	IsItalic    bool
	IsMonospace bool
}

// ImagePlacement is an approximate image-XObject invocation site,
// used for placeholder injection in the assembled markdown.
type ImagePlacement struct {
	X, Y float64
}

// Tokenize walks a decoded content stream and recovers text segments
// and image-invocation sites by tracking the minimal operator subset
// that affects position and font: BT/ET, Tf, Tm, Td, TD, T*, TL, Tj,
// TJ, ', ", and Do. The text matrix is tracked as a translation only
// (no rotation/skew) — sufficient for the overwhelming majority of
// producers, and a documented simplification for the rest.
func Tokenize(stream []byte) ([]Segment, []ImagePlacement) {
	var segments []Segment
	var images []ImagePlacement

	var (
		fontSize             float64 = 12
		fontName             string
		leading              float64
		lineX, lineY         float64
		curX, curY           float64
		inText               bool
	)

	tz := newTokenizer(stream)
	for {
		tok, ok := tz.next()
		if !ok {
			break
		}

		switch tok.op {
		case "BT":
			inText = true
			lineX, lineY = 0, 0
			curX, curY = 0, 0
		case "ET":
			inText = false
		case "Tf":
			if len(tok.operands) >= 2 {
				fontName = strings.TrimPrefix(tok.operands[0], "/")
				fontSize = parseFloat(tok.operands[len(tok.operands)-1])
			}
		case "TL":
			if len(tok.operands) >= 1 {
				leading = parseFloat(tok.operands[0])
			}
		case "Td":
			if len(tok.operands) >= 2 {
				lineX += parseFloat(tok.operands[0])
				lineY += parseFloat(tok.operands[1])
				curX, curY = lineX, lineY
			}
		case "TD":
			if len(tok.operands) >= 2 {
				leading = -parseFloat(tok.operands[1])
				lineX += parseFloat(tok.operands[0])
				lineY += parseFloat(tok.operands[1])
				curX, curY = lineX, lineY
			}
		case "Tm":
			if len(tok.operands) >= 6 {
				lineX = parseFloat(tok.operands[4])
				lineY = parseFloat(tok.operands[5])
				curX, curY = lineX, lineY
			}
		case "T*":
			lineY -= leading
			curX, curY = lineX, lineY
		case "Tj":
			if inText && len(tok.operands) >= 1 {
				segments = append(segments, buildSegment(tok.operands[0], curX, curY, fontSize, fontName))
				curX += estimateWidth(tok.operands[0], fontSize)
			}
		case "'":
			if len(tok.operands) >= 1 {
				lineY -= leading
				curX, curY = lineX, lineY
				segments = append(segments, buildSegment(tok.operands[0], curX, curY, fontSize, fontName))
			}
		case "\"":
			if len(tok.operands) >= 3 {
				lineY -= leading
				curX, curY = lineX, lineY
				segments = append(segments, buildSegment(tok.operands[2], curX, curY, fontSize, fontName))
			}
		case "TJ":
			if inText {
				for _, piece := range tok.array {
					if piece.isString {
						segments = append(segments, buildSegment(piece.text, curX, curY, fontSize, fontName))
						curX += estimateWidth(piece.text, fontSize)
					} else {
						adj := parseFloat(piece.text)
						curX -= adj / 1000 * fontSize
					}
				}
			}
		case "Do":
			images = append(images, ImagePlacement{X: curX, Y: curY})
		}
	}

	return segments, images
}

func buildSegment(text string, x, y, fontSize float64, fontName string) Segment {
	lower := strings.ToLower(fontName)
	return Segment{
		Text:        text,
		X:           x,
		BaselineY:   y,
		Width:       estimateWidth(text, fontSize),
		Height:      fontSize,
		FontSize:    fontSize,
		IsBold:      strings.Contains(lower, "bold"),
		IsItalic:    strings.Contains(lower, "italic") || strings.Contains(lower, "oblique"),
		IsMonospace: strings.Contains(lower, "mono") || strings.Contains(lower, "courier") || strings.Contains(lower, "consolas"),
	}
}

// estimateWidth approximates a run's rendered width without font
// metrics: an average glyph-width factor of 0.5em, the standard
// fallback ratio when the actual font's width table is unavailable.
func estimateWidth(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * 0.5
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
