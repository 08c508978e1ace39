package pdfpipeline

import "github.com/adverant/docintel/internal/pdfdoc"

// Line is a set of segments grouped onto the same visual text line by
// baseline proximity.
type Line struct {
	Segments         []pdfdoc.Segment
	BaselineY        float64
	DominantFontSize float64
	IsBold           bool
	IsItalic         bool
	IsMonospace      bool
}

// Paragraph is a run of lines grouped by vertical gap, font-size and
// indentation continuity, with its heading/list/code classification.
type Paragraph struct {
	Lines            []Line
	DominantFontSize float64
	HeadingLevel     int // 0 means body text; 1-6 is a heading level
	IsBold           bool
	IsItalic         bool
	IsListItem       bool
	IsCodeBlock      bool
}

// headingMapEntry pairs a font-size cluster centroid with the heading
// level it was assigned (0 for body text).
type headingMapEntry struct {
	centroid float64
	level    int
}
