package pdfpipeline

import (
	"fmt"
	"strings"

	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/pdfdoc"
)

// renderParagraph appends para's markdown rendering to output: a heading
// prefix for classified headings, a fenced block for code, a normalized
// bullet/number prefix for list items, and inline bold/italic runs
// otherwise.
func renderParagraph(para Paragraph, output *strings.Builder) {
	switch {
	case para.HeadingLevel > 0:
		output.WriteString(strings.Repeat("#", para.HeadingLevel))
		output.WriteByte(' ')
		output.WriteString(joinLineTexts(para.Lines))
	case para.IsCodeBlock:
		output.WriteString("```\n")
		for _, l := range para.Lines {
			var words []string
			for _, s := range l.Segments {
				words = append(words, s.Text)
			}
			output.WriteString(strings.Join(words, " "))
			output.WriteByte('\n')
		}
		output.WriteString("```")
	case para.IsListItem:
		output.WriteString(normalizeListPrefix(renderInlineMarkup(para)))
	default:
		output.WriteString(renderInlineMarkup(para))
	}
}

func joinLineTexts(lines []Line) string {
	var words []string
	for _, l := range lines {
		for _, s := range l.Segments {
			words = append(words, strings.Fields(s.Text)...)
		}
	}
	return joinCJKAware(words)
}

func joinCJKAware(words []string) string {
	if len(words) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(words[0])
	for i := 1; i < len(words); i++ {
		if needsSpaceBetween(words[i-1], words[i]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(words[i])
	}
	return sb.String()
}

// renderInlineMarkup groups a paragraph's segments into runs sharing the
// same bold/italic state and wraps each run in the matching markdown
// emphasis marker.
func renderInlineMarkup(para Paragraph) string {
	var segments []pdfdoc.Segment
	for _, l := range para.Lines {
		segments = append(segments, l.Segments...)
	}
	if len(segments) == 0 {
		return ""
	}

	var result strings.Builder
	i := 0
	for i < len(segments) {
		bold := segments[i].IsBold
		italic := segments[i].IsItalic
		runStart := i
		for i < len(segments) && segments[i].IsBold == bold && segments[i].IsItalic == italic {
			i++
		}

		var words []string
		for _, seg := range segments[runStart:i] {
			words = append(words, strings.Fields(seg.Text)...)
		}
		runText := joinCJKAware(words)

		if result.Len() > 0 {
			prevLast := lastField(segments[runStart-1].Text)
			nextFirst := firstWhitespaceField(segments[runStart].Text)
			if needsSpaceBetween(prevLast, nextFirst) {
				result.WriteByte(' ')
			}
		}

		switch {
		case bold && italic:
			result.WriteString("***")
			result.WriteString(runText)
			result.WriteString("***")
		case bold:
			result.WriteString("**")
			result.WriteString(runText)
			result.WriteString("**")
		case italic:
			result.WriteByte('*')
			result.WriteString(runText)
			result.WriteByte('*')
		default:
			result.WriteString(runText)
		}
	}
	return result.String()
}

func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// normalizeListPrefix rewrites bullet characters to the standard "- "
// marker and leaves numbered-list prefixes ("1.", "2)") as-is.
func normalizeListPrefix(text string) string {
	trimmed := strings.TrimLeft(text, " \t")
	switch {
	case strings.HasPrefix(trimmed, "•"):
		rest := strings.TrimLeft(trimmed[len("•"):], " \t")
		return "- " + rest
	case strings.HasPrefix(trimmed, "* "):
		return "- " + strings.TrimLeft(trimmed[2:], " \t")
	case strings.HasPrefix(trimmed, "- "):
		return trimmed
	}

	digitEnd := 0
	for digitEnd < len(trimmed) && trimmed[digitEnd] >= '0' && trimmed[digitEnd] <= '9' {
		digitEnd++
	}
	if digitEnd > 0 && digitEnd < len(trimmed) {
		suffix := trimmed[digitEnd]
		if suffix == '.' || suffix == ')' {
			return trimmed
		}
	}
	return "- " + trimmed
}

// injectImagePlaceholders appends an image reference (and, if present,
// its OCR text) after the markdown for every image collected during
// extraction.
func injectImagePlaceholders(markdown string, images []model.ExtractedImage) string {
	if len(images) == 0 {
		return markdown
	}

	var result strings.Builder
	result.WriteString(markdown)
	for _, img := range images {
		if img.PageNumber != nil {
			fmt.Fprintf(&result, "\n\n![Image %d (page %d)](embedded:p%d_i%d)", img.ImageIndex, *img.PageNumber, *img.PageNumber, img.ImageIndex)
		} else {
			fmt.Fprintf(&result, "\n\n![Image %d](embedded:i%d)", img.ImageIndex, img.ImageIndex)
		}
		if img.OcrResult != nil {
			if text := strings.TrimSpace(img.OcrResult.Content); text != "" {
				fmt.Fprintf(&result, "\n> *Image text: %s*", text)
			}
		}
	}
	return result.String()
}
