package archive

import (
	"context"
	"sort"
	"strings"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/mimetype"
	"github.com/adverant/docintel/internal/model"
)

// Extractor implements plugin.Extractor for the four archive formats.
// Each format keeps its own file (zip.go/tar.go/gzip.go/sevenzip.go),
// mirroring the reference implementation's one-file-per-format layout;
// this type is the shared dispatch and result-assembly point.
type Extractor struct {
	Limits SecurityLimits
}

// NewExtractor creates an Extractor with DefaultSecurityLimits.
func NewExtractor() *Extractor {
	return &Extractor{Limits: DefaultSecurityLimits()}
}

func (e *Extractor) Name() string { return "archive-extractor" }

func (e *Extractor) Initialize(ctx context.Context) error { return nil }

func (e *Extractor) Shutdown(ctx context.Context) error { return nil }

func (e *Extractor) SupportedMimeTypes() []string {
	return []string{mimetype.ZIP, mimetype.TAR, mimetype.SevenZip, mimetype.GZIP}
}

func (e *Extractor) ConcurrentSafe() bool { return true }

func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, mimeType string, cfg model.ExtractionConfig) (*model.ExtractionResult, error) {
	limits := e.Limits

	var (
		meta     Metadata
		contents map[string]string
		err      error
	)
	switch mimeType {
	case mimetype.ZIP:
		meta, contents, err = ExtractZip(data, limits)
	case mimetype.TAR:
		meta, contents, err = ExtractTar(data, limits)
	case mimetype.SevenZip:
		meta, contents, err = ExtractSevenZip(data, limits)
	case mimetype.GZIP:
		meta, contents, err = ExtractGzip(data, limits)
	default:
		return nil, kerrors.NewUnsupportedFormatError(mimeType)
	}
	if err != nil {
		return nil, err
	}

	result := &model.ExtractionResult{
		Content:  assembleContent(contents),
		MimeType: mimeType,
		Metadata: model.Metadata{
			Additional: map[string]interface{}{"archive": meta},
			Format:     &model.FormatMetadata{Kind: "archive"},
		},
	}

	if len(contents) == 0 {
		result.ProcessingWarnings = append(result.ProcessingWarnings, "archive contained no recognized text-format members")
	}

	return result, nil
}

// assembleContent joins each recognized member's text under a path
// header, in path-sorted order for deterministic output. One member and
// many members are rendered the same way.
func assembleContent(contents map[string]string) string {
	if len(contents) == 0 {
		return ""
	}
	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var sb strings.Builder
	for i, p := range paths {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("# ")
		sb.WriteString(p)
		sb.WriteString("\n\n")
		sb.WriteString(contents[p])
	}
	return sb.String()
}
