// Package pdfdoc wraps pdfcpu's document-level API (page count,
// properties, content-stream and text extraction) and layers a
// lightweight content-stream tokenizer on top to recover the
// positioned text segments the hierarchy pipeline needs. True
// per-glyph positioning requires full PDF object-graph access, which
// is out of scope here (the spec treats PDF object parsing as an
// external collaborator) — this package reconstructs position and
// font size from the Tf/Tm/Td/TD/T* operator stream instead, which is
// accurate for the large majority of producers that don't skew or
// rotate text.
package pdfdoc

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/adverant/docintel/internal/kerrors"
)

// Document is an opened PDF, eagerly materializing the per-page data
// the pipeline needs (page count, content streams, metadata, plain
// text fallback) since pdfcpu's extraction API is file-in/file-out.
type Document struct {
	pageCount int
	content   map[int][]byte // 1-indexed page -> decoded content stream bytes
	metadata  map[string]string
	plainText string
}

// Open reads path and extracts the data Document exposes. It uses a
// scratch temp directory internally, cleaned up before returning.
func Open(path string) (*Document, error) {
	conf := model.NewDefaultConfiguration()

	f, err := os.Open(path)
	if err != nil {
		return nil, kerrors.NewIoError("failed to open PDF file", err)
	}
	defer f.Close()

	properties, err := api.Properties(f, conf)
	if err != nil {
		properties = map[string]string{}
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, kerrors.NewParsingError("pdf", err)
	}

	tempDir, err := os.MkdirTemp("", "docintel_pdf_*")
	if err != nil {
		return nil, kerrors.NewIoError("failed to create scratch directory", err)
	}
	defer os.RemoveAll(tempDir)

	content := map[int][]byte{}
	if err := api.ExtractContentFile(path, tempDir, nil, conf); err == nil {
		content = readContentFiles(tempDir)
	}

	plainText := ""
	if err := api.ExtractTextFile(path, tempDir, nil, conf); err == nil {
		plainText = readTextFile(tempDir, path)
	}

	return &Document{
		pageCount: pageCount,
		content:   content,
		metadata:  properties,
		plainText: plainText,
	}, nil
}

// PageCount returns the document's page count.
func (d *Document) PageCount() int { return d.pageCount }

// ContentStream returns the decoded content stream bytes for the
// 1-indexed page, or (nil, false) if pdfcpu could not extract it (an
// encrypted or non-standard cross-reference stream document, for
// example) — callers should fall back to PlainText for that page.
func (d *Document) ContentStream(page int) ([]byte, bool) {
	b, ok := d.content[page]
	return b, ok
}

// Metadata returns the document's /Info dictionary properties,
// keyed by field name ("Title", "Author", "Producer", "CreationDate", ...).
func (d *Document) Metadata() map[string]string { return d.metadata }

// IsTagged always reports false: tagged-structure-tree detection
// requires walking the /StructTreeRoot object graph, which pdfcpu's
// documented extraction API does not expose. Callers always take the
// heuristic extraction path (stage 2 onward) rather than the
// structure-tree path (stage 1).
func (d *Document) IsTagged() bool { return false }

// PlainText returns pdfcpu's own text-extraction output for the whole
// document, the fallback used when a page's content stream can't be
// tokenized into usable segments.
func (d *Document) PlainText() string { return d.plainText }

func readContentFiles(dir string) map[int][]byte {
	out := map[int][]byte{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		page, ok := pageNumberFromName(e.Name())
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		out[page] = data
	}
	return out
}

// pageNumberFromName extracts the trailing page number pdfcpu embeds
// in extracted-content filenames (e.g. "<base>_Content_page_3.txt").
func pageNumberFromName(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func readTextFile(dir, originalPath string) string {
	base := filepath.Base(originalPath)
	candidate := filepath.Join(dir, base+".txt")
	if data, err := os.ReadFile(candidate); err == nil {
		return string(data)
	}

	var combined strings.Builder
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		io.Copy(&combined, f)
		f.Close()
	}
	return combined.String()
}
