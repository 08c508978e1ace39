// Package mimetype classifies document bytes and paths into the
// canonical MIME tags the extraction registry dispatches on (C1).
package mimetype

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"strings"

	gvmime "github.com/gabriel-vasile/mimetype"

	"github.com/adverant/docintel/internal/kerrors"
)

// Canonical MIME tags supported by the registry.
const (
	PDF        = "application/pdf"
	DOCX       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	PPTX       = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	XLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ODT        = "application/vnd.oasis.opendocument.text"
	ODS        = "application/vnd.oasis.opendocument.spreadsheet"
	ODP        = "application/vnd.oasis.opendocument.presentation"
	DOC        = "application/msword"
	MSG        = "application/vnd.ms-outlook"
	EML        = "message/rfc822"
	CSV        = "text/csv"
	TSV        = "text/tab-separated-values"
	PlainText  = "text/plain"
	Markdown   = "text/markdown"
	HTML       = "text/html"
	JSON       = "application/json"
	YAML       = "application/yaml"
	TOML       = "application/toml"
	XML        = "application/xml"
	ZIP        = "application/zip"
	TAR        = "application/x-tar"
	SevenZip   = "application/x-7z-compressed"
	GZIP       = "application/gzip"
	PNG        = "image/png"
	JPEG       = "image/jpeg"
	GIF        = "image/gif"
	BMP        = "image/bmp"
	TIFF       = "image/tiff"
	WEBP       = "image/webp"
	SVG        = "image/svg+xml"
	OctetStream = "application/octet-stream"
)

// supported is the full registrable set; validate() rejects anything else.
var supported = map[string]bool{
	PDF: true, DOCX: true, PPTX: true, XLSX: true, ODT: true, ODS: true, ODP: true,
	DOC: true, MSG: true, EML: true, CSV: true, TSV: true, PlainText: true,
	Markdown: true, HTML: true, JSON: true, YAML: true, TOML: true, XML: true,
	ZIP: true, TAR: true, SevenZip: true, GZIP: true,
	PNG: true, JPEG: true, GIF: true, BMP: true, TIFF: true, WEBP: true, SVG: true,
}

var extensions = map[string][]string{
	PDF: {"pdf"}, DOCX: {"docx"}, PPTX: {"pptx"}, XLSX: {"xlsx"},
	ODT: {"odt"}, ODS: {"ods"}, ODP: {"odp"}, DOC: {"doc"},
	MSG: {"msg"}, EML: {"eml"}, CSV: {"csv"}, TSV: {"tsv"},
	PlainText: {"txt"}, Markdown: {"md", "markdown"}, HTML: {"html", "htm"},
	JSON: {"json"}, YAML: {"yaml", "yml"}, TOML: {"toml"}, XML: {"xml"},
	ZIP: {"zip"}, TAR: {"tar"}, SevenZip: {"7z"}, GZIP: {"gz", "gzip"},
	PNG: {"png"}, JPEG: {"jpg", "jpeg"}, GIF: {"gif"}, BMP: {"bmp"},
	TIFF: {"tif", "tiff"}, WEBP: {"webp"}, SVG: {"svg"},
}

var extensionMime = func() map[string]string {
	m := make(map[string]string)
	for mt, exts := range extensions {
		for _, e := range exts {
			m[e] = mt
		}
	}
	return m
}()

const minSniffLen = 4

// DetectFromBytes classifies raw bytes into a canonical MIME tag. Magic
// prefixes are checked first; ZIP-containers are disambiguated by their
// OOXML/ODF content-type entry; text-like formats fall back to a
// best-effort textual probe.
func DetectFromBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return PlainText, nil
	}
	if len(data) < minSniffLen && !looksTextual(data) {
		return "", kerrors.NewValidationError("input too short to determine format", nil)
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return PDF, nil
	}
	if bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return PNG, nil
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return JPEG, nil
	}
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return GIF, nil
	}
	if bytes.HasPrefix(data, []byte("BM")) {
		return BMP, nil
	}
	if bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}) {
		return TIFF, nil
	}
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return WEBP, nil
	}
	if bytes.HasPrefix(data, []byte{0x1F, 0x8B}) {
		return GZIP, nil
	}
	if bytes.HasPrefix(data, []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}) {
		return SevenZip, nil
	}
	if isTarHeader(data) {
		return TAR, nil
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) || bytes.HasPrefix(data, []byte("PK\x05\x06")) {
		return disambiguateZip(data), nil
	}
	if bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}) {
		return MSG, nil
	}
	if looksLikeEmailHeader(data) {
		return EML, nil
	}

	return sniffText(data), nil
}

// DetectFromPath combines an extension heuristic with an optional byte
// sniff. When sniff bytes are given, a sniffed format other than
// octet-stream or plain text wins over the extension, and a sniffed
// octet-stream is returned for an unknown extension. Otherwise a known
// extension's MIME is returned. allowFallback only matters for an
// unknown extension: it then classifies sniff with the text probe;
// without it the result is UnsupportedFormat.
func DetectFromPath(path string, allowFallback bool, sniff []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	extMime, extKnown := extensionMime[ext]

	if len(sniff) > 0 {
		byteMime, err := DetectFromBytes(sniff)
		if err == nil && byteMime != OctetStream && byteMime != PlainText {
			return byteMime, nil
		}
		if err == nil && byteMime == OctetStream && !extKnown {
			return OctetStream, nil
		}
	}

	if extKnown {
		return extMime, nil
	}
	if allowFallback && len(sniff) > 0 {
		return sniffText(sniff), nil
	}

	return "", kerrors.NewUnsupportedFormatError(ext)
}

// Validate returns the canonical form of mime, or UnsupportedFormat if
// it is not in the registrable set.
func Validate(mime string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(canonical, ';'); i >= 0 {
		canonical = strings.TrimSpace(canonical[:i])
	}
	if !supported[canonical] {
		return "", kerrors.NewUnsupportedFormatError(mime)
	}
	return canonical, nil
}

// ExtensionsFor returns the canonical file extensions registered for mime.
func ExtensionsFor(mime string) []string {
	return extensions[mime]
}

func looksTextual(data []byte) bool {
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	return true
}

func isTarHeader(data []byte) bool {
	if len(data) < 512 {
		return false
	}
	return bytes.Equal(data[257:263], []byte("ustar\x00")) || bytes.Equal(data[257:263], []byte("ustar "))
}

// disambiguateZip inspects [Content_Types].xml / mimetype entry of a
// ZIP-container to resolve OOXML vs ODF vs a plain ZIP archive. Since
// only a sniff prefix may be available (not the full archive), this
// degrades to "application/zip" when the central directory isn't
// present in data; callers with the full file should re-sniff using
// DisambiguateZipArchive on the central directory entries instead.
func disambiguateZip(data []byte) string {
	return ZIP
}

// DisambiguateZipArchive resolves a ZIP-container MIME from its list of
// entry names and, for OOXML/ODF candidates, the content of
// "[Content_Types].xml" or "mimetype". Extractors that open the archive
// already have both available; this is the spec's byte-accurate path.
func DisambiguateZipArchive(names []string, contentTypesXML []byte, odfMimetypeEntry []byte) string {
	if len(odfMimetypeEntry) > 0 {
		switch strings.TrimSpace(string(odfMimetypeEntry)) {
		case ODT:
			return ODT
		case ODS:
			return ODS
		case ODP:
			return ODP
		}
	}

	if len(contentTypesXML) > 0 {
		if mt, ok := ooxmlMimeFromContentTypes(contentTypesXML); ok {
			return mt
		}
	}

	hasWordDoc, hasSheet, hasSlide := false, false, false
	for _, n := range names {
		switch {
		case strings.HasPrefix(n, "word/"):
			hasWordDoc = true
		case strings.HasPrefix(n, "xl/"):
			hasSheet = true
		case strings.HasPrefix(n, "ppt/"):
			hasSlide = true
		}
	}
	switch {
	case hasWordDoc:
		return DOCX
	case hasSheet:
		return XLSX
	case hasSlide:
		return PPTX
	}

	return ZIP
}

type contentTypesOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypesDoc struct {
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []contentTypesOverride `xml:"Override"`
}

func ooxmlMimeFromContentTypes(data []byte) (string, bool) {
	var doc contentTypesDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", false
	}
	for _, o := range doc.Overrides {
		switch {
		case strings.Contains(o.ContentType, "wordprocessingml.document.main"):
			return DOCX, true
		case strings.Contains(o.ContentType, "spreadsheetml.sheet.main"):
			return XLSX, true
		case strings.Contains(o.ContentType, "presentationml.presentation.main"):
			return PPTX, true
		}
	}
	return "", false
}

func looksLikeEmailHeader(data []byte) bool {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	s := string(head)
	if hasUTF16BOM(data) {
		s = decodeUTF16BOMPrefix(data, 4096)
	}
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "from:") ||
		strings.HasPrefix(lower, "return-path:") ||
		strings.HasPrefix(lower, "received:") ||
		(strings.Contains(lower, "\nfrom:") && strings.Contains(lower, "\nsubject:"))
}

// hasUTF16BOM reports whether data begins with a UTF-16 byte-order mark.
func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

func decodeUTF16BOMPrefix(data []byte, maxBytes int) string {
	if len(data) > maxBytes {
		data = data[:maxBytes]
	}
	littleEndian := bytes.HasPrefix(data, []byte{0xFF, 0xFE})
	body := data[2:]
	var sb strings.Builder
	for i := 0; i+1 < len(body); i += 2 {
		var r rune
		if littleEndian {
			r = rune(uint16(body[i]) | uint16(body[i+1])<<8)
		} else {
			r = rune(uint16(body[i])<<8 | uint16(body[i+1]))
		}
		if r == 0 {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// sniffText handles CSV/JSON/YAML/TOML/plain-text best-effort probing
// and falls back to the gabriel-vasile/mimetype sniffer (and finally
// application/octet-stream) for anything it doesn't recognize.
func sniffText(data []byte) string {
	if hasUTF16BOM(data) {
		return sniffTextContent(decodeUTF16BOMPrefix(data, 65536))
	}
	if !looksTextual(truncate(data, 8192)) {
		detected := gvmime.Detect(data)
		if detected == nil {
			return OctetStream
		}
		return detected.String()
	}
	return sniffTextContent(string(truncate(data, 65536)))
}

func sniffTextContent(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return PlainText
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return JSON
	}
	if strings.HasPrefix(trimmed, "<?xml") {
		return XML
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype html") || strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		return HTML
	}
	if looksLikeTOML(trimmed) {
		return TOML
	}
	if looksLikeYAML(trimmed) {
		return YAML
	}
	if looksLikeDelimited(trimmed) {
		return CSV
	}

	return PlainText
}

func looksLikeTOML(s string) bool {
	lines := strings.SplitN(s, "\n", 20)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			return true
		}
		if i := strings.Index(line, "="); i > 0 && !strings.Contains(line[:i], ":") {
			return true
		}
		return false
	}
	return false
}

func looksLikeYAML(s string) bool {
	lines := strings.SplitN(s, "\n", 10)
	found := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "---") {
			found = true
			continue
		}
		if i := strings.Index(trimmed, ":"); i > 0 {
			found = true
			continue
		}
		if strings.HasPrefix(trimmed, "- ") {
			found = true
			continue
		}
		return false
	}
	return found
}

func looksLikeDelimited(s string) bool {
	lines := strings.SplitN(s, "\n", 3)
	if len(lines) < 2 {
		return false
	}
	for _, delim := range []string{",", "\t", "|", ";"} {
		count0 := strings.Count(lines[0], delim)
		if count0 == 0 {
			continue
		}
		if strings.Count(lines[1], delim) == count0 {
			return true
		}
	}
	return false
}

func truncate(data []byte, n int) []byte {
	if len(data) > n {
		return data[:n]
	}
	return data
}
