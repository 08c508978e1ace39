package mimetype

import "testing"

func TestDetectFromBytesMagicPrefixes(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", []byte("%PDF-1.7\n..."), PDF},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}, PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, JPEG},
		{"gif", []byte("GIF89a0123"), GIF},
		{"gzip", []byte{0x1F, 0x8B, 0x08, 0}, GZIP},
		{"sevenzip", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0, 0}, SevenZip},
		{"zip", append([]byte("PK\x03\x04"), make([]byte, 8)...), ZIP},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFromBytes(tc.data)
			if err != nil {
				t.Fatalf("DetectFromBytes() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("DetectFromBytes() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectFromBytesTooShort(t *testing.T) {
	_, err := DetectFromBytes([]byte{0x00, 0x01})
	if err == nil {
		t.Error("expected a Validation error for undersized binary input")
	}
}

func TestDetectFromBytesEmpty(t *testing.T) {
	got, err := DetectFromBytes(nil)
	if err != nil {
		t.Fatalf("DetectFromBytes(nil) error = %v", err)
	}
	if got != PlainText {
		t.Errorf("DetectFromBytes(nil) = %q, want %q", got, PlainText)
	}
}

func TestDetectFromBytesCSVProbe(t *testing.T) {
	data := []byte("Name,Age,City\nAlice,30,NYC\nBob,25,LA\n")
	got, err := DetectFromBytes(data)
	if err != nil {
		t.Fatalf("DetectFromBytes() error = %v", err)
	}
	if got != CSV {
		t.Errorf("DetectFromBytes(csv) = %q, want %q", got, CSV)
	}
}

func TestDetectFromBytesJSONProbe(t *testing.T) {
	got, err := DetectFromBytes([]byte(`{"key": "value"}`))
	if err != nil {
		t.Fatalf("DetectFromBytes() error = %v", err)
	}
	if got != JSON {
		t.Errorf("DetectFromBytes(json) = %q, want %q", got, JSON)
	}
}

func TestDetectFromBytesUTF16EmailBOM(t *testing.T) {
	body := "From: alice@example.com\nSubject: hi\n\nbody text"
	var utf16LE []byte
	utf16LE = append(utf16LE, 0xFF, 0xFE)
	for _, r := range body {
		utf16LE = append(utf16LE, byte(r), 0)
	}

	got, err := DetectFromBytes(utf16LE)
	if err != nil {
		t.Fatalf("DetectFromBytes() error = %v", err)
	}
	if got != EML {
		t.Errorf("DetectFromBytes(utf16 eml) = %q, want %q", got, EML)
	}
}

func TestValidateCanonicalizesAndRejects(t *testing.T) {
	got, err := Validate("application/pdf; charset=binary")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != PDF {
		t.Errorf("Validate() = %q, want %q", got, PDF)
	}

	if _, err := Validate("application/x-not-a-real-format"); err == nil {
		t.Error("expected UnsupportedFormat error for an unregistered MIME")
	}
}

func TestExtensionsFor(t *testing.T) {
	exts := ExtensionsFor(DOCX)
	if len(exts) != 1 || exts[0] != "docx" {
		t.Errorf("ExtensionsFor(DOCX) = %v, want [docx]", exts)
	}
}

func TestDisambiguateZipArchiveByContentTypes(t *testing.T) {
	contentTypes := []byte(`<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`)

	got := DisambiguateZipArchive(nil, contentTypes, nil)
	if got != DOCX {
		t.Errorf("DisambiguateZipArchive() = %q, want %q", got, DOCX)
	}
}

func TestDisambiguateZipArchiveByODFMimetype(t *testing.T) {
	got := DisambiguateZipArchive(nil, nil, []byte(ODS))
	if got != ODS {
		t.Errorf("DisambiguateZipArchive() = %q, want %q", got, ODS)
	}
}

func TestDisambiguateZipArchiveByEntryNames(t *testing.T) {
	got := DisambiguateZipArchive([]string{"xl/workbook.xml", "xl/worksheets/sheet1.xml"}, nil, nil)
	if got != XLSX {
		t.Errorf("DisambiguateZipArchive() = %q, want %q", got, XLSX)
	}
}

func TestDetectFromPathExtensionHeuristic(t *testing.T) {
	got, err := DetectFromPath("report.docx", true, nil)
	if err != nil {
		t.Fatalf("DetectFromPath() error = %v", err)
	}
	if got != DOCX {
		t.Errorf("DetectFromPath() = %q, want %q", got, DOCX)
	}
}

func TestDetectFromPathUnknownExtensionNoFallback(t *testing.T) {
	_, err := DetectFromPath("mystery.xyz", false, nil)
	if err == nil {
		t.Error("expected UnsupportedFormat when extension is unknown and fallback disabled")
	}
}
