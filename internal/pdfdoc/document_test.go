package pdfdoc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPageNumberFromName(t *testing.T) {
	cases := map[string]struct {
		page int
		ok   bool
	}{
		"report_Content_page_3.txt": {3, true},
		"report_Content_page_12.txt": {12, true},
		"no_trailing_number.txt":     {0, false},
		"nounderscore":               {0, false},
	}
	for name, want := range cases {
		page, ok := pageNumberFromName(name)
		if ok != want.ok || (ok && page != want.page) {
			t.Errorf("pageNumberFromName(%q) = (%d, %v), want (%d, %v)", name, page, ok, want.page, want.ok)
		}
	}
}

func TestReadContentFilesCollectsByPageNumber(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc_Content_page_1.txt"), "page one stream")
	writeFile(t, filepath.Join(dir, "doc_Content_page_2.txt"), "page two stream")

	content := readContentFiles(dir)
	if len(content) != 2 {
		t.Fatalf("got %d pages, want 2", len(content))
	}
	if string(content[1]) != "page one stream" {
		t.Errorf("page 1 content = %q", content[1])
	}
	if string(content[2]) != "page two stream" {
		t.Errorf("page 2 content = %q", content[2])
	}
}

func TestReadContentFilesIgnoresUnrecognizedNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"), "not a page")

	content := readContentFiles(dir)
	if len(content) != 0 {
		t.Errorf("got %d pages, want 0", len(content))
	}
}

func TestReadTextFilePrefersBaseNameMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "source.pdf.txt"), "whole document text")

	got := readTextFile(dir, "/some/path/source.pdf")
	if got != "whole document text" {
		t.Errorf("got %q", got)
	}
}

func TestReadTextFileFallsBackToConcatenation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_page_1.txt"), "first ")
	writeFile(t, filepath.Join(dir, "b_page_2.txt"), "second")

	got := readTextFile(dir, "/some/path/unrelated.pdf")
	if got != "first second" {
		t.Errorf("got %q", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile(%s): %v", path, err)
	}
}
