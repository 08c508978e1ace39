package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/adverant/docintel/internal/kerrors"
)

// ExtractZip reads a ZIP archive's member list and the text content of
// any recognized-extension member, enforcing limits as it walks
// entries so a decompression bomb is caught before it is fully
// buffered.
func ExtractZip(data []byte, limits SecurityLimits) (Metadata, map[string]string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Metadata{}, nil, kerrors.NewParsingError("zip", err)
	}

	if len(r.File) > limits.MaxFilesInArchive {
		return Metadata{}, nil, kerrors.NewValidationError("zip archive has too many files", nil)
	}

	fileList := make([]Entry, 0, len(r.File))
	contents := make(map[string]string)
	var totalSize, totalContentSize int64

	for _, f := range r.File {
		isDir := f.FileInfo().IsDir()
		size := int64(f.UncompressedSize64)
		if !isDir {
			totalSize += size
		}
		if totalSize > limits.MaxArchiveSize {
			return Metadata{}, nil, kerrors.NewValidationError("zip archive total uncompressed size exceeds limit", nil)
		}
		fileList = append(fileList, Entry{Path: f.Name, Size: size, IsDir: isDir})

		if isDir || !IsTextExtension(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		text, readErr := readLimitedText(rc, limits.MaxFileSize)
		rc.Close()
		if readErr != nil || text == "" {
			continue
		}
		totalContentSize += int64(len(text))
		if totalContentSize > limits.MaxContentSize {
			return Metadata{}, nil, kerrors.NewValidationError("zip archive text content exceeds limit", nil)
		}
		contents[f.Name] = text
	}

	return Metadata{Format: "ZIP", FileList: fileList, FileCount: len(r.File), TotalSize: totalSize}, contents, nil
}

func readLimitedText(r io.Reader, max int64) (string, error) {
	limited := io.LimitReader(r, max+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > max {
		data = data[:max]
	}
	if !utf8.Valid(data) {
		return "", nil
	}
	return string(data), nil
}
