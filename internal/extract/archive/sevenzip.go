package archive

import (
	"bytes"

	"github.com/bodgit/sevenzip"

	"github.com/adverant/docintel/internal/kerrors"
)

// ExtractSevenZip reads a 7Z archive's member list and the text
// content of any recognized-extension member. sevenzip.NewReader
// mirrors archive/zip's Reader shape (a File slice, each openable via
// Open), so this mirrors ExtractZip closely.
func ExtractSevenZip(data []byte, limits SecurityLimits) (Metadata, map[string]string, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Metadata{}, nil, kerrors.NewParsingError("7z", err)
	}

	if len(r.File) > limits.MaxFilesInArchive {
		return Metadata{}, nil, kerrors.NewValidationError("7z archive has too many files", nil)
	}

	fileList := make([]Entry, 0, len(r.File))
	contents := make(map[string]string)
	var totalSize, totalContentSize int64

	for _, f := range r.File {
		isDir := f.FileInfo().IsDir()
		size := int64(f.UncompressedSize)
		if !isDir {
			totalSize += size
		}
		if totalSize > limits.MaxArchiveSize {
			return Metadata{}, nil, kerrors.NewValidationError("7z archive total uncompressed size exceeds limit", nil)
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
			return Metadata{}, nil, kerrors.NewValidationError("7z archive text content exceeds limit", nil)
		}
		contents[f.Name] = text
	}

	return Metadata{Format: "7Z", FileList: fileList, FileCount: len(r.File), TotalSize: totalSize}, contents, nil
}
