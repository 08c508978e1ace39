package archive

import (
	"archive/tar"
	"bytes"
	"io"

	"github.com/adverant/docintel/internal/kerrors"
)

// ExtractTar reads a (plain, uncompressed) TAR archive's member list
// and the text content of any recognized-extension member. Compressed
// variants are not unwrapped into it: a .tar.gz is dispatched as GZIP to
// ExtractGzip, which returns the decompressed tar stream as a single
// member, and bzip2 is not handled.
func ExtractTar(data []byte, limits SecurityLimits) (Metadata, map[string]string, error) {
	r := tar.NewReader(bytes.NewReader(data))

	var fileList []Entry
	contents := make(map[string]string)
	var totalSize, totalContentSize int64
	fileCount := 0

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Metadata{}, nil, kerrors.NewParsingError("tar", err)
		}

		fileCount++
		if fileCount > limits.MaxFilesInArchive {
			return Metadata{}, nil, kerrors.NewValidationError("tar archive has too many files", nil)
		}

		isDir := hdr.Typeflag == tar.TypeDir
		if !isDir {
			totalSize += hdr.Size
		}
		if totalSize > limits.MaxArchiveSize {
			return Metadata{}, nil, kerrors.NewValidationError("tar archive total uncompressed size exceeds limit", nil)
		}
		fileList = append(fileList, Entry{Path: hdr.Name, Size: hdr.Size, IsDir: isDir})

		if isDir || !IsTextExtension(hdr.Name) {
			continue
		}
		text, readErr := readLimitedText(r, limits.MaxFileSize)
		if readErr != nil || text == "" {
			continue
		}
		totalContentSize += int64(len(text))
		if totalContentSize > limits.MaxContentSize {
			return Metadata{}, nil, kerrors.NewValidationError("tar archive text content exceeds limit", nil)
		}
		contents[hdr.Name] = text
	}

	return Metadata{Format: "TAR", FileList: fileList, FileCount: fileCount, TotalSize: totalSize}, contents, nil
}
