package archive

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"

	"github.com/adverant/docintel/internal/kerrors"
)

// ExtractGzip decompresses a single gzip stream in one pass, enforcing
// limits.MaxArchiveSize against decompression bombs, and returns
// metadata plus (when the payload is valid UTF-8 text) its content
// keyed by the original filename recorded in the gzip header, falling
// back to "compressed_content" when absent.
func ExtractGzip(data []byte, limits SecurityLimits) (Metadata, map[string]string, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return Metadata{}, nil, kerrors.NewParsingError("gzip", err)
	}
	defer r.Close()

	filename := r.Header.Name
	if filename == "" {
		filename = "compressed_content"
	}

	limited := io.LimitReader(r, limits.MaxArchiveSize+1)
	decompressed, err := io.ReadAll(limited)
	if err != nil {
		return Metadata{}, nil, kerrors.NewParsingError("gzip", err)
	}
	if int64(len(decompressed)) > limits.MaxArchiveSize {
		return Metadata{}, nil, kerrors.NewValidationError("gzip decompressed size exceeds limit", nil)
	}

	size := int64(len(decompressed))
	metadata := Metadata{
		Format:    "GZIP",
		FileList:  []Entry{{Path: filename, Size: size, IsDir: false}},
		FileCount: 1,
		TotalSize: size,
	}

	contents := make(map[string]string)
	if utf8.Valid(decompressed) {
		contents[filename] = string(decompressed)
	}
	return metadata, contents, nil
}
