// Package archive implements the four format-specific archive
// extractors (ZIP, TAR, 7Z, GZIP), each producing an ArchiveMetadata
// summary plus the text content of any recognized-extension member
// file, subject to shared security limits against decompression bombs
// and entry-count exhaustion.
package archive

import "strings"

// SecurityLimits bounds archive expansion. The reference implementation
// references these three fields throughout its per-format extractors
// without a single shared struct definition in the retrieved source, so
// the defaults below are chosen to match the per-file 10MB cap visible
// in its ZIP/TAR text-extraction routines, scaled up for the archive
// and aggregate-content totals.
type SecurityLimits struct {
	MaxArchiveSize    int64 // total uncompressed bytes across all entries
	MaxFilesInArchive int   // total entry count
	MaxFileSize       int64 // single entry's uncompressed size
	MaxContentSize    int64 // aggregate extracted text content
}

// DefaultSecurityLimits matches the extractor's own conservative
// defaults: a 1GiB archive ceiling, 10,000 entries, 10MB per recognized
// text file, and 50MB of aggregate extracted text.
func DefaultSecurityLimits() SecurityLimits {
	return SecurityLimits{
		MaxArchiveSize:    1 << 30,
		MaxFilesInArchive: 10000,
		MaxFileSize:       10 << 20,
		MaxContentSize:    50 << 20,
	}
}

// TextExtensions lists the file extensions whose content is read and
// surfaced as text when walking an archive's members.
var TextExtensions = []string{".txt", ".md", ".json", ".xml", ".html", ".csv", ".log", ".yaml", ".toml"}

// IsTextExtension reports whether path ends in a recognized text
// extension (case-insensitive).
func IsTextExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range TextExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Entry describes one archive member: its path, uncompressed size, and
// whether it is a directory.
type Entry struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"is_dir"`
}

// Metadata summarizes an archive's contents, populated into
// Metadata.Additional["archive"] by every format-specific extractor.
type Metadata struct {
	Format    string  `json:"format"`
	FileList  []Entry `json:"file_list"`
	FileCount int     `json:"file_count"`
	TotalSize int64   `json:"total_size"`
}
