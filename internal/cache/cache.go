// Package cache implements the content-addressed result cache (C2):
// filesystem entries keyed by a blake3 hash of content bytes plus the
// extraction config that produced them, with atomic writes, per-key
// advisory locking, and LRU eviction by a size bound.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/zeebo/blake3"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
)

// Kind segregates cache entries by purpose within the root.
type Kind string

const (
	KindExtraction Kind = "extraction"
	KindOCR        Kind = "ocr"
	KindEmbeddings Kind = "embeddings"
)

// Stats reports operational cache metrics for diagnostics tooling.
type Stats struct {
	EntryCount int
	TotalBytes int64
}

// Cache is a single cache-kind subdirectory under the cache root.
type Cache struct {
	dir      string
	maxBytes int64
}

// DefaultRoot resolves the platform-specific cache root: XDG_CACHE_HOME
// on Linux, %LOCALAPPDATA% on Windows, ~/Library/Caches on macOS,
// falling back to os.UserCacheDir().
func DefaultRoot(override string) (string, error) {
	if override != "" {
		return filepath.Join(override, "kreuzberg"), nil
	}

	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "kreuzberg"), nil
		}
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", kerrors.NewIoError("failed to resolve platform cache directory", err)
	}
	return filepath.Join(base, "kreuzberg"), nil
}

// New opens (creating if needed) the cache subdirectory for kind under
// root, bounded to maxBytes total size.
func New(root string, kind Kind, maxBytes int64) (*Cache, error) {
	dir := filepath.Join(root, string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, kerrors.NewIoError("failed to create cache directory", err)
	}
	return &Cache{dir: dir, maxBytes: maxBytes}, nil
}

// HashContent returns the hex blake3 digest of data, the content half of
// a cache key.
func HashContent(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashConfig returns the hex blake3 digest of an extraction config's
// canonical JSON encoding, the config half of a cache key.
func HashConfig(cfg model.ExtractionConfig) (string, error) {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return "", kerrors.NewSerializationError("json", err)
	}
	sum := blake3.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// Key combines a content hash and config hash into a single cache key.
func Key(contentHash, configHash string) string {
	combined := blake3.Sum256([]byte(contentHash + ":" + configHash))
	return hex.EncodeToString(combined[:])
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key)
}

func (c *Cache) lockPath(key string) string {
	return filepath.Join(c.dir, key+".lock")
}

// Lookup returns the cached result for key, if present. Access time is
// bumped so LRU eviction treats this entry as freshly used. A read
// failure is never fatal: it is reported via the returned error, which
// callers must downgrade to a processing_warning and fall through to
// recomputation rather than surfacing as the extraction's terminal error.
func (c *Cache) Lookup(key string) (*model.ExtractionResult, bool, error) {
	path := c.entryPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, kerrors.NewCacheError("failed to read cache entry", err)
	}

	now := time.Now()
	_ = os.Chtimes(path, now, now)

	var result model.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, kerrors.NewCacheError("failed to decode cache entry", err)
	}

	return &result, true, nil
}

// Store writes value under key using a write-then-atomic-rename
// protocol: the encoded result is written to a temp file in the same
// directory, then renamed over the final path, so concurrent readers
// never observe a partially written entry.
func (c *Cache) Store(key string, value *model.ExtractionResult) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return kerrors.NewCacheError("failed to encode cache entry", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return kerrors.NewCacheError("failed to create temp cache file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return kerrors.NewCacheError("failed to write temp cache file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return kerrors.NewCacheError("failed to close temp cache file", err)
	}

	if err := os.Rename(tmpPath, c.entryPath(key)); err != nil {
		os.Remove(tmpPath)
		return kerrors.NewCacheError("failed to commit cache entry", err)
	}

	return c.evictIfOverBound()
}

// WithBuildLock enforces at-most-one concurrent build of key: it
// acquires a per-key advisory file lock before calling build, with
// deadline bounding how long to wait for the lock. On deadline expiry
// or a lock error, it returns (false, nil) rather than an error — the
// caller falls through and recomputes unlocked, per the spec's
// never-block failure semantics.
func (c *Cache) WithBuildLock(key string, deadline time.Duration, build func() error) (acquired bool, err error) {
	fl := flock.New(c.lockPath(key))
	defer fl.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	locked, lockErr := fl.TryLockContext(ctx, 25*time.Millisecond)
	if lockErr != nil || !locked {
		return false, nil
	}

	if err := build(); err != nil {
		return true, err
	}
	return true, nil
}

// Clear removes every entry in the cache, including lock files.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return kerrors.NewCacheError("failed to list cache directory", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return kerrors.NewCacheError("failed to remove cache entry", err)
		}
	}
	return nil
}

// Stats reports the entry count and total size of the cache.
func (c *Cache) Stats() (Stats, error) {
	entries, err := c.dataEntries()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.EntryCount++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}

func (c *Cache) dataEntries() ([]os.DirEntry, error) {
	all, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, kerrors.NewCacheError("failed to list cache directory", err)
	}

	out := all[:0]
	for _, e := range all {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) == ".lock" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// evictIfOverBound removes least-recently-accessed entries (by mtime,
// which Lookup/Store keep current as a proxy for access time) until
// total size is within maxBytes. A maxBytes of 0 disables eviction.
func (c *Cache) evictIfOverBound() error {
	if c.maxBytes <= 0 {
		return nil
	}

	entries, err := c.dataEntries()
	if err != nil {
		return err
	}

	type sized struct {
		path    string
		size    int64
		modTime time.Time
	}
	var all []sized
	var total int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		all = append(all, sized{path: filepath.Join(c.dir, e.Name()), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}
	if total <= c.maxBytes {
		return nil
	}

	sort.Slice(all, func(i, j int) bool { return all[i].modTime.Before(all[j].modTime) })

	for _, s := range all {
		if total <= c.maxBytes {
			break
		}
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			continue
		}
		total -= s.size
	}

	return nil
}
