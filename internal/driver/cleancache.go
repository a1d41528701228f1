package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hush/internal/project"
)

// Current schema version - increment when CleanEntry format changes
const cleanCacheSchemaVersion uint16 = 1

// CleanCache remembers the content hash each file had right after hush
// processed it, so a later run can skip files nobody touched since.
// Thread-safe for concurrent access.
type CleanCache struct {
	mu  sync.RWMutex
	dir string
}

// CleanEntry is the msgpack payload stored per file.
type CleanEntry struct {
	Schema   uint16
	Path     string
	Mode     string
	Hash     project.Digest // source.File.Hash after stripping
	StoredAt int64          // unix seconds
}

// CacheDir returns $XDG_CACHE_HOME/<app>, or ~/.cache/<app> when the variable is unset.
func CacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenCleanCache opens the cache under CacheDir(app).
func OpenCleanCache(app string) (*CleanCache, error) {
	dir, err := CacheDir(app)
	if err != nil {
		return nil, err
	}
	return NewCleanCache(dir)
}

// NewCleanCache opens a cache rooted at dir, creating it if needed.
func NewCleanCache(dir string) (*CleanCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CleanCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *CleanCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey identifies a file processed in a given mode.
func CacheKey(path, mode string) project.Digest {
	if abs, err := filepath.Abs(path); err == nil && !isURL(path) {
		path = abs
	}
	return project.Combine(project.DigestOf(path), project.DigestOf(mode))
}

func (c *CleanCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes an entry.
func (c *CleanCache) Put(key project.Digest, entry *CleanEntry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = cleanCacheSchemaVersion
	if entry.StoredAt == 0 {
		entry.StoredAt = time.Now().Unix()
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		// after a successful rename the temp file is gone
		_ = os.Remove(tmpName)
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads an entry. A missing entry is not an error.
func (c *CleanCache) Get(key project.Digest, out *CleanEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// IsClean reports whether hash matches the entry recorded for key.
func (c *CleanCache) IsClean(key, hash project.Digest) (bool, error) {
	var entry CleanEntry
	ok, err := c.Get(key, &entry)
	if err != nil || !ok {
		return false, err
	}
	return entry.Schema == cleanCacheSchemaVersion && entry.Hash == hash, nil
}

// DropAll removes every entry.
func (c *CleanCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}
