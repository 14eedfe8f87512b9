// Package cache implements the local archive cache.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache stores package archives under a configured root directory. Paths
// are a pure function of the package key, so writes to distinct keys touch
// disjoint files and need no cross-key locking.
type Cache struct {
	root string
}

// New creates a Cache rooted at the configured cache directory.
func New(cfg *domain.Config) *Cache {
	return &Cache{root: filepath.Clean(cfg.CacheRoot)}
}

// Path returns the deterministic archive path for key:
// <root>/<name>-<version>.tar.
func (c *Cache) Path(key domain.PackageKey) string {
	return filepath.Join(c.root, key.String()+".tar")
}

// EnsureRoot creates the cache root directory. Idempotent.
func (c *Cache) EnsureRoot() error {
	if err := os.MkdirAll(c.root, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache root"), "path", c.root)
	}
	return nil
}

// Exists reports whether a cached archive is present at path.
func (c *Cache) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Read returns the cached archive bytes at path.
func (c *Cache) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the cache root
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read cached archive"), "path", path)
	}
	return data, nil
}

// ReadVerified returns the cached archive bytes at path after checking them
// against the recorded digest. An empty digest skips the check, keeping
// archives cached before digests were recorded usable.
func (c *Cache) ReadVerified(path, digest string) ([]byte, error) {
	data, err := c.Read(path)
	if err != nil {
		return nil, err
	}
	if digest != "" && Digest(data) != digest {
		return nil, zerr.With(domain.ErrCacheCorrupt, "path", path)
	}
	return data, nil
}

// Write replaces the archive at path with data and returns the digest of
// the written bytes. The write goes through a temporary file and a rename,
// so readers observe either the prior archive or the new one.
func (c *Cache) Write(path string, data []byte) (string, error) {
	if err := c.EnsureRoot(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(c.root, ".archive-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create temporary archive file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", zerr.Wrap(err, "failed to write archive")
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.Wrap(err, "failed to close archive file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to move archive into cache"), "path", path)
	}
	return Digest(data), nil
}

// Digest returns the xxh64 digest of data in hex form.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
