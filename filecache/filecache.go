// Package filecache reads and content-hashes files from disk, and watches
// the filesystem for changes so the project loader knows when to re-resolve.
package filecache

import (
	"context"
	"os"
	"sync"

	"github.com/aedm/bitang/apperr"
	"github.com/aedm/bitang/cache"
	"github.com/cespare/xxhash/v2"
)

// File is a file's content plus its fast content hash.
type File struct {
	Hash    uint64
	Content []byte
}

// Cache reads and caches file contents, deduplicating concurrent reads of
// the same path within a load cycle.
type Cache struct {
	inner *cache.Cache[string, File]

	mu               sync.Mutex
	hasMissingFiles  bool
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{inner: cache.New[string, File]()}
}

// Get loads (or returns the already-cached) content and hash for path. A
// missing file sets HasMissingFiles and returns a NotFound error; a failed
// read is not kept, so the next Get for path reads the file again.
func (c *Cache) Get(ctx context.Context, path string) (File, error) {
	f, err := c.inner.Get(ctx, path, func(ctx context.Context) (File, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			c.mu.Lock()
			c.hasMissingFiles = true
			c.mu.Unlock()
			return File{}, apperr.New(apperr.NotFound, path, err)
		}
		return File{Hash: xxhash.Sum64(data), Content: data}, nil
	})
	if err != nil {
		c.inner.Remove(path)
	}
	return f, err
}

// HasMissingFiles reports whether any Get call in the current load cycle
// failed to find its file.
func (c *Cache) HasMissingFiles() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMissingFiles
}

// StartLoadCycle clears the accessed-set and missing-files flag for a new
// load cycle.
func (c *Cache) StartLoadCycle() {
	c.mu.Lock()
	c.hasMissingFiles = false
	c.mu.Unlock()
	c.inner.StartLoadCycle()
}

// DisplayLoadErrors logs every failed read from the current load cycle.
func (c *Cache) DisplayLoadErrors() { c.inner.DisplayLoadErrors() }

// AccessedPaths returns every path read during the current load cycle, for
// handing to a ChangeHandler's UpdateWatchers.
func (c *Cache) AccessedPaths() []string { return c.inner.AccessedKeys() }

// Invalidate drops path from the cache, forcing the next Get to re-read it.
func (c *Cache) Invalidate(path string) { c.inner.Remove(path) }

// Clear drops every cached file.
func (c *Cache) Clear() { c.inner.Clear() }
