package dataset

import (
	"os"
	"sync"
	"time"
)

// CachedReader wraps a Reader with an in-memory cache keyed by path. An
// entry is invalidated when the file's modification time or size changes,
// so re-running the cleaning pipeline is picked up without a restart.
//
// This replaces implicit process-wide memoization of the load step with an
// explicit, injectable object. Returned tables are shared between callers
// and must be treated as read-only.
type CachedReader struct {
	inner Reader

	mu      sync.Mutex
	entries map[string]*cacheEntry

	// OnLookup, when set, is called with "hit" or "miss" after each read.
	OnLookup func(result string)
}

type cacheEntry struct {
	table   *Table
	modTime time.Time
	size    int64
}

// NewCachedReader creates a cache decorator around a reader.
func NewCachedReader(inner Reader) *CachedReader {
	return &CachedReader{
		inner:   inner,
		entries: make(map[string]*cacheEntry),
	}
}

// Read returns the cached table for path when the file is unchanged,
// otherwise delegates to the inner reader and caches the result.
func (c *CachedReader) Read(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		// Let the inner reader produce the canonical error.
		c.lookup("miss")
		return c.inner.Read(path)
	}

	c.mu.Lock()
	e, ok := c.entries[path]
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		t := e.table
		c.mu.Unlock()
		c.lookup("hit")
		return t, nil
	}
	c.mu.Unlock()

	c.lookup("miss")
	t, err := c.inner.Read(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = &cacheEntry{table: t, modTime: info.ModTime(), size: info.Size()}
	c.mu.Unlock()
	return t, nil
}

// Invalidate drops the cached entry for path, if any.
func (c *CachedReader) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func (c *CachedReader) lookup(result string) {
	if c.OnLookup != nil {
		c.OnLookup(result)
	}
}
