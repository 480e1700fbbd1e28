package imageio

import (
	"os"
	"sync"
	"time"

	"github.com/gogpu/pixkernel"
)

// DefaultCacheLimit is the number of targets a TargetCache keeps.
const DefaultCacheLimit = 4

type targetKey struct {
	path          string
	modTime       time.Time
	size          int64
	width, height int
}

type targetEntry struct {
	buf   *pixkernel.PixelBuffer
	atime int64
}

// TargetCache keeps decoded targets until their file changes. Entries are
// keyed by path, modification time, file size and requested dimensions.
// The least recently used entry is evicted once the limit is exceeded.
//
// TargetCache is safe for concurrent use. Cached buffers are shared and
// must not be modified.
type TargetCache struct {
	mu      sync.Mutex
	entries map[targetKey]*targetEntry
	limit   int
	tick    int64

	hits, misses int
}

// NewTargetCache creates a cache holding up to limit targets.
// A limit below 1 selects DefaultCacheLimit.
func NewTargetCache(limit int) *TargetCache {
	if limit < 1 {
		limit = DefaultCacheLimit
	}
	return &TargetCache{
		entries: make(map[targetKey]*targetEntry),
		limit:   limit,
	}
}

// Load returns the target at path scaled to width x height, decoding it
// only when no entry matches the file's current state.
func (c *TargetCache) Load(path string, width, height int) (*pixkernel.PixelBuffer, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := targetKey{path: path, modTime: fi.ModTime(), size: fi.Size(), width: width, height: height}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		c.hits++
		c.mu.Unlock()
		return e.buf, nil
	}
	c.misses++
	c.mu.Unlock()

	buf, err := LoadTarget(path, width, height)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	c.entries[key] = &targetEntry{buf: buf, atime: c.tick}
	for len(c.entries) > c.limit {
		c.evictOldest()
	}
	return buf, nil
}

// Len returns the number of cached targets.
func (c *TargetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts.
func (c *TargetCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *TargetCache) evictOldest() {
	var oldest targetKey
	first := true
	var oldestAt int64
	for k, e := range c.entries {
		if first || e.atime < oldestAt {
			oldest, oldestAt, first = k, e.atime, false
		}
	}
	if !first {
		delete(c.entries, oldest)
	}
}
