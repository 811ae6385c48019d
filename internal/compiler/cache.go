package compiler

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// CacheRecorder receives cache lookup results
type CacheRecorder interface {
	RecordCacheLookup(hit bool)
}

// Cache holds successful compile outcomes keyed by request hash
type Cache struct {
	entries  *lru.Cache[string, types.CompileOutcome]
	recorder CacheRecorder
}

// NewCache creates a cache holding up to size outcomes. A size of zero
// disables caching.
func NewCache(size int, recorder CacheRecorder) (*Cache, error) {
	if size <= 0 {
		return &Cache{recorder: recorder}, nil
	}
	entries, err := lru.New[string, types.CompileOutcome](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, recorder: recorder}, nil
}

// Get returns a cached outcome
func (c *Cache) Get(key string) (types.CompileOutcome, bool) {
	if c == nil || c.entries == nil {
		return types.CompileOutcome{}, false
	}
	outcome, ok := c.entries.Get(key)
	if c.recorder != nil {
		c.recorder.RecordCacheLookup(ok)
	}
	return outcome, ok
}

// Put stores a successful outcome; failures are never cached
func (c *Cache) Put(key string, outcome types.CompileOutcome) {
	if c == nil || c.entries == nil || !outcome.Success {
		return
	}
	c.entries.Add(key, outcome)
}

// Len returns the number of cached outcomes
func (c *Cache) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge empties the cache
func (c *Cache) Purge() {
	if c != nil && c.entries != nil {
		c.entries.Purge()
	}
}
