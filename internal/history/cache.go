package history

import (
	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/retrospec/internal/model"
)

// Cache is a process-lifetime store of commit records keyed by full hash.
// It owns the canonical records: callers always receive copies, and the only
// mutation after creation is attaching an analysis. Unbounded, no eviction.
type Cache struct {
	records *abstract.SafeMap[string, *model.CommitRecord]
}

// NewCache creates an empty commit cache
func NewCache() *Cache {
	return &Cache{
		records: abstract.NewSafeMap[string, *model.CommitRecord](),
	}
}

// Get returns a copy of the cached record for the hash, if present
func (c *Cache) Get(hash string) (*model.CommitRecord, bool) {
	rec, ok := c.records.Lookup(hash)
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Put stores a copy of the record under its hash, overwriting any prior entry
func (c *Cache) Put(rec *model.CommitRecord) {
	c.records.Set(rec.Hash, rec.Clone())
}

// AttachAnalysis sets the analysis text on a cached record.
// It reports false (and does nothing) when the hash is absent.
// The stored record is replaced, not mutated: concurrent Get calls
// keep cloning either the old or the new record, never a torn one.
func (c *Cache) AttachAnalysis(hash, analysis string) bool {
	rec, ok := c.records.Lookup(hash)
	if !ok {
		return false
	}
	updated := rec.Clone()
	updated.Analysis = analysis
	c.records.Set(hash, updated)
	return true
}

// Len returns the number of cached records
func (c *Cache) Len() int {
	return c.records.Len()
}
