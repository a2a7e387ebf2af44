package history

import (
	"sync"
	"testing"

	"github.com/maxbolgarin/retrospec/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(hash string) *model.CommitRecord {
	return &model.CommitRecord{
		Hash:      hash,
		ShortHash: hash[:7],
		Message:   "fix bug",
		Author:    "alice",
		RiskLevel: model.RiskLow,
		Files:     []model.FileChange{{Filename: "main.go", Status: "modified"}},
	}
}

func TestCachePutGet(t *testing.T) {
	cache := NewCache()

	_, ok := cache.Get("deadbeef1234567")
	assert.False(t, ok)

	cache.Put(newTestRecord("deadbeef1234567"))
	require.Equal(t, 1, cache.Len())

	rec, ok := cache.Get("deadbeef1234567")
	require.True(t, ok)
	assert.Equal(t, "deadbee", rec.ShortHash)
	assert.Equal(t, "alice", rec.Author)
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache()
	original := newTestRecord("deadbeef1234567")
	cache.Put(original)

	// Mutating the stored original must not reach the cache.
	original.Author = "mallory"
	original.Files[0].Filename = "evil.go"

	rec, ok := cache.Get("deadbeef1234567")
	require.True(t, ok)
	assert.Equal(t, "alice", rec.Author)
	assert.Equal(t, "main.go", rec.Files[0].Filename)

	// Mutating a returned copy must not reach the cache either.
	rec.Message = "changed"
	rec.Files[0].Filename = "other.go"

	again, ok := cache.Get("deadbeef1234567")
	require.True(t, ok)
	assert.Equal(t, "fix bug", again.Message)
	assert.Equal(t, "main.go", again.Files[0].Filename)
}

func TestCacheAttachAnalysis(t *testing.T) {
	cache := NewCache()

	// Absent hash is a no-op.
	assert.False(t, cache.AttachAnalysis("missing", "text"))
	assert.Equal(t, 0, cache.Len())

	cache.Put(newTestRecord("deadbeef1234567"))
	assert.True(t, cache.AttachAnalysis("deadbeef1234567", "looks risky"))

	rec, ok := cache.Get("deadbeef1234567")
	require.True(t, ok)
	assert.Equal(t, "looks risky", rec.Analysis)

	// Overwrite is allowed.
	assert.True(t, cache.AttachAnalysis("deadbeef1234567", "second opinion"))
	rec, _ = cache.Get("deadbeef1234567")
	assert.Equal(t, "second opinion", rec.Analysis)
}

func TestCacheAttachAnalysisConcurrent(t *testing.T) {
	cache := NewCache()
	cache.Put(newTestRecord("deadbeef1234567"))

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func(writer bool) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if writer {
					cache.AttachAnalysis("deadbeef1234567", "looks risky")
					continue
				}
				rec, ok := cache.Get("deadbeef1234567")
				if !ok {
					t.Error("record disappeared during concurrent access")
					return
				}
				if rec.Analysis != "" && rec.Analysis != "looks risky" {
					t.Errorf("observed torn analysis: %q", rec.Analysis)
					return
				}
			}
		}(n%2 == 0)
	}
	wg.Wait()

	rec, ok := cache.Get("deadbeef1234567")
	require.True(t, ok)
	assert.Equal(t, "looks risky", rec.Analysis)
}
