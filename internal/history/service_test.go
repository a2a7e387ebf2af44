package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/maxbolgarin/retrospec/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	summaries []model.CommitSummary
	details   map[string]*model.CommitDetail
	detailErr map[string]error
	listErr   error

	mu          sync.Mutex
	listCalls   int
	detailCalls map[string]int
}

func (f *fakeProvider) GetRepository(ctx context.Context, ref model.RepositoryRef) (*model.RepositoryInfo, error) {
	return &model.RepositoryInfo{Owner: ref.Owner, Repo: ref.Name, FullName: ref.String()}, nil
}

func (f *fakeProvider) ListCommits(ctx context.Context, ref model.RepositoryRef, page, perPage int) ([]model.CommitSummary, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.summaries) > perPage {
		return f.summaries[:perPage], nil
	}
	return f.summaries, nil
}

func (f *fakeProvider) GetCommitDetail(ctx context.Context, ref model.RepositoryRef, sha string) (*model.CommitDetail, error) {
	f.mu.Lock()
	if f.detailCalls == nil {
		f.detailCalls = make(map[string]int)
	}
	f.detailCalls[sha]++
	f.mu.Unlock()

	if err, ok := f.detailErr[sha]; ok {
		return nil, err
	}
	detail, ok := f.details[sha]
	if !ok {
		return nil, &model.NotFoundError{Owner: ref.Owner, Repo: ref.Name}
	}
	return detail, nil
}

func (f *fakeProvider) calls(sha string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls[sha]
}

var testDate = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func newFakeProvider(shas ...string) *fakeProvider {
	f := &fakeProvider{
		details:   make(map[string]*model.CommitDetail),
		detailErr: make(map[string]error),
	}
	for i, sha := range shas {
		f.summaries = append(f.summaries, model.CommitSummary{
			SHA:         sha,
			Message:     fmt.Sprintf("commit %d\n\nlong body", i),
			AuthorLogin: "alice",
			Date:        testDate,
		})
		f.details[sha] = &model.CommitDetail{
			SHA:         sha,
			Message:     fmt.Sprintf("commit %d\n\nlong body", i),
			AuthorLogin: "alice",
			AvatarURL:   "https://example.com/alice.png",
			Date:        testDate,
			Stats:       model.CommitStats{Additions: 3, Deletions: 2, Total: 5},
			Files: []model.FileChange{
				{Filename: "main.go", Status: "modified", Additions: 3, Deletions: 2, Changes: 5, Patch: "@@ -1 +1 @@"},
			},
		}
	}
	return f
}

func newTestService(t *testing.T, cfg Config, prov model.CommitProvider) *Service {
	t.Helper()
	svc, err := NewService(cfg, prov, NewCache())
	require.NoError(t, err)
	return svc
}

func TestGetHistoryBuildsRecords(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111", "bbbbbbb2222222")

	// Second commit has no platform login, only a display name.
	prov.summaries[1].AuthorLogin = ""
	prov.details["bbbbbbb2222222"].AuthorLogin = ""
	prov.details["bbbbbbb2222222"].AuthorName = "Bob Dev"

	svc := newTestService(t, Config{}, prov)

	page, err := svc.GetHistory(context.Background(), "github.com/golang/go", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, "golang", page.Owner)
	assert.Equal(t, "go", page.Repo)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Total)
	assert.False(t, page.HasMore)
	require.Len(t, page.Commits, 2)

	first := page.Commits[0]
	assert.Equal(t, "aaaaaaa1111111", first.Hash)
	assert.Equal(t, "aaaaaaa", first.ShortHash)
	assert.Equal(t, "commit 0", first.Message)
	assert.Equal(t, "commit 0\n\nlong body", first.FullMessage)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, "https://example.com/alice.png", first.AvatarURL)
	assert.Equal(t, "2024-03-01T12:30:00Z", first.Date)
	assert.Equal(t, 1, first.FilesChanged)
	assert.Equal(t, 3, first.Insertions)
	assert.Equal(t, 2, first.Deletions)
	assert.Equal(t, model.RiskLow, first.RiskLevel)
	assert.Contains(t, first.Diff, "diff --git a/main.go b/main.go")
	require.Len(t, first.Files, 1)

	assert.Equal(t, "Bob Dev", page.Commits[1].Author)
}

func TestGetHistoryAuthorUnknown(t *testing.T) {
	prov := newFakeProvider("ccccccc3333333")
	prov.details["ccccccc3333333"].AuthorLogin = ""
	prov.details["ccccccc3333333"].AuthorName = ""

	svc := newTestService(t, Config{}, prov)

	page, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Commits, 1)
	assert.Equal(t, "unknown", page.Commits[0].Author)
}

func TestGetHistoryCacheIdempotence(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111", "bbbbbbb2222222")
	svc := newTestService(t, Config{}, prov)

	first, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)
	second, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)

	// One detail call per hash across both requests.
	assert.Equal(t, 1, prov.calls("aaaaaaa1111111"))
	assert.Equal(t, 1, prov.calls("bbbbbbb2222222"))
	assert.Equal(t, first.Commits, second.Commits)
	assert.Equal(t, 2, svc.Cache().Len())
}

func TestGetHistoryPartialFailure(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111", "bbbbbbb2222222", "ccccccc3333333")
	prov.detailErr["bbbbbbb2222222"] = &model.UpstreamError{StatusCode: 502, Body: "bad gateway"}

	svc := newTestService(t, Config{}, prov)

	page, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Commits, 3)

	degraded := page.Commits[1]
	assert.Equal(t, "bbbbbbb2222222", degraded.Hash)
	assert.Equal(t, "bbbbbbb", degraded.ShortHash)
	assert.Equal(t, "commit 1", degraded.Message)
	assert.Equal(t, model.RiskLow, degraded.RiskLevel)
	assert.Zero(t, degraded.FilesChanged)
	assert.Zero(t, degraded.Insertions)
	assert.Zero(t, degraded.Deletions)
	assert.Empty(t, degraded.Diff)
	assert.NotNil(t, degraded.Files)
	assert.Empty(t, degraded.Files)

	// Degraded records are not cached, so a later request retries.
	assert.Equal(t, 2, svc.Cache().Len())
	_, err = svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, prov.calls("bbbbbbb2222222"))
}

func TestGetHistoryRateLimitOnListAborts(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111")
	prov.listErr = &model.RateLimitError{Host: "GitHub"}

	svc := newTestService(t, Config{}, prov)

	_, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.Error(t, err)

	var rateLimited *model.RateLimitError
	assert.True(t, errors.As(err, &rateLimited))
	assert.Equal(t, 0, svc.Cache().Len())
}

func TestGetHistoryRateLimitOnDetailAborts(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111", "bbbbbbb2222222")
	prov.detailErr["aaaaaaa1111111"] = &model.RateLimitError{Host: "GitHub"}

	svc := newTestService(t, Config{}, prov)

	_, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.Error(t, err)

	var rateLimited *model.RateLimitError
	assert.True(t, errors.As(err, &rateLimited))
}

func TestGetHistoryNotFoundOnDetailAborts(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111")
	prov.detailErr["aaaaaaa1111111"] = &model.NotFoundError{Owner: "golang", Repo: "go"}

	svc := newTestService(t, Config{}, prov)

	_, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.Error(t, err)

	var notFound *model.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestGetHistoryHasMore(t *testing.T) {
	prov := newFakeProvider(
		"aaaaaaa1111111", "bbbbbbb2222222", "ccccccc3333333",
		"ddddddd4444444", "eeeeeee5555555",
	)
	svc := newTestService(t, Config{}, prov)

	// Exactly the requested count: more pages likely exist.
	page, err := svc.GetHistory(context.Background(), "golang/go", 1, 5)
	require.NoError(t, err)
	assert.True(t, page.HasMore)

	// Fewer than requested: this was the last page.
	page, err = svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)
	assert.False(t, page.HasMore)
}

func TestGetHistoryMalformedReference(t *testing.T) {
	prov := newFakeProvider("aaaaaaa1111111")
	svc := newTestService(t, Config{}, prov)

	_, err := svc.GetHistory(context.Background(), "not a repo", 1, 20)
	require.Error(t, err)

	var malformed *model.MalformedReferenceError
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, 0, prov.listCalls)
}

func TestGetHistoryPooledKeepsOrder(t *testing.T) {
	shas := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		shas = append(shas, fmt.Sprintf("%07d4444444", i))
	}
	prov := newFakeProvider(shas...)

	svc := newTestService(t, Config{Workers: 4}, prov)

	page, err := svc.GetHistory(context.Background(), "golang/go", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Commits, 12)

	for i, rec := range page.Commits {
		assert.Equal(t, shas[i], rec.Hash)
	}
	assert.Equal(t, 12, svc.Cache().Len())
}

func TestGetRepositoryInfo(t *testing.T) {
	prov := newFakeProvider()
	svc := newTestService(t, Config{}, prov)

	info, err := svc.GetRepositoryInfo(context.Background(), "https://github.com/golang/go.git")
	require.NoError(t, err)
	assert.Equal(t, "golang/go", info.FullName)

	_, err = svc.GetRepositoryInfo(context.Background(), "nonsense")
	require.Error(t, err)
}
