package history

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/retrospec/internal/model"
	"github.com/maxbolgarin/retrospec/internal/provider"
	"github.com/panjf2000/ants/v2"
)

const shortHashLen = 7

// Service assembles classified commit history: it resolves a repository
// reference, lists commits, fetches per-commit detail (through the cache),
// assembles diffs and classifies risk.
type Service struct {
	provider model.CommitProvider
	cache    *Cache
	cfg      Config
	log      logze.Logger
}

// NewService creates a new commit-history service
func NewService(cfg Config, prov model.CommitProvider, cache *Cache) (*Service, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	return &Service{
		provider: prov,
		cache:    cache,
		cfg:      cfg,
		log:      logze.With("component", "history"),
	}, nil
}

// Cache returns the commit cache owned by this service
func (s *Service) Cache() *Cache {
	return s.cache
}

// GetRepositoryInfo resolves the reference and fetches repository metadata
func (s *Service) GetRepositoryInfo(ctx context.Context, rawURL string) (*model.RepositoryInfo, error) {
	ref, err := provider.ResolveRepository(rawURL)
	if err != nil {
		return nil, err
	}
	return s.provider.GetRepository(ctx, ref)
}

// GetHistory fetches one page of commit history with full detail attached.
// A failing list call aborts the page; a failing detail call degrades to a
// summary-only record unless the failure is not-found or rate-limit.
func (s *Service) GetHistory(ctx context.Context, rawURL string, page, limit int) (*model.HistoryPage, error) {
	ref, err := provider.ResolveRepository(rawURL)
	if err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = s.cfg.PageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page < 1 {
		page = 1
	}

	timer := abstract.StartTimer()

	summaries, err := s.provider.ListCommits(ctx, ref, page, limit)
	if err != nil {
		return nil, err
	}

	records, err := s.resolveRecords(ctx, ref, summaries)
	if err != nil {
		return nil, err
	}

	s.log.Debug("commit history assembled",
		"repo", ref.String(),
		"page", page,
		"count", len(records),
		"elapsed", timer.ElapsedTime().String(),
	)

	return &model.HistoryPage{
		Commits: records,
		Total:   len(records),
		Owner:   ref.Owner,
		Repo:    ref.Name,
		Page:    page,
		HasMore: len(summaries) == limit,
	}, nil
}

func (s *Service) resolveRecords(ctx context.Context, ref model.RepositoryRef, summaries []model.CommitSummary) ([]*model.CommitRecord, error) {
	if s.cfg.Workers > 1 && len(summaries) > 1 {
		return s.resolvePooled(ctx, ref, summaries)
	}

	records := make([]*model.CommitRecord, 0, len(summaries))
	for _, sum := range summaries {
		rec, err := s.resolveOne(ctx, ref, sum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// resolvePooled fetches details through a worker pool. Listed order is kept
// by writing each record into its own slot.
func (s *Service) resolvePooled(ctx context.Context, ref model.RepositoryRef, summaries []model.CommitSummary) ([]*model.CommitRecord, error) {
	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return nil, errm.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	records := make([]*model.CommitRecord, len(summaries))

	for i, sum := range summaries {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			rec, err := s.resolveOne(ctx, ref, sum)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				firstErr = lang.Check(firstErr, err)
				return
			}
			records[i] = rec
		}); err != nil {
			wg.Done()
			mu.Lock()
			firstErr = lang.Check(firstErr, errm.Wrap(err, "submit fetch task"))
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return records, nil
}

// resolveOne returns the record for one listed commit: a cached copy when
// present, otherwise a freshly built record from a detail fetch.
func (s *Service) resolveOne(ctx context.Context, ref model.RepositoryRef, sum model.CommitSummary) (*model.CommitRecord, error) {
	if rec, ok := s.cache.Get(sum.SHA); ok {
		return rec, nil
	}

	detail, err := s.provider.GetCommitDetail(ctx, ref, sum.SHA)
	if err != nil {
		var notFound *model.NotFoundError
		var rateLimited *model.RateLimitError
		if errors.As(err, &notFound) || errors.As(err, &rateLimited) {
			return nil, err
		}
		// Soft failure: one bad commit must not fail the whole page.
		s.log.Warn("detail fetch failed, degrading to summary", "sha", sum.SHA, "error", err.Error())
		return degradedRecord(sum), nil
	}

	rec := buildRecord(detail)
	s.cache.Put(rec)
	return rec, nil
}

func buildRecord(detail *model.CommitDetail) *model.CommitRecord {
	diff, files := AssembleDiff(detail.Files)

	return &model.CommitRecord{
		Hash:         detail.SHA,
		ShortHash:    shortHash(detail.SHA),
		Message:      firstLine(detail.Message),
		FullMessage:  detail.Message,
		Author:       authorName(detail.AuthorLogin, detail.AuthorName),
		AvatarURL:    detail.AvatarURL,
		Date:         formatDate(detail.Date),
		FilesChanged: len(detail.Files),
		Insertions:   detail.Stats.Additions,
		Deletions:    detail.Stats.Deletions,
		RiskLevel:    ClassifyRisk(detail.Stats.Total, len(detail.Files), detail.Message),
		Diff:         diff,
		Files:        files,
	}
}

// degradedRecord builds a minimal record from list-call data alone.
// It is returned to the caller but never cached, so a later request
// gets another chance at the full detail.
func degradedRecord(sum model.CommitSummary) *model.CommitRecord {
	return &model.CommitRecord{
		Hash:      sum.SHA,
		ShortHash: shortHash(sum.SHA),
		Message:   firstLine(sum.Message),
		Author:    authorName(sum.AuthorLogin, sum.AuthorName),
		AvatarURL: sum.AvatarURL,
		Date:      formatDate(sum.Date),
		RiskLevel: model.RiskLow,
		Files:     []model.FileChange{},
	}
}

// authorName prefers the platform login, then the commit author's
// display name, then the literal "unknown".
func authorName(login, name string) string {
	return lang.Check(login, lang.Check(name, "unknown"))
}

func shortHash(sha string) string {
	if len(sha) < shortHashLen {
		return sha
	}
	return sha[:shortHashLen]
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
