package github

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/retrospec/internal/model"
	"golang.org/x/oauth2"
)

var _ model.CommitProvider = (*Provider)(nil)

const hostName = "GitHub"

// Provider implements the CommitProvider interface for GitHub
type Provider struct {
	client *github.Client
	logger logze.Logger
}

// New creates a new GitHub provider. An empty token means anonymous access.
func New(cfg model.ProviderConfig) (*Provider, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)

	// Custom base URL is for GitHub Enterprise
	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create GitHub Enterprise client")
		}
	}

	return &Provider{
		client: client,
		logger: logze.With("provider", "github"),
	}, nil
}

// GetRepository retrieves repository metadata
func (p *Provider) GetRepository(ctx context.Context, ref model.RepositoryRef) (*model.RepositoryInfo, error) {
	repo, resp, err := p.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	return &model.RepositoryInfo{
		Owner:         ref.Owner,
		Repo:          ref.Name,
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Language:      repo.GetLanguage(),
		DefaultBranch: repo.GetDefaultBranch(),
		AvatarURL:     repo.GetOwner().GetAvatarURL(),
	}, nil
}

// ListCommits retrieves one page of commit summaries, page is 1-indexed
func (p *Provider) ListCommits(ctx context.Context, ref model.RepositoryRef, page, perPage int) ([]model.CommitSummary, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}

	commits, resp, err := p.client.Repositories.ListCommits(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	out := make([]model.CommitSummary, 0, len(commits))
	for _, rc := range commits {
		out = append(out, model.CommitSummary{
			SHA:         rc.GetSHA(),
			Message:     rc.GetCommit().GetMessage(),
			AuthorLogin: rc.GetAuthor().GetLogin(),
			AuthorName:  rc.GetCommit().GetAuthor().GetName(),
			AvatarURL:   rc.GetAuthor().GetAvatarURL(),
			Date:        rc.GetCommit().GetAuthor().GetDate().Time,
		})
	}

	return out, nil
}

// GetCommitDetail retrieves full statistics and per-file patches for one commit
func (p *Provider) GetCommitDetail(ctx context.Context, ref model.RepositoryRef, sha string) (*model.CommitDetail, error) {
	detail, resp, err := p.client.Repositories.GetCommit(ctx, ref.Owner, ref.Name, sha, nil)
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	files := make([]model.FileChange, 0, len(detail.Files))
	for _, f := range detail.Files {
		files = append(files, model.FileChange{
			Filename:  f.GetFilename(),
			Status:    lang.Check(f.GetStatus(), "modified"),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Patch:     f.GetPatch(),
		})
	}

	return &model.CommitDetail{
		SHA:         detail.GetSHA(),
		Message:     detail.GetCommit().GetMessage(),
		AuthorLogin: detail.GetAuthor().GetLogin(),
		AuthorName:  detail.GetCommit().GetAuthor().GetName(),
		AvatarURL:   detail.GetAuthor().GetAvatarURL(),
		Date:        detail.GetCommit().GetAuthor().GetDate().Time,
		Stats: model.CommitStats{
			Additions: detail.GetStats().GetAdditions(),
			Deletions: detail.GetStats().GetDeletions(),
			Total:     detail.GetStats().GetTotal(),
		},
		Files: files,
	}, nil
}

// apiError maps a go-github failure onto the error taxonomy:
// 404 means no such repository, 403 means quota exhaustion,
// everything else is an upstream error with status and body.
func (p *Provider) apiError(err error, resp *github.Response, ref model.RepositoryRef) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &model.RateLimitError{Host: hostName}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &model.RateLimitError{Host: hostName}
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return &model.NotFoundError{Owner: ref.Owner, Repo: ref.Name}
		case http.StatusForbidden:
			return &model.RateLimitError{Host: hostName}
		}

		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) {
			return &model.UpstreamError{StatusCode: resp.StatusCode, Body: errResp.Message}
		}
		return &model.UpstreamError{StatusCode: resp.StatusCode, Body: err.Error()}
	}

	return errm.Wrap(err, "github api request failed")
}
