package gitlab

import (
	"context"
	"errors"
	"net/http"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/retrospec/internal/model"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

var _ model.CommitProvider = (*Provider)(nil)

const hostName = "GitLab"

// Provider implements the CommitProvider interface for GitLab.
// The (owner, repo) pair maps onto a GitLab project path.
type Provider struct {
	client *gitlab.Client
	logger logze.Logger
}

// New creates a new GitLab provider
func New(cfg model.ProviderConfig) (*Provider, error) {
	var opts []gitlab.ClientOptionFunc
	if cfg.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(cfg.BaseURL))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create GitLab client")
	}

	return &Provider{
		client: client,
		logger: logze.With("provider", "gitlab"),
	}, nil
}

// GetRepository retrieves project metadata
func (p *Provider) GetRepository(ctx context.Context, ref model.RepositoryRef) (*model.RepositoryInfo, error) {
	project, resp, err := p.client.Projects.GetProject(ref.String(), nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	return &model.RepositoryInfo{
		Owner:         ref.Owner,
		Repo:          ref.Name,
		FullName:      project.PathWithNamespace,
		Description:   project.Description,
		Stars:         project.StarCount,
		DefaultBranch: project.DefaultBranch,
		AvatarURL:     project.AvatarURL,
	}, nil
}

// ListCommits retrieves one page of commit summaries, page is 1-indexed
func (p *Provider) ListCommits(ctx context.Context, ref model.RepositoryRef, page, perPage int) ([]model.CommitSummary, error) {
	opts := &gitlab.ListCommitsOptions{
		ListOptions: gitlab.ListOptions{Page: page, PerPage: perPage},
	}

	commits, resp, err := p.client.Commits.ListCommits(ref.String(), opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	out := make([]model.CommitSummary, 0, len(commits))
	for _, c := range commits {
		summary := model.CommitSummary{
			SHA:        c.ID,
			Message:    c.Message,
			AuthorName: c.AuthorName,
		}
		if c.AuthoredDate != nil {
			summary.Date = *c.AuthoredDate
		}
		out = append(out, summary)
	}

	return out, nil
}

// GetCommitDetail retrieves full statistics and per-file diffs for one commit.
// GitLab serves stats and diffs from separate endpoints, so this issues two calls.
func (p *Provider) GetCommitDetail(ctx context.Context, ref model.RepositoryRef, sha string) (*model.CommitDetail, error) {
	commit, resp, err := p.client.Commits.GetCommit(ref.String(), sha, &gitlab.GetCommitOptions{
		Stats: gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	diffs, resp, err := p.client.Commits.GetCommitDiff(ref.String(), sha, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, p.apiError(err, resp, ref)
	}

	files := make([]model.FileChange, 0, len(diffs))
	for _, d := range diffs {
		files = append(files, model.FileChange{
			Filename: d.NewPath,
			Status:   diffStatus(d),
			Patch:    d.Diff,
		})
	}

	detail := &model.CommitDetail{
		SHA:        commit.ID,
		Message:    commit.Message,
		AuthorName: commit.AuthorName,
		Files:      files,
	}
	if commit.AuthoredDate != nil {
		detail.Date = *commit.AuthoredDate
	}
	if commit.Stats != nil {
		detail.Stats = model.CommitStats{
			Additions: commit.Stats.Additions,
			Deletions: commit.Stats.Deletions,
			Total:     commit.Stats.Total,
		}
	}

	return detail, nil
}

func diffStatus(d *gitlab.Diff) string {
	switch {
	case d.NewFile:
		return "added"
	case d.DeletedFile:
		return "removed"
	case d.RenamedFile:
		return "renamed"
	default:
		return "modified"
	}
}

// apiError maps a GitLab client failure onto the error taxonomy
func (p *Provider) apiError(err error, resp *gitlab.Response, ref model.RepositoryRef) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	} else {
		var errResp *gitlab.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
	}

	switch status {
	case 0:
		return errm.Wrap(err, "gitlab api request failed")
	case http.StatusNotFound:
		return &model.NotFoundError{Owner: ref.Owner, Repo: ref.Name}
	case http.StatusForbidden, http.StatusTooManyRequests:
		return &model.RateLimitError{Host: hostName}
	default:
		return &model.UpstreamError{StatusCode: status, Body: err.Error()}
	}
}
