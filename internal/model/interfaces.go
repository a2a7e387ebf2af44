package model

import "context"

// ProviderConfig represents provider-specific configuration
type ProviderConfig struct {
	BaseURL string
	Token   string
}

// CommitProvider defines the interface for VCS hosts (GitHub, GitLab, etc.)
// that can serve repository metadata and commit history.
type CommitProvider interface {
	// GetRepository retrieves repository metadata.
	GetRepository(ctx context.Context, ref RepositoryRef) (*RepositoryInfo, error)

	// ListCommits retrieves one page of commit summaries. Page is 1-indexed.
	ListCommits(ctx context.Context, ref RepositoryRef, page, perPage int) ([]CommitSummary, error)

	// GetCommitDetail retrieves full statistics and per-file patch
	// fragments for one commit.
	GetCommitDetail(ctx context.Context, ref RepositoryRef, sha string) (*CommitDetail, error)
}

// AgentAPI defines the interface for LLM completion backends
type AgentAPI interface {
	CallAPI(ctx context.Context, req APIRequest) (APIResponse, error)
}
