package model

import "time"

// RiskLevel is a heuristic commit-change severity classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RepositoryRef is a resolved (owner, repo) pair. It is produced only by
// reference resolution and compared structurally.
type RepositoryRef struct {
	Owner string
	Name  string
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// RepositoryInfo represents repository metadata from the VCS host
type RepositoryInfo struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Stars         int    `json:"stars"`
	Language      string `json:"language"`
	DefaultBranch string `json:"default_branch"`
	AvatarURL     string `json:"avatar_url"`
}

// CommitSummary is the light shape returned by a commit list call,
// before any detail fetch. It is not retained.
type CommitSummary struct {
	SHA         string
	Message     string
	AuthorLogin string
	AuthorName  string
	AvatarURL   string
	Date        time.Time
}

// CommitStats represents change-size statistics for a single commit
type CommitStats struct {
	Additions int
	Deletions int
	Total     int
}

// FileChange represents changes in a single file of a commit.
// Patch carries the raw fragment for diff assembly and is never serialized.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`

	Patch string `json:"-"`
}

// CommitDetail is the normalized result of a commit detail call
// (full statistics plus per-file patch fragments).
type CommitDetail struct {
	SHA         string
	Message     string
	AuthorLogin string
	AuthorName  string
	AvatarURL   string
	Date        time.Time
	Stats       CommitStats
	Files       []FileChange
}

// CommitRecord is the durable unit of the commit cache. All fields are
// write-once at creation except Analysis, which is attached later.
type CommitRecord struct {
	Hash         string       `json:"hash"`
	ShortHash    string       `json:"short_hash"`
	Message      string       `json:"message"`
	FullMessage  string       `json:"full_message,omitempty"`
	Author       string       `json:"author"`
	AvatarURL    string       `json:"avatar_url"`
	Date         string       `json:"date"`
	FilesChanged int          `json:"files_changed"`
	Insertions   int          `json:"insertions"`
	Deletions    int          `json:"deletions"`
	RiskLevel    RiskLevel    `json:"risk_level"`
	Diff         string       `json:"diff"`
	Files        []FileChange `json:"files"`
	Analysis     string       `json:"analysis,omitempty"`
}

// Clone returns a deep copy, so cache callers cannot mutate the canonical record.
func (r *CommitRecord) Clone() *CommitRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Files = make([]FileChange, len(r.Files))
	copy(out.Files, r.Files)
	return &out
}

// HistoryPage is one page of classified commit history.
// HasMore is a heuristic: the host returned exactly the requested count.
type HistoryPage struct {
	Commits []*CommitRecord `json:"commits"`
	Total   int             `json:"total"`
	Owner   string          `json:"owner"`
	Repo    string          `json:"repo"`
	Page    int             `json:"page"`
	HasMore bool            `json:"has_more"`
}
