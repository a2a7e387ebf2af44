package provider

import (
	"regexp"
	"strings"

	"github.com/maxbolgarin/retrospec/internal/model"
)

// Matches host-qualified references like "https://github.com/owner/repo",
// "github.com/owner/repo" and "git@github.com:owner/repo". The repo segment
// stops at '/', '?' or '#'.
var hostedRefPattern = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/?#]+)`)

// ResolveRepository extracts an (owner, repo) pair from a user-supplied
// repository reference: a full URL, a URL with a ".git" suffix, or the
// "owner/repo" shorthand. Pure string processing, no network access.
func ResolveRepository(input string) (model.RepositoryRef, error) {
	ref := strings.TrimSpace(input)
	ref = strings.TrimSuffix(ref, "/")
	ref = strings.TrimSuffix(ref, ".git")

	if m := hostedRefPattern.FindStringSubmatch(ref); m != nil {
		return model.RepositoryRef{Owner: m[1], Name: m[2]}, nil
	}

	parts := strings.Split(ref, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return model.RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
	}

	return model.RepositoryRef{}, &model.MalformedReferenceError{Input: input}
}
