package model

import "fmt"

// MalformedReferenceError means user input could not be parsed into an
// owner/repo pair. Detected before any network call.
type MalformedReferenceError struct {
	Input string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("cannot parse repository reference: %q", e.Input)
}

// NotFoundError means the VCS host reports no such repository (or commit).
type NotFoundError struct {
	Owner string
	Repo  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository %s/%s not found", e.Owner, e.Repo)
}

// RateLimitError means the VCS host reported quota exhaustion.
type RateLimitError struct {
	Host string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s API rate limit exceeded, configure an access token to raise the quota", e.Host)
}

// UpstreamError is any other non-success response from the VCS host,
// carried with its status and body so it is never silently swallowed.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}
