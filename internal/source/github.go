package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v75/github"
)

// GitHubLocation identifies a file inside a GitHub repository.
type GitHubLocation struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // branch, tag or SHA; empty means the default branch
}

// String formats the location in the form accepted by ParseGitHubRef.
func (l GitHubLocation) String() string {
	s := githubPrefix + l.Owner + "/" + l.Repo + "/" + l.Path
	if l.Ref != "" {
		s += "@" + l.Ref
	}
	return s
}

// ParseGitHubRef parses "github:owner/repo/path/to/file[@ref]".
func ParseGitHubRef(ref string) (GitHubLocation, error) {
	spec := strings.TrimPrefix(ref, githubPrefix)

	var loc GitHubLocation
	if idx := strings.LastIndexByte(spec, '@'); idx != -1 {
		loc.Ref = spec[idx+1:]
		spec = spec[:idx]
		if loc.Ref == "" {
			return GitHubLocation{}, fmt.Errorf("invalid GitHub source %q: empty ref after '@'", ref)
		}
	}

	parts := strings.SplitN(spec, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return GitHubLocation{}, fmt.Errorf("invalid GitHub source %q: expected github:owner/repo/path[@ref]", ref)
	}
	loc.Owner, loc.Repo, loc.Path = parts[0], parts[1], parts[2]
	return loc, nil
}

// GitHubLoader reads a changelog file through the GitHub contents API.
type GitHubLoader struct {
	client *github.Client
	loc    GitHubLocation
}

// NewGitHubLoader creates a loader for loc using client.
func NewGitHubLoader(client *github.Client, loc GitHubLocation) *GitHubLoader {
	return &GitHubLoader{client: client, loc: loc}
}

// Load fetches and decodes the file contents.
func (l *GitHubLoader) Load(ctx context.Context) (string, error) {
	op := fmt.Sprintf("getting file %s at ref %q", l.loc.Path, l.loc.Ref)

	var opts *github.RepositoryContentGetOptions
	if l.loc.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: l.loc.Ref}
	}

	fileContent, _, _, err := l.client.Repositories.GetContents(ctx, l.loc.Owner, l.loc.Repo, l.loc.Path, opts)
	if err != nil {
		return "", handleGithubError(op, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("github: %s returned a directory, not a file", op)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("github: %s failed to decode content: %w", op, err)
	}
	return content, nil
}

// Describe returns the github: reference of the file.
func (l *GitHubLoader) Describe() string {
	return l.loc.String()
}

// handleGithubError turns go-github errors into messages that carry the HTTP status.
func handleGithubError(op string, err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return fmt.Errorf("github: %s failed with status %d: %s", op, errResp.Response.StatusCode, errResp.Message)
	}
	return fmt.Errorf("github: %s failed: %w", op, err)
}
