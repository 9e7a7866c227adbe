// Package source locates and reads changelog text.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v75/github"
)

// Loader reads the raw text of a changelog.
type Loader interface {
	Load(ctx context.Context) (string, error)
	Describe() string
}

// Compile-time interface conformance checks.
var (
	_ Loader = (*FileLoader)(nil)
	_ Loader = (*GitHubLoader)(nil)
)

const githubPrefix = "github:"

// FileLoader reads a changelog from the local filesystem.
type FileLoader struct {
	Path string
}

// Load reads the whole file.
func (l *FileLoader) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", l.Path, err)
	}
	return string(data), nil
}

// Describe returns the file path.
func (l *FileLoader) Describe() string {
	return l.Path
}

// New returns a loader for ref.
//
// "github:owner/repo/path/to/file[@ref]" reads the file through the GitHub
// API (authenticated when token is non-empty); anything else is a local path.
func New(ref, token string) (Loader, error) {
	if !strings.HasPrefix(ref, githubPrefix) {
		if ref == "" {
			return nil, fmt.Errorf("no changelog source configured")
		}
		return &FileLoader{Path: ref}, nil
	}

	loc, err := ParseGitHubRef(ref)
	if err != nil {
		return nil, err
	}
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return NewGitHubLoader(client, loc), nil
}

// IsLocal reports whether l reads from the local filesystem, returning its path.
func IsLocal(l Loader) (string, bool) {
	if f, ok := l.(*FileLoader); ok {
		return f.Path, true
	}
	return "", false
}
